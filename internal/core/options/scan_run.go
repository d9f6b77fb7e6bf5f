package options

import (
	"fmt"
)

// ScanRunOptions 定义 run 命令的参数 (Core Level)
// 这个结构体用于将 CLI 参数传递给 Pipeline
type ScanRunOptions struct {
	Target      string
	Concurrency int // 并发处理的根域数量
	CrawlLimit  int // 每个根域最多深入爬取的子域数
}

func NewScanRunOptions() *ScanRunOptions {
	return &ScanRunOptions{
		Concurrency: 3,
		CrawlLimit:  5,
	}
}

func (o *ScanRunOptions) Validate() error {
	if o.Target == "" {
		return fmt.Errorf("target is required")
	}
	if o.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive")
	}
	if o.CrawlLimit < 0 {
		return fmt.Errorf("crawl limit cannot be negative")
	}
	return nil
}
