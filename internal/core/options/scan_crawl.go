package options

import (
	"fmt"
	"strings"
	"time"

	"neorecon/internal/core/model"
)

// CrawlScanOptions 站点爬取命令参数
type CrawlScanOptions struct {
	Target   string // 种子 URL
	MaxPages int    // 页数上限
	Output   OutputOptions
}

func NewCrawlScanOptions() *CrawlScanOptions {
	return &CrawlScanOptions{}
}

func (o *CrawlScanOptions) Validate() error {
	if o.Target == "" {
		return fmt.Errorf("target is required")
	}
	if !strings.HasPrefix(o.Target, "http://") && !strings.HasPrefix(o.Target, "https://") {
		return fmt.Errorf("target must be an http(s) URL: %s", o.Target)
	}
	if o.MaxPages < 0 {
		return fmt.Errorf("max pages cannot be negative")
	}
	return nil
}

func (o *CrawlScanOptions) ToTask() *model.Task {
	task := model.NewTask(model.TaskTypeCrawl, o.Target)
	task.Timeout = 5 * time.Minute

	if o.MaxPages > 0 {
		task.Params["max_pages"] = o.MaxPages
	}

	o.Output.ApplyToParams(task.Params)

	return task
}
