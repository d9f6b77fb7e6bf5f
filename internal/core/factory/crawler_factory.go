package factory

import (
	"neorecon/internal/config"
	"neorecon/internal/core/scanner/crawler"
)

// NewCrawlScanner 根据配置创建站点爬取扫描器
func NewCrawlScanner(cfg *config.Config) *crawler.CrawlScanner {
	opts := crawler.DefaultOptions()
	policy := cfg.Scan.Policy

	cr := cfg.Scan.Crawler
	if cr.BatchSize > 0 {
		opts.BatchSize = cr.BatchSize
	}
	if cr.MaxPages > 0 {
		opts.MaxPages = cr.MaxPages
	}
	if cr.TimeBudget > 0 {
		opts.TimeBudget = cr.TimeBudget
	}
	if cr.FetchTimeout > 0 {
		opts.FetchTimeout = cr.FetchTimeout
	}
	if cr.MaxBodyBytes > 0 {
		opts.MaxBodyBytes = cr.MaxBodyBytes
	}

	return crawler.NewCrawlScanner(policy, opts)
}
