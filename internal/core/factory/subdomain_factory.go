package factory

import (
	"neorecon/internal/config"
	"neorecon/internal/core/scanner/subdomain"
)

// NewSubdomainScanner 根据配置创建子域名枚举扫描器
// 策略与批量参数都取自 scan 配置段，缺省字段由扫描器自身回落到默认值
func NewSubdomainScanner(cfg *config.Config) *subdomain.SubdomainScanner {
	opts := subdomain.DefaultOptions()
	policy := cfg.Scan.Policy

	sub := cfg.Scan.Subdomain
	if sub.BatchSize > 0 {
		opts.BatchSize = sub.BatchSize
	}
	if sub.DNSTimeout > 0 {
		opts.DNSTimeout = sub.DNSTimeout
	}
	if sub.ProbeTimeout > 0 {
		opts.ProbeTimeout = sub.ProbeTimeout
	}
	if sub.MaxDiscoveries > 0 {
		opts.MaxDiscoveries = sub.MaxDiscoveries
	}
	if sub.WildcardFilter != "" {
		opts.WildcardFilter = sub.WildcardFilter
	}

	return subdomain.NewSubdomainScanner(policy, opts)
}
