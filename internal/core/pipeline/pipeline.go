package pipeline

import (
	"sync"

	"neorecon/internal/core/model"
)

// ReconContext 侦察上下文
// 在各个阶段之间传递的数据载体
// 每个根域名对应一个 Context
type ReconContext struct {
	Domain string

	// 阶段 1: 子域名枚举结果
	Subdomains *model.SubdomainScanResult

	// 阶段 2: 站点爬取结果
	// FullDomain -> Result 映射
	Crawls map[string]*model.CrawlResult

	// 流水线过程中的非致命错误
	Errors []string

	mu sync.RWMutex
}

func NewReconContext(domain string) *ReconContext {
	return &ReconContext{
		Domain: domain,
		Crawls: make(map[string]*model.CrawlResult),
	}
}

// 线程安全的方法...

func (c *ReconContext) SetSubdomains(result *model.SubdomainScanResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Subdomains = result
}

func (c *ReconContext) AddCrawl(host string, result *model.CrawlResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Crawls[host] = result
}

func (c *ReconContext) AddError(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Errors = append(c.Errors, msg)
}
