package pipeline

import (
	"context"
	"fmt"
	"sync"

	"neorecon/internal/config"
	"neorecon/internal/core/factory"
	"neorecon/internal/core/model"
	"neorecon/internal/core/reporter"
	"neorecon/internal/core/scanner/crawler"
	"neorecon/internal/core/scanner/subdomain"
	"neorecon/internal/pkg/logger"
)

// AutoRunner 自动编排运行器
// 负责串联 Subdomain -> Crawl 的全流程
type AutoRunner struct {
	targetGenerator <-chan string
	concurrency     int
	crawlLimit      int // 每个根域最多深入爬取的子域数

	// Scanners
	subdomainScanner *subdomain.SubdomainScanner
	crawlScanner     *crawler.CrawlScanner

	// 结果收集器 (线程安全)
	summaryMu sync.Mutex
	summaries []*ReconContext
}

func NewAutoRunner(targetInput string, concurrency, crawlLimit int, cfg *config.Config) *AutoRunner {
	if concurrency <= 0 {
		concurrency = 3
	}
	if crawlLimit <= 0 {
		crawlLimit = 5
	}
	return &AutoRunner{
		targetGenerator:  GenerateTargets(targetInput),
		concurrency:      concurrency,
		crawlLimit:       crawlLimit,
		subdomainScanner: factory.NewSubdomainScanner(cfg),
		crawlScanner:     factory.NewCrawlScanner(cfg),
		summaries:        make([]*ReconContext, 0),
	}
}

func (r *AutoRunner) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	sem := make(chan struct{}, r.concurrency)

	for domain := range r.targetGenerator {
		wg.Add(1)
		sem <- struct{}{}

		go func(target string) {
			defer wg.Done()
			defer func() { <-sem }()

			// 创建 Recon Context
			pCtx := NewReconContext(target)

			// 执行流水线
			r.executePipeline(ctx, pCtx)

			// 收集结果
			r.summaryMu.Lock()
			r.summaries = append(r.summaries, pCtx)
			r.summaryMu.Unlock()

		}(domain)
	}

	wg.Wait()

	// 输出最终总结报告
	r.printFinalReport()

	return nil
}

// executePipeline 执行单个根域的流水线逻辑
// Linear Flow: Subdomain -> Crawl -> Report
func (r *AutoRunner) executePipeline(ctx context.Context, pCtx *ReconContext) {
	// 1. Subdomain Enumeration
	logger.Debugf("[%s] Starting subdomain enumeration...", pCtx.Domain)
	subTask := model.NewTask(model.TaskTypeSubdomain, pCtx.Domain)
	subResults, err := r.subdomainScanner.Run(ctx, subTask)
	if err != nil || len(subResults) == 0 {
		logger.Warnf("[%s] Subdomain enumeration failed: %v", pCtx.Domain, err)
		pCtx.AddError(fmt.Sprintf("subdomain enumeration failed: %v", err))
		return
	}

	subRes, ok := subResults[0].Data.(*model.SubdomainScanResult)
	if !ok {
		return
	}
	pCtx.SetSubdomains(subRes)
	logger.Infof("[%s] Found %d subdomains (%d candidates checked).",
		pCtx.Domain, len(subRes.Discovered), subRes.TotalChecked)

	// 2. Crawl
	// 只深入 HTTP 可达的子域，数量受 crawlLimit 约束
	crawled := 0
	for _, probe := range subRes.Discovered {
		if !probe.Accessible {
			continue
		}
		if crawled >= r.crawlLimit {
			logger.Infof("[%s] Crawl limit (%d) reached, skipping remaining subdomains.", pCtx.Domain, r.crawlLimit)
			break
		}

		scheme := "http"
		if probe.HasSSL {
			scheme = "https"
		}
		seed := scheme + "://" + probe.FullDomain + "/"

		logger.Debugf("[%s] Crawling %s...", pCtx.Domain, seed)
		crawlTask := model.NewTask(model.TaskTypeCrawl, seed)
		crawlResults, err := r.crawlScanner.Run(ctx, crawlTask)
		if err != nil {
			logger.Warnf("[%s] Crawl of %s failed: %v", pCtx.Domain, seed, err)
			pCtx.AddError(fmt.Sprintf("crawl of %s failed: %v", seed, err))
			continue
		}
		if cr, ok := crawlResults[0].Data.(*model.CrawlResult); ok {
			pCtx.AddCrawl(probe.FullDomain, cr)
			logger.Infof("[%s] Crawled %s: %d pages, %d external links.",
				pCtx.Domain, probe.FullDomain, cr.PagesDiscovered, len(cr.ExternalLinks))
		}
		crawled++
	}

	// 3. Report / Output
	r.report(pCtx)
}

func (r *AutoRunner) report(pCtx *ReconContext) {
	console := reporter.NewConsoleReporter()

	fmt.Printf("\n=== Recon Report for %s ===\n", pCtx.Domain)

	if pCtx.Subdomains != nil {
		if pCtx.Subdomains.HasWildcard {
			fmt.Printf("[Wildcard] DNS wildcard detected (%s)\n", pCtx.Subdomains.WildcardIP)
		}
		console.PrintResults([]*model.TaskResult{{Data: pCtx.Subdomains}})
	}

	for host, cr := range pCtx.Crawls {
		fmt.Printf("\n[Crawl] %s (%d pages)\n", host, cr.PagesDiscovered)
		console.PrintResults([]*model.TaskResult{{Data: cr}})
	}

	if len(pCtx.Errors) > 0 {
		fmt.Printf("[Errors] %d pipeline errors\n", len(pCtx.Errors))
	}
	fmt.Println("========================================")
}

// printFinalReport 输出最终的侦察总结
func (r *AutoRunner) printFinalReport() {
	if len(r.summaries) == 0 {
		return
	}

	fmt.Println("\n" + "============================================================")
	fmt.Println("[+] Recon Summary Report")
	fmt.Println("============================================================")

	totalSubdomains := 0
	totalPages := 0

	for _, pCtx := range r.summaries {
		subCount := 0
		if pCtx.Subdomains != nil {
			subCount = len(pCtx.Subdomains.Discovered)
		}
		totalSubdomains += subCount

		pageCount := 0
		for _, cr := range pCtx.Crawls {
			pageCount += cr.PagesDiscovered
		}
		totalPages += pageCount

		fmt.Printf("\n[Target: %s]\n", pCtx.Domain)
		fmt.Printf("  Subdomains : %d\n", subCount)
		fmt.Printf("  Crawled    : %d hosts, %d pages\n", len(pCtx.Crawls), pageCount)
		if len(pCtx.Errors) > 0 {
			fmt.Printf("  Errors     : %d\n", len(pCtx.Errors))
		}
	}

	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Total Targets     : %d\n", len(r.summaries))
	fmt.Printf("Total Subdomains  : %d\n", totalSubdomains)
	fmt.Printf("Total Pages       : %d\n", totalPages)
	fmt.Println("============================================================")
}
