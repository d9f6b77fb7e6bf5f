/**
 * 站点页面爬取扫描器
 * @author: sun977
 * @date: 2026.03.25
 * @description: 有界广度优先爬取。
 * FIFO 边界队列 + 归一化 URL 去重集；每批并发抓取固定数量的页面，
 * 页数上限/时间预算只在批与批之间检查，在途批次总是完整落定。
 * 所有抓取都走受控客户端，中途重定向逐跳重新校验。
 */

package crawler

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"neorecon/internal/core/lib/pool"
	"neorecon/internal/core/lib/safeurl"
	"neorecon/internal/core/model"
	"neorecon/internal/pkg/logger"
)

// Options 爬取参数
type Options struct {
	BatchSize    int           // 每批并发抓取的页面数
	MaxPages     int           // 页数上限
	TimeBudget   time.Duration // 单次爬取的墙钟预算
	FetchTimeout time.Duration // 单次页面抓取超时
	MaxBodyBytes int64         // 响应体读取上限
}

// DefaultOptions 默认爬取参数
func DefaultOptions() Options {
	return Options{
		BatchSize:    5,
		MaxPages:     50,
		TimeBudget:   30 * time.Second,
		FetchTimeout: 8 * time.Second,
		MaxBodyBytes: 500 * 1024,
	}
}

func (o Options) normalized() Options {
	d := DefaultOptions()
	if o.BatchSize < 1 {
		o.BatchSize = d.BatchSize
	}
	if o.MaxPages < 1 {
		o.MaxPages = d.MaxPages
	}
	if o.TimeBudget <= 0 {
		o.TimeBudget = d.TimeBudget
	}
	if o.FetchTimeout <= 0 {
		o.FetchTimeout = d.FetchTimeout
	}
	if o.MaxBodyBytes <= 0 {
		o.MaxBodyBytes = d.MaxBodyBytes
	}
	return o
}

// CrawlScanner 站点页面爬取扫描器
type CrawlScanner struct {
	opts   Options
	client *safeurl.Client

	// 页面抓取入口，测试时注入假实现
	fetch func(ctx context.Context, rawURL string) (*http.Response, error)
}

// NewCrawlScanner 创建爬取扫描器
func NewCrawlScanner(policy safeurl.Policy, opts Options) *CrawlScanner {
	opts = opts.normalized()
	client := safeurl.NewClient(safeurl.NewValidator(policy), opts.FetchTimeout)

	return &CrawlScanner{
		opts:   opts,
		client: client,
		fetch:  client.Get,
	}
}

// Name 扫描器名称
func (s *CrawlScanner) Name() model.TaskType {
	return model.TaskTypeCrawl
}

// Run 执行扫描任务
func (s *CrawlScanner) Run(ctx context.Context, task *model.Task) ([]*model.TaskResult, error) {
	startTime := time.Now()

	result, err := s.Crawl(ctx, task.Target)
	if err != nil {
		return nil, err
	}

	taskResult := &model.TaskResult{
		TaskID:    task.ID,
		Status:    model.TaskStatusCompleted,
		Data:      result,
		StartTime: startTime,
		EndTime:   time.Now(),
	}
	return []*model.TaskResult{taskResult}, nil
}

// fetchOutcome 单个页面抓取的结果槽位，批内每个协程只写自己的槽位
type fetchOutcome struct {
	page    model.DiscoveredPage
	pageURL *url.URL   // 最终响应对应的 URL (可能经过重定向)
	links   []pageLink // 页面中提取的出链，非 HTML 页面为空
	err     error
}

// Crawl 从种子出发执行一次有界广度优先爬取
// 种子无法解析为 http(s) URL 时直接报错，不发起任何网络操作
func (s *CrawlScanner) Crawl(ctx context.Context, seedURL string) (*model.CrawlResult, error) {
	seed, err := parseSeed(seedURL)
	if err != nil {
		return nil, err
	}

	result := &model.CrawlResult{
		Subdomain:     seed.Hostname(),
		BaseURL:       seed.String(),
		CrawledAt:     time.Now(),
		Pages:         []model.DiscoveredPage{},
		ExternalLinks: []model.DiscoveredPage{},
	}

	// seen 在入队时标记，保证边界队列里没有重复项
	seen := map[string]bool{normalizeURL(seed): true}
	externalSeen := map[string]bool{}
	frontier := []*url.URL{seed}

	deadline := time.Now().Add(s.opts.TimeBudget)

	for len(frontier) > 0 && len(result.Pages) < s.opts.MaxPages {
		// 时间预算只在批边界检查，不打断在途批次
		if !time.Now().Before(deadline) {
			logger.Warnf("crawl of %s stopped: time budget exhausted after %d pages", result.BaseURL, len(result.Pages))
			break
		}

		n := s.opts.BatchSize
		if remain := s.opts.MaxPages - len(result.Pages); n > remain {
			n = remain
		}
		if n > len(frontier) {
			n = len(frontier)
		}
		batch := frontier[:n]
		frontier = frontier[n:]

		outcomes := make([]fetchOutcome, len(batch))
		if err := pool.RunBatch(ctx, s.opts.BatchSize, len(batch), func(i int) {
			outcomes[i] = s.fetchPage(ctx, batch[i])
		}); err != nil {
			return result, err
		}

		// 聚合只在协调协程上进行；批内无序，批间保持 FIFO
		for _, out := range outcomes {
			if out.err != nil {
				// 单页失败只记录，不中止整个爬取
				result.Errors = append(result.Errors, out.err.Error())
				continue
			}
			result.Pages = append(result.Pages, out.page)

			for _, link := range out.links {
				resolved, ok := resolveLink(out.pageURL, link.Href)
				if !ok {
					continue
				}
				if sameSite(seed, resolved) {
					key := normalizeURL(resolved)
					if !seen[key] {
						seen[key] = true
						frontier = append(frontier, resolved)
					}
					continue
				}
				// 外链只记录，绝不抓取
				key := normalizeURL(resolved)
				if externalSeen[key] {
					continue
				}
				externalSeen[key] = true
				result.ExternalLinks = append(result.ExternalLinks, model.DiscoveredPage{
					URL:        resolved.String(),
					IsExternal: true,
					LinkText:   link.Text,
					FoundOn:    out.page.URL,
				})
			}
		}
	}

	result.PagesDiscovered = len(result.Pages)
	logger.Infof("crawl of %s finished: %d pages, %d external links, %d errors",
		result.BaseURL, result.PagesDiscovered, len(result.ExternalLinks), len(result.Errors))
	return result, nil
}

// fetchPage 抓取单个页面并提取出链
// 非 HTML 响应记录为叶子页面，不解析出链
func (s *CrawlScanner) fetchPage(ctx context.Context, target *url.URL) fetchOutcome {
	resp, err := s.fetch(ctx, target.String())
	if err != nil {
		return fetchOutcome{err: fmt.Errorf("fetch %s: %w", target, err)}
	}

	// 经过重定向后的最终 URL，出链相对它解析
	finalURL := target
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL
	}

	body, err := safeurl.ReadBodyLimited(resp, s.opts.MaxBodyBytes)
	if err != nil {
		return fetchOutcome{err: fmt.Errorf("read %s: %w", target, err)}
	}

	contentType := resp.Header.Get("Content-Type")
	page := model.DiscoveredPage{
		URL:         target.String(),
		StatusCode:  resp.StatusCode,
		ContentType: contentType,
		Size:        len(body),
	}

	if !isHTML(contentType) {
		return fetchOutcome{page: page, pageURL: finalURL}
	}

	title, links := extractPage(body)
	page.Title = title
	return fetchOutcome{page: page, pageURL: finalURL, links: links}
}

// parseSeed 解析并检查种子 URL
func parseSeed(seedURL string) (*url.URL, error) {
	seed, err := url.Parse(strings.TrimSpace(seedURL))
	if err != nil {
		return nil, fmt.Errorf("invalid seed URL %q: %w", seedURL, err)
	}
	scheme := strings.ToLower(seed.Scheme)
	if scheme != "http" && scheme != "https" {
		return nil, fmt.Errorf("seed URL must be http or https: %s", seedURL)
	}
	if seed.Hostname() == "" {
		return nil, fmt.Errorf("seed URL has no hostname: %s", seedURL)
	}
	if seed.Path == "" {
		seed.Path = "/"
	}
	return seed, nil
}

// resolveLink 把 href 相对当前页面解析为绝对地址
// 解析失败或协议不是 http(s) 时丢弃
func resolveLink(page *url.URL, href string) (*url.URL, bool) {
	ref, err := url.Parse(href)
	if err != nil {
		return nil, false
	}
	resolved := page.ResolveReference(ref)
	scheme := strings.ToLower(resolved.Scheme)
	if scheme != "http" && scheme != "https" {
		return nil, false
	}
	if resolved.Hostname() == "" {
		return nil, false
	}
	return resolved, true
}

// isHTML 判断响应是否是 HTML 文档
func isHTML(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.HasPrefix(strings.ToLower(contentType), "text/html")
	}
	return mediaType == "text/html"
}
