package model

import (
	"fmt"
	"strings"
	"time"
)

// SubdomainProbe 单个子域名候选的探测结果，产出后不再修改
type SubdomainProbe struct {
	Subdomain   string   `json:"subdomain"`              // 候选标签 (www/api/...)
	FullDomain  string   `json:"full_domain"`            // 完整域名
	Resolved    bool     `json:"resolved"`               // DNS 是否解析成功
	IPAddresses []string `json:"ip_addresses,omitempty"` // 解析出的地址
	Accessible  bool     `json:"accessible,omitempty"`   // HTTP(S) 是否可达
	HTTPStatus  int      `json:"http_status,omitempty"`  // 探测响应状态码
	RedirectsTo string   `json:"redirects_to,omitempty"` // 3xx 响应的跳转目标 (只记录不访问)
	HasSSL      bool     `json:"has_ssl,omitempty"`      // HTTPS 探测是否成功
}

// SubdomainScanResult 一次子域名枚举的聚合结果
type SubdomainScanResult struct {
	Domain       string           `json:"domain"`
	TotalChecked int              `json:"total_checked"` // 实际发起探测的候选数
	Discovered   []SubdomainProbe `json:"discovered"`
	HasWildcard  bool             `json:"has_wildcard"`
	WildcardIP   string           `json:"wildcard_ip,omitempty"`
}

// Headers 实现 TabularData 接口
// Subdomain | Resolved | IPs        | HTTP | SSL | RedirectsTo
// www       | YES      | 1.2.3.4    | 200  | YES | -
func (r SubdomainScanResult) Headers() []string {
	return []string{"Subdomain", "Resolved", "IPs", "HTTP", "SSL", "RedirectsTo"}
}

// Rows 实现 TabularData 接口
func (r SubdomainScanResult) Rows() [][]string {
	rows := make([][]string, 0, len(r.Discovered))
	for _, p := range r.Discovered {
		resolved := "NO"
		if p.Resolved {
			resolved = "YES"
		}

		ips := "-"
		if len(p.IPAddresses) > 0 {
			ips = strings.Join(p.IPAddresses, ",")
		}

		status := "-"
		if p.HTTPStatus > 0 {
			status = fmt.Sprintf("%d", p.HTTPStatus)
		}

		ssl := "NO"
		if p.HasSSL {
			ssl = "YES"
		}

		redirect := "-"
		if p.RedirectsTo != "" {
			redirect = p.RedirectsTo
		}

		rows = append(rows, []string{p.FullDomain, resolved, ips, status, ssl, redirect})
	}
	return rows
}

// DiscoveredPage 爬取过程中发现的一个页面或外部链接
type DiscoveredPage struct {
	URL         string `json:"url"`
	Title       string `json:"title,omitempty"`
	StatusCode  int    `json:"status_code,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Size        int    `json:"size,omitempty"` // 响应体字节数 (截断后)
	IsExternal  bool   `json:"is_external"`
	LinkText    string `json:"link_text,omitempty"` // 外链的锚文本
	FoundOn     string `json:"found_on,omitempty"`  // 发现该链接的页面
}

// CrawlResult 一次站点爬取的聚合结果
type CrawlResult struct {
	Subdomain       string           `json:"subdomain"`
	BaseURL         string           `json:"base_url"`
	CrawledAt       time.Time        `json:"crawled_at"`
	PagesDiscovered int              `json:"pages_discovered"` // 恒等于 len(Pages)
	Pages           []DiscoveredPage `json:"pages"`
	ExternalLinks   []DiscoveredPage `json:"external_links"`
	Errors          []string         `json:"errors,omitempty"`
}

// Headers 实现 TabularData 接口
func (r CrawlResult) Headers() []string {
	return []string{"URL", "Status", "Type", "Size", "Title"}
}

// Rows 实现 TabularData 接口
// 只展示站内页面，外链数量在汇总日志里体现
func (r CrawlResult) Rows() [][]string {
	rows := make([][]string, 0, len(r.Pages))
	for _, p := range r.Pages {
		status := "-"
		if p.StatusCode > 0 {
			status = fmt.Sprintf("%d", p.StatusCode)
		}

		size := "-"
		if p.Size > 0 {
			size = fmt.Sprintf("%d", p.Size)
		}

		rows = append(rows, []string{p.URL, status, p.ContentType, size, p.Title})
	}
	return rows
}
