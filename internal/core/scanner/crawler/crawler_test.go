package crawler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"neorecon/internal/core/lib/safeurl"
)

// testPolicy 允许私有地址的策略，httptest 服务器监听 127.0.0.1
func testPolicy() safeurl.Policy {
	p := safeurl.DefaultPolicy()
	p.AllowPrivateIPs = true
	p.BlockedHosts = nil
	return p
}

// newClosedSite 构造一个 5 页的封闭站点，页面间互相链接并带外链和重复链接
func newClosedSite(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	page := func(path, title, body string) {
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			fmt.Fprintf(w, "<html><head><title>%s</title></head><body>%s</body></html>", title, body)
		})
	}

	page("/", "Home", `<a href="/about">About</a> <a href="/products">Products</a> <a href="/about">About again</a>`)
	page("/about", "About Us", `<a href="/">Home</a> <a href="/team">Team</a> <a href="https://partner.example.org/deal">Partner</a>`)
	page("/products", "Products", `<a href="/products/widget">Widget</a> <a href="#section">Anchor</a> <a href="mailto:x@y.z">Mail</a>`)
	page("/team", "Team", `<a href="/about/">About trailing</a>`)
	page("/products/widget", "Widget", `<a href="/">Home</a>`)

	return httptest.NewServer(mux)
}

func TestCrawl_ClosedSite(t *testing.T) {
	ts := newClosedSite(t)
	defer ts.Close()

	s := NewCrawlScanner(testPolicy(), DefaultOptions())
	result, err := s.Crawl(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("Crawl failed: %v", err)
	}

	if result.PagesDiscovered != len(result.Pages) {
		t.Errorf("PagesDiscovered = %d, len(Pages) = %d", result.PagesDiscovered, len(result.Pages))
	}
	if len(result.Pages) != 5 {
		t.Fatalf("Pages = %d, want 5 (closed site)", len(result.Pages))
	}
	if len(result.Errors) != 0 {
		t.Errorf("Errors = %v, want none", result.Errors)
	}

	// 归一化去重: 没有两个页面的归一化 URL 相同
	seen := map[string]bool{}
	for _, p := range result.Pages {
		u, err := url.Parse(p.URL)
		if err != nil {
			t.Fatalf("bad page URL %q: %v", p.URL, err)
		}
		key := normalizeURL(u)
		if seen[key] {
			t.Errorf("duplicate normalized page URL: %s", key)
		}
		seen[key] = true
	}

	// 外链被记录但从未抓取
	if len(result.ExternalLinks) != 1 {
		t.Fatalf("ExternalLinks = %d, want 1", len(result.ExternalLinks))
	}
	ext := result.ExternalLinks[0]
	if ext.URL != "https://partner.example.org/deal" || !ext.IsExternal {
		t.Errorf("external link = %+v", ext)
	}
	if ext.LinkText != "Partner" {
		t.Errorf("external link text = %q, want Partner", ext.LinkText)
	}

	// 种子页标题被提取
	if result.Pages[0].Title != "Home" {
		t.Errorf("seed page title = %q, want Home", result.Pages[0].Title)
	}
}

func TestCrawl_NonHTMLSeedIsLeaf(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-1.4 fake"))
	}))
	defer ts.Close()

	s := NewCrawlScanner(testPolicy(), DefaultOptions())
	result, err := s.Crawl(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("Crawl failed: %v", err)
	}

	if len(result.Pages) != 1 {
		t.Fatalf("Pages = %d, want exactly 1 leaf page", len(result.Pages))
	}
	p := result.Pages[0]
	if p.ContentType != "application/pdf" || p.Title != "" {
		t.Errorf("leaf page = %+v", p)
	}
	if len(result.ExternalLinks) != 0 {
		t.Errorf("leaf page should produce no external links, got %d", len(result.ExternalLinks))
	}
}

func TestCrawl_MaxPagesBound(t *testing.T) {
	// 无限站点: 每页链接到两个新页面
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprintf(w, `<html><body><a href="%s/a">a</a><a href="%s/b">b</a></body></html>`,
			r.URL.Path, r.URL.Path)
	}))
	defer ts.Close()

	opts := DefaultOptions()
	opts.MaxPages = 12
	s := NewCrawlScanner(testPolicy(), opts)

	result, err := s.Crawl(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("Crawl failed: %v", err)
	}
	if len(result.Pages) > opts.MaxPages {
		t.Errorf("Pages = %d, exceeds MaxPages %d", len(result.Pages), opts.MaxPages)
	}
}

func TestCrawl_FailureIsolation(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<html><body><a href="/ok">ok</a><a href="/broken">broken</a></body></html>`)
	})
	mux.HandleFunc("/ok", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<html><head><title>OK</title></head><body></body></html>`)
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	s := NewCrawlScanner(testPolicy(), DefaultOptions())
	// /broken 直接断开连接
	s.fetch = func(ctx context.Context, rawURL string) (*http.Response, error) {
		if strings.HasSuffix(rawURL, "/broken") {
			return nil, fmt.Errorf("connection reset")
		}
		return s.client.Get(ctx, rawURL)
	}

	result, err := s.Crawl(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("Crawl failed: %v", err)
	}

	// 单页失败进入 Errors，其余页面照常抓取
	if len(result.Errors) != 1 {
		t.Fatalf("Errors = %v, want exactly 1", result.Errors)
	}
	found := false
	for _, p := range result.Pages {
		if p.Title == "OK" {
			found = true
		}
	}
	if !found {
		t.Error("/ok should have been crawled despite /broken failing")
	}
}

func TestCrawl_TimeBudget(t *testing.T) {
	// 每页响应拖 60ms，预算 1ms，第一批落定后就应停止
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(60 * time.Millisecond)
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprintf(w, `<html><body><a href="%s/next">next</a></body></html>`, r.URL.Path)
	}))
	defer ts.Close()

	opts := DefaultOptions()
	opts.TimeBudget = 1 * time.Millisecond
	s := NewCrawlScanner(testPolicy(), opts)

	result, err := s.Crawl(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("Crawl failed: %v", err)
	}
	// 第一批 (只有种子) 完整落定，之后预算耗尽
	if len(result.Pages) != 1 {
		t.Errorf("Pages = %d, want 1 (in-flight batch completes, then budget stops the crawl)", len(result.Pages))
	}
}

func TestCrawl_BadSeedAborts(t *testing.T) {
	s := NewCrawlScanner(testPolicy(), DefaultOptions())

	for _, seed := range []string{"", "ftp://example.com/", "not a url at all", "http://"} {
		if _, err := s.Crawl(context.Background(), seed); err == nil {
			t.Errorf("seed %q should abort before any network activity", seed)
		}
	}
}

func TestNormalizeURL(t *testing.T) {
	cases := map[string]string{
		"http://EXAMPLE.com/About/":      "http://example.com/About",
		"http://example.com/about#team":  "http://example.com/about",
		"http://example.com":             "http://example.com/",
		"http://example.com/":            "http://example.com/",
		"https://example.com/a/b/":       "https://example.com/a/b",
	}
	for raw, want := range cases {
		u, err := url.Parse(raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		if got := normalizeURL(u); got != want {
			t.Errorf("normalizeURL(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestExtractPage(t *testing.T) {
	body := []byte(`<html><head><title> Widgets Inc </title></head><body>
		<a href="/a">First</a>
		<a href="#frag">Skip</a>
		<a href="javascript:void(0)">Skip too</a>
		<a href="https://other.example.org/x">Other</a>
	</body></html>`)

	title, links := extractPage(body)
	if title != "Widgets Inc" {
		t.Errorf("title = %q, want Widgets Inc", title)
	}
	if len(links) != 2 {
		t.Fatalf("links = %d, want 2 (fragment and javascript dropped)", len(links))
	}
	if links[0].Href != "/a" || links[0].Text != "First" {
		t.Errorf("first link = %+v", links[0])
	}
	if links[1].Href != "https://other.example.org/x" {
		t.Errorf("second link = %+v", links[1])
	}
}

func TestExtractPage_TruncatedInput(t *testing.T) {
	body := []byte(`<html><head><title>Cut</title></head><body><a href="/full">Full</a><a href="/par`)
	title, links := extractPage(body)
	if title != "Cut" {
		t.Errorf("title = %q, want Cut", title)
	}
	if len(links) != 1 || links[0].Href != "/full" {
		t.Errorf("links = %+v, want only the complete anchor", links)
	}
}
