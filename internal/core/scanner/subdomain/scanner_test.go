package subdomain

import (
	"context"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"

	"neorecon/internal/core/lib/safeurl"
)

func TestBaseDomain(t *testing.T) {
	cases := map[string]string{
		"www.example.com":       "example.com",
		"a.b.example.com":       "example.com",
		"example.com":           "example.com",
		"www.example.co.uk":     "example.co.uk",
		"api.shop.example.com":  "example.com",
		"Example.COM":           "example.com",
		"mail.example.com.au":   "example.com.au",
		"localhost":             "localhost",
	}
	for host, want := range cases {
		if got := BaseDomain(host); got != want {
			t.Errorf("BaseDomain(%q) = %q, want %q", host, got, want)
		}
	}
}

// fakeResolver 固定解析表，表外域名一律 NXDOMAIN
func fakeResolver(table map[string][]string) func(ctx context.Context, host string) safeurl.Resolution {
	return func(ctx context.Context, host string) safeurl.Resolution {
		addrs, ok := table[host]
		if !ok {
			return safeurl.Resolution{Status: safeurl.StatusUnresolved}
		}
		ips := make([]net.IP, 0, len(addrs))
		for _, a := range addrs {
			ips = append(ips, net.ParseIP(a))
		}
		return safeurl.Resolution{Status: safeurl.StatusResolved, Addrs: ips}
	}
}

func fakeProbe(status int, location string) func(ctx context.Context, method, rawURL string) (*http.Response, error) {
	return func(ctx context.Context, method, rawURL string) (*http.Response, error) {
		resp := &http.Response{
			StatusCode: status,
			Header:     make(http.Header),
			Body:       io.NopCloser(strings.NewReader("")),
		}
		if location != "" {
			resp.Header.Set("Location", location)
		}
		return resp, nil
	}
}

func newTestScanner(table map[string][]string, opts Options) *SubdomainScanner {
	s := NewSubdomainScanner(safeurl.DefaultPolicy(), opts)
	s.resolve = fakeResolver(table)
	s.probe = fakeProbe(200, "")
	return s
}

func TestCollect_DiscoversResolvedCandidates(t *testing.T) {
	s := newTestScanner(map[string][]string{
		"www.example.com": {"93.184.216.34"},
		"api.example.com": {"93.184.216.35"},
	}, DefaultOptions())

	result, err := s.Collect(context.Background(), "https://portal.example.com/login")
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	if result.Domain != "example.com" {
		t.Errorf("Domain = %q, want example.com", result.Domain)
	}
	if result.HasWildcard {
		t.Error("HasWildcard = true for a zone without wildcard DNS")
	}
	if len(result.Discovered) != 2 {
		t.Fatalf("Discovered = %d probes, want 2", len(result.Discovered))
	}
	for _, p := range result.Discovered {
		if !p.Accessible || !p.HasSSL || p.HTTPStatus != 200 {
			t.Errorf("probe %s: Accessible=%v HasSSL=%v HTTPStatus=%d", p.FullDomain, p.Accessible, p.HasSSL, p.HTTPStatus)
		}
	}
	if result.TotalChecked == 0 {
		t.Error("TotalChecked should count probed candidates")
	}
}

func TestCollect_WildcardNoiseExcluded(t *testing.T) {
	// 泛解析地址 203.0.113.9: 随机标签和 mail 都落在上面，www 指向真实地址
	table := map[string][]string{
		"www.example.com":  {"93.184.216.34"},
		"mail.example.com": {"203.0.113.9"},
	}
	s := NewSubdomainScanner(safeurl.DefaultPolicy(), DefaultOptions())
	s.probe = fakeProbe(200, "")
	s.resolve = func(ctx context.Context, host string) safeurl.Resolution {
		if addrs, ok := table[host]; ok {
			ips := make([]net.IP, 0, len(addrs))
			for _, a := range addrs {
				ips = append(ips, net.ParseIP(a))
			}
			return safeurl.Resolution{Status: safeurl.StatusResolved, Addrs: ips}
		}
		// 其余标签 (含随机探针) 全部命中泛解析
		return safeurl.Resolution{Status: safeurl.StatusResolved, Addrs: []net.IP{net.ParseIP("203.0.113.9")}}
	}

	result, err := s.Collect(context.Background(), "example.com")
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	if !result.HasWildcard {
		t.Fatal("HasWildcard = false, wildcard probe should have resolved")
	}
	if result.WildcardIP != "203.0.113.9" {
		t.Errorf("WildcardIP = %q, want 203.0.113.9", result.WildcardIP)
	}

	for _, p := range result.Discovered {
		if len(p.IPAddresses) == 1 && p.IPAddresses[0] == result.WildcardIP {
			t.Errorf("probe %s matches wildcard IP but was not excluded", p.FullDomain)
		}
	}

	found := false
	for _, p := range result.Discovered {
		if p.FullDomain == "www.example.com" {
			found = true
		}
	}
	if !found {
		t.Error("www.example.com resolves to a distinct address and should be discovered")
	}
}

func TestCollect_WildcardFilterOff(t *testing.T) {
	opts := DefaultOptions()
	opts.WildcardFilter = WildcardFilterOff

	s := NewSubdomainScanner(safeurl.DefaultPolicy(), opts)
	s.probe = fakeProbe(200, "")
	s.resolve = func(ctx context.Context, host string) safeurl.Resolution {
		return safeurl.Resolution{Status: safeurl.StatusResolved, Addrs: []net.IP{net.ParseIP("203.0.113.9")}}
	}

	result, err := s.Collect(context.Background(), "example.com")
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if !result.HasWildcard {
		t.Fatal("wildcard probe resolved, HasWildcard should be true")
	}
	if len(result.Discovered) == 0 {
		t.Error("filter off: resolved candidates should still be reported")
	}
}

func TestCollect_EarlyStop(t *testing.T) {
	// 所有候选都解析成功 (无泛解析探针命中)，应在达到阈值后的批边界停止
	opts := DefaultOptions()
	opts.MaxDiscoveries = 5
	opts.BatchSize = 3

	table := make(map[string][]string)
	for i, name := range candidateNames {
		table[name+".example.com"] = []string{net.IPv4(93, 184, byte(i/200), byte(i%200+1)).String()}
	}
	s := newTestScanner(table, opts)

	result, err := s.Collect(context.Background(), "example.com")
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	if len(result.Discovered) < opts.MaxDiscoveries {
		t.Errorf("Discovered = %d, want >= %d before stopping", len(result.Discovered), opts.MaxDiscoveries)
	}
	if result.TotalChecked >= len(candidateNames) {
		t.Errorf("TotalChecked = %d, early stop should skip remaining candidates", result.TotalChecked)
	}
	if result.TotalChecked%opts.BatchSize != 0 {
		t.Errorf("TotalChecked = %d, should be a whole number of batches", result.TotalChecked)
	}
}

func TestCollect_HTTPFallback(t *testing.T) {
	s := newTestScanner(map[string][]string{
		"www.example.com": {"93.184.216.34"},
	}, DefaultOptions())

	// HTTPS 探测失败，HTTP 返回 301
	s.probe = func(ctx context.Context, method, rawURL string) (*http.Response, error) {
		if strings.HasPrefix(rawURL, "https://") {
			return nil, context.DeadlineExceeded
		}
		resp := &http.Response{
			StatusCode: 301,
			Header:     make(http.Header),
			Body:       io.NopCloser(strings.NewReader("")),
		}
		resp.Header.Set("Location", "https://www.example.org/")
		return resp, nil
	}

	result, err := s.Collect(context.Background(), "example.com")
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if len(result.Discovered) != 1 {
		t.Fatalf("Discovered = %d probes, want 1", len(result.Discovered))
	}

	p := result.Discovered[0]
	if !p.Accessible || p.HasSSL {
		t.Errorf("HTTP fallback: Accessible=%v HasSSL=%v, want true/false", p.Accessible, p.HasSSL)
	}
	if p.HTTPStatus != 301 || p.RedirectsTo != "https://www.example.org/" {
		t.Errorf("redirect probe: HTTPStatus=%d RedirectsTo=%q", p.HTTPStatus, p.RedirectsTo)
	}
}

func TestCollect_BadSeedAborts(t *testing.T) {
	s := newTestScanner(nil, DefaultOptions())
	if _, err := s.Collect(context.Background(), "   "); err == nil {
		t.Fatal("empty target should abort before any probing")
	}
}
