package safeurl

import (
	"context"
	"fmt"
	"net"
	"testing"
)

// staticLookup 固定解析表，表外域名一律 NXDOMAIN
func staticLookup(table map[string][]string) LookupFunc {
	return func(ctx context.Context, host string) ([]net.IP, error) {
		addrs, ok := table[host]
		if !ok {
			return nil, fmt.Errorf("no such host: %s", host)
		}
		ips := make([]net.IP, 0, len(addrs))
		for _, a := range addrs {
			ips = append(ips, net.ParseIP(a))
		}
		return ips, nil
	}
}

func TestValidate_ProtocolAllowlist(t *testing.T) {
	v := NewValidatorWithLookup(DefaultPolicy(), staticLookup(map[string][]string{
		"example.com": {"93.184.216.34"},
	}))
	ctx := context.Background()

	for _, u := range []string{
		"file:///etc/passwd",
		"ftp://example.com/file",
		"gopher://example.com/",
		"dict://example.com/",
	} {
		if out := v.Validate(ctx, u); out.Valid {
			t.Errorf("Validate(%q) passed, want protocol rejection", u)
		}
	}

	if out := v.Validate(ctx, "https://example.com/path"); !out.Valid {
		t.Errorf("https URL rejected: %s", out.Error)
	}
}

func TestValidate_PrivateIPLiterals(t *testing.T) {
	v := NewValidator(DefaultPolicy())
	ctx := context.Background()

	blocked := []string{
		"http://10.0.0.1/",
		"http://10.255.255.254/",
		"http://172.16.0.1/",
		"http://172.31.255.1/",
		"http://192.168.1.1/admin",
		"http://127.0.0.1:8080/",
		"http://169.254.169.254/latest/meta-data/", // 云元数据
		"http://0.0.0.0/",
		"http://[::1]/",
		"http://[fe80::1]/",
		"http://[fd00::1]/",
		"http://[::ffff:10.0.0.1]/", // IPv4 映射形式绕过尝试
	}
	for _, u := range blocked {
		if out := v.Validate(ctx, u); out.Valid {
			t.Errorf("Validate(%q) passed, want private-address rejection", u)
		}
	}

	// 公网边界地址放行
	allowed := []string{
		"http://8.8.8.8/",
		"http://172.15.255.255/", // 172.16/12 的下边界之外
		"http://172.32.0.1/",     // 上边界之外
		"http://11.0.0.1/",
	}
	for _, u := range allowed {
		if out := v.Validate(ctx, u); !out.Valid {
			t.Errorf("Validate(%q) rejected: %s", u, out.Error)
		}
	}
}

func TestValidate_AllowPrivateIPs(t *testing.T) {
	p := DefaultPolicy()
	p.AllowPrivateIPs = true
	v := NewValidator(p)

	if out := v.Validate(context.Background(), "http://192.168.1.1/"); !out.Valid {
		t.Errorf("private IP rejected despite AllowPrivateIPs: %s", out.Error)
	}
	// 黑名单主机仍然拦截，不受私有地址开关影响
	if out := v.Validate(context.Background(), "http://localhost:8080/"); out.Valid {
		t.Error("localhost passed, blocklist should apply regardless of AllowPrivateIPs")
	}
}

func TestValidate_BlockedHosts(t *testing.T) {
	v := NewValidatorWithLookup(DefaultPolicy(), staticLookup(map[string][]string{
		"metadata.google.internal":     {"169.254.169.254"},
		"sub.metadata.google.internal": {"169.254.169.254"},
	}))
	ctx := context.Background()

	for _, u := range []string{
		"http://metadata.google.internal/computeMetadata/v1/",
		"http://sub.metadata.google.internal/", // 子域名同样命中
		"http://169.254.169.254/",
		"http://localhost/",
		"http://LOCALHOST/", // 大小写不敏感
	} {
		if out := v.Validate(ctx, u); out.Valid {
			t.Errorf("Validate(%q) passed, want blocklist rejection", u)
		}
	}
}

func TestValidate_AllowedHosts(t *testing.T) {
	p := DefaultPolicy()
	p.AllowedHosts = []string{"example.com"}
	v := NewValidatorWithLookup(p, staticLookup(map[string][]string{
		"example.com":     {"93.184.216.34"},
		"www.example.com": {"93.184.216.34"},
		"other.org":       {"93.184.216.40"},
	}))
	ctx := context.Background()

	if out := v.Validate(ctx, "https://example.com/"); !out.Valid {
		t.Errorf("allowlisted host rejected: %s", out.Error)
	}
	if out := v.Validate(ctx, "https://www.example.com/"); !out.Valid {
		t.Errorf("subdomain of allowlisted host rejected: %s", out.Error)
	}
	if out := v.Validate(ctx, "https://other.org/"); out.Valid {
		t.Error("host outside allowlist passed")
	}
}

func TestValidate_DNSRebindingDefense(t *testing.T) {
	// 公网域名挂了一条指向内网的 A 记录
	v := NewValidatorWithLookup(DefaultPolicy(), staticLookup(map[string][]string{
		"rebind.example.com": {"93.184.216.34", "10.0.0.5"},
		"honest.example.com": {"93.184.216.34"},
	}))
	ctx := context.Background()

	if out := v.Validate(ctx, "http://rebind.example.com/"); out.Valid {
		t.Error("hostname resolving to a private address passed validation")
	}
	out := v.Validate(ctx, "http://honest.example.com/")
	if !out.Valid {
		t.Errorf("public hostname rejected: %s", out.Error)
	}
	if out.ResolvedIP != "93.184.216.34" {
		t.Errorf("ResolvedIP = %q, want 93.184.216.34", out.ResolvedIP)
	}
}

func TestValidate_UnresolvableHost(t *testing.T) {
	v := NewValidatorWithLookup(DefaultPolicy(), staticLookup(nil))
	if out := v.Validate(context.Background(), "http://does-not-exist.example.com/"); out.Valid {
		t.Error("unresolvable hostname passed validation")
	}
}

func TestValidate_MalformedInput(t *testing.T) {
	v := NewValidator(DefaultPolicy())
	ctx := context.Background()

	for _, u := range []string{"", "http://", "://missing-scheme", "http://%zz/"} {
		if out := v.Validate(ctx, u); out.Valid {
			t.Errorf("Validate(%q) passed, want rejection", u)
		}
	}
}

func TestIsPrivateIP(t *testing.T) {
	private := []string{
		"10.0.0.1", "172.16.0.1", "172.31.255.255", "192.168.0.1",
		"127.0.0.1", "169.254.169.254", "0.0.0.1",
		"::1", "fe80::1", "fc00::1", "fd12::1", "::ffff:192.168.1.1",
	}
	for _, s := range private {
		if !isPrivateIP(net.ParseIP(s)) {
			t.Errorf("isPrivateIP(%s) = false, want true", s)
		}
	}

	public := []string{"8.8.8.8", "93.184.216.34", "172.15.0.1", "172.32.0.1", "2001:4860:4860::8888"}
	for _, s := range public {
		if isPrivateIP(net.ParseIP(s)) {
			t.Errorf("isPrivateIP(%s) = true, want false", s)
		}
	}
}
