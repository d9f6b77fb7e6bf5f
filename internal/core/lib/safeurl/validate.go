/**
 * URL 安全校验器 (SSRF 防护核心)
 * @author: sun977
 * @date: 2026.03.12
 * @description: 判定一个 URL 是否允许被扫描器访问。
 * 校验顺序: URL解析 -> 协议白名单 -> 主机黑名单 -> 主机白名单 -> 字面IP检查 -> DNS解析后检查.
 * 关键点: 对域名必须检查"解析出来的地址"而不是域名本身，否则会被 DNS 重绑定绕过。
 */
package safeurl

import (
	"context"
	"net"
	"net/url"
	"strings"
	"time"
)

// Outcome 一次 URL 校验的结果，创建后不再修改
type Outcome struct {
	Valid      bool   `json:"valid"`
	Error      string `json:"error,omitempty"`
	ResolvedIP string `json:"resolved_ip,omitempty"`
}

// Validator URL 安全校验器
// 无内部可变状态，可被多个扫描并发使用
type Validator struct {
	policy     Policy
	lookup     LookupFunc
	dnsTimeout time.Duration
}

// NewValidator 创建校验器
func NewValidator(policy Policy) *Validator {
	return &Validator{
		policy:     policy.Normalized(),
		dnsTimeout: DefaultDNSTimeout,
	}
}

// NewValidatorWithLookup 创建使用自定义解析函数的校验器 (测试注入用)
func NewValidatorWithLookup(policy Policy, lookup LookupFunc) *Validator {
	v := NewValidator(policy)
	v.lookup = lookup
	return v
}

// Policy 返回校验器使用的策略
func (v *Validator) Policy() Policy {
	return v.policy
}

// Validate 校验 URL 是否允许访问
func (v *Validator) Validate(ctx context.Context, rawURL string) Outcome {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return invalid("invalid URL")
	}

	// 协议白名单，file:/ftp:/gopher:/dict: 等一律拒绝
	if !v.policy.protocolAllowed(parsed.Scheme) {
		return invalid("protocol not allowed: " + parsed.Scheme)
	}

	host := strings.ToLower(parsed.Hostname())
	if host == "" {
		return invalid("URL has no hostname")
	}

	if v.policy.hostBlocked(host) {
		return invalid("host is blocked: " + host)
	}
	if !v.policy.hostAllowed(host) {
		return invalid("host not in allowlist: " + host)
	}

	// 主机名本身就是 IP 字面量时直接检查，不走 DNS
	if ip := net.ParseIP(strings.Trim(host, "[]")); ip != nil {
		if !v.policy.AllowPrivateIPs && isPrivateIP(ip) {
			return invalid("IP address is in a private or reserved range: " + ip.String())
		}
		return Outcome{Valid: true, ResolvedIP: ip.String()}
	}

	// DNS 重绑定防御: 检查当前解析出的每一个地址
	// 攻击者可能给公网域名挂多条 A 记录，只要有一条指向内网就拒绝
	res := resolveHost(ctx, v.lookup, host, v.dnsTimeout)
	switch res.Status {
	case StatusTimedOut:
		return invalid("DNS resolution timed out for " + host)
	case StatusUnresolved:
		return invalid("hostname did not resolve: " + host)
	}

	for _, ip := range res.Addrs {
		if !v.policy.AllowPrivateIPs && isPrivateIP(ip) {
			return invalid("hostname resolves to a private or reserved address: " + ip.String())
		}
	}

	return Outcome{Valid: true, ResolvedIP: res.Addrs[0].String()}
}

func invalid(reason string) Outcome {
	return Outcome{Valid: false, Error: reason}
}

// 私有/保留 IPv4 网段
var privateV4Blocks = mustParseCIDRs(
	"10.0.0.0/8",
	"172.16.0.0/12",
	"192.168.0.0/16",
	"127.0.0.0/8",
	"169.254.0.0/16", // 链路本地，含 169.254.169.254 云元数据地址
	"0.0.0.0/8",
)

// 私有/保留 IPv6 网段
var privateV6Blocks = mustParseCIDRs(
	"::1/128",
	"fe80::/10", // 链路本地
	"fc00::/7",  // 唯一本地地址，覆盖 fd00::/8
)

func mustParseCIDRs(cidrs ...string) []*net.IPNet {
	nets := make([]*net.IPNet, 0, len(cidrs))
	for _, c := range cidrs {
		_, n, err := net.ParseCIDR(c)
		if err != nil {
			panic("safeurl: bad builtin CIDR " + c)
		}
		nets = append(nets, n)
	}
	return nets
}

// isPrivateIP 判断地址是否落在私有/保留网段内
// IPv4 映射的 IPv6 地址 (::ffff:10.0.0.1) 按内嵌的 IPv4 判断，防止用映射形式绕过
func isPrivateIP(ip net.IP) bool {
	if v4 := ip.To4(); v4 != nil {
		for _, block := range privateV4Blocks {
			if block.Contains(v4) {
				return true
			}
		}
		return false
	}
	for _, block := range privateV6Blocks {
		if block.Contains(ip) {
			return true
		}
	}
	return false
}
