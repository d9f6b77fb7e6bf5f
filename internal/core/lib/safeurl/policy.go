/**
 * SSRF 防护策略定义
 * @author: sun977
 * @date: 2026.03.12
 * @description: 出站扫描的 URL 访问策略。所有对外请求(枚举/爬取)都必须先通过该策略校验。
 */
package safeurl

import "strings"

// Policy 单次扫描的 URL 访问策略
// 每次扫描调用时固定不变，不在扫描过程中修改
type Policy struct {
	AllowPrivateIPs  bool     `yaml:"allow_private_ips" mapstructure:"allow_private_ips"`   // 是否允许访问私有地址 (默认 false)
	AllowedProtocols []string `yaml:"allowed_protocols" mapstructure:"allowed_protocols"`   // 协议白名单 (默认 http/https)
	AllowedHosts     []string `yaml:"allowed_hosts" mapstructure:"allowed_hosts"`           // 主机白名单 (为空表示不限制)
	BlockedHosts     []string `yaml:"blocked_hosts" mapstructure:"blocked_hosts"`           // 主机黑名单 (含子域名匹配)
	MaxRedirects     int      `yaml:"max_redirects" mapstructure:"max_redirects"`           // 重定向跳转上限 (默认 5)
}

// DefaultMaxRedirects 默认重定向上限
const DefaultMaxRedirects = 5

// DefaultPolicy 返回默认策略：拒绝私有地址，只允许 http/https，封禁回环与云元数据主机名
func DefaultPolicy() Policy {
	return Policy{
		AllowPrivateIPs:  false,
		AllowedProtocols: []string{"http", "https"},
		BlockedHosts: []string{
			"localhost",
			"localhost.localdomain",
			// 云元数据端点。169.254.0.0/16 已被私有地址检查覆盖，
			// 这里按主机名再拦一道 (纵深防御)
			"metadata.google.internal",
			"169.254.169.254",
			"metadata.azure.com",
		},
		MaxRedirects: DefaultMaxRedirects,
	}
}

// Normalized 返回填充过默认值的策略副本
// 配置文件中缺省的字段回落到 DefaultPolicy 的取值
func (p Policy) Normalized() Policy {
	if len(p.AllowedProtocols) == 0 {
		p.AllowedProtocols = []string{"http", "https"}
	}
	if p.MaxRedirects <= 0 {
		p.MaxRedirects = DefaultMaxRedirects
	}
	return p
}

// protocolAllowed 判断协议是否在白名单内
func (p Policy) protocolAllowed(scheme string) bool {
	scheme = strings.ToLower(scheme)
	for _, proto := range p.AllowedProtocols {
		if strings.ToLower(proto) == scheme {
			return true
		}
	}
	return false
}

// hostBlocked 判断主机名是否命中黑名单 (完全匹配或为黑名单项的子域名)
func (p Policy) hostBlocked(host string) bool {
	host = strings.ToLower(host)
	for _, blocked := range p.BlockedHosts {
		blocked = strings.ToLower(blocked)
		if host == blocked || strings.HasSuffix(host, "."+blocked) {
			return true
		}
	}
	return false
}

// hostAllowed 判断主机名是否通过白名单 (白名单为空时放行全部)
func (p Policy) hostAllowed(host string) bool {
	if len(p.AllowedHosts) == 0 {
		return true
	}
	host = strings.ToLower(host)
	for _, allowed := range p.AllowedHosts {
		allowed = strings.ToLower(allowed)
		if host == allowed || strings.HasSuffix(host, "."+allowed) {
			return true
		}
	}
	return false
}
