/**
 * 子域名候选字典与基础域名提取
 * @author: sun977
 * @date: 2026.03.22
 * @description: 内置的常见服务名字典 (按命中概率排序) 和注册域提取逻辑。
 */

package subdomain

import (
	"math/rand"
	"strings"
)

// candidateNames 候选子域名标签，按实际环境的命中率排序
// 枚举带早停上限，排在前面的标签更可能被探测到
var candidateNames = []string{
	"www", "api", "mail", "vpn", "admin",
	"app", "portal", "dev", "test", "staging",
	"webmail", "remote", "blog", "shop", "ftp",
	"ns1", "ns2", "smtp", "m", "cdn",
	"static", "assets", "img", "docs", "wiki",
	"git", "gitlab", "jenkins", "ci", "jira",
	"confluence", "grafana", "kibana", "prometheus", "monitor",
	"status", "help", "support", "login", "sso",
	"auth", "id", "account", "secure", "pay",
	"crm", "erp", "hr", "intranet", "files",
	"download", "upload", "media", "video", "beta",
}

// multiPartSuffixes 常见的多段公共后缀
// 命中时注册域取三段而不是两段 (example.co.uk 而不是 co.uk)
var multiPartSuffixes = map[string]bool{
	"co.uk":  true,
	"org.uk": true,
	"ac.uk":  true,
	"gov.uk": true,
	"com.au": true,
	"net.au": true,
	"org.au": true,
	"co.jp":  true,
	"ne.jp":  true,
	"or.jp":  true,
	"com.cn": true,
	"net.cn": true,
	"org.cn": true,
	"gov.cn": true,
	"com.br": true,
	"com.mx": true,
	"co.in":  true,
	"co.nz":  true,
	"co.za":  true,
	"com.sg": true,
	"com.hk": true,
	"com.tw": true,
}

// BaseDomain 从主机名提取组织的注册域
// foo.bar.example.com -> example.com; foo.example.co.uk -> example.co.uk
// 标签数不足时原样返回
func BaseDomain(host string) string {
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	labels := strings.Split(host, ".")
	if len(labels) <= 2 {
		return host
	}

	lastTwo := strings.Join(labels[len(labels)-2:], ".")
	if multiPartSuffixes[lastTwo] {
		if len(labels) < 3 {
			return host
		}
		return strings.Join(labels[len(labels)-3:], ".")
	}
	return lastTwo
}

const probeLabelAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// randomProbeLabel 生成一个几乎不可能存在的随机标签，用于泛解析探测
func randomProbeLabel() string {
	b := make([]byte, 20)
	for i := range b {
		b[i] = probeLabelAlphabet[rand.Intn(len(probeLabelAlphabet))]
	}
	return "neorecon-wc-" + string(b)
}
