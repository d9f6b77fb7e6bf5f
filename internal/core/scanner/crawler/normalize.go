package crawler

import (
	"net/url"
	"strings"
)

// normalizeURL 生成 URL 的去重键
// 主机名小写、去掉 fragment、折叠尾部斜杠 (根路径除外)
// 同一页面的不同写法折叠成同一个键，避免重复抓取
func normalizeURL(u *url.URL) string {
	n := *u
	n.Fragment = ""
	n.Host = strings.ToLower(n.Host)

	if n.Path == "" {
		n.Path = "/"
	}
	if n.Path != "/" {
		n.Path = strings.TrimSuffix(n.Path, "/")
	}
	return n.String()
}

// sameSite 判断链接是否属于被爬取的站点 (主机名相同即视为站内)
func sameSite(seed, link *url.URL) bool {
	return strings.EqualFold(seed.Hostname(), link.Hostname())
}
