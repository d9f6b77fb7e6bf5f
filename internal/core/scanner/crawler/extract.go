/**
 * HTML 链接与标题提取
 * @author: sun977
 * @date: 2026.03.25
 * @description: 基于流式 tokenizer 提取 <title> 和 <a href>，
 * 不构建 DOM 树，截断后的残缺 HTML 也能提取出前面完整的部分。
 */

package crawler

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// pageLink 页面中的一条出链
type pageLink struct {
	Href string // 原始 href 属性值
	Text string // 锚文本 (去首尾空白)
}

// extractPage 从 HTML 字节流提取标题和所有锚链接
// 忽略空 href、纯 fragment 和 javascript:/mailto: 等非导航链接
func extractPage(body []byte) (title string, links []pageLink) {
	tokenizer := html.NewTokenizer(bytes.NewReader(body))

	inTitle := false
	var anchorHref string
	var anchorText strings.Builder

	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			// EOF 或残缺输入，返回已经提取到的部分
			return title, links

		case html.StartTagToken:
			token := tokenizer.Token()
			switch token.Data {
			case "title":
				inTitle = true
			case "a":
				if href := attrValue(token, "href"); navigable(href) {
					anchorHref = href
					anchorText.Reset()
				}
			}

		case html.TextToken:
			text := string(tokenizer.Text())
			if inTitle && title == "" {
				title = strings.TrimSpace(text)
			}
			if anchorHref != "" {
				anchorText.WriteString(text)
			}

		case html.EndTagToken:
			token := tokenizer.Token()
			switch token.Data {
			case "title":
				inTitle = false
			case "a":
				if anchorHref != "" {
					links = append(links, pageLink{
						Href: anchorHref,
						Text: strings.TrimSpace(anchorText.String()),
					})
					anchorHref = ""
				}
			}
		}
	}
}

func attrValue(token html.Token, name string) string {
	for _, attr := range token.Attr {
		if attr.Key == name {
			return strings.TrimSpace(attr.Val)
		}
	}
	return ""
}

// navigable 判断 href 是否是可导航的链接
func navigable(href string) bool {
	if href == "" || strings.HasPrefix(href, "#") {
		return false
	}
	lower := strings.ToLower(href)
	for _, p := range []string{"javascript:", "mailto:", "tel:", "data:"} {
		if strings.HasPrefix(lower, p) {
			return false
		}
	}
	return true
}
