package markdown

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"github.com/russross/blackfriday"
)

var sanitizePolicy = func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("target", "rel").OnElements("a")
	p.AllowAttrs("class").OnElements("code", "pre")
	return p
}()

// Render 将 Markdown 正文渲染为净化后的 HTML
// 站外链接统一加 target="_blank" rel="nofollow"
func Render(content string) (string, error) {
	raw := blackfriday.MarkdownCommon([]byte(content))

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(raw)))
	if err != nil {
		return "", fmt.Errorf("解析渲染结果失败: %v", err)
	}
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if isExternal(href) {
			sel.SetAttr("target", "_blank")
			sel.SetAttr("rel", "nofollow")
		}
	})

	html, err := doc.Find("body").Html()
	if err != nil {
		return "", fmt.Errorf("序列化渲染结果失败: %v", err)
	}
	return sanitizePolicy.Sanitize(html), nil
}

func isExternal(href string) bool {
	u, err := url.Parse(href)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}
