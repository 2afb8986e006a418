package markdown

import (
	"strings"
	"testing"
)

func TestComposeParseRoundTrip(t *testing.T) {
	matter := Matter{
		Title: "Go 泛型笔记",
		Date:  "2024-06-01",
		Image: "https://storage.example.com/thumbnails/abc.png",
		Tags:  []string{"go", "generics"},
	}
	content := "# 开头\n\n正文段落。\n"

	doc, err := Compose(matter, content)
	if err != nil {
		t.Fatalf("Compose 失败: %v", err)
	}
	if !strings.HasPrefix(doc, "---\n") {
		t.Fatalf("文档缺少元数据头: %q", doc[:10])
	}
	if !strings.Contains(doc, `tags: ["go","generics"]`) {
		t.Fatalf("标签未按 JSON 数组写入: %s", doc)
	}

	got, body, err := Parse(doc)
	if err != nil {
		t.Fatalf("Parse 失败: %v", err)
	}
	if got.Title != matter.Title || got.Date != matter.Date || got.Image != matter.Image {
		t.Fatalf("元数据不一致: %+v", got)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "go" || got.Tags[1] != "generics" {
		t.Fatalf("标签不一致: %v", got.Tags)
	}
	if strings.TrimSpace(body) != strings.TrimSpace(content) {
		t.Fatalf("正文不一致: %q", body)
	}
}

func TestComposeEmptyTags(t *testing.T) {
	doc, err := Compose(Matter{Title: "无标签", Date: "2024-01-01"}, "正文")
	if err != nil {
		t.Fatalf("Compose 失败: %v", err)
	}
	if !strings.Contains(doc, "tags: []") {
		t.Fatalf("空标签应写为 []: %s", doc)
	}

	matter, _, err := Parse(doc)
	if err != nil {
		t.Fatalf("Parse 失败: %v", err)
	}
	if matter.Tags == nil || len(matter.Tags) != 0 {
		t.Fatalf("空标签应解析为空切片: %v", matter.Tags)
	}
}

func TestComposeQuotesSpecialCharacters(t *testing.T) {
	matter := Matter{Title: `标题: "含冒号与引号"`, Date: "2024-01-01"}
	doc, err := Compose(matter, "正文")
	if err != nil {
		t.Fatalf("Compose 失败: %v", err)
	}
	got, _, err := Parse(doc)
	if err != nil {
		t.Fatalf("Parse 失败: %v", err)
	}
	if got.Title != matter.Title {
		t.Fatalf("标题往返后不一致: %q != %q", got.Title, matter.Title)
	}
}

func TestRenderBasic(t *testing.T) {
	html, err := Render("# 标题\n\n**加粗**文本")
	if err != nil {
		t.Fatalf("Render 失败: %v", err)
	}
	if !strings.Contains(html, "<h1") || !strings.Contains(html, "<strong>") {
		t.Fatalf("渲染结果缺少预期标签: %s", html)
	}
}

func TestRenderExternalLink(t *testing.T) {
	html, err := Render("[示例](https://example.org) 和 [站内](/posts/abc)")
	if err != nil {
		t.Fatalf("Render 失败: %v", err)
	}
	if !strings.Contains(html, `target="_blank"`) || !strings.Contains(html, `rel="nofollow"`) {
		t.Fatalf("站外链接未加属性: %s", html)
	}
	if strings.Count(html, `target="_blank"`) != 1 {
		t.Fatalf("站内链接不应加 target: %s", html)
	}
}

func TestRenderStripsScript(t *testing.T) {
	html, err := Render("正文\n\n<script>alert(1)</script>")
	if err != nil {
		t.Fatalf("Render 失败: %v", err)
	}
	if strings.Contains(html, "<script") {
		t.Fatalf("脚本未被净化: %s", html)
	}
}
