package markdown

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/adrg/frontmatter"
)

// Matter Markdown 文件头部的元数据
type Matter struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Date        string   `yaml:"date"`
	Image       string   `yaml:"image"`
	Tags        []string `yaml:"tags"`
}

// Compose 拼装带元数据头的 Markdown 文档
// tags 序列化为 JSON 数组，保持 ["a","b"] 形式
func Compose(matter Matter, content string) (string, error) {
	if matter.Tags == nil {
		matter.Tags = []string{}
	}
	tags, err := json.Marshal(matter.Tags)
	if err != nil {
		return "", fmt.Errorf("序列化标签失败: %v", err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString(fmt.Sprintf("title: %q\n", matter.Title))
	if matter.Description != "" {
		b.WriteString(fmt.Sprintf("description: %q\n", matter.Description))
	}
	b.WriteString(fmt.Sprintf("date: %q\n", matter.Date))
	if matter.Image != "" {
		b.WriteString(fmt.Sprintf("image: %q\n", matter.Image))
	}
	b.WriteString(fmt.Sprintf("tags: %s\n", tags))
	b.WriteString("---\n\n")
	b.WriteString(content)
	return b.String(), nil
}

// Parse 解析元数据头，返回元数据和正文
func Parse(document string) (Matter, string, error) {
	var matter Matter
	rest, err := frontmatter.Parse(strings.NewReader(document), &matter)
	if err != nil {
		return Matter{}, "", fmt.Errorf("解析文档元数据失败: %v", err)
	}
	if matter.Tags == nil {
		matter.Tags = []string{}
	}
	return matter, string(rest), nil
}
