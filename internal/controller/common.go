package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/avocadev/blog-api/internal/dto"
)

// 表单中正文插图的字段名前缀，后接占位符本身
const inlineImageFieldPrefix = "image-"

// getUserIDFromContext 从上下文获取登录用户ID
func getUserIDFromContext(c *gin.Context) (string, error) {
	userID := c.GetString("userID")
	if userID == "" {
		return "", errors.New("上下文中没有用户ID")
	}
	return userID, nil
}

// parseTags 解析JSON数组形式的标签字段
func parseTags(raw string) ([]string, error) {
	if raw == "" {
		return nil, nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil, fmt.Errorf("标签格式错误: %v", err)
	}
	return tags, nil
}

// parseInlineImages 收集 image-<占位符> 形式的表单文件
func parseInlineImages(c *gin.Context) ([]dto.InlineImage, error) {
	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, fmt.Errorf("解析表单失败: %v", err)
	}

	var images []dto.InlineImage
	for field, files := range form.File {
		if !strings.HasPrefix(field, inlineImageFieldPrefix) || len(files) == 0 {
			continue
		}
		token := strings.TrimPrefix(field, inlineImageFieldPrefix)
		if token == "" {
			continue
		}
		images = append(images, dto.InlineImage{Token: token, File: files[0]})
	}
	return images, nil
}

// parseCreateForm 把建稿表单解析为类型化命令
func parseCreateForm(c *gin.Context) (*dto.ArticleCreateCommand, error) {
	tags, err := parseTags(c.PostForm("tags"))
	if err != nil {
		return nil, err
	}
	inline, err := parseInlineImages(c)
	if err != nil {
		return nil, err
	}

	cmd := &dto.ArticleCreateCommand{
		Title:        c.PostForm("title"),
		Content:      c.PostForm("content"),
		Date:         c.PostForm("date"),
		Tags:         tags,
		InlineImages: inline,
	}
	if fh, err := c.FormFile("thumbnail"); err == nil {
		cmd.Thumbnail = fh
	}
	return cmd, nil
}

// parseUpdateForm 把改稿表单解析为类型化命令
func parseUpdateForm(c *gin.Context, slug string) (*dto.ArticleUpdateCommand, error) {
	tags, err := parseTags(c.PostForm("tags"))
	if err != nil {
		return nil, err
	}
	inline, err := parseInlineImages(c)
	if err != nil {
		return nil, err
	}

	cmd := &dto.ArticleUpdateCommand{
		Slug:              slug,
		Title:             c.PostForm("title"),
		Content:           c.PostForm("content"),
		Date:              c.PostForm("date"),
		Tags:              tags,
		IsThumbnailChange: c.PostForm("isThumbnailChange") == "true",
		InlineImages:      inline,
	}
	if fh, err := c.FormFile("thumbnail"); err == nil {
		cmd.Thumbnail = fh
	}
	return cmd, nil
}
