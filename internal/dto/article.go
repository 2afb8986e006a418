package dto

import (
	"mime/multipart"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// InlineImage 正文内待上传的插图，Token 为正文中的占位符
type InlineImage struct {
	Token string
	File  *multipart.FileHeader
}

// ArticleCreateCommand 建稿命令，由表单解析而来
type ArticleCreateCommand struct {
	Title        string `validate:"required,max=200"`
	Content      string `validate:"required"`
	Date         string
	Tags         []string
	Thumbnail    *multipart.FileHeader
	InlineImages []InlineImage
}

// ArticleUpdateCommand 改稿命令
type ArticleUpdateCommand struct {
	Slug              string `validate:"required"`
	Title             string `validate:"required,max=200"`
	Content           string `validate:"required"`
	Date              string
	Tags              []string
	IsThumbnailChange bool
	Thumbnail         *multipart.FileHeader
	InlineImages      []InlineImage
}

// Validate 校验命令字段
func (c *ArticleCreateCommand) Validate() error {
	return validate.Struct(c)
}

func (c *ArticleUpdateCommand) Validate() error {
	return validate.Struct(c)
}

// PostItem 列表页中的单篇文章
type PostItem struct {
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Date        string   `json:"date"`
	Image       string   `json:"image"`
	Tags        []string `json:"tags"`
}

// PostDetail 详情页数据，含原始正文和渲染后 HTML
type PostDetail struct {
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Date        string   `json:"date"`
	Image       string   `json:"image"`
	Tags        []string `json:"tags"`
	Content     string   `json:"content"`
	ContentHTML string   `json:"contentHtml"`
}

// PageData 分页结果
type PageData struct {
	Posts       []PostItem `json:"posts"`
	CurrentPage int        `json:"currentPage"`
	TotalPages  int        `json:"totalPages"`
	Pages       []int      `json:"pages"`
	Total       int        `json:"total"`
}

// TagCount 标签及其文章数
type TagCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// UploadResponse 独立上传接口返回
type UploadResponse struct {
	URL string `json:"url"`
}
