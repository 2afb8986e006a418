package model

import (
	"time"
)

// Article 文章模型，正文不入库，只记录Markdown对象的存储路径
type Article struct {
	ArticleID    string   `gorm:"type:varchar(36);primaryKey" json:"article_id"`
	AuthorID     string   `gorm:"type:varchar(36);index" json:"author_id"`
	Title        string   `gorm:"type:varchar(255);not null" json:"title"`
	FileURL      string   `gorm:"type:varchar(255);not null" json:"file_url"` // Markdown对象路径
	ThumbnailURL *string  `gorm:"type:varchar(255)" json:"thumbnail_url"`
	Status       string   `gorm:"type:varchar(20);not null;default:'published';index" json:"status"` // 状态: draft published
	Tags         []string `gorm:"serializer:json;type:json" json:"tags"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName 指定表名
func (Article) TableName() string {
	return "m_articles"
}

// ToSearchDocument 转换为搜索文档
func (a *Article) ToSearchDocument(content string) *ESArticle {
	return &ESArticle{
		ID:        a.ArticleID,
		ArticleID: a.ArticleID,
		Title:     a.Title,
		Content:   content,
		Tags:      a.Tags,
		Status:    a.Status,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}
