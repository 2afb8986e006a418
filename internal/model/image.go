package model

import "time"

// Image 图片模型，缩略图和正文插图共用
type Image struct {
	ImageID   string    `gorm:"type:varchar(36);primaryKey" json:"image_id"`
	AuthorID  *string   `gorm:"type:varchar(36);index" json:"author_id"`
	FileURL   string    `gorm:"type:varchar(255);not null" json:"file_url"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName 指定表名
func (Image) TableName() string {
	return "m_images"
}

// ArticleImage 文章-图片关联模型
type ArticleImage struct {
	ArticleID string `gorm:"type:varchar(36);primaryKey" json:"article_id"`
	ImageID   string `gorm:"type:varchar(36);primaryKey" json:"image_id"`
}

// TableName 指定表名
func (ArticleImage) TableName() string {
	return "c_article_images"
}
