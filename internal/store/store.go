package store

import (
	"context"
	"errors"
	"time"

	"github.com/avocadev/blog-api/internal/model"
)

// ErrNotFound 记录不存在
var ErrNotFound = errors.New("记录不存在")

// ArticleStore 文章表操作能力接口
type ArticleStore interface {
	Insert(ctx context.Context, article *model.Article) error
	Update(ctx context.Context, article *model.Article) error
	Delete(ctx context.Context, articleID string) error
	Get(ctx context.Context, articleID string) (*model.Article, error)
	List(ctx context.Context) ([]model.Article, error)
}

// ImageStore 图片表与关联表操作能力接口
type ImageStore interface {
	Insert(ctx context.Context, image *model.Image) error
	Delete(ctx context.Context, imageID string) error
	Get(ctx context.Context, imageID string) (*model.Image, error)
	GetByURL(ctx context.Context, fileURL string) (*model.Image, error)
	// ListByArticle 通过关联表查询文章的正文插图
	ListByArticle(ctx context.Context, articleID string) ([]model.Image, error)
	// Link 建立文章-图片关联
	Link(ctx context.Context, articleID, imageID string) error
	// Unlink 删除单条文章-图片关联
	Unlink(ctx context.Context, articleID, imageID string) error
	// DeleteLinksByArticle 删除文章的全部关联
	DeleteLinksByArticle(ctx context.Context, articleID string) error
	// ListOrphans 查询既无关联又未被任何文章用作缩略图的图片
	ListOrphans(ctx context.Context, before time.Time) ([]model.Image, error)
}
