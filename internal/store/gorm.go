package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/avocadev/blog-api/internal/model"
)

// GormArticleStore 基于 GORM 的文章表实现
type GormArticleStore struct {
	db *gorm.DB
}

func NewGormArticleStore(db *gorm.DB) *GormArticleStore {
	return &GormArticleStore{db: db}
}

func (s *GormArticleStore) Insert(ctx context.Context, article *model.Article) error {
	if err := s.db.WithContext(ctx).Create(article).Error; err != nil {
		return fmt.Errorf("插入文章记录失败: %v", err)
	}
	return nil
}

func (s *GormArticleStore) Update(ctx context.Context, article *model.Article) error {
	// Select("*") 保证 thumbnail_url 置空时也会写入
	result := s.db.WithContext(ctx).Model(article).
		Select("*").Omit("created_at").
		Where("article_id = ?", article.ArticleID).
		Updates(article)
	if result.Error != nil {
		return fmt.Errorf("更新文章记录失败: %v", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormArticleStore) Delete(ctx context.Context, articleID string) error {
	result := s.db.WithContext(ctx).Where("article_id = ?", articleID).Delete(&model.Article{})
	if result.Error != nil {
		return fmt.Errorf("删除文章记录失败: %v", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormArticleStore) Get(ctx context.Context, articleID string) (*model.Article, error) {
	var article model.Article
	err := s.db.WithContext(ctx).Where("article_id = ?", articleID).First(&article).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("查询文章记录失败: %v", err)
	}
	return &article, nil
}

func (s *GormArticleStore) List(ctx context.Context) ([]model.Article, error) {
	var articles []model.Article
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&articles).Error
	if err != nil {
		return nil, fmt.Errorf("查询文章列表失败: %v", err)
	}
	return articles, nil
}

// GormImageStore 基于 GORM 的图片表实现
type GormImageStore struct {
	db *gorm.DB
}

func NewGormImageStore(db *gorm.DB) *GormImageStore {
	return &GormImageStore{db: db}
}

func (s *GormImageStore) Insert(ctx context.Context, image *model.Image) error {
	if err := s.db.WithContext(ctx).Create(image).Error; err != nil {
		return fmt.Errorf("插入图片记录失败: %v", err)
	}
	return nil
}

func (s *GormImageStore) Delete(ctx context.Context, imageID string) error {
	result := s.db.WithContext(ctx).Where("image_id = ?", imageID).Delete(&model.Image{})
	if result.Error != nil {
		return fmt.Errorf("删除图片记录失败: %v", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormImageStore) Get(ctx context.Context, imageID string) (*model.Image, error) {
	var image model.Image
	err := s.db.WithContext(ctx).Where("image_id = ?", imageID).First(&image).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("查询图片记录失败: %v", err)
	}
	return &image, nil
}

func (s *GormImageStore) GetByURL(ctx context.Context, fileURL string) (*model.Image, error) {
	var image model.Image
	err := s.db.WithContext(ctx).Where("file_url = ?", fileURL).First(&image).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("按地址查询图片记录失败: %v", err)
	}
	return &image, nil
}

func (s *GormImageStore) ListByArticle(ctx context.Context, articleID string) ([]model.Image, error) {
	var images []model.Image
	err := s.db.WithContext(ctx).
		Joins("JOIN c_article_images ON c_article_images.image_id = m_images.image_id").
		Where("c_article_images.article_id = ?", articleID).
		Find(&images).Error
	if err != nil {
		return nil, fmt.Errorf("查询文章插图失败: %v", err)
	}
	return images, nil
}

func (s *GormImageStore) Link(ctx context.Context, articleID, imageID string) error {
	link := model.ArticleImage{ArticleID: articleID, ImageID: imageID}
	if err := s.db.WithContext(ctx).Create(&link).Error; err != nil {
		return fmt.Errorf("插入文章图片关联失败: %v", err)
	}
	return nil
}

func (s *GormImageStore) Unlink(ctx context.Context, articleID, imageID string) error {
	err := s.db.WithContext(ctx).
		Where("article_id = ? AND image_id = ?", articleID, imageID).
		Delete(&model.ArticleImage{}).Error
	if err != nil {
		return fmt.Errorf("删除文章图片关联失败: %v", err)
	}
	return nil
}

func (s *GormImageStore) DeleteLinksByArticle(ctx context.Context, articleID string) error {
	err := s.db.WithContext(ctx).
		Where("article_id = ?", articleID).
		Delete(&model.ArticleImage{}).Error
	if err != nil {
		return fmt.Errorf("删除文章全部图片关联失败: %v", err)
	}
	return nil
}

func (s *GormImageStore) ListOrphans(ctx context.Context, before time.Time) ([]model.Image, error) {
	var images []model.Image
	err := s.db.WithContext(ctx).
		Where("created_at < ?", before).
		Where("image_id NOT IN (?)", s.db.Table("c_article_images").Select("image_id")).
		Where("file_url NOT IN (?)", s.db.Table("m_articles").
			Where("thumbnail_url IS NOT NULL").Select("thumbnail_url")).
		Find(&images).Error
	if err != nil {
		return nil, fmt.Errorf("查询孤儿图片失败: %v", err)
	}
	return images, nil
}
