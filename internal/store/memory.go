package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/avocadev/blog-api/internal/model"
)

// MemoryArticleStore 内存实现，供测试替换 GORM 实现
type MemoryArticleStore struct {
	mu       sync.Mutex
	articles map[string]model.Article
}

func NewMemoryArticleStore() *MemoryArticleStore {
	return &MemoryArticleStore{articles: make(map[string]model.Article)}
}

func copyArticle(a model.Article) model.Article {
	c := a
	c.Tags = append([]string(nil), a.Tags...)
	if a.ThumbnailURL != nil {
		url := *a.ThumbnailURL
		c.ThumbnailURL = &url
	}
	return c
}

func (s *MemoryArticleStore) Insert(ctx context.Context, article *model.Article) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.articles[article.ArticleID] = copyArticle(*article)
	return nil
}

func (s *MemoryArticleStore) Update(ctx context.Context, article *model.Article) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.articles[article.ArticleID]
	if !ok {
		return ErrNotFound
	}
	next := copyArticle(*article)
	next.CreatedAt = old.CreatedAt
	s.articles[article.ArticleID] = next
	return nil
}

func (s *MemoryArticleStore) Delete(ctx context.Context, articleID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.articles[articleID]; !ok {
		return ErrNotFound
	}
	delete(s.articles, articleID)
	return nil
}

func (s *MemoryArticleStore) Get(ctx context.Context, articleID string) (*model.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	article, ok := s.articles[articleID]
	if !ok {
		return nil, ErrNotFound
	}
	c := copyArticle(article)
	return &c, nil
}

func (s *MemoryArticleStore) List(ctx context.Context) ([]model.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	articles := make([]model.Article, 0, len(s.articles))
	for _, a := range s.articles {
		articles = append(articles, copyArticle(a))
	}
	sort.Slice(articles, func(i, j int) bool {
		return articles[i].CreatedAt.After(articles[j].CreatedAt)
	})
	return articles, nil
}

type linkKey struct {
	articleID string
	imageID   string
}

// MemoryImageStore 内存实现，图片表与关联表一并维护
type MemoryImageStore struct {
	mu     sync.Mutex
	images map[string]model.Image
	links  map[linkKey]struct{}

	// thumbnailURLs 供 ListOrphans 排除缩略图，测试按需填充
	articles *MemoryArticleStore
}

func NewMemoryImageStore(articles *MemoryArticleStore) *MemoryImageStore {
	return &MemoryImageStore{
		images:   make(map[string]model.Image),
		links:    make(map[linkKey]struct{}),
		articles: articles,
	}
}

func (s *MemoryImageStore) Insert(ctx context.Context, image *model.Image) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.images[image.ImageID] = *image
	return nil
}

func (s *MemoryImageStore) Delete(ctx context.Context, imageID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.images[imageID]; !ok {
		return ErrNotFound
	}
	delete(s.images, imageID)
	return nil
}

func (s *MemoryImageStore) Get(ctx context.Context, imageID string) (*model.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	image, ok := s.images[imageID]
	if !ok {
		return nil, ErrNotFound
	}
	c := image
	return &c, nil
}

func (s *MemoryImageStore) GetByURL(ctx context.Context, fileURL string) (*model.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, image := range s.images {
		if image.FileURL == fileURL {
			c := image
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryImageStore) ListByArticle(ctx context.Context, articleID string) ([]model.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var images []model.Image
	for key := range s.links {
		if key.articleID != articleID {
			continue
		}
		if image, ok := s.images[key.imageID]; ok {
			images = append(images, image)
		}
	}
	sort.Slice(images, func(i, j int) bool {
		return images[i].ImageID < images[j].ImageID
	})
	return images, nil
}

func (s *MemoryImageStore) Link(ctx context.Context, articleID, imageID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.links[linkKey{articleID: articleID, imageID: imageID}] = struct{}{}
	return nil
}

func (s *MemoryImageStore) Unlink(ctx context.Context, articleID, imageID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.links, linkKey{articleID: articleID, imageID: imageID})
	return nil
}

func (s *MemoryImageStore) DeleteLinksByArticle(ctx context.Context, articleID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.links {
		if key.articleID == articleID {
			delete(s.links, key)
		}
	}
	return nil
}

func (s *MemoryImageStore) ListOrphans(ctx context.Context, before time.Time) ([]model.Image, error) {
	thumbnails := make(map[string]struct{})
	if s.articles != nil {
		all, _ := s.articles.List(ctx)
		for _, a := range all {
			if a.ThumbnailURL != nil {
				thumbnails[*a.ThumbnailURL] = struct{}{}
			}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	linked := make(map[string]struct{})
	for key := range s.links {
		linked[key.imageID] = struct{}{}
	}
	var orphans []model.Image
	for _, image := range s.images {
		if !image.CreatedAt.Before(before) {
			continue
		}
		if _, ok := linked[image.ImageID]; ok {
			continue
		}
		if _, ok := thumbnails[image.FileURL]; ok {
			continue
		}
		orphans = append(orphans, image)
	}
	sort.Slice(orphans, func(i, j int) bool {
		return orphans[i].ImageID < orphans[j].ImageID
	})
	return orphans, nil
}

// LinkCount 测试用，返回关联表行数
func (s *MemoryImageStore) LinkCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.links)
}

// HasLink 测试用，判断关联是否存在
func (s *MemoryImageStore) HasLink(articleID, imageID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.links[linkKey{articleID: articleID, imageID: imageID}]
	return ok
}

// ImageCount 测试用，返回图片表行数
func (s *MemoryImageStore) ImageCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.images)
}
