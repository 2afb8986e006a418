package service

import (
	"context"
	"sort"
	"strings"

	"github.com/avocadev/blog-api/internal/dto"
	"github.com/avocadev/blog-api/internal/logger"
	"github.com/avocadev/blog-api/internal/store"
	"github.com/avocadev/blog-api/pkg/cache"
)

// TagService 标签服务
type TagService struct {
	articles store.ArticleStore
	cache    cache.Cache
}

// NewTagService 创建标签服务
func NewTagService(articles store.ArticleStore, c cache.Cache) *TagService {
	return &TagService{articles: articles, cache: c}
}

// Counts 统计各标签的文章数，按数量倒序
func (s *TagService) Counts(ctx context.Context) ([]dto.TagCount, error) {
	if s.cache != nil {
		var cached []dto.TagCount
		if err := s.cache.GetJSON(ctx, cache.TagCountKey, &cached); err == nil {
			return cached, nil
		}
	}

	articles, err := s.articles.List(ctx)
	if err != nil {
		return nil, err
	}

	tally := make(map[string]int)
	for _, a := range articles {
		for _, t := range a.Tags {
			if strings.TrimSpace(t) == "" {
				continue
			}
			tally[t]++
		}
	}

	counts := make([]dto.TagCount, 0, len(tally))
	for name, count := range tally {
		counts = append(counts, dto.TagCount{Name: name, Count: count})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Name < counts[j].Name
	})

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, cache.TagCountKey, counts, cache.TagCountExpiration); err != nil {
			logger.Warnf("写入标签统计缓存失败: %v", err)
		}
	}
	return counts, nil
}
