package service

import (
	"context"
	"testing"

	"github.com/avocadev/blog-api/internal/model"
	"github.com/avocadev/blog-api/internal/store"
	"github.com/avocadev/blog-api/pkg/cache"
)

func TestTagCounts(t *testing.T) {
	articles := store.NewMemoryArticleStore()
	ctx := context.Background()

	seed := []model.Article{
		{ArticleID: "t1", Title: "一", Tags: []string{"go", "web"}},
		{ArticleID: "t2", Title: "二", Tags: []string{"go", ""}},
		{ArticleID: "t3", Title: "三", Tags: []string{"go", "rust"}},
		{ArticleID: "t4", Title: "四", Tags: []string{"rust"}},
	}
	for i := range seed {
		if err := articles.Insert(ctx, &seed[i]); err != nil {
			t.Fatalf("写入测试数据失败: %v", err)
		}
	}

	svc := NewTagService(articles, cache.NewMemoryCache())
	counts, err := svc.Counts(ctx)
	if err != nil {
		t.Fatalf("标签统计失败: %v", err)
	}

	if len(counts) != 3 {
		t.Fatalf("空白标签应被剔除，得到 %v", counts)
	}
	if counts[0].Name != "go" || counts[0].Count != 3 {
		t.Fatalf("首位应为 go(3)，得到 %+v", counts[0])
	}
	if counts[1].Name != "rust" || counts[1].Count != 2 {
		t.Fatalf("次位应为 rust(2)，得到 %+v", counts[1])
	}
	if counts[2].Name != "web" || counts[2].Count != 1 {
		t.Fatalf("末位应为 web(1)，得到 %+v", counts[2])
	}
}

func TestTagCountsUsesCache(t *testing.T) {
	articles := store.NewMemoryArticleStore()
	ctx := context.Background()
	c := cache.NewMemoryCache()

	if err := articles.Insert(ctx, &model.Article{ArticleID: "t1", Title: "一", Tags: []string{"go"}}); err != nil {
		t.Fatalf("写入测试数据失败: %v", err)
	}

	svc := NewTagService(articles, c)
	if _, err := svc.Counts(ctx); err != nil {
		t.Fatalf("首次统计失败: %v", err)
	}

	// 再插入一篇，缓存未失效前结果不变
	if err := articles.Insert(ctx, &model.Article{ArticleID: "t2", Title: "二", Tags: []string{"go"}}); err != nil {
		t.Fatalf("写入测试数据失败: %v", err)
	}
	counts, err := svc.Counts(ctx)
	if err != nil {
		t.Fatalf("二次统计失败: %v", err)
	}
	if counts[0].Count != 1 {
		t.Fatalf("命中缓存时结果应保持不变，得到 %+v", counts[0])
	}
}
