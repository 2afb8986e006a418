package task

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/avocadev/blog-api/internal/model"
	"github.com/avocadev/blog-api/internal/storage"
	"github.com/avocadev/blog-api/internal/store"
)

func TestSweepOnce(t *testing.T) {
	articles := store.NewMemoryArticleStore()
	images := store.NewMemoryImageStore(articles)
	blobs := storage.NewMemoryStore()
	ctx := context.Background()

	old := time.Now().Add(-2 * time.Hour)

	put := func(key string) string {
		url, err := blobs.Put(ctx, key, strings.NewReader("data"))
		if err != nil {
			t.Fatalf("上传测试对象失败: %v", err)
		}
		return url
	}

	// 有关联的图片，不应清理
	linkedURL := put("uploads/linked.png")
	if err := images.Insert(ctx, &model.Image{ImageID: "linked", FileURL: linkedURL, CreatedAt: old}); err != nil {
		t.Fatalf("写入测试数据失败: %v", err)
	}
	if err := images.Link(ctx, "article-1", "linked"); err != nil {
		t.Fatalf("写入关联失败: %v", err)
	}

	// 被文章用作缩略图的图片，不应清理
	thumbURL := put("thumbnails/article-1.png")
	if err := images.Insert(ctx, &model.Image{ImageID: "thumb", FileURL: thumbURL, CreatedAt: old}); err != nil {
		t.Fatalf("写入测试数据失败: %v", err)
	}
	if err := articles.Insert(ctx, &model.Article{ArticleID: "article-1", Title: "文", ThumbnailURL: &thumbURL}); err != nil {
		t.Fatalf("写入测试数据失败: %v", err)
	}

	// 超过宽限期的孤儿，应清理
	orphanURL := put("uploads/orphan.png")
	if err := images.Insert(ctx, &model.Image{ImageID: "orphan", FileURL: orphanURL, CreatedAt: old}); err != nil {
		t.Fatalf("写入测试数据失败: %v", err)
	}

	// 宽限期内的孤儿，本轮不清理
	freshURL := put("uploads/fresh.png")
	if err := images.Insert(ctx, &model.Image{ImageID: "fresh", FileURL: freshURL, CreatedAt: time.Now()}); err != nil {
		t.Fatalf("写入测试数据失败: %v", err)
	}

	sweeper := NewSweeper(images, blobs, time.Hour)
	if err := sweeper.SweepOnce(ctx); err != nil {
		t.Fatalf("清理失败: %v", err)
	}

	if _, err := images.Get(ctx, "orphan"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("孤儿图片行应被清理: %v", err)
	}
	if blobs.Exists("uploads/orphan.png") {
		t.Fatalf("孤儿图片对象应被清理")
	}
	for _, id := range []string{"linked", "thumb", "fresh"} {
		if _, err := images.Get(ctx, id); err != nil {
			t.Fatalf("图片 %s 不应被清理: %v", id, err)
		}
	}
	if !blobs.Exists("uploads/linked.png") || !blobs.Exists("thumbnails/article-1.png") || !blobs.Exists("uploads/fresh.png") {
		t.Fatalf("非孤儿对象不应被清理")
	}
}
