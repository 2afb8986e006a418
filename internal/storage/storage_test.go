package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/avocadev/blog-api/internal/config"
)

func TestLocalStoreRoundTrip(t *testing.T) {
	s := NewLocalStore(&config.LocalStorage{
		Path:      t.TempDir(),
		URLPrefix: "http://127.0.0.1:8080/static",
	})
	ctx := context.Background()

	url, err := s.Put(ctx, "posts/abc/index.md", strings.NewReader("# 内容"))
	if err != nil {
		t.Fatalf("Put 失败: %v", err)
	}
	if url != "http://127.0.0.1:8080/static/posts/abc/index.md" {
		t.Fatalf("公开URL不对: %s", url)
	}
	if got := s.Key(url); got != "posts/abc/index.md" {
		t.Fatalf("Key 反推不对: %s", got)
	}

	data, err := s.Get(ctx, "posts/abc/index.md")
	if err != nil {
		t.Fatalf("Get 失败: %v", err)
	}
	if string(data) != "# 内容" {
		t.Fatalf("内容不一致: %s", data)
	}

	if err := s.Delete(ctx, "posts/abc/index.md"); err != nil {
		t.Fatalf("Delete 失败: %v", err)
	}
	if _, err := s.Get(ctx, "posts/abc/index.md"); !errors.Is(err, ErrObjectNotFound) {
		t.Fatalf("删除后应返回对象不存在: %v", err)
	}
	// 重复删除视为成功
	if err := s.Delete(ctx, "posts/abc/index.md"); err != nil {
		t.Fatalf("重复删除不应报错: %v", err)
	}
}

func TestLocalStoreRejectsEscapingKey(t *testing.T) {
	base := t.TempDir()
	s := NewLocalStore(&config.LocalStorage{
		Path:      base,
		URLPrefix: "http://127.0.0.1:8080/static",
	})
	ctx := context.Background()

	for _, key := range []string{"../pwned.png", "uploads/../../pwned.png", ".."} {
		if _, err := s.Put(ctx, key, strings.NewReader("x")); err == nil {
			t.Fatalf("越界路径 %q 不应写入成功", key)
		}
		if _, err := s.Get(ctx, key); err == nil {
			t.Fatalf("越界路径 %q 不应读取成功", key)
		}
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(base), "pwned.png")); !os.IsNotExist(err) {
		t.Fatalf("基目录之外不应出现文件: %v", err)
	}

	// 路径中带 .. 但未越界的合法对象不受影响
	if _, err := s.Put(ctx, "uploads/a/../b.png", strings.NewReader("x")); err != nil {
		t.Fatalf("未越界的路径不应被拒绝: %v", err)
	}
}

func TestMemoryStoreKey(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	url, err := s.Put(ctx, "uploads/x.png", strings.NewReader("png"))
	if err != nil {
		t.Fatalf("Put 失败: %v", err)
	}
	if got := s.Key(url); got != "uploads/x.png" {
		t.Fatalf("Key 反推不对: %s", got)
	}
	if _, err := s.Get(ctx, "uploads/missing.png"); !errors.Is(err, ErrObjectNotFound) {
		t.Fatalf("缺失对象应返回对象不存在: %v", err)
	}
}
