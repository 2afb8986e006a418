package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/avocadev/blog-api/internal/config"
)

// ErrObjectNotFound 对象不存在
var ErrObjectNotFound = errors.New("对象不存在")

// ObjectStore 对象存储能力接口
// 文章工作流只依赖该接口，便于在测试中替换为内存实现
type ObjectStore interface {
	// Put 上传对象，返回公开访问URL
	Put(ctx context.Context, key string, r io.Reader) (string, error)
	// Get 读取对象内容，对象不存在时返回ErrObjectNotFound
	Get(ctx context.Context, key string) ([]byte, error)
	// Delete 删除对象，对象不存在视为成功
	Delete(ctx context.Context, key string) error
	// Key 从公开URL反推对象路径
	Key(publicURL string) string
}

// New 根据配置创建对象存储实例
func New(cfg *config.StorageConfig) (ObjectStore, error) {
	switch cfg.Type {
	case "cos":
		return NewCOSStore(&cfg.COS)
	case "local":
		return NewLocalStore(&cfg.Local), nil
	default:
		return nil, fmt.Errorf("未知的存储类型: %s", cfg.Type)
	}
}
