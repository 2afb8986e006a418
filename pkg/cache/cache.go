package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss 缓存未命中
var ErrCacheMiss = errors.New("缓存未命中")

// Cache 缓存接口
type Cache interface {
	// Get 获取缓存，未命中返回 ErrCacheMiss
	Get(ctx context.Context, key string) (string, error)

	// Set 设置缓存
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error

	// Delete 删除缓存
	Delete(ctx context.Context, keys ...string) error

	// GetJSON 获取JSON格式的缓存并反序列化
	GetJSON(ctx context.Context, key string, dest interface{}) error

	// SetJSON 序列化为JSON并设置缓存
	SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error

	// Close 关闭连接
	Close() error
}

// 缓存键名常量
const (
	PostDetailKey      = "post:detail:%s"   // 文章详情，参数为 slug
	PostListKey        = "post:list:%d:%d"  // 文章列表，参数为版本号和页码
	PostListVersionKey = "post:list:version" // 列表缓存版本号，写操作递增使所有页失效
	TagCountKey        = "tag:counts"       // 标签统计
)

// 缓存过期时间常量
const (
	PostDetailExpiration = 30 * time.Minute
	PostListExpiration   = 10 * time.Minute
	TagCountExpiration   = 30 * time.Minute
)
