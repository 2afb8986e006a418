package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// MemoryStore 内存对象存储实现，供测试替换真实后端
type MemoryStore struct {
	mu        sync.RWMutex
	objects   map[string][]byte
	urlPrefix string
}

// NewMemoryStore 创建内存存储实例
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		objects:   make(map[string][]byte),
		urlPrefix: "https://storage.example.com",
	}
}

// Put 保存对象到内存
func (s *MemoryStore) Put(ctx context.Context, key string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.objects[key] = data
	s.mu.Unlock()

	return fmt.Sprintf("%s/%s", s.urlPrefix, key), nil
}

// Get 读取内存对象内容
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.objects[key]
	if !ok {
		return nil, ErrObjectNotFound
	}
	return data, nil
}

// Delete 删除内存对象，不存在视为成功
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.objects, key)
	s.mu.Unlock()
	return nil
}

// Key 从公开URL反推对象路径
func (s *MemoryStore) Key(publicURL string) string {
	return strings.TrimPrefix(strings.TrimPrefix(publicURL, s.urlPrefix), "/")
}

// Exists 判断对象是否存在
func (s *MemoryStore) Exists(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[key]
	return ok
}

// Len 返回对象数量
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
