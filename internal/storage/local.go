package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/avocadev/blog-api/internal/config"
)

// LocalStore 本地磁盘对象存储实现
type LocalStore struct {
	basePath  string
	urlPrefix string
}

// NewLocalStore 创建本地存储实例
func NewLocalStore(cfg *config.LocalStorage) *LocalStore {
	return &LocalStore{
		basePath:  cfg.Path,
		urlPrefix: strings.TrimRight(cfg.URLPrefix, "/"),
	}
}

// resolve 把对象路径映射为磁盘路径，拒绝越出基目录的路径
func (s *LocalStore) resolve(key string) (string, error) {
	base := filepath.Clean(s.basePath)
	filePath := filepath.Join(base, filepath.FromSlash(key))
	rel, err := filepath.Rel(base, filePath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("对象路径越出存储目录: %s", key)
	}
	return filePath, nil
}

// Put 保存对象到本地磁盘
func (s *LocalStore) Put(ctx context.Context, key string, r io.Reader) (string, error) {
	filePath, err := s.resolve(key)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return "", fmt.Errorf("创建上传目录失败: %v", err)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("读取文件数据失败: %v", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", fmt.Errorf("保存文件失败: %v", err)
	}

	return fmt.Sprintf("%s/%s", s.urlPrefix, key), nil
}

// Get 读取本地对象内容
func (s *LocalStore) Get(ctx context.Context, key string) ([]byte, error) {
	filePath, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrObjectNotFound
		}
		return nil, err
	}
	return data, nil
}

// Delete 删除本地对象，不存在视为成功
func (s *LocalStore) Delete(ctx context.Context, key string) error {
	filePath, err := s.resolve(key)
	if err != nil {
		return err
	}
	err = os.Remove(filePath)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Key 从公开URL反推对象路径
func (s *LocalStore) Key(publicURL string) string {
	return strings.TrimPrefix(strings.TrimPrefix(publicURL, s.urlPrefix), "/")
}
