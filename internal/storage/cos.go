package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/tencentyun/cos-go-sdk-v5"

	"github.com/avocadev/blog-api/internal/config"
)

// COSStore 腾讯云COS对象存储实现
type COSStore struct {
	client    *cos.Client
	bucketURL string
}

// NewCOSStore 创建COS存储实例
func NewCOSStore(cfg *config.COSStorage) (*COSStore, error) {
	u, err := url.Parse(cfg.BucketURL)
	if err != nil {
		return nil, fmt.Errorf("解析COS URL失败: %v", err)
	}

	b := &cos.BaseURL{BucketURL: u}
	client := cos.NewClient(b, &http.Client{
		Transport: &cos.AuthorizationTransport{
			SecretID:  cfg.SecretID,
			SecretKey: cfg.SecretKey,
		},
	})

	return &COSStore{
		client:    client,
		bucketURL: strings.TrimRight(cfg.BucketURL, "/"),
	}, nil
}

// Put 上传对象到COS
func (s *COSStore) Put(ctx context.Context, key string, r io.Reader) (string, error) {
	_, err := s.client.Object.Put(ctx, key, r, nil)
	if err != nil {
		return "", fmt.Errorf("上传到腾讯云失败: %v", err)
	}
	return fmt.Sprintf("%s/%s", s.bucketURL, key), nil
}

// Get 从COS读取对象内容
func (s *COSStore) Get(ctx context.Context, key string) ([]byte, error) {
	resp, err := s.client.Object.Get(ctx, key, nil)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("从腾讯云读取失败: %v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("从腾讯云读取失败: %v", err)
	}
	return data, nil
}

// Delete 从COS删除对象，对象不存在时COS返回成功
func (s *COSStore) Delete(ctx context.Context, key string) error {
	_, err := s.client.Object.Delete(ctx, key)
	if err != nil {
		return fmt.Errorf("从腾讯云删除失败: %v", err)
	}
	return nil
}

// Key 从公开URL反推对象路径
func (s *COSStore) Key(publicURL string) string {
	return strings.TrimPrefix(strings.TrimPrefix(publicURL, s.bucketURL), "/")
}
