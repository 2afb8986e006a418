package database

import (
	"fmt"
	"sync"

	"github.com/elastic/go-elasticsearch/v8"
	"go.uber.org/zap"

	"github.com/avocadev/blog-api/internal/config"
	"github.com/avocadev/blog-api/internal/logger"
)

var (
	esClient *elasticsearch.Client
	esOne    sync.Once
)

// InitElasticsearch 初始化Elasticsearch连接
func InitElasticsearch() (*elasticsearch.Client, error) {
	cfg := config.GlobalConfig.Elasticsearch

	esConfig := elasticsearch.Config{
		Addresses: cfg.URLs,
	}

	// 如果设置了用户名和密码，则添加基本认证
	if cfg.Username != "" && cfg.Password != "" {
		esConfig.Username = cfg.Username
		esConfig.Password = cfg.Password
	}

	client, err := elasticsearch.NewClient(esConfig)
	if err != nil {
		return nil, fmt.Errorf("连接elasticsearch失败: %v", err)
	}

	info, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("elasticsearch健康检查失败: %v", err)
	}
	defer info.Body.Close()

	logger.Info("elasticsearch连接成功", zap.Strings("addresses", cfg.URLs))
	return client, nil
}

// GetES 获取Elasticsearch客户端实例，未启用时返回nil
func GetES() *elasticsearch.Client {
	if !config.GlobalConfig.Elasticsearch.Enabled {
		return nil
	}
	var err error
	esOne.Do(func() {
		esClient, err = InitElasticsearch()
		if err != nil {
			panic(fmt.Sprintf("elasticsearch初始化失败: %v", err))
		}
	})
	return esClient
}
