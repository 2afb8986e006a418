package model

import "time"

// ESArticle Elasticsearch文章文档模型
type ESArticle struct {
	ID        string    `json:"id"`         // ES文档ID，与文章ID一致
	ArticleID string    `json:"article_id"` // MySQL中的文章ID
	Title     string    `json:"title"`      // 文章标题（用于搜索）
	Content   string    `json:"content"`    // 文章正文（核心搜索内容）
	Tags      []string  `json:"tags"`       // 标签列表（用于过滤和搜索）
	Status    string    `json:"status"`     // 状态(draft/published)（用于过滤）
	CreatedAt time.Time `json:"created_at"` // 创建时间（用于排序）
	UpdatedAt time.Time `json:"updated_at"` // 更新时间
}

// ESIndexName 返回ES索引名称
func (ESArticle) ESIndexName() string {
	return "articles"
}

// ESMapping 返回ES索引映射
func (ESArticle) ESMapping() string {
	return `{
		"settings": {
			"number_of_shards": 1,
			"number_of_replicas": 1,
			"analysis": {
				"analyzer": {
					"text_analyzer": {
						"type": "custom",
						"tokenizer": "standard",
						"char_filter": ["html_strip"],
						"filter": ["lowercase", "asciifolding"]
					}
				}
			}
		},
		"mappings": {
			"properties": {
				"id": { "type": "keyword" },
				"article_id": { "type": "keyword" },
				"title": {
					"type": "text",
					"analyzer": "text_analyzer",
					"fields": {
						"keyword": { "type": "keyword" }
					}
				},
				"content": {
					"type": "text",
					"analyzer": "text_analyzer"
				},
				"tags": { "type": "keyword" },
				"status": { "type": "keyword" },
				"created_at": { "type": "date" },
				"updated_at": { "type": "date" }
			}
		}
	}`
}
