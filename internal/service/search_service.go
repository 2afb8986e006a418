package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/avocadev/blog-api/internal/dto"
	"github.com/avocadev/blog-api/internal/model"
)

// SearchService 全文检索服务，Elasticsearch 未启用时为 nil
type SearchService struct {
	client *elasticsearch.Client
}

// NewSearchService 创建搜索服务，client 为 nil 时返回 nil
func NewSearchService(client *elasticsearch.Client) *SearchService {
	if client == nil {
		return nil
	}
	return &SearchService{client: client}
}

// IndexArticle 写入或覆盖搜索文档
func (s *SearchService) IndexArticle(ctx context.Context, doc *model.ESArticle) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	req := esapi.IndexRequest{
		Index:      doc.ESIndexName(),
		DocumentID: doc.ID,
		Body:       strings.NewReader(string(data)),
		Refresh:    "true",
	}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("写入搜索文档失败: %s", res.String())
	}
	return nil
}

// DeleteArticle 删除搜索文档，文档不存在视为成功
func (s *SearchService) DeleteArticle(ctx context.Context, articleID string) error {
	req := esapi.DeleteRequest{
		Index:      "articles",
		DocumentID: articleID,
		Refresh:    "true",
	}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("删除搜索文档失败: %s", res.String())
	}
	return nil
}

// Search 按关键词检索已发布文章
func (s *SearchService) Search(ctx context.Context, keyword string, page int) ([]dto.SearchHit, int64, error) {
	if page < 1 {
		page = 1
	}

	var buf bytes.Buffer
	query := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": []map[string]interface{}{
					{
						"multi_match": map[string]interface{}{
							"query":  keyword,
							"fields": []string{"title^3", "content^2", "tags"},
							"type":   "best_fields",
						},
					},
					{
						"term": map[string]interface{}{
							"status": "published",
						},
					},
				},
			},
		},
		"highlight": map[string]interface{}{
			"fields": map[string]interface{}{
				"content": map[string]interface{}{},
			},
			"pre_tags":            []string{"<em>"},
			"post_tags":           []string{"</em>"},
			"fragment_size":       150,
			"number_of_fragments": 1,
		},
		"from": (page - 1) * PageSize,
		"size": PageSize,
		"sort": []map[string]interface{}{
			{"_score": map[string]interface{}{"order": "desc"}},
			{"created_at": map[string]interface{}{"order": "desc"}},
		},
	}
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return nil, 0, err
	}

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex("articles"),
		s.client.Search.WithBody(&buf),
		s.client.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return nil, 0, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, 0, fmt.Errorf("搜索请求失败: %s", res.String())
	}

	var result struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source    model.ESArticle     `json:"_source"`
				Highlight map[string][]string `json:"highlight"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, 0, err
	}

	hits := make([]dto.SearchHit, 0, len(result.Hits.Hits))
	for _, hit := range result.Hits.Hits {
		item := dto.SearchHit{
			Slug:      hit.Source.ArticleID,
			Title:     hit.Source.Title,
			Tags:      hit.Source.Tags,
			CreatedAt: hit.Source.CreatedAt.Format("2006-01-02"),
		}
		if fragments, ok := hit.Highlight["content"]; ok && len(fragments) > 0 {
			item.Fragment = fragments[0]
		}
		hits = append(hits, item)
	}
	return hits, result.Hits.Total.Value, nil
}
