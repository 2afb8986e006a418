package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/avocadev/blog-api/internal/dto"
	"github.com/avocadev/blog-api/internal/logger"
	"github.com/avocadev/blog-api/internal/service"
	"github.com/avocadev/blog-api/pkg/response"
)

// SearchApi 全文检索控制器
type SearchApi struct {
	logger        *zap.SugaredLogger
	searchService *service.SearchService
}

// NewSearchApi 创建检索控制器实例
func NewSearchApi(searchService *service.SearchService) *SearchApi {
	return &SearchApi{
		logger:        logger.GetSugaredLogger(),
		searchService: searchService,
	}
}

// Search 关键词检索文章
func (api *SearchApi) Search(c *gin.Context) {
	if api.searchService == nil {
		response.Error(c, http.StatusServiceUnavailable, "搜索功能未启用", nil)
		return
	}

	var req dto.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "缺少搜索关键词", err)
		return
	}
	if req.Page < 1 {
		req.Page = 1
	}

	hits, total, err := api.searchService.Search(c.Request.Context(), req.Keyword, req.Page)
	if err != nil {
		api.logger.Errorf("搜索失败: %v", err)
		response.Error(c, http.StatusInternalServerError, "搜索失败", err)
		return
	}

	response.Success(c, "搜索成功", gin.H{
		"hits":  hits,
		"total": total,
	})
}
