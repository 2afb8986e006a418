package controller

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/avocadev/blog-api/internal/logger"
	"github.com/avocadev/blog-api/internal/service"
	"github.com/avocadev/blog-api/pkg/response"
)

// TagApi 标签控制器
type TagApi struct {
	logger         *zap.SugaredLogger
	tagService     *service.TagService
	articleService *service.ArticleService
}

// NewTagApi 创建标签控制器实例
func NewTagApi(tagService *service.TagService, articleService *service.ArticleService) *TagApi {
	return &TagApi{
		logger:         logger.GetSugaredLogger(),
		tagService:     tagService,
		articleService: articleService,
	}
}

// Counts 获取标签统计
func (api *TagApi) Counts(c *gin.Context) {
	counts, err := api.tagService.Counts(c.Request.Context())
	if err != nil {
		api.logger.Errorf("获取标签统计失败: %v", err)
		response.Error(c, http.StatusInternalServerError, "获取标签统计失败", err)
		return
	}
	response.Success(c, "获取成功", counts)
}

// Posts 获取某标签下的文章列表
func (api *TagApi) Posts(c *gin.Context) {
	tag := c.Param("tag")
	if decoded, err := url.QueryUnescape(tag); err == nil {
		tag = decoded
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	data, err := api.articleService.ListByTag(c.Request.Context(), tag, page)
	if err != nil {
		api.logger.Errorf("获取标签文章列表失败: %v", err)
		response.Error(c, http.StatusInternalServerError, "获取标签文章列表失败", err)
		return
	}

	response.SuccessPage(c, "获取成功", data.Posts, response.PageMeta{
		CurrentPage: data.CurrentPage,
		TotalPages:  data.TotalPages,
		Pages:       data.Pages,
		Total:       data.Total,
	})
}
