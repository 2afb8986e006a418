package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/avocadev/blog-api/internal/logger"
	"github.com/avocadev/blog-api/internal/service"
	"github.com/avocadev/blog-api/internal/storage"
	"github.com/avocadev/blog-api/internal/store"
	"github.com/avocadev/blog-api/pkg/response"
)

// ArticleApi 文章控制器
type ArticleApi struct {
	logger         *zap.SugaredLogger
	articleService *service.ArticleService
}

// NewArticleApi 创建文章控制器实例
func NewArticleApi(articleService *service.ArticleService) *ArticleApi {
	return &ArticleApi{
		logger:         logger.GetSugaredLogger(),
		articleService: articleService,
	}
}

// List 分页获取文章列表
func (api *ArticleApi) List(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	data, err := api.articleService.List(c.Request.Context(), page)
	if err != nil {
		api.logger.Errorf("获取文章列表失败: %v", err)
		response.Error(c, http.StatusInternalServerError, "获取文章列表失败", err)
		return
	}

	response.SuccessPage(c, "获取成功", data.Posts, response.PageMeta{
		CurrentPage: data.CurrentPage,
		TotalPages:  data.TotalPages,
		Pages:       data.Pages,
		Total:       data.Total,
	})
}

// Detail 获取文章详情
func (api *ArticleApi) Detail(c *gin.Context) {
	slug := c.Param("slug")

	detail, err := api.articleService.GetDetail(c.Request.Context(), slug)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) || errors.Is(err, store.ErrNotFound) {
			response.NotFound(c, "文章不存在", err)
			return
		}
		api.logger.Errorf("获取文章详情失败: %v", err)
		response.Error(c, http.StatusInternalServerError, "获取文章详情失败", err)
		return
	}

	response.Success(c, "获取成功", detail)
}

// Create 创建文章
func (api *ArticleApi) Create(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "未授权", err)
		return
	}

	cmd, err := parseCreateForm(c)
	if err != nil {
		response.BadRequest(c, "参数错误", err)
		return
	}

	slug, err := api.articleService.Create(c.Request.Context(), userID, cmd)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			response.BadRequest(c, "标题和正文不能为空", err)
			return
		}
		api.logger.Errorf("创建文章失败: %v", err)
		response.Error(c, http.StatusInternalServerError, "创建文章失败", err)
		return
	}

	response.Success(c, "创建成功", gin.H{"slug": slug})
}

// Update 更新文章
func (api *ArticleApi) Update(c *gin.Context) {
	if _, err := getUserIDFromContext(c); err != nil {
		response.Unauthorized(c, "未授权", err)
		return
	}

	cmd, err := parseUpdateForm(c, c.Param("slug"))
	if err != nil {
		response.BadRequest(c, "参数错误", err)
		return
	}

	if err := api.articleService.Update(c.Request.Context(), cmd); err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			response.BadRequest(c, "标题和正文不能为空", err)
		case errors.Is(err, store.ErrNotFound):
			response.NotFound(c, "文章不存在", err)
		default:
			api.logger.Errorf("更新文章失败: %v", err)
			response.Error(c, http.StatusInternalServerError, "更新文章失败", err)
		}
		return
	}

	response.Success(c, "更新成功", gin.H{"slug": cmd.Slug})
}

// Delete 删除文章
func (api *ArticleApi) Delete(c *gin.Context) {
	if _, err := getUserIDFromContext(c); err != nil {
		response.Unauthorized(c, "未授权", err)
		return
	}

	slug := c.Param("slug")
	if err := api.articleService.Delete(c.Request.Context(), slug); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			response.NotFound(c, "文章不存在", err)
			return
		}
		api.logger.Errorf("删除文章失败: %v", err)
		response.Error(c, http.StatusInternalServerError, "删除文章失败", err)
		return
	}

	response.Success(c, "删除成功", nil)
}
