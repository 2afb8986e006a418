package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/avocadev/blog-api/internal/dto"
	"github.com/avocadev/blog-api/internal/logger"
	"github.com/avocadev/blog-api/internal/service"
	"github.com/avocadev/blog-api/pkg/response"
)

// ImageApi 图片控制器
type ImageApi struct {
	logger       *zap.SugaredLogger
	imageService *service.ImageService
}

// NewImageApi 创建图片控制器实例
func NewImageApi(imageService *service.ImageService) *ImageApi {
	return &ImageApi{
		logger:       logger.GetSugaredLogger(),
		imageService: imageService,
	}
}

// Upload 编辑器粘贴图片时的独立上传
func (api *ImageApi) Upload(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "未授权", err)
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		response.BadRequest(c, "请选择要上传的图片", err)
		return
	}
	imageID := c.PostForm("id")

	fileURL, err := api.imageService.Upload(c.Request.Context(), userID, imageID, file)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			response.BadRequest(c, "图片校验失败", err)
			return
		}
		api.logger.Errorf("上传图片失败: %v", err)
		response.Error(c, http.StatusInternalServerError, "上传图片失败", err)
		return
	}

	response.Success(c, "上传成功", dto.UploadResponse{URL: fileURL})
}
