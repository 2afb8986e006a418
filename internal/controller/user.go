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

// UserApi 用户控制器
type UserApi struct {
	logger      *zap.SugaredLogger
	userService *service.UserService
}

// NewUserApi 创建用户控制器实例
func NewUserApi(userService *service.UserService) *UserApi {
	return &UserApi{
		logger:      logger.GetSugaredLogger(),
		userService: userService,
	}
}

// Login 用户登录
func (api *UserApi) Login(c *gin.Context) {
	var req dto.UserLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误", err)
		return
	}

	result, err := api.userService.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Unauthorized(c, "邮箱或密码错误", err)
			return
		}
		api.logger.Errorf("登录失败: %v", err)
		response.Error(c, http.StatusInternalServerError, "登录失败", err)
		return
	}

	response.Success(c, "登录成功", result)
}
