package router

import (
	"github.com/gin-gonic/gin"

	"github.com/avocadev/blog-api/internal/config"
	"github.com/avocadev/blog-api/internal/controller"
	"github.com/avocadev/blog-api/internal/logger"
	"github.com/avocadev/blog-api/internal/middleware"
	"github.com/avocadev/blog-api/internal/service"
)

// Services 路由依赖的服务集合
type Services struct {
	Article *service.ArticleService
	Tag     *service.TagService
	Image   *service.ImageService
	User    *service.UserService
	Search  *service.SearchService
}

// Setup 设置API路由
func Setup(r *gin.Engine, svcs *Services) error {
	cfg := config.GetConfig()

	requestID, err := middleware.RequestID(cfg.App.MachineID)
	if err != nil {
		return err
	}
	r.Use(requestID)
	r.Use(logger.GinLogger())
	r.Use(middleware.Recovery())

	// 本地存储时直接提供静态文件访问
	if cfg.Storage.Type == "local" {
		r.Static("/static", cfg.Storage.Local.Path)
	}

	api := r.Group("/api")

	articleApi := controller.NewArticleApi(svcs.Article)
	tagApi := controller.NewTagApi(svcs.Tag, svcs.Article)
	imageApi := controller.NewImageApi(svcs.Image)
	userApi := controller.NewUserApi(svcs.User)
	searchApi := controller.NewSearchApi(svcs.Search)

	// 公开路由
	posts := api.Group("/posts")
	{
		posts.GET("", articleApi.List)
		posts.GET("/search", searchApi.Search)
		posts.GET("/:slug", articleApi.Detail)
	}

	tags := api.Group("/tags")
	{
		tags.GET("", tagApi.Counts)
		tags.GET("/:tag", tagApi.Posts)
	}

	api.POST("/users/login", userApi.Login)

	// 需要认证的路由
	authed := api.Group("", middleware.JWTAuth())
	{
		authed.POST("/posts", articleApi.Create)
		authed.PUT("/posts/:slug", articleApi.Update)
		authed.DELETE("/posts/:slug", articleApi.Delete)
		authed.POST("/upload", imageApi.Upload)
	}

	return nil
}
