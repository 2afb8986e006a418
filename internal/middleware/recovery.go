package middleware

import (
	"net"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/avocadev/blog-api/internal/logger"
	"github.com/avocadev/blog-api/pkg/response"
)

// Recovery panic恢复中间件，panic记入日志后返回统一500响应
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				// 客户端断开导致的写失败不算服务端panic
				var brokenPipe bool
				if ne, ok := err.(*net.OpError); ok {
					if se, ok := ne.Err.(*os.SyscallError); ok {
						msg := strings.ToLower(se.Error())
						brokenPipe = strings.Contains(msg, "broken pipe") ||
							strings.Contains(msg, "connection reset by peer")
					}
				}

				logger.Error("请求处理panic",
					zap.Any("error", err),
					zap.String("path", c.Request.URL.Path),
					zap.String("request_id", c.GetString("requestID")),
					zap.Stack("stacktrace"),
				)

				if brokenPipe {
					c.Abort()
					return
				}
				response.InternalServerError(c, "服务器内部错误", nil)
				c.Abort()
			}
		}()
		c.Next()
	}
}
