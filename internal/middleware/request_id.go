package middleware

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

// RequestID 请求ID中间件，雪花ID保证多实例下仍然唯一
func RequestID(machineID int64) (gin.HandlerFunc, error) {
	node, err := snowflake.NewNode(machineID)
	if err != nil {
		return nil, fmt.Errorf("初始化雪花节点失败: %v", err)
	}

	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = node.Generate().String()
		}
		c.Set("requestID", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}, nil
}
