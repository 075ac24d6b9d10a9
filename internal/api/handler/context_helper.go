package handler

import (
	"github.com/gin-gonic/gin"

	"academic-integrity/backend/internal/api/middleware"
	"academic-integrity/backend/pkg/response"
	"academic-integrity/backend/pkg/session"
)

// MustGetSession 从 Gin 上下文中安全提取 LTI 会话。
// 如果会话中间件未正确注入会话，返回 false 并写入 500 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetSession(c *gin.Context) (*session.Session, bool) {
	v, exists := c.Get(middleware.SessionKey)
	if !exists {
		response.SessionError(c, 10006, "会话不存在，请从 LMS 重新启动")
		return nil, false
	}
	sess, ok := v.(*session.Session)
	if !ok || sess == nil {
		response.SessionError(c, 10006, "会话不存在，请从 LMS 重新启动")
		return nil, false
	}
	return sess, true
}
