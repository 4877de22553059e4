package shared

import (
	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/service"

	"github.com/gin-gonic/gin"
)

// 身份中间件写入的上下文 key
const (
	ContextUserIDKey  = "user_id"
	ContextIsAdminKey = "is_admin"
)

// GetContextUintWithKeys 从上下文读取 uint 值并统一处理错误响应。
func GetContextUintWithKeys(c *gin.Context, key, invalidKey, typeInvalidKey string) (uint, bool) {
	value, exists := c.Get(key)
	if !exists {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		if v == 0 {
			RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
			return 0, false
		}
		return v, true
	case int:
		if v <= 0 {
			RespondError(c, response.CodeBadRequest, invalidKey, nil)
			return 0, false
		}
		return uint(v), true
	case float64:
		if v <= 0 {
			RespondError(c, response.CodeBadRequest, invalidKey, nil)
			return 0, false
		}
		return uint(v), true
	default:
		RespondError(c, response.CodeInternal, typeInvalidKey, nil)
		return 0, false
	}
}

// GetActor 读取上游认证层解析出的调用方身份
func GetActor(c *gin.Context) (service.Actor, bool) {
	uid, ok := GetContextUintWithKeys(c, ContextUserIDKey, "error.user_id_invalid", "error.user_id_type_invalid")
	if !ok {
		return service.Actor{}, false
	}
	return service.Actor{UserID: uid, IsAdmin: c.GetBool(ContextIsAdminKey)}, true
}
