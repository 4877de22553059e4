package shared

import (
	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/i18n"
	"github.com/storefront-next/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if id := c.GetString("request_id"); id != "" {
		return logger.SW("request_id", id)
	}
	return logger.S()
}

// RespondError 返回国际化错误响应，并在有原始错误时记录日志。
func RespondError(c *gin.Context, code int, key string, err error) {
	msg := i18n.T(i18n.ResolveLocale(c), key)
	logHandlerError(c, code, msg, err)
	response.Error(c, code, msg)
}

// logHandlerError 4xx 记 warn，5xx 记 error
func logHandlerError(c *gin.Context, code int, msg string, err error) {
	if err == nil {
		return
	}
	log := RequestLog(c)
	if code >= response.CodeInternal {
		log.Errorw("handler_error", "code", code, "message", msg, "error", err)
		return
	}
	log.Warnw("handler_error", "code", code, "message", msg, "error", err)
}
