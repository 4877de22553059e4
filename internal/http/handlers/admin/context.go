package admin

import (
	handlershared "github.com/storefront-next/internal/http/handlers/shared"
	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/service"

	"github.com/gin-gonic/gin"
)

func getActor(c *gin.Context) (service.Actor, bool) {
	return handlershared.GetActor(c)
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func respondOrderError(c *gin.Context, err error, fallbackKey string) {
	handlershared.RespondMappedError(c, err, handlershared.OrderErrorRules, response.CodeInternal, fallbackKey)
}
