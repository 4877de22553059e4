package public

import (
	"github.com/storefront-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetCart 获取购物车（当前目录价格与计价汇总）
func (h *Handler) GetCart(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	view, err := h.CartService.GetCartView(actor.UserID)
	if err != nil {
		respondOrderError(c, err, "error.cart_fetch_failed")
		return
	}
	response.Success(c, view)
}

// GetCheckoutSummary 结算预览，客户端按 grand_total 向网关扣款
func (h *Handler) GetCheckoutSummary(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	summary, err := h.CartService.GetCheckoutSummary(actor.UserID)
	if err != nil {
		respondOrderError(c, err, "error.cart_fetch_failed")
		return
	}
	response.Success(c, summary)
}
