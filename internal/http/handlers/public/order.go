package public

import (
	"strings"

	handlershared "github.com/storefront-next/internal/http/handlers/shared"
	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ShippingAddressRequest 收货信息
type ShippingAddressRequest struct {
	RecipientName  string `json:"recipient_name"`
	RecipientPhone string `json:"recipient_phone"`
	Address        string `json:"address"`
}

// PaymentRequest 网关回传的支付引用
type PaymentRequest struct {
	GatewayTransactionID string `json:"gateway_transaction_id"`
	MerchantOrderID      string `json:"merchant_order_id"`
	PaidAmount           *int64 `json:"paid_amount"`
	PayMethod            string `json:"pay_method"`
}

// CreateOrderRequest 创建订单请求
// 必填字段由 service 层统一校验，以便返回完整的缺失字段列表
type CreateOrderRequest struct {
	ShippingAddress ShippingAddressRequest `json:"shipping_address"`
	PaymentMethod   string                 `json:"payment_method"`
	Notes           string                 `json:"notes"`
	Payment         *PaymentRequest        `json:"payment"`
}

// CreateOrder 由购物车创建订单
func (h *Handler) CreateOrder(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	input := service.CreateOrderInput{
		UserID: actor.UserID,
		ShippingAddress: models.ShippingAddress{
			RecipientName:  req.ShippingAddress.RecipientName,
			RecipientPhone: req.ShippingAddress.RecipientPhone,
			Address:        req.ShippingAddress.Address,
		},
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	}
	if req.Payment != nil {
		input.Payment = &service.PaymentInput{
			GatewayTransactionID: req.Payment.GatewayTransactionID,
			MerchantOrderID:      req.Payment.MerchantOrderID,
			PaidAmount:           req.Payment.PaidAmount,
			PayMethod:            req.Payment.PayMethod,
		}
	}

	order, err := h.OrderService.CreateOrder(c.Request.Context(), input)
	if err != nil {
		respondOrderError(c, err, "error.order_create_failed")
		return
	}
	response.Success(c, order)
}

// ListOrders 当前用户订单列表；未传 page_size 时返回全部
func (h *Handler) ListOrders(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}

	page := handlershared.PageFromQuery(c, true)
	query := service.OrderListQuery{
		Status:   strings.TrimSpace(c.Query("status")),
		Page:     page.Page,
		PageSize: page.PageSize,
	}

	orders, total, err := h.OrderService.ListForUser(actor, query)
	if err != nil {
		respondOrderError(c, err, "error.order_fetch_failed")
		return
	}
	if !page.Paged {
		response.Success(c, orders)
		return
	}
	response.SuccessWithPage(c, orders, response.BuildPagination(query.Page, query.PageSize, total))
}

// GetOrder 按订单 ID 或订单编号获取订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	order, err := h.OrderService.GetOne(actor, c.Param("id"))
	if err != nil {
		respondOrderError(c, err, "error.order_fetch_failed")
		return
	}
	response.Success(c, order)
}

// CancelOrder 取消订单
func (h *Handler) CancelOrder(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	order, err := h.OrderService.Cancel(actor, c.Param("id"))
	if err != nil {
		respondOrderError(c, err, "error.order_update_failed")
		return
	}
	response.Success(c, order)
}
