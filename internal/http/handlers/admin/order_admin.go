package admin

import (
	"strconv"
	"strings"
	"time"

	handlershared "github.com/storefront-next/internal/http/handlers/shared"
	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/service"

	"github.com/gin-gonic/gin"
)

// UpdateOrderStatusRequest 更新订单状态请求
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

const dateOnlyLayout = "2006-01-02"

// parseCreatedBound 支持 RFC3339 与 YYYY-MM-DD（按服务器时区）；日期作为上界时取当天最后一刻
func parseCreatedBound(raw string, upper bool) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	day, err := time.ParseInLocation(dateOnlyLayout, raw, time.Local)
	if err != nil {
		return nil, err
	}
	if upper {
		day = day.Add(24*time.Hour - time.Nanosecond)
	}
	return &day, nil
}

// ListOrders 管理端订单列表，支持 status / user_id / order_no / 创建时间过滤
func (h *Handler) ListOrders(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}

	pageQuery := handlershared.PageFromQuery(c, false)
	page, pageSize := pageQuery.Page, pageQuery.PageSize

	query := service.OrderListQuery{
		Status:   strings.TrimSpace(c.Query("status")),
		OrderNo:  strings.TrimSpace(c.Query("order_no")),
		Page:     page,
		PageSize: pageSize,
	}
	if raw := strings.TrimSpace(c.Query("user_id")); raw != "" {
		userID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || userID == 0 {
			respondError(c, response.CodeBadRequest, "error.user_id_invalid", nil)
			return
		}
		query.UserID = uint(userID)
	}
	var err error
	if query.CreatedFrom, err = parseCreatedBound(c.Query("created_from"), false); err != nil {
		respondError(c, response.CodeBadRequest, "error.date_invalid", err)
		return
	}
	if query.CreatedTo, err = parseCreatedBound(c.Query("created_to"), true); err != nil {
		respondError(c, response.CodeBadRequest, "error.date_invalid", err)
		return
	}

	orders, total, err := h.OrderService.ListAll(actor, query)
	if err != nil {
		respondOrderError(c, err, "error.order_fetch_failed")
		return
	}
	response.SuccessWithPage(c, orders, response.BuildPagination(page, pageSize, total))
}

// GetOrder 获取订单详情
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

// UpdateOrderStatus 管理员覆写订单状态
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	order, err := h.OrderService.SetStatus(actor, c.Param("id"), req.Status)
	if err != nil {
		respondOrderError(c, err, "error.order_update_failed")
		return
	}
	response.Success(c, order)
}

// CancelOrder 管理员取消订单
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
