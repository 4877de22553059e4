package i18n

var messages = map[string]map[string]string{
	LocaleEN: {
		"error.bad_request":                 "Invalid request parameters",
		"error.validation_failed":           "Missing or invalid fields: %s",
		"error.unauthorized":                "Unauthorized",
		"error.forbidden":                   "Forbidden",
		"error.auth_header_missing":         "Authorization header is missing",
		"error.auth_header_invalid":         "Authorization header is invalid",
		"error.token_invalid":               "Token is invalid or expired",
		"error.jwt_secret_missing":          "Authentication is not configured",
		"error.user_id_invalid":             "User id is invalid",
		"error.date_invalid":                "Date must be RFC3339 or YYYY-MM-DD",
		"error.user_id_type_invalid":        "User id type is invalid",
		"error.cart_empty":                  "Your cart is empty",
		"error.cart_fetch_failed":           "Failed to load cart",
		"error.product_not_available":       "A product in your cart is no longer available",
		"error.pricing_invalid":             "Cart contains invalid items",
		"error.order_duplicate":             "An order already exists for this payment",
		"error.payment_verification_failed": "Payment could not be verified",
		"error.order_number_exhausted":      "Could not allocate an order number, please retry",
		"error.order_create_failed":         "Failed to create order",
		"error.order_not_found":             "Order not found",
		"error.order_fetch_failed":          "Failed to load orders",
		"error.order_status_invalid":        "Order status is invalid",
		"error.order_cancel_not_allowed":    "Order already confirmed/shipped cannot be cancelled",
		"error.order_update_failed":         "Failed to update order",
		"error.rate_limited":                "Too many requests, retry in %d seconds",
		"error.rate_limit_unavailable":      "Rate limiter unavailable",
		"error.not_found":                   "Resource not found",
	},
	LocaleKO: {
		"error.bad_request":                 "요청 파라미터가 올바르지 않습니다",
		"error.validation_failed":           "누락되었거나 올바르지 않은 항목: %s",
		"error.unauthorized":                "인증이 필요합니다",
		"error.forbidden":                   "권한이 없습니다",
		"error.auth_header_missing":         "Authorization 헤더가 없습니다",
		"error.auth_header_invalid":         "Authorization 헤더 형식이 올바르지 않습니다",
		"error.token_invalid":               "토큰이 유효하지 않거나 만료되었습니다",
		"error.jwt_secret_missing":          "인증 설정이 되어 있지 않습니다",
		"error.user_id_invalid":             "사용자 ID가 올바르지 않습니다",
		"error.date_invalid":                "날짜는 RFC3339 또는 YYYY-MM-DD 형식이어야 합니다",
		"error.user_id_type_invalid":        "사용자 ID 형식이 올바르지 않습니다",
		"error.cart_empty":                  "장바구니가 비어 있습니다",
		"error.cart_fetch_failed":           "장바구니를 불러오지 못했습니다",
		"error.product_not_available":       "장바구니의 상품 중 판매가 중지된 상품이 있습니다",
		"error.pricing_invalid":             "장바구니에 올바르지 않은 상품이 있습니다",
		"error.order_duplicate":             "이미 해당 결제로 생성된 주문이 있습니다",
		"error.payment_verification_failed": "결제를 확인할 수 없습니다",
		"error.order_number_exhausted":      "주문번호를 생성하지 못했습니다. 다시 시도해 주세요",
		"error.order_create_failed":         "주문 생성에 실패했습니다",
		"error.order_not_found":             "주문을 찾을 수 없습니다",
		"error.order_fetch_failed":          "주문을 불러오지 못했습니다",
		"error.order_status_invalid":        "주문 상태가 올바르지 않습니다",
		"error.order_cancel_not_allowed":    "이미 확정되었거나 배송 중인 주문은 취소할 수 없습니다",
		"error.order_update_failed":         "주문 수정에 실패했습니다",
		"error.rate_limited":                "요청이 너무 많습니다. %d초 후 다시 시도해 주세요",
		"error.rate_limit_unavailable":      "요청 제한 기능을 사용할 수 없습니다",
		"error.not_found":                   "리소스를 찾을 수 없습니다",
	},
	LocaleZH: {
		"error.bad_request":                 "请求参数错误",
		"error.validation_failed":           "字段缺失或不合法：%s",
		"error.unauthorized":                "未登录或登录已失效",
		"error.forbidden":                   "无权访问",
		"error.auth_header_missing":         "缺少 Authorization 请求头",
		"error.auth_header_invalid":         "Authorization 请求头格式错误",
		"error.token_invalid":               "令牌无效或已过期",
		"error.jwt_secret_missing":          "鉴权未配置",
		"error.user_id_invalid":             "用户 ID 无效",
		"error.date_invalid":                "日期格式应为 RFC3339 或 YYYY-MM-DD",
		"error.user_id_type_invalid":        "用户 ID 类型错误",
		"error.cart_empty":                  "购物车为空",
		"error.cart_fetch_failed":           "获取购物车失败",
		"error.product_not_available":       "购物车中有商品已下架",
		"error.pricing_invalid":             "购物车中存在无效商品",
		"error.order_duplicate":             "该支付已生成订单",
		"error.payment_verification_failed": "支付核验未通过",
		"error.order_number_exhausted":      "订单号生成失败，请重试",
		"error.order_create_failed":         "创建订单失败",
		"error.order_not_found":             "订单不存在",
		"error.order_fetch_failed":          "获取订单失败",
		"error.order_status_invalid":        "订单状态无效",
		"error.order_cancel_not_allowed":    "订单已确认或已发货，无法取消",
		"error.order_update_failed":         "更新订单失败",
		"error.rate_limited":                "请求过于频繁，请 %d 秒后重试",
		"error.rate_limit_unavailable":      "限流服务不可用",
		"error.not_found":                   "资源不存在",
	},
}
