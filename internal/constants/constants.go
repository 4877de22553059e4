package constants

// 订单状态常量（对外协议字符串，不可更改）
const (
	OrderStatusPending       = "pending"
	OrderStatusConfirmed     = "confirmed"
	OrderStatusPreparing     = "preparing"
	OrderStatusShippingStart = "shipping_start"
	OrderStatusShipping      = "shipping"
	OrderStatusDelivered     = "delivered"
	OrderStatusCancelled     = "cancelled"
)

// OrderStatuses 全部订单状态，按履约流程排列
var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusPreparing,
	OrderStatusShippingStart,
	OrderStatusShipping,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// 支付方式常量
const (
	PaymentMethodCard         = "card"
	PaymentMethodBankTransfer = "bank_transfer"
)

// 支付核验策略
const (
	VerificationPolicyStrict     = "strict"
	VerificationPolicyPermissive = "permissive"
)

// 网关支付状态
const (
	GatewayPaymentStatusPaid      = "paid"
	GatewayPaymentStatusReady     = "ready"
	GatewayPaymentStatusFailed    = "failed"
	GatewayPaymentStatusCancelled = "cancelled"
)

// 价格常量（单位：元，整数金额）
const (
	FreeShippingThreshold int64 = 50000
	FlatShippingFee       int64 = 3000
)

// 订单编号常量
const (
	OrderNumberPrefix            = "ORD"
	OrderNumberSuffixDigits      = 4
	DefaultOrderNumberMaxAttempt = 5
)

// 角色常量
const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// 队列名称
const (
	QueueDefault  = "default"
	QueueCritical = "critical"
)

// 异步任务类型
const (
	TaskCartClear = "cart:clear"
)
