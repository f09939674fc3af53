package constants

// 订单状态常量
const (
	OrderStatusPending        = "pending"
	OrderStatusApproved       = "approved"
	OrderStatusReady          = "ready"
	OrderStatusOutForDelivery = "out_for_delivery"
	OrderStatusCollected      = "collected"
	OrderStatusDelivered      = "delivered"
	OrderStatusCanceled       = "canceled"
)

// 配送方式常量
const (
	DeliveryMethodPickup  = "pickup"
	DeliveryMethodCourier = "courier"
)

// 配送记录状态常量
const (
	DeliveryStatusOutForDelivery = "out_for_delivery"
	DeliveryStatusDelivered      = "delivered"
	DeliveryStatusCanceled       = "canceled"
)

// PickupLocation 取货订单的地址哨兵值
const PickupLocation = "pickup"

// 支付方式常量
const (
	PaymentMethodCash    = "cash"
	PaymentMethodMpesa   = "mpesa"
	PaymentMethodEcocash = "ecocash"
)

// 通知接收方类型常量
const (
	RecipientTypeCustomer = "customer"
	RecipientTypeStore    = "store"
	RecipientTypeCourier  = "courier"
	RecipientTypeAdmin    = "admin"
	RecipientTypeStaff    = "staff"
)

// 实时推送事件常量
const (
	PushEventPlaySound   = "play_sound"
	PushEventCartUpdated = "cart_updated"
	PushEventNewOrder    = "new_order"
	PushEventOrderStatus = "order_status"
)

// 推送音效常量
const (
	PushSoundNewOrder    = "new_order"
	PushSoundOrderUpdate = "order_update"
	PushSoundOrderReady  = "order_ready"
)

// 队列与任务常量
const (
	QueueDefault         = "default"
	TaskOrderStatusEmail = "order:status_email"
)

// CourierMaxActiveDeliveries 单个骑手同时在途配送上限
const CourierMaxActiveDeliveries = 5
