package service

import "errors"

// 业务错误定义，HTTP 层统一映射为响应码
var (
	ErrStoreNotFound         = errors.New("store not found")
	ErrStoreNotVerified      = errors.New("store not verified")
	ErrProductNotFound       = errors.New("product not found")
	ErrProductNotAvailable   = errors.New("product not available")
	ErrCustomMealNotFound    = errors.New("custom meal not found")
	ErrCartItemNotFound      = errors.New("cart item not found")
	ErrCartItemInvalid       = errors.New("cart item invalid")
	ErrCartEmpty             = errors.New("cart is empty")
	ErrOrderNotFound         = errors.New("order not found")
	ErrPendingOrderExists    = errors.New("pending order already exists for this store")
	ErrPaymentProofRequired  = errors.New("payment proof required")
	ErrDeliveryMethodInvalid = errors.New("unknown delivery method")
	ErrLocationRequired      = errors.New("delivery location required")
	ErrInvalidStatus         = errors.New("unknown order status")
	ErrInvalidTransition     = errors.New("invalid status transition")
	ErrDeliveryNotFound      = errors.New("delivery not found")
	ErrDeliveryFinished      = errors.New("delivery already finished")
	ErrAlreadyClaimed        = errors.New("order already claimed")
	ErrCourierAtCapacity     = errors.New("courier active delivery limit reached")
	ErrCourierNotFound       = errors.New("courier not found")
	ErrNotificationNotFound  = errors.New("notification not found")
	ErrRecipientInvalid      = errors.New("recipient invalid")
)
