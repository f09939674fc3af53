package api

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/smarteats-next/internal/http/response"
	"github.com/smarteats-next/internal/logger"
	"github.com/smarteats-next/internal/service"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target  error
	code    int
	message string
}

func respondError(c *gin.Context, code int, message string, err error) {
	if err != nil {
		appErr := response.WrapError(code, message, err)
		// 挂到 gin 错误链上，请求日志中间件统一记录
		_ = c.Error(appErr)
		logger.Warnw("request_failed",
			"path", c.Request.URL.Path,
			"code", code,
			"error", appErr,
		)
	}
	response.Error(c, code, message)
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackMessage string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.message, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackMessage, err)
}

var cartErrorRules = []mappedHandlerError{
	{target: service.ErrStoreNotFound, code: response.CodeNotFound, message: "store not found"},
	{target: service.ErrProductNotFound, code: response.CodeNotFound, message: "product not found"},
	{target: service.ErrProductNotAvailable, code: response.CodeBadRequest, message: "product not available"},
	{target: service.ErrCustomMealNotFound, code: response.CodeNotFound, message: "custom meal not found"},
	{target: service.ErrCartItemNotFound, code: response.CodeNotFound, message: "cart item not found"},
	{target: service.ErrCartItemInvalid, code: response.CodeBadRequest, message: "cart item invalid"},
}

var orderCreateErrorRules = []mappedHandlerError{
	{target: service.ErrStoreNotFound, code: response.CodeNotFound, message: "store not found"},
	{target: service.ErrStoreNotVerified, code: response.CodeBadRequest, message: "store not verified"},
	{target: service.ErrCartEmpty, code: response.CodeBadRequest, message: "cart is empty"},
	{target: service.ErrCartItemInvalid, code: response.CodeBadRequest, message: "cart item invalid"},
	{target: service.ErrPendingOrderExists, code: response.CodeConflict, message: "pending order already exists"},
	{target: service.ErrPaymentProofRequired, code: response.CodeBadRequest, message: "payment proof required"},
	{target: service.ErrDeliveryMethodInvalid, code: response.CodeBadRequest, message: "unknown delivery method"},
	{target: service.ErrLocationRequired, code: response.CodeBadRequest, message: "delivery location required"},
}

var orderStatusErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, message: "order not found"},
	{target: service.ErrInvalidStatus, code: response.CodeBadRequest, message: "unknown order status"},
	{target: service.ErrInvalidTransition, code: response.CodeConflict, message: "invalid status transition"},
}

var dispatchErrorRules = []mappedHandlerError{
	{target: service.ErrCourierNotFound, code: response.CodeNotFound, message: "courier not found"},
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, message: "order not found"},
	{target: service.ErrAlreadyClaimed, code: response.CodeConflict, message: "order already claimed"},
	{target: service.ErrCourierAtCapacity, code: response.CodeTooManyRequests, message: "active delivery limit reached"},
	{target: service.ErrInvalidTransition, code: response.CodeConflict, message: "order not ready for delivery"},
	{target: service.ErrDeliveryNotFound, code: response.CodeNotFound, message: "delivery not found"},
	{target: service.ErrDeliveryFinished, code: response.CodeConflict, message: "delivery already finished"},
}

var notificationErrorRules = []mappedHandlerError{
	{target: service.ErrNotificationNotFound, code: response.CodeNotFound, message: "notification not found"},
	{target: service.ErrRecipientInvalid, code: response.CodeBadRequest, message: "recipient invalid"},
}
