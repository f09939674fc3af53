package api

import (
	"github.com/gin-gonic/gin"
	"github.com/smarteats-next/internal/constants"
	"github.com/smarteats-next/internal/http/handlers/shared"
	"github.com/smarteats-next/internal/http/response"
	"github.com/smarteats-next/internal/repository"
	"github.com/smarteats-next/internal/service"
)

// UpdateOrderStatusRequest 更新订单状态请求
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CreateOrder 下单（购物车原子转订单）
func (h *Handler) CreateOrder(c *gin.Context) {
	recipient, ok := shared.RecipientOfType(c, constants.RecipientTypeCustomer)
	if !ok {
		return
	}
	var input service.CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	input.UserID = recipient.ID

	order, err := h.OrderService.CreateOrder(c.Request.Context(), input)
	if err != nil {
		respondWithMappedError(c, err, orderCreateErrorRules, response.CodeInternal, "order create failed")
		return
	}
	response.Success(c, order)
}

// ListOrders 订单列表（顾客看自己的，门店看店内的）
func (h *Handler) ListOrders(c *gin.Context) {
	recipient, ok := shared.Recipient(c)
	if !ok {
		return
	}
	page, pageSize := shared.PageQuery(c)
	filter := repository.OrderListFilter{
		Page:      page,
		PageSize:  pageSize,
		Status:    service.NormalizeStatus(c.Query("status")),
		OrderCode: c.Query("order_code"),
	}
	if filter.Status != "" && !service.IsKnownStatus(filter.Status) {
		response.BadRequest(c, "unknown order status")
		return
	}

	var orders interface{}
	var total int64
	var err error
	switch recipient.Type {
	case constants.RecipientTypeCustomer:
		filter.UserID = recipient.ID
		orders, total, err = h.OrderService.ListUserOrders(filter)
	case constants.RecipientTypeStore:
		filter.StoreID = recipient.ID
		orders, total, err = h.OrderService.ListStoreOrders(filter)
	default:
		response.BadRequest(c, "recipient type not allowed")
		return
	}
	if err != nil {
		respondError(c, response.CodeInternal, "order list failed", err)
		return
	}
	response.SuccessWithPage(c, orders, response.NewPagination(page, pageSize, total))
}

// GetOrder 获取订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	recipient, ok := shared.Recipient(c)
	if !ok {
		return
	}
	orderID, ok := shared.UintParam(c, "id")
	if !ok {
		return
	}

	order, err := h.OrderService.GetOrder(orderID)
	if err != nil {
		respondWithMappedError(c, err, orderStatusErrorRules, response.CodeInternal, "order fetch failed")
		return
	}
	// 订单只对当事顾客与所属门店可见
	switch recipient.Type {
	case constants.RecipientTypeCustomer:
		if order.UserID != recipient.ID {
			response.NotFound(c, "order not found")
			return
		}
	case constants.RecipientTypeStore:
		if order.StoreID != recipient.ID {
			response.NotFound(c, "order not found")
			return
		}
	}
	response.Success(c, order)
}

// UpdateOrderStatus 门店推进订单状态
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	recipient, ok := shared.RecipientOfType(c, constants.RecipientTypeStore)
	if !ok {
		return
	}
	orderID, ok := shared.UintParam(c, "id")
	if !ok {
		return
	}
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	order, err := h.OrderService.GetOrder(orderID)
	if err != nil {
		respondWithMappedError(c, err, orderStatusErrorRules, response.CodeInternal, "order update failed")
		return
	}
	if order.StoreID != recipient.ID {
		response.NotFound(c, "order not found")
		return
	}

	updated, err := h.OrderService.AdvanceStatus(c.Request.Context(), orderID, req.Status)
	if err != nil {
		respondWithMappedError(c, err, orderStatusErrorRules, response.CodeInternal, "order update failed")
		return
	}
	response.Success(c, updated)
}
