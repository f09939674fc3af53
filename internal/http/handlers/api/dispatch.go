package api

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/smarteats-next/internal/constants"
	"github.com/smarteats-next/internal/http/handlers/shared"
	"github.com/smarteats-next/internal/http/response"
)

// CompleteDeliveryRequest 完结配送请求
type CompleteDeliveryRequest struct {
	Status   string `json:"status" binding:"required"` // delivered / canceled
	ProofRef string `json:"proof_ref"`
}

// ListReadyOrders 待认领的就绪订单
func (h *Handler) ListReadyOrders(c *gin.Context) {
	if _, ok := shared.RecipientOfType(c, constants.RecipientTypeCourier); !ok {
		return
	}
	storeID, _ := strconv.ParseUint(c.Query("store_id"), 10, 64)

	orders, err := h.DispatchService.ReadyOrders(uint(storeID))
	if err != nil {
		respondError(c, response.CodeInternal, "ready orders fetch failed", err)
		return
	}
	response.Success(c, orders)
}

// ClaimOrder 骑手认领订单，可用 store_id 限定门店范围
func (h *Handler) ClaimOrder(c *gin.Context) {
	recipient, ok := shared.RecipientOfType(c, constants.RecipientTypeCourier)
	if !ok {
		return
	}
	orderID, ok := shared.UintParam(c, "orderID")
	if !ok {
		return
	}
	storeID, _ := strconv.ParseUint(c.Query("store_id"), 10, 64)

	delivery, err := h.DispatchService.ClaimOrder(c.Request.Context(), recipient.ID, orderID, uint(storeID))
	if err != nil {
		respondWithMappedError(c, err, dispatchErrorRules, response.CodeInternal, "claim failed")
		return
	}
	response.Success(c, delivery)
}

// CompleteDelivery 骑手完结配送
func (h *Handler) CompleteDelivery(c *gin.Context) {
	recipient, ok := shared.RecipientOfType(c, constants.RecipientTypeCourier)
	if !ok {
		return
	}
	deliveryID, ok := shared.UintParam(c, "id")
	if !ok {
		return
	}
	var req CompleteDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	delivery, err := h.DispatchService.CompleteDelivery(c.Request.Context(), recipient.ID, deliveryID, req.Status, req.ProofRef)
	if err != nil {
		respondWithMappedError(c, err, dispatchErrorRules, response.CodeInternal, "delivery update failed")
		return
	}
	response.Success(c, delivery)
}

// ListActiveDeliveries 骑手在途配送
func (h *Handler) ListActiveDeliveries(c *gin.Context) {
	recipient, ok := shared.RecipientOfType(c, constants.RecipientTypeCourier)
	if !ok {
		return
	}

	deliveries, err := h.DispatchService.ActiveDeliveries(recipient.ID)
	if err != nil {
		respondError(c, response.CodeInternal, "active deliveries fetch failed", err)
		return
	}
	response.Success(c, gin.H{
		"deliveries": deliveries,
		"max_active": constants.CourierMaxActiveDeliveries,
	})
}

// DeliveryStats 骑手配送统计
func (h *Handler) DeliveryStats(c *gin.Context) {
	recipient, ok := shared.RecipientOfType(c, constants.RecipientTypeCourier)
	if !ok {
		return
	}

	stats, err := h.DispatchService.Stats(recipient.ID)
	if err != nil {
		respondWithMappedError(c, err, dispatchErrorRules, response.CodeInternal, "stats fetch failed")
		return
	}
	response.Success(c, stats)
}
