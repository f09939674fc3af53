package api

import (
	"github.com/gin-gonic/gin"
	"github.com/smarteats-next/internal/constants"
	"github.com/smarteats-next/internal/http/handlers/shared"
	"github.com/smarteats-next/internal/http/response"
)

// AddCartItemRequest 添加购物车项请求（商品与自选套餐二选一）
type AddCartItemRequest struct {
	ProductID    uint `json:"product_id"`
	CustomMealID uint `json:"custom_meal_id"`
	Quantity     int  `json:"quantity"`
}

// GetCart 获取购物车
func (h *Handler) GetCart(c *gin.Context) {
	recipient, ok := shared.RecipientOfType(c, constants.RecipientTypeCustomer)
	if !ok {
		return
	}
	storeID, ok := shared.UintParam(c, "storeID")
	if !ok {
		return
	}

	cart, err := h.CartService.GetCart(recipient.ID, storeID)
	if err != nil {
		respondError(c, response.CodeInternal, "cart fetch failed", err)
		return
	}
	response.Success(c, cart)
}

// GetCartTotals 获取购物车聚合
func (h *Handler) GetCartTotals(c *gin.Context) {
	recipient, ok := shared.RecipientOfType(c, constants.RecipientTypeCustomer)
	if !ok {
		return
	}
	storeID, ok := shared.UintParam(c, "storeID")
	if !ok {
		return
	}

	totals, err := h.CartService.Totals(c.Request.Context(), recipient.ID, storeID)
	if err != nil {
		respondError(c, response.CodeInternal, "cart totals failed", err)
		return
	}
	response.Success(c, totals)
}

// AddCartItem 添加购物车项
func (h *Handler) AddCartItem(c *gin.Context) {
	recipient, ok := shared.RecipientOfType(c, constants.RecipientTypeCustomer)
	if !ok {
		return
	}
	storeID, ok := shared.UintParam(c, "storeID")
	if !ok {
		return
	}
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	if (req.ProductID == 0) == (req.CustomMealID == 0) {
		response.BadRequest(c, "exactly one of product_id or custom_meal_id is required")
		return
	}

	ctx := c.Request.Context()
	if req.ProductID != 0 {
		item, err := h.CartService.AddProduct(ctx, recipient.ID, storeID, req.ProductID, req.Quantity)
		if err != nil {
			respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "cart update failed")
			return
		}
		response.Success(c, item)
		return
	}

	item, err := h.CartService.AddCustomMeal(ctx, recipient.ID, storeID, req.CustomMealID, req.Quantity)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "cart update failed")
		return
	}
	response.Success(c, item)
}

// IncrementCartItem 购物车项数量加一
func (h *Handler) IncrementCartItem(c *gin.Context) {
	h.adjustCartItem(c, true)
}

// DecrementCartItem 购物车项数量减一
func (h *Handler) DecrementCartItem(c *gin.Context) {
	h.adjustCartItem(c, false)
}

func (h *Handler) adjustCartItem(c *gin.Context, increment bool) {
	recipient, ok := shared.RecipientOfType(c, constants.RecipientTypeCustomer)
	if !ok {
		return
	}
	storeID, ok := shared.UintParam(c, "storeID")
	if !ok {
		return
	}
	itemID, ok := shared.UintParam(c, "itemID")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	var err error
	var item interface{}
	if increment {
		item, err = h.CartService.IncrementItem(ctx, recipient.ID, storeID, itemID)
	} else {
		item, err = h.CartService.DecrementItem(ctx, recipient.ID, storeID, itemID)
	}
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "cart update failed")
		return
	}
	response.Success(c, item)
}

// RemoveCartItem 删除购物车项
func (h *Handler) RemoveCartItem(c *gin.Context) {
	recipient, ok := shared.RecipientOfType(c, constants.RecipientTypeCustomer)
	if !ok {
		return
	}
	storeID, ok := shared.UintParam(c, "storeID")
	if !ok {
		return
	}
	itemID, ok := shared.UintParam(c, "itemID")
	if !ok {
		return
	}

	if err := h.CartService.RemoveItem(c.Request.Context(), recipient.ID, storeID, itemID); err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "cart update failed")
		return
	}
	response.Success(c, gin.H{"removed": true})
}
