package api

import (
	"github.com/gin-gonic/gin"
	"github.com/smarteats-next/internal/constants"
	"github.com/smarteats-next/internal/http/handlers/shared"
	"github.com/smarteats-next/internal/http/response"
	"github.com/smarteats-next/internal/service"
)

// VerifyStoreRequest 门店审核请求
type VerifyStoreRequest struct {
	Verified *bool `json:"verified" binding:"required"`
}

// ListStores 门店列表
func (h *Handler) ListStores(c *gin.Context) {
	stores, err := h.StoreService.List()
	if err != nil {
		respondError(c, response.CodeInternal, "store list failed", err)
		return
	}
	response.Success(c, stores)
}

// GetStore 获取门店
func (h *Handler) GetStore(c *gin.Context) {
	storeID, ok := shared.UintParam(c, "id")
	if !ok {
		return
	}
	store, err := h.StoreService.Get(storeID)
	if err != nil {
		respondWithMappedError(c, err, []mappedHandlerError{
			{target: service.ErrStoreNotFound, code: response.CodeNotFound, message: "store not found"},
		}, response.CodeInternal, "store fetch failed")
		return
	}
	response.Success(c, store)
}

// ListStoreProducts 门店在售商品
func (h *Handler) ListStoreProducts(c *gin.Context) {
	storeID, ok := shared.UintParam(c, "id")
	if !ok {
		return
	}
	products, err := h.StoreService.Products(storeID)
	if err != nil {
		respondWithMappedError(c, err, []mappedHandlerError{
			{target: service.ErrStoreNotFound, code: response.CodeNotFound, message: "store not found"},
		}, response.CodeInternal, "product list failed")
		return
	}
	response.Success(c, products)
}

// VerifyStore 管理员审核门店
func (h *Handler) VerifyStore(c *gin.Context) {
	if _, ok := shared.RecipientOfType(c, constants.RecipientTypeAdmin); !ok {
		return
	}
	storeID, ok := shared.UintParam(c, "id")
	if !ok {
		return
	}
	var req VerifyStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	if err := h.StoreService.SetVerified(storeID, *req.Verified); err != nil {
		respondWithMappedError(c, err, []mappedHandlerError{
			{target: service.ErrStoreNotFound, code: response.CodeNotFound, message: "store not found"},
		}, response.CodeInternal, "store update failed")
		return
	}
	response.Success(c, gin.H{"verified": *req.Verified})
}
