package api

import (
	"github.com/gin-gonic/gin"
	"github.com/smarteats-next/internal/constants"
	"github.com/smarteats-next/internal/http/handlers/shared"
	"github.com/smarteats-next/internal/http/response"
	"github.com/smarteats-next/internal/service"
)

// CreateCustomMeal 创建自选套餐
func (h *Handler) CreateCustomMeal(c *gin.Context) {
	recipient, ok := shared.RecipientOfType(c, constants.RecipientTypeCustomer)
	if !ok {
		return
	}
	var input service.CustomMealInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	input.UserID = recipient.ID

	meal, err := h.CustomMealService.Create(input)
	if err != nil {
		respondWithMappedError(c, err, []mappedHandlerError{
			{target: service.ErrStoreNotFound, code: response.CodeNotFound, message: "store not found"},
			{target: service.ErrCartItemInvalid, code: response.CodeBadRequest, message: "ingredients invalid"},
		}, response.CodeInternal, "custom meal create failed")
		return
	}
	response.Success(c, meal)
}

// ListCustomMeals 用户自选套餐列表
func (h *Handler) ListCustomMeals(c *gin.Context) {
	recipient, ok := shared.RecipientOfType(c, constants.RecipientTypeCustomer)
	if !ok {
		return
	}

	meals, err := h.CustomMealService.List(recipient.ID)
	if err != nil {
		respondError(c, response.CodeInternal, "custom meal list failed", err)
		return
	}
	response.Success(c, meals)
}
