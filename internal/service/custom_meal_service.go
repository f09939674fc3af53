package service

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/smarteats-next/internal/models"
	"github.com/smarteats-next/internal/repository"
)

// CustomMealIngredientInput 自选套餐食材参数
type CustomMealIngredientInput struct {
	Name  string       `json:"name"`
	Price models.Money `json:"price"`
}

// CustomMealInput 自选套餐参数
type CustomMealInput struct {
	UserID      uint                        `json:"-"`
	StoreID     uint                        `json:"store_id"`
	Name        string                      `json:"name"`
	Ingredients []CustomMealIngredientInput `json:"ingredients"`
}

// CustomMealService 自选套餐服务
type CustomMealService struct {
	meals  repository.CustomMealRepository
	stores repository.StoreRepository
}

// NewCustomMealService 创建自选套餐服务
func NewCustomMealService(meals repository.CustomMealRepository, stores repository.StoreRepository) *CustomMealService {
	return &CustomMealService{meals: meals, stores: stores}
}

// Create 创建自选套餐，食材价格在此刻固化为快照
func (s *CustomMealService) Create(input CustomMealInput) (*models.CustomMeal, error) {
	store, err := s.stores.GetByID(input.StoreID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, ErrStoreNotFound
	}
	if len(input.Ingredients) == 0 {
		return nil, ErrCartItemInvalid
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = "Custom Meal"
	}

	total := decimal.Zero
	ingredients := make([]models.CustomMealIngredient, 0, len(input.Ingredients))
	for _, ing := range input.Ingredients {
		ingredientName := strings.TrimSpace(ing.Name)
		if ingredientName == "" {
			return nil, ErrCartItemInvalid
		}
		ingredients = append(ingredients, models.CustomMealIngredient{
			Name:        ingredientName,
			PriceAmount: ing.Price,
		})
		total = total.Add(ing.Price.Decimal)
	}

	meal := &models.CustomMeal{
		UserID:      input.UserID,
		StoreID:     input.StoreID,
		Name:        name,
		TotalAmount: models.NewMoneyFromDecimal(total),
		Ingredients: ingredients,
	}
	if err := s.meals.Create(meal); err != nil {
		return nil, err
	}
	return meal, nil
}

// List 获取用户的自选套餐
func (s *CustomMealService) List(userID uint) ([]models.CustomMeal, error) {
	return s.meals.ListByUser(userID)
}
