package repository

import (
	"errors"

	"github.com/smarteats-next/internal/models"

	"gorm.io/gorm"
)

// CustomMealRepository 自选套餐数据访问接口
type CustomMealRepository interface {
	Create(meal *models.CustomMeal) error
	GetByIDAndUser(id, userID uint) (*models.CustomMeal, error)
	ListByUser(userID uint) ([]models.CustomMeal, error)
}

// GormCustomMealRepository GORM 实现
type GormCustomMealRepository struct {
	db *gorm.DB
}

// NewCustomMealRepository 创建自选套餐仓库
func NewCustomMealRepository(db *gorm.DB) *GormCustomMealRepository {
	return &GormCustomMealRepository{db: db}
}

// Create 创建自选套餐及配料（GORM 级联写入 Ingredients）
func (r *GormCustomMealRepository) Create(meal *models.CustomMeal) error {
	return r.db.Create(meal).Error
}

// GetByIDAndUser 获取用户自己的自选套餐
func (r *GormCustomMealRepository) GetByIDAndUser(id, userID uint) (*models.CustomMeal, error) {
	var meal models.CustomMeal
	err := r.db.Preload("Ingredients").
		Where("id = ? AND user_id = ?", id, userID).
		First(&meal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &meal, nil
}

// ListByUser 获取用户的自选套餐列表
func (r *GormCustomMealRepository) ListByUser(userID uint) ([]models.CustomMeal, error) {
	var meals []models.CustomMeal
	err := r.db.Preload("Ingredients").
		Where("user_id = ?", userID).
		Order("id desc").
		Find(&meals).Error
	if err != nil {
		return nil, err
	}
	return meals, nil
}
