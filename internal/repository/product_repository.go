package repository

import (
	"errors"

	"github.com/smarteats-next/internal/models"

	"gorm.io/gorm"
)

// ProductRepository 商品数据访问接口
type ProductRepository interface {
	GetByID(id uint) (*models.Product, error)
	ListByStore(storeID uint, onlyActive bool) ([]models.Product, error)
	SetActive(id uint, active bool) error
}

// GormProductRepository GORM 实现
type GormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓库
func NewProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// GetByID 根据 ID 获取商品
func (r *GormProductRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// ListByStore 获取门店商品列表
func (r *GormProductRepository) ListByStore(storeID uint, onlyActive bool) ([]models.Product, error) {
	var products []models.Product
	query := r.db.Where("store_id = ?", storeID)
	if onlyActive {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Order("id asc").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// SetActive 上下架商品（历史订单引用的商品只下架不删除）
func (r *GormProductRepository) SetActive(id uint, active bool) error {
	return r.db.Model(&models.Product{}).Where("id = ?", id).Update("is_active", active).Error
}
