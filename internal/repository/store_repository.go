package repository

import (
	"errors"

	"github.com/smarteats-next/internal/constants"
	"github.com/smarteats-next/internal/models"

	"gorm.io/gorm"
)

// StoreRepository 门店数据访问接口
type StoreRepository interface {
	GetByID(id uint) (*models.Store, error)
	ListAll() ([]models.Store, error)
	SetVerified(id uint, verified bool) error
	CountOpenOrders(storeID uint) (int64, error)
}

// GormStoreRepository GORM 实现
type GormStoreRepository struct {
	db *gorm.DB
}

// NewStoreRepository 创建门店仓库
func NewStoreRepository(db *gorm.DB) *GormStoreRepository {
	return &GormStoreRepository{db: db}
}

// GetByID 根据 ID 获取门店
func (r *GormStoreRepository) GetByID(id uint) (*models.Store, error) {
	var store models.Store
	if err := r.db.First(&store, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &store, nil
}

// ListAll 获取全部门店
func (r *GormStoreRepository) ListAll() ([]models.Store, error) {
	var stores []models.Store
	if err := r.db.Order("id asc").Find(&stores).Error; err != nil {
		return nil, err
	}
	return stores, nil
}

// SetVerified 设置审核标记（仅管理员调用）
func (r *GormStoreRepository) SetVerified(id uint, verified bool) error {
	return r.db.Model(&models.Store{}).Where("id = ?", id).Update("verified", verified).Error
}

// CountOpenOrders 统计门店未终结订单数（存在未终结订单时门店不可删除）
func (r *GormStoreRepository) CountOpenOrders(storeID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Order{}).
		Where("store_id = ? AND status NOT IN ?", storeID, []string{
			constants.OrderStatusDelivered,
			constants.OrderStatusCollected,
			constants.OrderStatusCanceled,
		}).
		Count(&count).Error
	return count, err
}
