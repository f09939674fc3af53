package repository

import (
	"errors"

	"github.com/smarteats-next/internal/models"

	"gorm.io/gorm"
)

// CourierRepository 骑手数据访问接口
type CourierRepository interface {
	GetByID(id uint) (*models.Courier, error)
	SetFree(id uint, free bool) error
	WithTx(tx *gorm.DB) *GormCourierRepository
}

// GormCourierRepository GORM 实现
type GormCourierRepository struct {
	db *gorm.DB
}

// NewCourierRepository 创建骑手仓库
func NewCourierRepository(db *gorm.DB) *GormCourierRepository {
	return &GormCourierRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCourierRepository) WithTx(tx *gorm.DB) *GormCourierRepository {
	if tx == nil {
		return r
	}
	return &GormCourierRepository{db: tx}
}

// GetByID 根据 ID 获取骑手
func (r *GormCourierRepository) GetByID(id uint) (*models.Courier, error) {
	var courier models.Courier
	if err := r.db.First(&courier, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &courier, nil
}

// SetFree 设置骑手空闲标记
func (r *GormCourierRepository) SetFree(id uint, free bool) error {
	return r.db.Model(&models.Courier{}).Where("id = ?", id).Update("is_free", free).Error
}
