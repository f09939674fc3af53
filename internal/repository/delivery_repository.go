package repository

import (
	"errors"
	"time"

	"github.com/smarteats-next/internal/constants"
	"github.com/smarteats-next/internal/models"

	"gorm.io/gorm"
)

// DeliveryRepository 配送记录数据访问接口
type DeliveryRepository interface {
	Create(delivery *models.Delivery) error
	Finish(id uint, status, proofRef string, endedAt time.Time) error
	GetByID(id uint) (*models.Delivery, error)
	GetByOrderID(orderID uint) (*models.Delivery, error)
	CountActiveByCourier(courierID uint) (int64, error)
	ListActiveByCourier(courierID uint) ([]models.Delivery, error)
	StatsByCourier(courierID uint, now time.Time) (*DeliveryStats, error)
	WithTx(tx *gorm.DB) *GormDeliveryRepository
}

// GormDeliveryRepository GORM 实现
type GormDeliveryRepository struct {
	db *gorm.DB
}

// NewDeliveryRepository 创建配送记录仓库
func NewDeliveryRepository(db *gorm.DB) *GormDeliveryRepository {
	return &GormDeliveryRepository{db: db}
}

// WithTx 绑定事务
func (r *GormDeliveryRepository) WithTx(tx *gorm.DB) *GormDeliveryRepository {
	if tx == nil {
		return r
	}
	return &GormDeliveryRepository{db: tx}
}

// Create 写入配送记录（order_id 唯一索引冲突即表示订单已被认领）
func (r *GormDeliveryRepository) Create(delivery *models.Delivery) error {
	return r.db.Create(delivery).Error
}

// Finish 完结配送记录
func (r *GormDeliveryRepository) Finish(id uint, status, proofRef string, endedAt time.Time) error {
	updates := map[string]interface{}{
		"status":   status,
		"ended_at": endedAt,
	}
	if proofRef != "" {
		updates["proof_ref"] = proofRef
	}
	return r.db.Model(&models.Delivery{}).Where("id = ?", id).Updates(updates).Error
}

// GetByID 根据 ID 获取配送记录
func (r *GormDeliveryRepository) GetByID(id uint) (*models.Delivery, error) {
	var delivery models.Delivery
	if err := r.db.First(&delivery, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &delivery, nil
}

// GetByOrderID 根据订单 ID 获取配送记录
func (r *GormDeliveryRepository) GetByOrderID(orderID uint) (*models.Delivery, error) {
	var delivery models.Delivery
	if err := r.db.Where("order_id = ?", orderID).First(&delivery).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &delivery, nil
}

// CountActiveByCourier 统计骑手在途配送数
func (r *GormDeliveryRepository) CountActiveByCourier(courierID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Delivery{}).
		Where("courier_id = ? AND status = ?", courierID, constants.DeliveryStatusOutForDelivery).
		Count(&count).Error
	return count, err
}

// ListActiveByCourier 获取骑手在途配送列表
func (r *GormDeliveryRepository) ListActiveByCourier(courierID uint) ([]models.Delivery, error) {
	var deliveries []models.Delivery
	err := r.db.Where("courier_id = ? AND status = ?", courierID, constants.DeliveryStatusOutForDelivery).
		Order("started_at asc").
		Find(&deliveries).Error
	if err != nil {
		return nil, err
	}
	return deliveries, nil
}

// StatsByCourier 汇总骑手配送统计（当日/当周以交付完成时间计）
func (r *GormDeliveryRepository) StatsByCourier(courierID uint, now time.Time) (*DeliveryStats, error) {
	stats := &DeliveryStats{}
	base := r.db.Model(&models.Delivery{}).Where("courier_id = ?", courierID)

	if err := base.Session(&gorm.Session{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).Where("status = ?", constants.DeliveryStatusDelivered).Count(&stats.Delivered).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).Where("status = ?", constants.DeliveryStatusCanceled).Count(&stats.Canceled).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).Where("status = ?", constants.DeliveryStatusOutForDelivery).Count(&stats.InProgress).Error; err != nil {
		return nil, err
	}
	if stats.Total > 0 {
		stats.SuccessRate = float64(stats.Delivered) / float64(stats.Total) * 100
	}

	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startOfWeek := startOfDay.AddDate(0, 0, -((int(now.Weekday()) + 6) % 7))

	if err := base.Session(&gorm.Session{}).
		Where("status = ? AND ended_at >= ? AND ended_at < ?", constants.DeliveryStatusDelivered, startOfDay, startOfDay.AddDate(0, 0, 1)).
		Count(&stats.DeliveredToday).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).
		Where("status = ? AND ended_at >= ? AND ended_at < ?", constants.DeliveryStatusDelivered, startOfWeek, startOfWeek.AddDate(0, 0, 7)).
		Count(&stats.DeliveredWeek).Error; err != nil {
		return nil, err
	}
	return stats, nil
}
