package repository

import (
	"github.com/smarteats-next/internal/models"

	"gorm.io/gorm"
)

// NotificationRepository 通知收件箱数据访问接口
type NotificationRepository interface {
	Create(notification *models.Notification) error
	List(filter NotificationListFilter) ([]models.Notification, int64, error)
	MarkRead(id uint, recipient models.Recipient) (int64, error)
	CountUnread(recipient models.Recipient) (int64, error)
	WithTx(tx *gorm.DB) *GormNotificationRepository
}

// GormNotificationRepository GORM 实现
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository 创建通知仓库
func NewNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// WithTx 绑定事务
func (r *GormNotificationRepository) WithTx(tx *gorm.DB) *GormNotificationRepository {
	if tx == nil {
		return r
	}
	return &GormNotificationRepository{db: tx}
}

// Create 写入通知（收件箱是系统的事实来源，失败必须上抛）
func (r *GormNotificationRepository) Create(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

// List 分页获取收件箱
func (r *GormNotificationRepository) List(filter NotificationListFilter) ([]models.Notification, int64, error) {
	query := r.db.Model(&models.Notification{}).
		Where("recipient_type = ? AND recipient_id = ?", filter.RecipientType, filter.RecipientID)
	if filter.UnreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var notifications []models.Notification
	if err := query.Order("id desc").Find(&notifications).Error; err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}

// MarkRead 标记已读（限定接收方，防止越权标记）
func (r *GormNotificationRepository) MarkRead(id uint, recipient models.Recipient) (int64, error) {
	result := r.db.Model(&models.Notification{}).
		Where("id = ? AND recipient_type = ? AND recipient_id = ?", id, recipient.Type, recipient.ID).
		Update("is_read", true)
	return result.RowsAffected, result.Error
}

// CountUnread 统计未读数
func (r *GormNotificationRepository) CountUnread(recipient models.Recipient) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("recipient_type = ? AND recipient_id = ? AND is_read = ?", recipient.Type, recipient.ID, false).
		Count(&count).Error
	return count, err
}
