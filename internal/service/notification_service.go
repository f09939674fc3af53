package service

import (
	"github.com/smarteats-next/internal/models"
	"github.com/smarteats-next/internal/repository"

	"gorm.io/gorm"
)

// NotificationService 站内通知服务。
// 收件箱写入是可靠通道，失败必须让调用方的事务回滚；实时推送由调用方另行触发。
type NotificationService struct {
	notifications repository.NotificationRepository
}

// NewNotificationService 创建通知服务
func NewNotificationService(notifications repository.NotificationRepository) *NotificationService {
	return &NotificationService{notifications: notifications}
}

// Notify 写入一条通知
func (s *NotificationService) Notify(recipient models.Recipient, message string) (*models.Notification, error) {
	return s.notifyOn(s.notifications, recipient, message)
}

// NotifyTx 在指定事务内写入一条通知
func (s *NotificationService) NotifyTx(tx *gorm.DB, recipient models.Recipient, message string) (*models.Notification, error) {
	return s.notifyOn(s.notifications.WithTx(tx), recipient, message)
}

func (s *NotificationService) notifyOn(repo repository.NotificationRepository, recipient models.Recipient, message string) (*models.Notification, error) {
	if !recipient.Valid() {
		return nil, ErrRecipientInvalid
	}
	notification := &models.Notification{
		RecipientType: recipient.Type,
		RecipientID:   recipient.ID,
		Message:       message,
	}
	if err := repo.Create(notification); err != nil {
		return nil, err
	}
	return notification, nil
}

// List 分页获取收件箱
func (s *NotificationService) List(recipient models.Recipient, page, pageSize int, unreadOnly bool) ([]models.Notification, int64, error) {
	if !recipient.Valid() {
		return nil, 0, ErrRecipientInvalid
	}
	return s.notifications.List(repository.NotificationListFilter{
		Page:          page,
		PageSize:      pageSize,
		RecipientType: recipient.Type,
		RecipientID:   recipient.ID,
		UnreadOnly:    unreadOnly,
	})
}

// MarkRead 标记通知已读
func (s *NotificationService) MarkRead(id uint, recipient models.Recipient) error {
	if !recipient.Valid() {
		return ErrRecipientInvalid
	}
	affected, err := s.notifications.MarkRead(id, recipient)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// UnreadCount 未读通知数
func (s *NotificationService) UnreadCount(recipient models.Recipient) (int64, error) {
	if !recipient.Valid() {
		return 0, ErrRecipientInvalid
	}
	return s.notifications.CountUnread(recipient)
}
