package models

import (
	"fmt"
	"time"
)

// Recipient 通知接收方（在边界处解析一次，核心内部不再解释字符串标签）
type Recipient struct {
	Type string `json:"type"` // customer / store / courier / admin / staff
	ID   uint   `json:"id"`   // 对应表主键
}

// Channel 返回实时推送频道名（customer:<id> 形式）
func (r Recipient) Channel() string {
	return fmt.Sprintf("%s:%d", r.Type, r.ID)
}

// Valid 校验接收方是否完整
func (r Recipient) Valid() bool {
	return r.Type != "" && r.ID != 0
}

// Notification 站内通知表（持久收件箱，只标记已读，从不删除）
type Notification struct {
	ID            uint      `gorm:"primarykey" json:"id"`                                                // 主键
	RecipientType string    `gorm:"index:idx_notification_recipient;not null" json:"recipient_type"`    // 接收方类型
	RecipientID   uint      `gorm:"index:idx_notification_recipient;not null" json:"recipient_id"`      // 接收方ID
	Message       string    `gorm:"type:varchar(255);not null" json:"message"`                          // 通知内容
	IsRead        bool      `gorm:"not null;default:false" json:"is_read"`                              // 已读标记
	CreatedAt     time.Time `gorm:"index" json:"created_at"`                                            // 创建时间
}

// TableName 指定表名
func (Notification) TableName() string {
	return "notifications"
}

// Recipient 返回通知的接收方
func (n *Notification) Recipient() Recipient {
	return Recipient{Type: n.RecipientType, ID: n.RecipientID}
}
