package models

import (
	"time"

	"gorm.io/gorm"
)

// Courier 配送骑手表
type Courier struct {
	ID        uint           `gorm:"primarykey" json:"id"`                // 主键
	Names     string         `gorm:"not null" json:"names"`               // 姓名
	Email     string         `gorm:"uniqueIndex;not null" json:"email"`   // 邮箱
	IsFree    bool           `gorm:"not null;default:true" json:"is_free"` // 空闲标记
	CreatedAt time.Time      `gorm:"index" json:"created_at"`             // 创建时间
	UpdatedAt time.Time      `gorm:"index" json:"updated_at"`             // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                      // 软删除时间

	Deliveries []Delivery `gorm:"foreignKey:CourierID" json:"deliveries,omitempty"` // 配送记录
}

// TableName 指定表名
func (Courier) TableName() string {
	return "couriers"
}
