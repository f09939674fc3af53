package models

import (
	"time"

	"gorm.io/gorm"
)

// Staff 门店员工表
type Staff struct {
	ID        uint           `gorm:"primarykey" json:"id"`              // 主键
	StoreID   uint           `gorm:"index;not null" json:"store_id"`    // 所属门店ID
	Names     string         `gorm:"not null" json:"names"`             // 姓名
	Email     string         `gorm:"uniqueIndex;not null" json:"email"` // 邮箱
	Role      string         `gorm:"type:varchar(120)" json:"role"`     // 岗位
	CreatedAt time.Time      `gorm:"index" json:"created_at"`           // 创建时间
	UpdatedAt time.Time      `gorm:"index" json:"updated_at"`           // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                    // 软删除时间
}

// TableName 指定表名
func (Staff) TableName() string {
	return "staff"
}
