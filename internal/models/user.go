package models

import (
	"time"

	"gorm.io/gorm"
)

// User 顾客表（身份认证由外部会话服务负责，这里只保留资料字段）
type User struct {
	ID            uint           `gorm:"primarykey" json:"id"`                    // 主键
	Username      string         `gorm:"uniqueIndex;not null" json:"username"`    // 用户名
	LastName      string         `gorm:"type:varchar(40)" json:"last_name"`       // 姓氏
	Email         string         `gorm:"uniqueIndex;not null" json:"email"`       // 邮箱
	Latitude      *float64       `json:"latitude,omitempty"`                      // 收货纬度
	Longitude     *float64       `json:"longitude,omitempty"`                     // 收货经度
	LoyaltyPoints int            `gorm:"not null;default:0" json:"loyalty_points"` // 积分
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`                 // 创建时间
	UpdatedAt     time.Time      `gorm:"index" json:"updated_at"`                 // 更新时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                          // 软删除时间

	Carts  []Cart  `gorm:"foreignKey:UserID" json:"carts,omitempty"`  // 用户购物车
	Orders []Order `gorm:"foreignKey:UserID" json:"orders,omitempty"` // 用户订单
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
