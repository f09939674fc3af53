package models

import (
	"time"

	"gorm.io/gorm"
)

// Store 门店表
type Store struct {
	ID           uint           `gorm:"primarykey" json:"id"`                                     // 主键
	Name         string         `gorm:"not null" json:"name"`                                     // 门店名称
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`                        // 联系邮箱
	Phone        string         `gorm:"type:varchar(50)" json:"phone"`                            // 联系电话
	Address      string         `gorm:"type:varchar(200)" json:"address"`                         // 门店地址
	OpeningHours string         `gorm:"not null;default:'09:00 to 18:30'" json:"opening_hours"`   // 营业时间
	Confirmed    bool           `gorm:"not null;default:false" json:"confirmed"`                  // 注册确认标记
	Verified     bool           `gorm:"not null;default:false" json:"verified"`                   // 管理员审核标记
	Latitude     *float64       `json:"latitude,omitempty"`                                       // 纬度
	Longitude    *float64       `json:"longitude,omitempty"`                                      // 经度
	RegisteredAt time.Time      `gorm:"index" json:"registered_at"`                               // 注册时间
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                                  // 创建时间
	UpdatedAt    time.Time      `gorm:"index" json:"updated_at"`                                  // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                           // 软删除时间

	Products []Product `gorm:"foreignKey:StoreID" json:"products,omitempty"` // 门店商品
	Orders   []Order   `gorm:"foreignKey:StoreID" json:"orders,omitempty"`   // 门店订单
}

// TableName 指定表名
func (Store) TableName() string {
	return "stores"
}
