package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表
type Product struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                 // 主键
	StoreID     uint           `gorm:"index;not null" json:"store_id"`                       // 所属门店ID
	Name        string         `gorm:"not null" json:"name"`                                 // 商品名称
	Description string         `gorm:"type:varchar(200)" json:"description"`                 // 商品描述
	Category    string         `gorm:"type:varchar(50);default:'Uncategorized'" json:"category"` // 分类
	PriceAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"`   // 单价
	Quantity    int            `gorm:"not null;default:0" json:"quantity"`                   // 库存数量
	IsActive    bool           `gorm:"not null;default:true" json:"is_active"`               // 上架标记（历史订单引用时只下架不删除）
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                              // 创建时间
	UpdatedAt   time.Time      `gorm:"index" json:"updated_at"`                              // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                       // 软删除时间
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}
