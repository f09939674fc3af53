package models

import (
	"time"

	"gorm.io/gorm"
)

// OrderItem 订单项表（下单时的不可变快照，用于展示与退款计算）
type OrderItem struct {
	ID           uint           `gorm:"primarykey" json:"id"`                                 // 主键
	OrderID      uint           `gorm:"index;not null" json:"order_id"`                       // 订单ID
	ProductID    *uint          `gorm:"index" json:"product_id,omitempty"`                    // 商品ID
	CustomMealID *uint          `gorm:"index" json:"custom_meal_id,omitempty"`                // 自选套餐ID
	Name         string         `gorm:"not null" json:"name"`                                 // 名称快照
	UnitPrice    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"` // 单价快照
	Quantity     int            `gorm:"not null" json:"quantity"`                             // 数量
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                              // 创建时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                       // 软删除时间
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}
