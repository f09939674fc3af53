package models

import (
	"time"

	"gorm.io/gorm"
)

// CartItem 购物车项（引用商品或自选套餐，二者只取其一；数量减到 0 即删除）
type CartItem struct {
	ID           uint           `gorm:"primarykey" json:"id"`                     // 主键
	CartID       uint           `gorm:"index;not null" json:"cart_id"`            // 购物车ID
	ProductID    *uint          `gorm:"index" json:"product_id,omitempty"`        // 商品ID
	CustomMealID *uint          `gorm:"index" json:"custom_meal_id,omitempty"`    // 自选套餐ID
	Quantity     int            `gorm:"not null" json:"quantity"`                 // 数量（恒 >= 1）
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                  // 创建时间
	UpdatedAt    time.Time      `gorm:"index" json:"updated_at"`                  // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                           // 软删除时间

	Product    *Product    `gorm:"foreignKey:ProductID" json:"product,omitempty"`        // 关联商品
	CustomMeal *CustomMeal `gorm:"foreignKey:CustomMealID" json:"custom_meal,omitempty"` // 关联自选套餐
}

// TableName 指定表名
func (CartItem) TableName() string {
	return "cart_items"
}
