package models

import (
	"time"

	"gorm.io/gorm"
)

// CustomMeal 自选套餐表（顾客按食材组合的定制餐）
type CustomMeal struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                // 主键
	UserID      uint           `gorm:"index;not null" json:"user_id"`                       // 顾客ID
	StoreID     uint           `gorm:"index;not null" json:"store_id"`                      // 门店ID
	Name        string         `gorm:"not null" json:"name"`                                // 套餐名称
	TotalAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"` // 食材快照合计
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                             // 创建时间
	UpdatedAt   time.Time      `gorm:"index" json:"updated_at"`                             // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                      // 软删除时间

	Ingredients []CustomMealIngredient `gorm:"foreignKey:CustomMealID" json:"ingredients,omitempty"` // 食材快照
}

// TableName 指定表名
func (CustomMeal) TableName() string {
	return "custom_meals"
}

// CustomMealIngredient 自选套餐食材快照表（价格在加入时固化）
type CustomMealIngredient struct {
	ID           uint      `gorm:"primarykey" json:"id"`                                // 主键
	CustomMealID uint      `gorm:"index;not null" json:"custom_meal_id"`                // 套餐ID
	Name         string    `gorm:"not null" json:"name"`                                // 食材名称
	PriceAmount  Money     `gorm:"type:decimal(20,2);not null;default:0" json:"price"`  // 加入时单价
	CreatedAt    time.Time `gorm:"index" json:"created_at"`                             // 创建时间
}

// TableName 指定表名
func (CustomMealIngredient) TableName() string {
	return "custom_meal_ingredients"
}
