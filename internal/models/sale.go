package models

import (
	"time"
)

// Sale 销售流水表（逐行只追加，供报表使用，写入后不再修改）
type Sale struct {
	ID          uint      `gorm:"primarykey" json:"id"`                                // 主键
	OrderID     uint      `gorm:"index;not null" json:"order_id"`                      // 订单ID
	StoreID     uint      `gorm:"index;not null" json:"store_id"`                      // 门店ID
	UserID      uint      `gorm:"index;not null" json:"user_id"`                       // 顾客ID
	ProductName string    `gorm:"not null" json:"product_name"`                        // 名称快照
	PriceAmount Money     `gorm:"type:decimal(20,2);not null;default:0" json:"price"`  // 单价快照
	Quantity    int       `gorm:"not null" json:"quantity"`                            // 数量
	SoldAt      time.Time `gorm:"index;not null" json:"sold_at"`                       // 成交时间
}

// TableName 指定表名
func (Sale) TableName() string {
	return "sales"
}
