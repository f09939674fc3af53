package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单表
type Order struct {
	ID             uint           `gorm:"primarykey" json:"id"`                                 // 主键
	OrderCode      string         `gorm:"uniqueIndex;not null" json:"order_code"`               // 对外订单编号（ORD-XXXXXXXX）
	UserID         uint           `gorm:"index;not null;uniqueIndex:idx_orders_single_pending,where:status = 'pending'" json:"user_id"`  // 顾客ID
	StoreID        uint           `gorm:"index;not null;uniqueIndex:idx_orders_single_pending,where:status = 'pending'" json:"store_id"` // 门店ID（与顾客ID组成待处理订单的部分唯一索引）
	SourceStore    string         `gorm:"type:varchar(120)" json:"source_store"`                // 下单时的门店名称快照
	Status         string         `gorm:"index;not null" json:"status"`                         // 订单状态
	DeliveryMethod string         `gorm:"type:varchar(20);not null" json:"delivery_method"`     // 配送方式（创建后不可变）
	Location       string         `gorm:"not null" json:"location"`                             // 收货地址（取货订单为 pickup 哨兵值）
	PaymentMethod  string         `gorm:"type:varchar(40);not null" json:"payment_method"`      // 支付方式
	ProofRef       string         `gorm:"type:varchar(200)" json:"proof_ref,omitempty"`         // 支付凭证引用（不解析内容）
	TransactionID  string         `gorm:"type:varchar(90)" json:"transaction_id,omitempty"`     // 交易号
	TotalAmount    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"` // 实付金额（含配送费）
	DeliveryFee    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"delivery_fee"` // 配送费
	DeliveryKM     float64        `gorm:"not null;default:0" json:"delivery_km"`                // 配送距离（公里）
	CompletedAt    *time.Time     `gorm:"index" json:"completed_at,omitempty"`                  // 进入终态时间
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`                              // 创建时间
	UpdatedAt      time.Time      `gorm:"index" json:"updated_at"`                              // 更新时间
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`                                       // 软删除时间

	Items    []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`    // 订单项快照
	Delivery *Delivery   `gorm:"foreignKey:OrderID" json:"delivery,omitempty"` // 配送记录（骑手认领后一对一）
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

// IsCourierDelivery 是否为骑手配送订单
func (o *Order) IsCourierDelivery() bool {
	return o != nil && o.DeliveryMethod == "courier"
}
