package models

import (
	"time"

	"gorm.io/gorm"
)

// Delivery 配送记录表（骑手认领后与订单一对一；OrderID 唯一索引即认领互斥机制）
type Delivery struct {
	ID           uint           `gorm:"primarykey" json:"id"`                       // 主键
	OrderID      uint           `gorm:"uniqueIndex;not null" json:"order_id"`       // 订单ID
	CourierID    uint           `gorm:"index;not null" json:"courier_id"`           // 骑手ID
	CustomerName string         `gorm:"type:varchar(120)" json:"customer_name"`     // 顾客姓名快照
	Address      string         `gorm:"type:varchar(200)" json:"address"`           // 配送地址快照
	Status       string         `gorm:"index;not null" json:"status"`               // 配送状态
	ProofRef     string         `gorm:"type:varchar(200)" json:"proof_ref,omitempty"` // 送达凭证引用
	StartedAt    time.Time      `gorm:"index;not null" json:"started_at"`           // 认领时间
	EndedAt      *time.Time     `gorm:"index" json:"ended_at,omitempty"`            // 完成时间
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                    // 创建时间
	UpdatedAt    time.Time      `gorm:"index" json:"updated_at"`                    // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                             // 软删除时间
}

// TableName 指定表名
func (Delivery) TableName() string {
	return "deliveries"
}
