package repository

import "time"

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page        int
	PageSize    int
	UserID      uint
	StoreID     uint
	Status      string
	OrderCode   string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// NotificationListFilter 查询通知收件箱的过滤条件
type NotificationListFilter struct {
	Page          int
	PageSize      int
	RecipientType string
	RecipientID   uint
	UnreadOnly    bool
}

// DeliveryStats 骑手配送统计
type DeliveryStats struct {
	Total          int64   `json:"total"`
	Delivered      int64   `json:"delivered"`
	Canceled       int64   `json:"canceled"`
	InProgress     int64   `json:"in_progress"`
	SuccessRate    float64 `json:"success_rate"`
	DeliveredToday int64   `json:"delivered_today"`
	DeliveredWeek  int64   `json:"delivered_week"`
}
