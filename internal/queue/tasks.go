package queue

import (
	"encoding/json"

	"github.com/hibiken/asynq"
	"github.com/smarteats-next/internal/constants"
)

// OrderStatusEmailPayload 订单状态邮件任务载荷
type OrderStatusEmailPayload struct {
	OrderID uint   `json:"order_id"`
	Status  string `json:"status"`
}

// NewOrderStatusEmailTask 构建订单状态邮件任务
func NewOrderStatusEmailTask(orderID uint, status string) (*asynq.Task, error) {
	payload, err := json.Marshal(OrderStatusEmailPayload{OrderID: orderID, Status: status})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(constants.TaskOrderStatusEmail, payload), nil
}
