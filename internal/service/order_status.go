package service

import (
	"strings"

	"github.com/smarteats-next/internal/constants"
)

// NormalizeStatus 规范化状态输入。
// 历史数据里存在带尾随空格和大小写混用的状态值（如 "Ready "、"Out for Delivery"），
// 一律折叠为小写下划线形式后再参与状态机判断。
func NormalizeStatus(status string) string {
	s := strings.ToLower(strings.TrimSpace(status))
	return strings.ReplaceAll(s, " ", "_")
}

// 取货订单状态流转表
var pickupTransitions = map[string][]string{
	constants.OrderStatusPending:  {constants.OrderStatusApproved, constants.OrderStatusCanceled},
	constants.OrderStatusApproved: {constants.OrderStatusReady, constants.OrderStatusCanceled},
	constants.OrderStatusReady:    {constants.OrderStatusCollected, constants.OrderStatusCanceled},
}

// 骑手配送订单状态流转表
var courierTransitions = map[string][]string{
	constants.OrderStatusPending:        {constants.OrderStatusApproved, constants.OrderStatusCanceled},
	constants.OrderStatusApproved:       {constants.OrderStatusReady, constants.OrderStatusCanceled},
	constants.OrderStatusReady:          {constants.OrderStatusOutForDelivery, constants.OrderStatusCanceled},
	constants.OrderStatusOutForDelivery: {constants.OrderStatusDelivered, constants.OrderStatusCanceled},
}

var knownStatuses = map[string]bool{
	constants.OrderStatusPending:        true,
	constants.OrderStatusApproved:       true,
	constants.OrderStatusReady:          true,
	constants.OrderStatusOutForDelivery: true,
	constants.OrderStatusCollected:      true,
	constants.OrderStatusDelivered:      true,
	constants.OrderStatusCanceled:       true,
}

// IsKnownStatus 状态值是否合法
func IsKnownStatus(status string) bool {
	return knownStatuses[status]
}

// IsTerminalStatus 是否为终态
func IsTerminalStatus(status string) bool {
	switch status {
	case constants.OrderStatusCollected, constants.OrderStatusDelivered, constants.OrderStatusCanceled:
		return true
	}
	return false
}

// CanTransition 判断某配送方式下 from -> to 是否为合法流转。
// 同状态重复提交视为合法的幂等空操作。
func CanTransition(deliveryMethod, from, to string) bool {
	if from == to {
		return true
	}
	table := pickupTransitions
	if deliveryMethod == constants.DeliveryMethodCourier {
		table = courierTransitions
	}
	for _, next := range table[from] {
		if next == to {
			return true
		}
	}
	return false
}
