package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/smarteats-next/internal/constants"
	"github.com/smarteats-next/internal/logger"
	"github.com/smarteats-next/internal/models"
	"github.com/smarteats-next/internal/push"
	"github.com/smarteats-next/internal/queue"
	"github.com/smarteats-next/internal/repository"

	"gorm.io/gorm"
)

// DispatchService 骑手调度服务
type DispatchService struct {
	db            *gorm.DB
	orders        repository.OrderRepository
	deliveries    repository.DeliveryRepository
	couriers      repository.CourierRepository
	users         repository.UserRepository
	notifications *NotificationService
	hub           *push.Hub
	queue         *queue.Client
	maxActive     int
}

// NewDispatchService 创建调度服务
func NewDispatchService(
	db *gorm.DB,
	orders repository.OrderRepository,
	deliveries repository.DeliveryRepository,
	couriers repository.CourierRepository,
	users repository.UserRepository,
	notifications *NotificationService,
	hub *push.Hub,
	queueClient *queue.Client,
) *DispatchService {
	return &DispatchService{
		db:            db,
		orders:        orders,
		deliveries:    deliveries,
		couriers:      couriers,
		users:         users,
		notifications: notifications,
		hub:           hub,
		queue:         queueClient,
		maxActive:     constants.CourierMaxActiveDeliveries,
	}
}

// ReadyOrders 待认领的就绪订单，storeID 为 0 时跨门店
func (s *DispatchService) ReadyOrders(storeID uint) ([]models.Order, error) {
	return s.orders.ListReadyForCourier(storeID)
}

// ActiveDeliveries 骑手在途配送
func (s *DispatchService) ActiveDeliveries(courierID uint) ([]models.Delivery, error) {
	return s.deliveries.ListActiveByCourier(courierID)
}

// Stats 骑手配送统计
func (s *DispatchService) Stats(courierID uint) (*repository.DeliveryStats, error) {
	courier, err := s.couriers.GetByID(courierID)
	if err != nil {
		return nil, err
	}
	if courier == nil {
		return nil, ErrCourierNotFound
	}
	return s.deliveries.StatsByCourier(courierID, time.Now())
}

// ClaimOrder 骑手认领就绪订单，storeID 为 0 时不限门店。
// deliveries.order_id 的唯一索引是认领互斥的最终裁决，并发认领只会有一个成功。
func (s *DispatchService) ClaimOrder(_ context.Context, courierID, orderID, storeID uint) (*models.Delivery, error) {
	courier, err := s.couriers.GetByID(courierID)
	if err != nil {
		return nil, err
	}
	if courier == nil {
		return nil, ErrCourierNotFound
	}

	order, err := s.orders.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	// 门店范围之外的订单对骑手不可见
	if storeID != 0 && order.StoreID != storeID {
		return nil, ErrOrderNotFound
	}
	if !order.IsCourierDelivery() || order.Status != constants.OrderStatusReady {
		if order.Delivery != nil || order.Status == constants.OrderStatusOutForDelivery {
			return nil, ErrAlreadyClaimed
		}
		return nil, ErrInvalidTransition
	}

	active, err := s.deliveries.CountActiveByCourier(courierID)
	if err != nil {
		return nil, err
	}
	if active >= int64(s.maxActive) {
		return nil, ErrCourierAtCapacity
	}

	user, err := s.users.GetByID(order.UserID)
	if err != nil {
		return nil, err
	}
	customerName := ""
	if user != nil {
		customerName = strings.TrimSpace(user.Username + " " + user.LastName)
	}

	delivery := &models.Delivery{
		OrderID:      order.ID,
		CourierID:    courierID,
		CustomerName: customerName,
		Address:      order.Location,
		Status:       constants.DeliveryStatusOutForDelivery,
		StartedAt:    time.Now(),
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.deliveries.WithTx(tx).Create(delivery); err != nil {
			if isDuplicateKey(err) {
				return ErrAlreadyClaimed
			}
			return err
		}
		if err := s.orders.WithTx(tx).UpdateStatus(order.ID, constants.OrderStatusOutForDelivery, nil); err != nil {
			return err
		}
		if active+1 >= int64(s.maxActive) {
			if err := s.couriers.WithTx(tx).SetFree(courierID, false); err != nil {
				return err
			}
		}
		message := statusMessage(order.OrderCode, constants.OrderStatusOutForDelivery)
		customer := models.Recipient{Type: constants.RecipientTypeCustomer, ID: order.UserID}
		if _, err := s.notifications.NotifyTx(tx, customer, message); err != nil {
			return err
		}
		store := models.Recipient{Type: constants.RecipientTypeStore, ID: order.StoreID}
		if _, err := s.notifications.NotifyTx(tx, store, message); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	order.Status = constants.OrderStatusOutForDelivery

	customer := models.Recipient{Type: constants.RecipientTypeCustomer, ID: order.UserID}
	s.hub.NotifyOrderUpdate(customer, order.ID, order.Status)
	s.hub.PlaySound(customer, constants.PushSoundOrderUpdate)
	s.enqueueStatusEmail(order.ID, order.Status)

	logger.Infow("delivery_claimed",
		"delivery_id", delivery.ID,
		"order_id", order.ID,
		"order_code", order.OrderCode,
		"courier_id", courierID,
		"active_deliveries", active+1,
	)
	return delivery, nil
}

// CompleteDelivery 骑手上报配送结果（送达或取消）
func (s *DispatchService) CompleteDelivery(_ context.Context, courierID, deliveryID uint, status, proofRef string) (*models.Delivery, error) {
	delivery, err := s.deliveries.GetByID(deliveryID)
	if err != nil {
		return nil, err
	}
	if delivery == nil || delivery.CourierID != courierID {
		return nil, ErrDeliveryNotFound
	}
	if delivery.EndedAt != nil {
		return nil, ErrDeliveryFinished
	}

	final := NormalizeStatus(status)
	if final != constants.DeliveryStatusDelivered && final != constants.DeliveryStatusCanceled {
		return nil, ErrInvalidTransition
	}

	order, err := s.orders.GetByID(delivery.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	now := time.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.deliveries.WithTx(tx).Finish(delivery.ID, final, strings.TrimSpace(proofRef), now); err != nil {
			return err
		}
		if err := s.orders.WithTx(tx).UpdateStatus(order.ID, final, map[string]interface{}{
			"completed_at": &now,
		}); err != nil {
			return err
		}
		if err := s.couriers.WithTx(tx).SetFree(courierID, true); err != nil {
			return err
		}
		message := completionMessage(order.OrderCode, final, now.Sub(delivery.StartedAt))
		customer := models.Recipient{Type: constants.RecipientTypeCustomer, ID: order.UserID}
		if _, err := s.notifications.NotifyTx(tx, customer, message); err != nil {
			return err
		}
		store := models.Recipient{Type: constants.RecipientTypeStore, ID: order.StoreID}
		if _, err := s.notifications.NotifyTx(tx, store, message); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	delivery.Status = final
	delivery.EndedAt = &now
	order.Status = final
	order.CompletedAt = &now

	customer := models.Recipient{Type: constants.RecipientTypeCustomer, ID: order.UserID}
	s.hub.NotifyOrderUpdate(customer, order.ID, order.Status)
	s.enqueueStatusEmail(order.ID, order.Status)

	logger.Infow("delivery_completed",
		"delivery_id", delivery.ID,
		"order_id", order.ID,
		"courier_id", courierID,
		"status", final,
		"elapsed", now.Sub(delivery.StartedAt).String(),
	)
	return delivery, nil
}

func (s *DispatchService) enqueueStatusEmail(orderID uint, status string) {
	if err := s.queue.EnqueueOrderStatusEmail(orderID, status); err != nil {
		logger.Warnw("order_status_email_enqueue_failed",
			"order_id", orderID,
			"status", status,
			"error", err,
		)
	}
}

// completionMessage 配送完结消息，送达时附带耗时
func completionMessage(orderCode, status string, elapsed time.Duration) string {
	if status == constants.DeliveryStatusDelivered {
		return fmt.Sprintf("Order %s has been delivered in %d minutes", orderCode, int(elapsed.Minutes()))
	}
	return statusMessage(orderCode, status)
}

// isDuplicateKey 判定唯一约束冲突（SQLite 与 Postgres 文案不同，字符串兜底）
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "unique") || strings.Contains(message, "duplicate")
}
