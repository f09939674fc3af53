package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smarteats-next/internal/cache"
	"github.com/smarteats-next/internal/config"
	"github.com/smarteats-next/internal/constants"
	"github.com/smarteats-next/internal/logger"
	"github.com/smarteats-next/internal/models"
	"github.com/smarteats-next/internal/push"
	"github.com/smarteats-next/internal/queue"
	"github.com/smarteats-next/internal/repository"

	"gorm.io/gorm"
)

// CreateOrderInput 下单参数
type CreateOrderInput struct {
	UserID         uint   `json:"-"`
	StoreID        uint   `json:"store_id"`
	DeliveryMethod string `json:"delivery_method"` // pickup / courier
	Location       string `json:"location"`        // 骑手配送必填
	PaymentMethod  string `json:"payment_method"`
	ProofRef       string `json:"proof_ref"`
	TransactionID  string `json:"transaction_id"`
}

// OrderService 订单服务
type OrderService struct {
	db            *gorm.DB
	orders        repository.OrderRepository
	carts         repository.CartRepository
	stores        repository.StoreRepository
	users         repository.UserRepository
	sales         repository.SaleRepository
	notifications *NotificationService
	cache         cache.Store
	hub           *push.Hub
	queue         *queue.Client
	deliveryCfg   config.DeliveryConfig
}

// NewOrderService 创建订单服务
func NewOrderService(
	db *gorm.DB,
	orders repository.OrderRepository,
	carts repository.CartRepository,
	stores repository.StoreRepository,
	users repository.UserRepository,
	sales repository.SaleRepository,
	notifications *NotificationService,
	cacheStore cache.Store,
	hub *push.Hub,
	queueClient *queue.Client,
	deliveryCfg config.DeliveryConfig,
) *OrderService {
	return &OrderService{
		db:            db,
		orders:        orders,
		carts:         carts,
		stores:        stores,
		users:         users,
		sales:         sales,
		notifications: notifications,
		cache:         cacheStore,
		hub:           hub,
		queue:         queueClient,
		deliveryCfg:   deliveryCfg,
	}
}

// CreateOrder 将购物车原子转化为订单。
// 快照订单项与销售流水、清空购物车、写入门店通知在同一事务内完成。
func (s *OrderService) CreateOrder(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	store, err := s.stores.GetByID(input.StoreID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, ErrStoreNotFound
	}
	if !store.Verified {
		return nil, ErrStoreNotVerified
	}

	method := strings.ToLower(strings.TrimSpace(input.DeliveryMethod))
	if method == "" {
		method = constants.DeliveryMethodPickup
	}
	if method != constants.DeliveryMethodPickup && method != constants.DeliveryMethodCourier {
		return nil, ErrDeliveryMethodInvalid
	}

	location := strings.TrimSpace(input.Location)
	if method == constants.DeliveryMethodPickup {
		location = constants.PickupLocation
	} else if location == "" {
		return nil, ErrLocationRequired
	}

	payment := strings.ToLower(strings.TrimSpace(input.PaymentMethod))
	if payment == "" {
		payment = constants.PaymentMethodCash
	}
	if payment != constants.PaymentMethodCash && strings.TrimSpace(input.ProofRef) == "" {
		return nil, ErrPaymentProofRequired
	}

	user, err := s.users.GetByID(input.UserID)
	if err != nil {
		return nil, err
	}

	var order *models.Order
	err = s.db.Transaction(func(tx *gorm.DB) error {
		pending, err := s.orders.WithTx(tx).GetPending(input.UserID, input.StoreID)
		if err != nil {
			return err
		}
		if pending != nil {
			return ErrPendingOrderExists
		}

		cart, err := s.carts.WithTx(tx).GetByUserAndStore(input.UserID, input.StoreID)
		if err != nil {
			return err
		}
		if cart == nil || len(cart.Items) == 0 {
			return ErrCartEmpty
		}

		items, subtotal, err := snapshotCartItems(cart)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return ErrCartEmpty
		}

		var fee models.Money
		var km float64
		if method == constants.DeliveryMethodCourier {
			km = userStoreDistanceKM(user, store)
			fee = s.deliveryFee(km)
		}
		total := models.NewMoneyFromDecimal(subtotal.Add(fee.Decimal))

		order = &models.Order{
			OrderCode:      generateOrderCode(),
			UserID:         input.UserID,
			StoreID:        input.StoreID,
			SourceStore:    store.Name,
			Status:         constants.OrderStatusPending,
			DeliveryMethod: method,
			Location:       location,
			PaymentMethod:  payment,
			ProofRef:       strings.TrimSpace(input.ProofRef),
			TransactionID:  strings.TrimSpace(input.TransactionID),
			TotalAmount:    total,
			DeliveryFee:    fee,
			DeliveryKM:     km,
		}
		// 待处理订单的部分唯一索引是并发下单的最终裁决，冲突即已有待处理订单
		if err := s.orders.WithTx(tx).Create(order, items); err != nil {
			if isDuplicateKey(err) {
				return ErrPendingOrderExists
			}
			return err
		}
		order.Items = items

		sales := make([]models.Sale, 0, len(items))
		soldAt := time.Now()
		for _, item := range items {
			sales = append(sales, models.Sale{
				OrderID:     order.ID,
				StoreID:     order.StoreID,
				UserID:      order.UserID,
				ProductName: item.Name,
				PriceAmount: item.UnitPrice,
				Quantity:    item.Quantity,
				SoldAt:      soldAt,
			})
		}
		if err := s.sales.WithTx(tx).CreateBatch(sales); err != nil {
			return err
		}

		if err := s.carts.WithTx(tx).DeleteItemsByCart(cart.ID); err != nil {
			return err
		}

		storeRecipient := models.Recipient{Type: constants.RecipientTypeStore, ID: order.StoreID}
		message := fmt.Sprintf("New order %s received", order.OrderCode)
		if _, err := s.notifications.NotifyTx(tx, storeRecipient, message); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateCartCache(ctx, order.UserID, order.StoreID)
	s.hub.UpdateCartCount(order.UserID, 0, "0.00")
	s.hub.NotifyNewOrder(models.Recipient{Type: constants.RecipientTypeStore, ID: order.StoreID}, order.OrderCode)
	s.enqueueStatusEmail(order.ID, order.Status)

	logger.Infow("order_created",
		"order_id", order.ID,
		"order_code", order.OrderCode,
		"user_id", order.UserID,
		"store_id", order.StoreID,
		"total", order.TotalAmount.String(),
	)
	return order, nil
}

// AdvanceStatus 推进订单状态。
// 重复提交当前状态是幂等空操作，不触发任何副作用。
func (s *OrderService) AdvanceStatus(_ context.Context, orderID uint, status string) (*models.Order, error) {
	order, err := s.orders.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	next := NormalizeStatus(status)
	if !IsKnownStatus(next) {
		return nil, ErrInvalidStatus
	}
	if next == order.Status {
		return order, nil
	}
	if !CanTransition(order.DeliveryMethod, order.Status, next) {
		return nil, ErrInvalidTransition
	}

	updates := map[string]interface{}{}
	var completedAt *time.Time
	if IsTerminalStatus(next) {
		now := time.Now()
		completedAt = &now
		updates["completed_at"] = &now
	}

	// 状态落库与收件箱写入同一事务：收件箱是可靠通道，写入失败必须整体回滚
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.orders.WithTx(tx).UpdateStatus(order.ID, next, updates); err != nil {
			return err
		}
		message := statusMessage(order.OrderCode, next)
		customer := models.Recipient{Type: constants.RecipientTypeCustomer, ID: order.UserID}
		if _, err := s.notifications.NotifyTx(tx, customer, message); err != nil {
			return err
		}
		if courierRelevantStatus(order, next) {
			store := models.Recipient{Type: constants.RecipientTypeStore, ID: order.StoreID}
			if _, err := s.notifications.NotifyTx(tx, store, message); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	order.Status = next
	if completedAt != nil {
		order.CompletedAt = completedAt
	}

	s.pushStatusChange(order)
	return order, nil
}

// courierRelevantStatus 配送环节的状态变化需要同时告知门店
func courierRelevantStatus(order *models.Order, status string) bool {
	if !order.IsCourierDelivery() {
		return false
	}
	return status == constants.OrderStatusOutForDelivery || status == constants.OrderStatusDelivered
}

// pushStatusChange 状态变化的尽力而为收尾：实时推送与邮件任务
func (s *OrderService) pushStatusChange(order *models.Order) {
	customer := models.Recipient{Type: constants.RecipientTypeCustomer, ID: order.UserID}
	s.hub.NotifyOrderUpdate(customer, order.ID, order.Status)
	sound := constants.PushSoundOrderUpdate
	if order.Status == constants.OrderStatusReady {
		sound = constants.PushSoundOrderReady
	}
	s.hub.PlaySound(customer, sound)

	s.enqueueStatusEmail(order.ID, order.Status)

	logger.Infow("order_status_changed",
		"order_id", order.ID,
		"order_code", order.OrderCode,
		"status", order.Status,
	)
}

// GetOrder 获取订单
func (s *OrderService) GetOrder(orderID uint) (*models.Order, error) {
	order, err := s.orders.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListUserOrders 获取用户订单列表
func (s *OrderService) ListUserOrders(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orders.ListByUser(filter)
}

// ListStoreOrders 获取门店订单列表
func (s *OrderService) ListStoreOrders(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orders.ListByStore(filter)
}

func (s *OrderService) invalidateCartCache(ctx context.Context, userID, storeID uint) {
	if err := s.cache.Remove(ctx, userID, totalsCacheKey(storeID)); err != nil {
		logger.Debugw("cart_cache_invalidate_failed", "user_id", userID, "error", err)
	}
}

func (s *OrderService) enqueueStatusEmail(orderID uint, status string) {
	if err := s.queue.EnqueueOrderStatusEmail(orderID, status); err != nil {
		logger.Warnw("order_status_email_enqueue_failed",
			"order_id", orderID,
			"status", status,
			"error", err,
		)
	}
}

// snapshotCartItems 将购物车项固化为订单项快照并计算小计。
// 已下架商品的购物车项不参与结算。
func snapshotCartItems(cart *models.Cart) ([]models.OrderItem, decimal.Decimal, error) {
	items := make([]models.OrderItem, 0, len(cart.Items))
	subtotal := decimal.Zero
	for _, ci := range liveCartItems(cart.Items) {
		var name string
		var unit models.Money
		switch {
		case ci.Product != nil:
			name = ci.Product.Name
			unit = ci.Product.PriceAmount
		case ci.CustomMeal != nil:
			name = ci.CustomMeal.Name
			unit = ci.CustomMeal.TotalAmount
		default:
			return nil, decimal.Zero, ErrCartItemInvalid
		}
		items = append(items, models.OrderItem{
			ProductID:    ci.ProductID,
			CustomMealID: ci.CustomMealID,
			Name:         name,
			UnitPrice:    unit,
			Quantity:     ci.Quantity,
		})
		subtotal = subtotal.Add(unit.Decimal.Mul(decimal.NewFromInt(int64(ci.Quantity))))
	}
	return items, subtotal, nil
}

// deliveryFee 起步价加里程费
func (s *OrderService) deliveryFee(km float64) models.Money {
	base := decimal.NewFromFloat(s.deliveryCfg.BaseFee)
	perKM := decimal.NewFromFloat(s.deliveryCfg.FeePerKM)
	fee := base.Add(perKM.Mul(decimal.NewFromFloat(km)))
	return models.NewMoneyFromDecimal(fee)
}

// userStoreDistanceKM 顾客与门店的球面距离，坐标缺失时按 0 计
func userStoreDistanceKM(user *models.User, store *models.Store) float64 {
	if user == nil || user.Latitude == nil || user.Longitude == nil {
		return 0
	}
	if store.Latitude == nil || store.Longitude == nil {
		return 0
	}
	return haversineKM(*user.Latitude, *user.Longitude, *store.Latitude, *store.Longitude)
}

// haversineKM 两点间球面距离（公里）
func haversineKM(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusKM = 6371.0
	rad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := rad(lat2 - lat1)
	dLon := rad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusKM * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// generateOrderCode 生成对外订单编号（ORD-XXXXXXXX）
func generateOrderCode() string {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("ORD-%08X", time.Now().UnixNano()&0xFFFFFFFF)
	}
	return "ORD-" + strings.ToUpper(hex.EncodeToString(buf))
}

// statusMessage 顾客可读的状态消息
func statusMessage(orderCode, status string) string {
	switch status {
	case constants.OrderStatusApproved:
		return fmt.Sprintf("Order %s has been approved", orderCode)
	case constants.OrderStatusReady:
		return fmt.Sprintf("Order %s is ready", orderCode)
	case constants.OrderStatusOutForDelivery:
		return fmt.Sprintf("Order %s is out for delivery", orderCode)
	case constants.OrderStatusCollected:
		return fmt.Sprintf("Order %s has been collected", orderCode)
	case constants.OrderStatusDelivered:
		return fmt.Sprintf("Order %s has been delivered", orderCode)
	case constants.OrderStatusCanceled:
		return fmt.Sprintf("Order %s has been canceled", orderCode)
	default:
		return fmt.Sprintf("Order %s is %s", orderCode, status)
	}
}
