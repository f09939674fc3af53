package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/smarteats-next/internal/config"
	"github.com/smarteats-next/internal/constants"
	"github.com/smarteats-next/internal/models"
	"github.com/smarteats-next/internal/push"
	"github.com/smarteats-next/internal/queue"
	"github.com/smarteats-next/internal/repository"

	"gorm.io/gorm"
)

func TestClaimOrder(t *testing.T) {
	svc, db := setupDispatchServiceTest(t)
	courier := createDispatchTestCourier(t, db, "courier-a@example.com")
	user := createDispatchTestUser(t, db, "farai")
	order := createDispatchTestReadyOrder(t, db, user.ID, "ORD-TEST0001")

	delivery, err := svc.ClaimOrder(context.Background(), courier.ID, order.ID, 0)
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if delivery.Status != constants.DeliveryStatusOutForDelivery {
		t.Fatalf("unexpected delivery status: %s", delivery.Status)
	}
	if delivery.OrderID != order.ID || delivery.CourierID != courier.ID {
		t.Fatalf("unexpected delivery row: %+v", delivery)
	}
	if delivery.CustomerName != "farai Tester" {
		t.Fatalf("customer name snapshot missing, got %q", delivery.CustomerName)
	}
	if delivery.Address != order.Location {
		t.Fatalf("address snapshot missing, got %q", delivery.Address)
	}

	var reloaded models.Order
	if err := db.First(&reloaded, order.ID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if reloaded.Status != constants.OrderStatusOutForDelivery {
		t.Fatalf("order status not advanced: %s", reloaded.Status)
	}

	// 顾客收到配送开始通知
	var count int64
	err = db.Model(&models.Notification{}).
		Where("recipient_type = ? AND recipient_id = ?", constants.RecipientTypeCustomer, user.ID).
		Count(&count).Error
	if err != nil {
		t.Fatalf("count notifications failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 customer notification, got %d", count)
	}

	// 门店同样收到
	err = db.Model(&models.Notification{}).
		Where("recipient_type = ? AND recipient_id = ?", constants.RecipientTypeStore, order.StoreID).
		Count(&count).Error
	if err != nil {
		t.Fatalf("count store notifications failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 store notification, got %d", count)
	}
}

func TestClaimOrderAlreadyClaimed(t *testing.T) {
	svc, db := setupDispatchServiceTest(t)
	first := createDispatchTestCourier(t, db, "courier-b@example.com")
	second := createDispatchTestCourier(t, db, "courier-c@example.com")
	user := createDispatchTestUser(t, db, "tawanda")
	order := createDispatchTestReadyOrder(t, db, user.ID, "ORD-TEST0002")

	if _, err := svc.ClaimOrder(context.Background(), first.ID, order.ID, 0); err != nil {
		t.Fatalf("first claim failed: %v", err)
	}
	if _, err := svc.ClaimOrder(context.Background(), second.ID, order.ID, 0); !errors.Is(err, ErrAlreadyClaimed) {
		t.Fatalf("expected ErrAlreadyClaimed, got %v", err)
	}

	// 只有一条配送记录
	var count int64
	if err := db.Model(&models.Delivery{}).Where("order_id = ?", order.ID).Count(&count).Error; err != nil {
		t.Fatalf("count deliveries failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly 1 delivery row, got %d", count)
	}
}

func TestClaimOrderCapacity(t *testing.T) {
	svc, db := setupDispatchServiceTest(t)
	courier := createDispatchTestCourier(t, db, "courier-d@example.com")
	user := createDispatchTestUser(t, db, "chipo")

	orders := make([]models.Order, 0, constants.CourierMaxActiveDeliveries+1)
	for i := 0; i <= constants.CourierMaxActiveDeliveries; i++ {
		orders = append(orders, createDispatchTestReadyOrder(t, db, user.ID, fmt.Sprintf("ORD-CAP%05d", i)))
	}

	for i := 0; i < constants.CourierMaxActiveDeliveries; i++ {
		if _, err := svc.ClaimOrder(context.Background(), courier.ID, orders[i].ID, 0); err != nil {
			t.Fatalf("claim %d failed: %v", i+1, err)
		}
	}

	// 达到在途上限后骑手被标记为不可用
	var reloaded models.Courier
	if err := db.First(&reloaded, courier.ID).Error; err != nil {
		t.Fatalf("reload courier failed: %v", err)
	}
	if reloaded.IsFree {
		t.Fatalf("courier should be marked busy at capacity")
	}

	last := orders[constants.CourierMaxActiveDeliveries]
	if _, err := svc.ClaimOrder(context.Background(), courier.ID, last.ID, 0); !errors.Is(err, ErrCourierAtCapacity) {
		t.Fatalf("expected ErrCourierAtCapacity, got %v", err)
	}
}

func TestClaimOrderValidation(t *testing.T) {
	svc, db := setupDispatchServiceTest(t)
	courier := createDispatchTestCourier(t, db, "courier-e@example.com")
	user := createDispatchTestUser(t, db, "sekai")

	ctx := context.Background()
	if _, err := svc.ClaimOrder(ctx, 9999, 1, 0); !errors.Is(err, ErrCourierNotFound) {
		t.Fatalf("expected ErrCourierNotFound, got %v", err)
	}
	if _, err := svc.ClaimOrder(ctx, courier.ID, 9999, 0); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}

	pickup := models.Order{
		OrderCode:      "ORD-PICK0001",
		UserID:         user.ID,
		StoreID:        1,
		Status:         constants.OrderStatusReady,
		DeliveryMethod: constants.DeliveryMethodPickup,
		Location:       constants.PickupLocation,
		PaymentMethod:  constants.PaymentMethodCash,
	}
	if err := db.Create(&pickup).Error; err != nil {
		t.Fatalf("create pickup order failed: %v", err)
	}
	if _, err := svc.ClaimOrder(ctx, courier.ID, pickup.ID, 0); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("pickup order should not be claimable, got %v", err)
	}

	pending := models.Order{
		OrderCode:      "ORD-PEND0001",
		UserID:         user.ID,
		StoreID:        1,
		Status:         constants.OrderStatusPending,
		DeliveryMethod: constants.DeliveryMethodCourier,
		Location:       "Samora Machel Ave 45",
		PaymentMethod:  constants.PaymentMethodCash,
	}
	if err := db.Create(&pending).Error; err != nil {
		t.Fatalf("create pending order failed: %v", err)
	}
	if _, err := svc.ClaimOrder(ctx, courier.ID, pending.ID, 0); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("pending order should not be claimable, got %v", err)
	}
}

func TestClaimOrderStoreScope(t *testing.T) {
	svc, db := setupDispatchServiceTest(t)
	courier := createDispatchTestCourier(t, db, "courier-j@example.com")
	user := createDispatchTestUser(t, db, "ayanda")
	order := createDispatchTestReadyOrder(t, db, user.ID, "ORD-TEST0006")

	ctx := context.Background()
	// 门店范围之外的订单对骑手不存在
	if _, err := svc.ClaimOrder(ctx, courier.ID, order.ID, order.StoreID+1); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound outside store scope, got %v", err)
	}

	var count int64
	if err := db.Model(&models.Delivery{}).Where("order_id = ?", order.ID).Count(&count).Error; err != nil {
		t.Fatalf("count deliveries failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("scoped-out claim should leave no delivery row, got %d", count)
	}

	if _, err := svc.ClaimOrder(ctx, courier.ID, order.ID, order.StoreID); err != nil {
		t.Fatalf("claim within store scope failed: %v", err)
	}
}

func TestClaimOrderDuplicateKeyFallback(t *testing.T) {
	svc, db := setupDispatchServiceTest(t)
	courier := createDispatchTestCourier(t, db, "courier-k@example.com")
	rival := createDispatchTestCourier(t, db, "courier-l@example.com")
	user := createDispatchTestUser(t, db, "nandi")
	order := createDispatchTestReadyOrder(t, db, user.ID, "ORD-TEST0007")

	// 订单仍处于 ready、配送记录却已存在：模拟预检之后才落库的并发认领
	existing := models.Delivery{
		OrderID:   order.ID,
		CourierID: rival.ID,
		Address:   order.Location,
		Status:    constants.DeliveryStatusOutForDelivery,
		StartedAt: time.Now(),
	}
	if err := db.Create(&existing).Error; err != nil {
		t.Fatalf("seed delivery failed: %v", err)
	}

	if _, err := svc.ClaimOrder(context.Background(), courier.ID, order.ID, 0); !errors.Is(err, ErrAlreadyClaimed) {
		t.Fatalf("expected ErrAlreadyClaimed from the unique index, got %v", err)
	}

	// 落败的认领整体回滚：订单保持 ready，配送记录仍只有一条
	var reloaded models.Order
	if err := db.First(&reloaded, order.ID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if reloaded.Status != constants.OrderStatusReady {
		t.Fatalf("losing claim should not touch the order, got %s", reloaded.Status)
	}
	var count int64
	if err := db.Model(&models.Delivery{}).Where("order_id = ?", order.ID).Count(&count).Error; err != nil {
		t.Fatalf("count deliveries failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly 1 delivery row, got %d", count)
	}
}

func TestCompleteDeliveryRollsBackOnInboxFailure(t *testing.T) {
	svc, db := setupDispatchServiceTest(t)
	courier := createDispatchTestCourier(t, db, "courier-m@example.com")
	user := createDispatchTestUser(t, db, "thando")
	order := createDispatchTestReadyOrder(t, db, user.ID, "ORD-TEST0008")

	ctx := context.Background()
	delivery, err := svc.ClaimOrder(ctx, courier.ID, order.ID, 0)
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	// 满负荷骑手的完结回滚必须连空闲标记一起回滚
	if err := db.Model(&models.Courier{}).Where("id = ?", courier.ID).Update("is_free", false).Error; err != nil {
		t.Fatalf("mark courier busy failed: %v", err)
	}
	if err := db.Migrator().DropTable(&models.Notification{}); err != nil {
		t.Fatalf("drop notifications table failed: %v", err)
	}

	if _, err := svc.CompleteDelivery(ctx, courier.ID, delivery.ID, constants.DeliveryStatusDelivered, ""); err == nil {
		t.Fatalf("expected error when inbox write fails")
	}

	var reloadedDelivery models.Delivery
	if err := db.First(&reloadedDelivery, delivery.ID).Error; err != nil {
		t.Fatalf("reload delivery failed: %v", err)
	}
	if reloadedDelivery.EndedAt != nil || reloadedDelivery.Status != constants.DeliveryStatusOutForDelivery {
		t.Fatalf("delivery finish should have rolled back: %+v", reloadedDelivery)
	}

	var reloadedOrder models.Order
	if err := db.First(&reloadedOrder, order.ID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if reloadedOrder.Status != constants.OrderStatusOutForDelivery {
		t.Fatalf("order status should have rolled back, got %s", reloadedOrder.Status)
	}

	var reloadedCourier models.Courier
	if err := db.First(&reloadedCourier, courier.ID).Error; err != nil {
		t.Fatalf("reload courier failed: %v", err)
	}
	if reloadedCourier.IsFree {
		t.Fatalf("courier free flag should have rolled back")
	}
}

func TestCompleteDelivery(t *testing.T) {
	svc, db := setupDispatchServiceTest(t)
	courier := createDispatchTestCourier(t, db, "courier-f@example.com")
	other := createDispatchTestCourier(t, db, "courier-g@example.com")
	user := createDispatchTestUser(t, db, "rudo")
	order := createDispatchTestReadyOrder(t, db, user.ID, "ORD-TEST0003")

	ctx := context.Background()
	delivery, err := svc.ClaimOrder(ctx, courier.ID, order.ID, 0)
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}

	if _, err := svc.CompleteDelivery(ctx, other.ID, delivery.ID, constants.DeliveryStatusDelivered, ""); !errors.Is(err, ErrDeliveryNotFound) {
		t.Fatalf("other courier should not see this delivery, got %v", err)
	}
	if _, err := svc.CompleteDelivery(ctx, courier.ID, delivery.ID, constants.OrderStatusApproved, ""); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("only delivered/canceled are valid finals, got %v", err)
	}

	done, err := svc.CompleteDelivery(ctx, courier.ID, delivery.ID, "Delivered ", "photo-123")
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if done.Status != constants.DeliveryStatusDelivered || done.EndedAt == nil {
		t.Fatalf("unexpected delivery after complete: %+v", done)
	}

	var reloadedDelivery models.Delivery
	if err := db.First(&reloadedDelivery, delivery.ID).Error; err != nil {
		t.Fatalf("reload delivery failed: %v", err)
	}
	if reloadedDelivery.ProofRef != "photo-123" || reloadedDelivery.EndedAt == nil {
		t.Fatalf("delivery not finished in db: %+v", reloadedDelivery)
	}

	var reloadedOrder models.Order
	if err := db.First(&reloadedOrder, order.ID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if reloadedOrder.Status != constants.OrderStatusDelivered || reloadedOrder.CompletedAt == nil {
		t.Fatalf("order not completed: status=%s completed_at=%v", reloadedOrder.Status, reloadedOrder.CompletedAt)
	}

	var reloadedCourier models.Courier
	if err := db.First(&reloadedCourier, courier.ID).Error; err != nil {
		t.Fatalf("reload courier failed: %v", err)
	}
	if !reloadedCourier.IsFree {
		t.Fatalf("courier should be free after completion")
	}

	// 完结后的重复上报被拒绝
	if _, err := svc.CompleteDelivery(ctx, courier.ID, delivery.ID, constants.DeliveryStatusDelivered, ""); !errors.Is(err, ErrDeliveryFinished) {
		t.Fatalf("expected ErrDeliveryFinished, got %v", err)
	}
}

func TestCompleteDeliveryCanceled(t *testing.T) {
	svc, db := setupDispatchServiceTest(t)
	courier := createDispatchTestCourier(t, db, "courier-h@example.com")
	user := createDispatchTestUser(t, db, "tariro")
	order := createDispatchTestReadyOrder(t, db, user.ID, "ORD-TEST0004")

	ctx := context.Background()
	delivery, err := svc.ClaimOrder(ctx, courier.ID, order.ID, 0)
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}

	done, err := svc.CompleteDelivery(ctx, courier.ID, delivery.ID, constants.DeliveryStatusCanceled, "")
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if done.Status != constants.DeliveryStatusCanceled {
		t.Fatalf("unexpected delivery status: %s", done.Status)
	}

	var reloaded models.Order
	if err := db.First(&reloaded, order.ID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if reloaded.Status != constants.OrderStatusCanceled || reloaded.CompletedAt == nil {
		t.Fatalf("canceled order not finalized: status=%s", reloaded.Status)
	}
}

func TestDispatchStats(t *testing.T) {
	svc, db := setupDispatchServiceTest(t)
	courier := createDispatchTestCourier(t, db, "courier-i@example.com")
	user := createDispatchTestUser(t, db, "tinashe")
	order := createDispatchTestReadyOrder(t, db, user.ID, "ORD-TEST0005")

	ctx := context.Background()
	if _, err := svc.Stats(9999); !errors.Is(err, ErrCourierNotFound) {
		t.Fatalf("expected ErrCourierNotFound, got %v", err)
	}

	delivery, err := svc.ClaimOrder(ctx, courier.ID, order.ID, 0)
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if _, err := svc.CompleteDelivery(ctx, courier.ID, delivery.ID, constants.DeliveryStatusDelivered, ""); err != nil {
		t.Fatalf("complete failed: %v", err)
	}

	stats, err := svc.Stats(courier.ID)
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.InProgress != 0 {
		t.Fatalf("expected 0 in-progress deliveries, got %d", stats.InProgress)
	}
	if stats.Delivered != 1 || stats.DeliveredToday != 1 {
		t.Fatalf("expected 1 delivered, got %+v", stats)
	}
}

func setupDispatchServiceTest(t *testing.T) (*DispatchService, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:dispatch_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.MigrateAll(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	hub := push.NewHub(0, 0)
	if err := hub.Start(context.Background()); err != nil {
		t.Fatalf("start hub failed: %v", err)
	}
	t.Cleanup(func() { _ = hub.Stop(context.Background()) })

	notifications := NewNotificationService(repository.NewNotificationRepository(db))
	svc := NewDispatchService(
		db,
		repository.NewOrderRepository(db),
		repository.NewDeliveryRepository(db),
		repository.NewCourierRepository(db),
		repository.NewUserRepository(db),
		notifications,
		hub,
		queue.NewClient(config.QueueConfig{}),
	)
	return svc, db
}

func createDispatchTestCourier(t *testing.T, db *gorm.DB, email string) models.Courier {
	t.Helper()

	row := models.Courier{
		Names:  "Test Courier",
		Email:  email,
		IsFree: true,
	}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("create courier failed: %v", err)
	}
	return row
}

func createDispatchTestUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()

	row := models.User{
		Username: username,
		LastName: "Tester",
		Email:    username + "@example.com",
	}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return row
}

func createDispatchTestReadyOrder(t *testing.T, db *gorm.DB, userID uint, code string) models.Order {
	t.Helper()

	row := models.Order{
		OrderCode:      code,
		UserID:         userID,
		StoreID:        1,
		Status:         constants.OrderStatusReady,
		DeliveryMethod: constants.DeliveryMethodCourier,
		Location:       "Kimathi Street 12",
		PaymentMethod:  constants.PaymentMethodCash,
	}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("create ready order failed: %v", err)
	}
	return row
}
