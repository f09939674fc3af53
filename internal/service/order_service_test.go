package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/smarteats-next/internal/cache"
	"github.com/smarteats-next/internal/config"
	"github.com/smarteats-next/internal/constants"
	"github.com/smarteats-next/internal/models"
	"github.com/smarteats-next/internal/push"
	"github.com/smarteats-next/internal/queue"
	"github.com/smarteats-next/internal/repository"

	"gorm.io/gorm"
)

func TestCreateOrderPickup(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	store := createOrderTestStore(t, db, "store-a@example.com", true)
	user := createOrderTestUser(t, db, "amani")
	product := createOrderTestProduct(t, db, store.ID, "Chicken Biryani", 8.50)
	addOrderTestCartItem(t, db, user.ID, store.ID, product.ID, 2)

	order, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		UserID:  user.ID,
		StoreID: store.ID,
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if order.Status != constants.OrderStatusPending {
		t.Fatalf("unexpected status: %s", order.Status)
	}
	if order.DeliveryMethod != constants.DeliveryMethodPickup {
		t.Fatalf("unexpected delivery method: %s", order.DeliveryMethod)
	}
	if order.Location != constants.PickupLocation {
		t.Fatalf("pickup order should carry sentinel location, got %q", order.Location)
	}
	if order.PaymentMethod != constants.PaymentMethodCash {
		t.Fatalf("unexpected payment method: %s", order.PaymentMethod)
	}
	if len(order.Items) != 1 || order.Items[0].Quantity != 2 {
		t.Fatalf("unexpected order items: %+v", order.Items)
	}
	if order.TotalAmount.String() != "17.00" {
		t.Fatalf("unexpected total: %s", order.TotalAmount.String())
	}
	if order.OrderCode == "" {
		t.Fatalf("order code should be generated")
	}

	// 购物车在同一事务内被清空
	var remaining int64
	if err := db.Model(&models.CartItem{}).Count(&remaining).Error; err != nil {
		t.Fatalf("count cart items failed: %v", err)
	}
	if remaining != 0 {
		t.Fatalf("cart should be empty after checkout, %d items left", remaining)
	}

	// 销售流水逐项落库
	var sales []models.Sale
	if err := db.Where("order_id = ?", order.ID).Find(&sales).Error; err != nil {
		t.Fatalf("load sales failed: %v", err)
	}
	if len(sales) != 1 || sales[0].ProductName != product.Name || sales[0].Quantity != 2 {
		t.Fatalf("unexpected sales rows: %+v", sales)
	}

	// 门店收件箱收到新订单通知
	var note models.Notification
	err = db.Where("recipient_type = ? AND recipient_id = ?", constants.RecipientTypeStore, store.ID).
		First(&note).Error
	if err != nil {
		t.Fatalf("store notification missing: %v", err)
	}
	if note.IsRead {
		t.Fatalf("new notification should be unread")
	}
}

func TestCreateOrderCourierFee(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	lat := func(v float64) *float64 { return &v }

	store := createOrderTestStore(t, db, "store-b@example.com", true)
	store.Latitude = lat(-1.2833)
	store.Longitude = lat(36.8167)
	if err := db.Save(&store).Error; err != nil {
		t.Fatalf("save store failed: %v", err)
	}

	user := createOrderTestUser(t, db, "zuri")
	// 与门店同一坐标，距离为 0，只收起步价
	user.Latitude = lat(-1.2833)
	user.Longitude = lat(36.8167)
	if err := db.Save(&user).Error; err != nil {
		t.Fatalf("save user failed: %v", err)
	}

	product := createOrderTestProduct(t, db, store.ID, "Chapati", 0.80)
	addOrderTestCartItem(t, db, user.ID, store.ID, product.ID, 5)

	order, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		UserID:         user.ID,
		StoreID:        store.ID,
		DeliveryMethod: constants.DeliveryMethodCourier,
		Location:       "Kimathi Street 12",
	})
	if err != nil {
		t.Fatalf("create courier order failed: %v", err)
	}
	if order.DeliveryFee.String() != "1.50" {
		t.Fatalf("expected base fee only, got %s", order.DeliveryFee.String())
	}
	if order.TotalAmount.String() != "5.50" {
		t.Fatalf("unexpected total: %s", order.TotalAmount.String())
	}
	if order.Location != "Kimathi Street 12" {
		t.Fatalf("unexpected location: %q", order.Location)
	}
}

func TestCreateOrderValidation(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	verified := createOrderTestStore(t, db, "store-c@example.com", true)
	unverified := createOrderTestStore(t, db, "store-d@example.com", false)
	user := createOrderTestUser(t, db, "kwame")
	product := createOrderTestProduct(t, db, verified.ID, "Sadza", 3.50)

	ctx := context.Background()

	if _, err := svc.CreateOrder(ctx, CreateOrderInput{UserID: user.ID, StoreID: 9999}); !errors.Is(err, ErrStoreNotFound) {
		t.Fatalf("expected ErrStoreNotFound, got %v", err)
	}
	if _, err := svc.CreateOrder(ctx, CreateOrderInput{UserID: user.ID, StoreID: unverified.ID}); !errors.Is(err, ErrStoreNotVerified) {
		t.Fatalf("expected ErrStoreNotVerified, got %v", err)
	}
	if _, err := svc.CreateOrder(ctx, CreateOrderInput{
		UserID:         user.ID,
		StoreID:        verified.ID,
		DeliveryMethod: "drone",
	}); !errors.Is(err, ErrDeliveryMethodInvalid) {
		t.Fatalf("expected ErrDeliveryMethodInvalid, got %v", err)
	}
	if _, err := svc.CreateOrder(ctx, CreateOrderInput{
		UserID:         user.ID,
		StoreID:        verified.ID,
		DeliveryMethod: constants.DeliveryMethodCourier,
	}); !errors.Is(err, ErrLocationRequired) {
		t.Fatalf("expected ErrLocationRequired, got %v", err)
	}
	if _, err := svc.CreateOrder(ctx, CreateOrderInput{
		UserID:        user.ID,
		StoreID:       verified.ID,
		PaymentMethod: constants.PaymentMethodMpesa,
	}); !errors.Is(err, ErrPaymentProofRequired) {
		t.Fatalf("expected ErrPaymentProofRequired, got %v", err)
	}
	// 购物车为空
	if _, err := svc.CreateOrder(ctx, CreateOrderInput{UserID: user.ID, StoreID: verified.ID}); !errors.Is(err, ErrCartEmpty) {
		t.Fatalf("expected ErrCartEmpty, got %v", err)
	}

	addOrderTestCartItem(t, db, user.ID, verified.ID, product.ID, 1)
	if _, err := svc.CreateOrder(ctx, CreateOrderInput{UserID: user.ID, StoreID: verified.ID}); err != nil {
		t.Fatalf("first order should succeed: %v", err)
	}

	// 同门店已有待处理订单时拒绝再次下单
	addOrderTestCartItem(t, db, user.ID, verified.ID, product.ID, 1)
	if _, err := svc.CreateOrder(ctx, CreateOrderInput{UserID: user.ID, StoreID: verified.ID}); !errors.Is(err, ErrPendingOrderExists) {
		t.Fatalf("expected ErrPendingOrderExists, got %v", err)
	}

	// 下单失败时购物车原样保留
	var remaining int64
	if err := db.Model(&models.CartItem{}).Count(&remaining).Error; err != nil {
		t.Fatalf("count cart items failed: %v", err)
	}
	if remaining != 1 {
		t.Fatalf("cart should survive a failed checkout, got %d items", remaining)
	}
}

func TestAdvanceStatusPickupFlow(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	store := createOrderTestStore(t, db, "store-e@example.com", true)
	user := createOrderTestUser(t, db, "nia")
	product := createOrderTestProduct(t, db, store.ID, "Ugali", 2.00)
	addOrderTestCartItem(t, db, user.ID, store.ID, product.ID, 1)

	ctx := context.Background()
	order, err := svc.CreateOrder(ctx, CreateOrderInput{UserID: user.ID, StoreID: store.ID})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	if _, err := svc.AdvanceStatus(ctx, order.ID, "shipped"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	if _, err := svc.AdvanceStatus(ctx, order.ID, constants.OrderStatusReady); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("pending -> ready should be rejected, got %v", err)
	}

	updated, err := svc.AdvanceStatus(ctx, order.ID, constants.OrderStatusApproved)
	if err != nil {
		t.Fatalf("pending -> approved failed: %v", err)
	}
	if updated.Status != constants.OrderStatusApproved {
		t.Fatalf("unexpected status: %s", updated.Status)
	}

	// 重复提交当前状态是幂等空操作
	again, err := svc.AdvanceStatus(ctx, order.ID, constants.OrderStatusApproved)
	if err != nil {
		t.Fatalf("same-status submit failed: %v", err)
	}
	if again.Status != constants.OrderStatusApproved {
		t.Fatalf("unexpected status after no-op: %s", again.Status)
	}

	// 历史数据里带尾随空格的状态也能被接受
	if _, err := svc.AdvanceStatus(ctx, order.ID, "Ready "); err != nil {
		t.Fatalf("approved -> 'Ready ' failed: %v", err)
	}

	final, err := svc.AdvanceStatus(ctx, order.ID, constants.OrderStatusCollected)
	if err != nil {
		t.Fatalf("ready -> collected failed: %v", err)
	}
	if final.CompletedAt == nil {
		t.Fatalf("terminal status should stamp completed_at")
	}

	var reloaded models.Order
	if err := db.First(&reloaded, order.ID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if reloaded.Status != constants.OrderStatusCollected || reloaded.CompletedAt == nil {
		t.Fatalf("terminal state not persisted: status=%s completed_at=%v", reloaded.Status, reloaded.CompletedAt)
	}

	// 顾客收件箱记录了状态变化
	var count int64
	err = db.Model(&models.Notification{}).
		Where("recipient_type = ? AND recipient_id = ?", constants.RecipientTypeCustomer, user.ID).
		Count(&count).Error
	if err != nil {
		t.Fatalf("count notifications failed: %v", err)
	}
	if count < 3 {
		t.Fatalf("expected a notification per transition, got %d", count)
	}
}

func TestAdvanceStatusRollsBackWhenInboxWriteFails(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	store := createOrderTestStore(t, db, "store-f@example.com", true)
	user := createOrderTestUser(t, db, "dayo")
	product := createOrderTestProduct(t, db, store.ID, "Mandazi", 1.20)
	addOrderTestCartItem(t, db, user.ID, store.ID, product.ID, 1)

	ctx := context.Background()
	order, err := svc.CreateOrder(ctx, CreateOrderInput{UserID: user.ID, StoreID: store.ID})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	// 收件箱不可写时，状态推进必须整体失败
	if err := db.Migrator().DropTable(&models.Notification{}); err != nil {
		t.Fatalf("drop notifications table failed: %v", err)
	}
	if _, err := svc.AdvanceStatus(ctx, order.ID, constants.OrderStatusApproved); err == nil {
		t.Fatalf("expected error when inbox write fails")
	}

	var reloaded models.Order
	if err := db.First(&reloaded, order.ID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if reloaded.Status != constants.OrderStatusPending {
		t.Fatalf("status change should have rolled back, got %s", reloaded.Status)
	}
}

func TestAdvanceStatusNotifiesStoreOnCourierTransitions(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	store := createOrderTestStore(t, db, "store-g@example.com", true)
	user := createOrderTestUser(t, db, "wanjiru")
	product := createOrderTestProduct(t, db, store.ID, "Pilau", 4.00)
	addOrderTestCartItem(t, db, user.ID, store.ID, product.ID, 1)

	ctx := context.Background()
	order, err := svc.CreateOrder(ctx, CreateOrderInput{
		UserID:         user.ID,
		StoreID:        store.ID,
		DeliveryMethod: constants.DeliveryMethodCourier,
		Location:       "Moi Avenue 3",
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	storeNotes := func() int64 {
		t.Helper()
		var count int64
		err := db.Model(&models.Notification{}).
			Where("recipient_type = ? AND recipient_id = ?", constants.RecipientTypeStore, store.ID).
			Count(&count).Error
		if err != nil {
			t.Fatalf("count store notifications failed: %v", err)
		}
		return count
	}

	// 下单时的一条新订单通知
	if got := storeNotes(); got != 1 {
		t.Fatalf("expected 1 store notification after checkout, got %d", got)
	}

	// 备餐阶段的状态变化不打扰门店
	if _, err := svc.AdvanceStatus(ctx, order.ID, constants.OrderStatusApproved); err != nil {
		t.Fatalf("pending -> approved failed: %v", err)
	}
	if _, err := svc.AdvanceStatus(ctx, order.ID, constants.OrderStatusReady); err != nil {
		t.Fatalf("approved -> ready failed: %v", err)
	}
	if got := storeNotes(); got != 1 {
		t.Fatalf("preparation statuses should not notify the store, got %d", got)
	}

	// 配送环节的状态同时写入门店收件箱
	if _, err := svc.AdvanceStatus(ctx, order.ID, constants.OrderStatusOutForDelivery); err != nil {
		t.Fatalf("ready -> out_for_delivery failed: %v", err)
	}
	if got := storeNotes(); got != 2 {
		t.Fatalf("expected store notification on out_for_delivery, got %d", got)
	}
	if _, err := svc.AdvanceStatus(ctx, order.ID, constants.OrderStatusDelivered); err != nil {
		t.Fatalf("out_for_delivery -> delivered failed: %v", err)
	}
	if got := storeNotes(); got != 3 {
		t.Fatalf("expected store notification on delivered, got %d", got)
	}
}

func TestPendingOrderUniqueIndex(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	store := createOrderTestStore(t, db, "store-h@example.com", true)
	user := createOrderTestUser(t, db, "lerato")
	product := createOrderTestProduct(t, db, store.ID, "Nyama Choma", 6.00)
	addOrderTestCartItem(t, db, user.ID, store.ID, product.ID, 1)

	ctx := context.Background()
	if _, err := svc.CreateOrder(ctx, CreateOrderInput{UserID: user.ID, StoreID: store.ID}); err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	// 绕过预检直接插入第二条待处理订单，唯一索引兜底
	second := models.Order{
		OrderCode:      "ORD-DUPE0001",
		UserID:         user.ID,
		StoreID:        store.ID,
		Status:         constants.OrderStatusPending,
		DeliveryMethod: constants.DeliveryMethodPickup,
		Location:       constants.PickupLocation,
		PaymentMethod:  constants.PaymentMethodCash,
	}
	err := db.Create(&second).Error
	if err == nil {
		t.Fatalf("second pending order for the same store should violate the index")
	}
	if !isDuplicateKey(err) {
		t.Fatalf("expected a duplicate-key violation, got %v", err)
	}

	// 非待处理状态不受唯一索引约束
	archived := models.Order{
		OrderCode:      "ORD-DONE0001",
		UserID:         user.ID,
		StoreID:        store.ID,
		Status:         constants.OrderStatusCollected,
		DeliveryMethod: constants.DeliveryMethodPickup,
		Location:       constants.PickupLocation,
		PaymentMethod:  constants.PaymentMethodCash,
	}
	if err := db.Create(&archived).Error; err != nil {
		t.Fatalf("non-pending order should not hit the index: %v", err)
	}
}

func setupOrderServiceTest(t *testing.T) (*OrderService, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:order_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
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
	svc := NewOrderService(
		db,
		repository.NewOrderRepository(db),
		repository.NewCartRepository(db),
		repository.NewStoreRepository(db),
		repository.NewUserRepository(db),
		repository.NewSaleRepository(db),
		notifications,
		cache.NewMemoryStore(0, 0),
		hub,
		queue.NewClient(config.QueueConfig{}),
		config.DeliveryConfig{BaseFee: 1.50, FeePerKM: 0.50},
	)
	return svc, db
}

func createOrderTestStore(t *testing.T, db *gorm.DB, email string, verified bool) models.Store {
	t.Helper()

	row := models.Store{
		Name:         "Test Kitchen " + email,
		Email:        email,
		Confirmed:    true,
		Verified:     verified,
		RegisteredAt: time.Now(),
	}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("create store failed: %v", err)
	}
	return row
}

func createOrderTestUser(t *testing.T, db *gorm.DB, username string) models.User {
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

func createOrderTestProduct(t *testing.T, db *gorm.DB, storeID uint, name string, price float64) models.Product {
	t.Helper()

	row := models.Product{
		StoreID:     storeID,
		Name:        name,
		PriceAmount: models.NewMoneyFromFloat(price),
		Quantity:    100,
		IsActive:    true,
	}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return row
}

func addOrderTestCartItem(t *testing.T, db *gorm.DB, userID, storeID, productID uint, quantity int) {
	t.Helper()

	var cart models.Cart
	err := db.Where("user_id = ? AND store_id = ?", userID, storeID).First(&cart).Error
	if err != nil {
		cart = models.Cart{UserID: userID, StoreID: storeID}
		if err := db.Create(&cart).Error; err != nil {
			t.Fatalf("create cart failed: %v", err)
		}
	}
	item := models.CartItem{CartID: cart.ID, ProductID: &productID, Quantity: quantity}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("create cart item failed: %v", err)
	}
}
