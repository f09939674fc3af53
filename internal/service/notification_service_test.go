package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/smarteats-next/internal/constants"
	"github.com/smarteats-next/internal/models"
	"github.com/smarteats-next/internal/repository"

	"gorm.io/gorm"
)

func TestNotifyAndList(t *testing.T) {
	svc, _ := setupNotificationServiceTest(t)
	customer := models.Recipient{Type: constants.RecipientTypeCustomer, ID: 7}
	other := models.Recipient{Type: constants.RecipientTypeCustomer, ID: 8}

	if _, err := svc.Notify(models.Recipient{}, "broken"); !errors.Is(err, ErrRecipientInvalid) {
		t.Fatalf("expected ErrRecipientInvalid, got %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := svc.Notify(customer, fmt.Sprintf("message %d", i)); err != nil {
			t.Fatalf("notify failed: %v", err)
		}
	}
	if _, err := svc.Notify(other, "not yours"); err != nil {
		t.Fatalf("notify failed: %v", err)
	}

	// 收件箱按接收方隔离
	rows, total, err := svc.List(customer, 1, 10, false)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 3 || len(rows) != 3 {
		t.Fatalf("expected 3 notifications, got total=%d rows=%d", total, len(rows))
	}
	for _, row := range rows {
		if row.RecipientID != customer.ID {
			t.Fatalf("leaked notification for recipient %d", row.RecipientID)
		}
	}
}

func TestMarkReadAndUnreadCount(t *testing.T) {
	svc, _ := setupNotificationServiceTest(t)
	store := models.Recipient{Type: constants.RecipientTypeStore, ID: 3}
	stranger := models.Recipient{Type: constants.RecipientTypeStore, ID: 4}

	note, err := svc.Notify(store, "New order ORD-ABCD1234 received")
	if err != nil {
		t.Fatalf("notify failed: %v", err)
	}

	count, err := svc.UnreadCount(store)
	if err != nil {
		t.Fatalf("unread count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 unread, got %d", count)
	}

	// 别人的通知标记不生效
	if err := svc.MarkRead(note.ID, stranger); !errors.Is(err, ErrNotificationNotFound) {
		t.Fatalf("expected ErrNotificationNotFound, got %v", err)
	}
	if err := svc.MarkRead(note.ID, store); err != nil {
		t.Fatalf("mark read failed: %v", err)
	}
	if err := svc.MarkRead(9999, store); !errors.Is(err, ErrNotificationNotFound) {
		t.Fatalf("expected ErrNotificationNotFound for unknown id, got %v", err)
	}

	count, err = svc.UnreadCount(store)
	if err != nil {
		t.Fatalf("unread count failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 unread after mark, got %d", count)
	}

	// 只读未读过滤
	rows, total, err := svc.List(store, 1, 10, true)
	if err != nil {
		t.Fatalf("list unread failed: %v", err)
	}
	if total != 0 || len(rows) != 0 {
		t.Fatalf("expected empty unread list, got total=%d rows=%d", total, len(rows))
	}
}

func setupNotificationServiceTest(t *testing.T) (*NotificationService, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:notification_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Notification{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return NewNotificationService(repository.NewNotificationRepository(db)), db
}
