package push

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/smarteats-next/internal/constants"
	"github.com/smarteats-next/internal/logger"
	"github.com/smarteats-next/internal/models"
)

const (
	// DefaultQueueSize 事件队列默认容量
	DefaultQueueSize = 1024
	// DefaultSubscriberBuffer 订阅者通道默认容量
	DefaultSubscriberBuffer = 16
)

// Event 推送事件。推送是尽力而为的信号，可靠投递依赖收件箱。
type Event struct {
	Channel string                 `json:"-"`
	Name    string                 `json:"event"`
	Data    map[string]interface{} `json:"data"`
}

// Subscriber 推送订阅者
type Subscriber struct {
	ID      string
	Channel string
	C       chan Event
}

// Hub 进程内推送中心。
// 单一分发协程消费有界队列，队列或订阅者通道满时直接丢弃事件。
type Hub struct {
	events    chan Event
	subBuffer int

	mu   sync.RWMutex
	subs map[string]map[string]*Subscriber

	stopOnce sync.Once
	done     chan struct{}
	finished chan struct{}
}

// NewHub 创建推送中心，queueSize/subBuffer 非正时使用默认值
func NewHub(queueSize, subBuffer int) *Hub {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	if subBuffer <= 0 {
		subBuffer = DefaultSubscriberBuffer
	}
	return &Hub{
		events:    make(chan Event, queueSize),
		subBuffer: subBuffer,
		subs:      make(map[string]map[string]*Subscriber),
		done:      make(chan struct{}),
		finished:  make(chan struct{}),
	}
}

// Name 服务名
func (h *Hub) Name() string {
	return "push-hub"
}

// Start 启动分发协程
func (h *Hub) Start(_ context.Context) error {
	go h.run()
	return nil
}

// Stop 停止分发并关闭所有订阅者
func (h *Hub) Stop(ctx context.Context) error {
	h.stopOnce.Do(func() {
		close(h.done)
	})
	select {
	case <-h.finished:
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

func (h *Hub) run() {
	defer close(h.finished)
	for {
		select {
		case <-h.done:
			h.closeAll()
			return
		case event := <-h.events:
			h.dispatch(event)
		}
	}
}

func (h *Hub) dispatch(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, sub := range h.subs[event.Channel] {
		select {
		case sub.C <- event:
		default:
			logger.Debugw("push_subscriber_full",
				"channel", event.Channel,
				"event", event.Name,
				"subscriber", sub.ID,
			)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, bucket := range h.subs {
		for _, sub := range bucket {
			close(sub.C)
		}
	}
	h.subs = make(map[string]map[string]*Subscriber)
}

// Publish 非阻塞投递，队列满时丢弃
func (h *Hub) Publish(event Event) {
	select {
	case h.events <- event:
	default:
		logger.Debugw("push_queue_full",
			"channel", event.Channel,
			"event", event.Name,
		)
	}
}

// Subscribe 订阅某个频道
func (h *Hub) Subscribe(channel string) *Subscriber {
	sub := &Subscriber{
		ID:      uuid.NewString(),
		Channel: channel,
		C:       make(chan Event, h.subBuffer),
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	bucket, ok := h.subs[channel]
	if !ok {
		bucket = make(map[string]*Subscriber)
		h.subs[channel] = bucket
	}
	bucket[sub.ID] = sub
	return sub
}

// Unsubscribe 取消订阅并关闭订阅者通道
func (h *Hub) Unsubscribe(sub *Subscriber) {
	if sub == nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	bucket, ok := h.subs[sub.Channel]
	if !ok {
		return
	}
	if _, ok := bucket[sub.ID]; !ok {
		return
	}
	delete(bucket, sub.ID)
	if len(bucket) == 0 {
		delete(h.subs, sub.Channel)
	}
	close(sub.C)
}

// NotifyNewOrder 向门店推送新订单信号
func (h *Hub) NotifyNewOrder(recipient models.Recipient, orderCode string) {
	h.Publish(Event{
		Channel: recipient.Channel(),
		Name:    constants.PushEventNewOrder,
		Data:    map[string]interface{}{"order_code": orderCode},
	})
	h.PlaySound(recipient, constants.PushSoundNewOrder)
}

// NotifyOrderUpdate 推送订单状态变化信号
func (h *Hub) NotifyOrderUpdate(recipient models.Recipient, orderID uint, status string) {
	h.Publish(Event{
		Channel: recipient.Channel(),
		Name:    constants.PushEventOrderStatus,
		Data:    map[string]interface{}{"order_id": orderID, "status": status},
	})
}

// PlaySound 推送提示音信号
func (h *Hub) PlaySound(recipient models.Recipient, sound string) {
	h.Publish(Event{
		Channel: recipient.Channel(),
		Name:    constants.PushEventPlaySound,
		Data:    map[string]interface{}{"sound": sound},
	})
}

// UpdateCartCount 推送购物车件数与小计变化信号
func (h *Hub) UpdateCartCount(userID uint, count int, total string) {
	recipient := models.Recipient{Type: constants.RecipientTypeCustomer, ID: userID}
	h.Publish(Event{
		Channel: recipient.Channel(),
		Name:    constants.PushEventCartUpdated,
		Data:    map[string]interface{}{"cart_count": count, "cart_total": total},
	})
}
