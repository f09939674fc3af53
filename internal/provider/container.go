package provider

import (
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/smarteats-next/internal/cache"
	"github.com/smarteats-next/internal/config"
	"github.com/smarteats-next/internal/logger"
	"github.com/smarteats-next/internal/models"
	"github.com/smarteats-next/internal/push"
	"github.com/smarteats-next/internal/queue"
	"github.com/smarteats-next/internal/repository"
	"github.com/smarteats-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client
	CacheStore  cache.Store
	PushHub     *push.Hub

	// Repositories
	StoreRepo        repository.StoreRepository
	ProductRepo      repository.ProductRepository
	UserRepo         repository.UserRepository
	CourierRepo      repository.CourierRepository
	CustomMealRepo   repository.CustomMealRepository
	CartRepo         repository.CartRepository
	OrderRepo        repository.OrderRepository
	SaleRepo         repository.SaleRepository
	DeliveryRepo     repository.DeliveryRepository
	NotificationRepo repository.NotificationRepository

	// Services
	EmailSender         service.EmailSender
	NotificationService *service.NotificationService
	StoreService        *service.StoreService
	CustomMealService   *service.CustomMealService
	CartService         *service.CartService
	OrderService        *service.OrderService
	DispatchService     *service.DispatchService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	c := &Container{
		Config:      cfg,
		QueueClient: queue.NewClient(cfg.Queue),
		CacheStore:  buildCacheStore(cfg),
		PushHub:     push.NewHub(cfg.Push.QueueSize, cfg.Push.SubscriberBuffer),
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.StoreRepo = repository.NewStoreRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.UserRepo = repository.NewUserRepository(db)
	c.CourierRepo = repository.NewCourierRepository(db)
	c.CustomMealRepo = repository.NewCustomMealRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.SaleRepo = repository.NewSaleRepository(db)
	c.DeliveryRepo = repository.NewDeliveryRepository(db)
	c.NotificationRepo = repository.NewNotificationRepository(db)
}

func (c *Container) initServices() {
	c.EmailSender = service.NewEmailSender(c.Config.Email)
	c.NotificationService = service.NewNotificationService(c.NotificationRepo)
	c.StoreService = service.NewStoreService(c.StoreRepo, c.ProductRepo)
	c.CustomMealService = service.NewCustomMealService(c.CustomMealRepo, c.StoreRepo)
	c.CartService = service.NewCartService(c.CartRepo, c.ProductRepo, c.CustomMealRepo, c.CacheStore, c.PushHub)
	c.OrderService = service.NewOrderService(
		models.DB,
		c.OrderRepo,
		c.CartRepo,
		c.StoreRepo,
		c.UserRepo,
		c.SaleRepo,
		c.NotificationService,
		c.CacheStore,
		c.PushHub,
		c.QueueClient,
		c.Config.Delivery,
	)
	c.DispatchService = service.NewDispatchService(
		models.DB,
		c.OrderRepo,
		c.DeliveryRepo,
		c.CourierRepo,
		c.UserRepo,
		c.NotificationService,
		c.PushHub,
		c.QueueClient,
	)
}

// buildCacheStore 按配置选择缓存实现，Redis 未启用时使用进程内缓存
func buildCacheStore(cfg *config.Config) cache.Store {
	ttl := time.Duration(cfg.Cache.TTLSeconds) * time.Second
	if !cfg.Redis.Enabled {
		return cache.NewMemoryStore(ttl, cfg.Cache.MaxRecipients)
	}
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	logger.Infow("cache_redis_enabled", "addr", fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port))
	return cache.NewRedisStore(client, cfg.Redis.Prefix, ttl)
}
