package router

import (
	"github.com/gin-gonic/gin"
	"github.com/smarteats-next/internal/config"
	apihandlers "github.com/smarteats-next/internal/http/handlers/api"
	"github.com/smarteats-next/internal/logger"
	"github.com/smarteats-next/internal/provider"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	handler := apihandlers.New(c)

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	api := r.Group("/api")
	{
		// 门店
		stores := api.Group("/stores")
		{
			stores.GET("", handler.ListStores)
			stores.GET("/:id", handler.GetStore)
			stores.GET("/:id/products", handler.ListStoreProducts)
			stores.PUT("/:id/verify", handler.VerifyStore)
		}

		// 购物车
		cart := api.Group("/cart/:storeID")
		{
			cart.GET("", handler.GetCart)
			cart.GET("/totals", handler.GetCartTotals)
			cart.POST("/items", handler.AddCartItem)
			cart.POST("/items/:itemID/increment", handler.IncrementCartItem)
			cart.POST("/items/:itemID/decrement", handler.DecrementCartItem)
			cart.DELETE("/items/:itemID", handler.RemoveCartItem)
		}

		// 自选套餐
		customMeals := api.Group("/custom-meals")
		{
			customMeals.GET("", handler.ListCustomMeals)
			customMeals.POST("", handler.CreateCustomMeal)
		}

		// 订单
		orders := api.Group("/orders")
		{
			orders.POST("", handler.CreateOrder)
			orders.GET("", handler.ListOrders)
			orders.GET("/:id", handler.GetOrder)
			orders.PUT("/:id/status", handler.UpdateOrderStatus)
		}

		// 骑手调度
		delivery := api.Group("/delivery")
		{
			delivery.GET("/ready", handler.ListReadyOrders)
			delivery.POST("/claim/:orderID", handler.ClaimOrder)
			delivery.POST("/:id/complete", handler.CompleteDelivery)
			delivery.GET("/active", handler.ListActiveDeliveries)
			delivery.GET("/stats", handler.DeliveryStats)
		}

		// 通知
		notifications := api.Group("/notifications")
		{
			notifications.GET("", handler.ListNotifications)
			notifications.PUT("/:id/read", handler.MarkNotificationRead)
			notifications.GET("/unread-count", handler.UnreadNotificationCount)
		}

		// 实时推送
		api.GET("/push/stream", handler.StreamPush)
	}

	return r
}
