package main

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/smarteats-next/internal/config"
	"github.com/smarteats-next/internal/logger"
	"github.com/smarteats-next/internal/models"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	lat := func(v float64) *float64 { return &v }

	// 添加门店
	stores := []models.Store{
		{
			Name:         "Mama Ngina Kitchen",
			Email:        "mamangina@smarteats.dev",
			Phone:        "+254700000001",
			Address:      "Kimathi Street 12, Nairobi",
			OpeningHours: "08:00 to 20:00",
			Confirmed:    true,
			Verified:     true,
			Latitude:     lat(-1.2833),
			Longitude:    lat(36.8167),
			RegisteredAt: time.Now(),
		},
		{
			Name:         "Harare Grill House",
			Email:        "grillhouse@smarteats.dev",
			Phone:        "+263770000002",
			Address:      "Samora Machel Ave 45, Harare",
			OpeningHours: "09:00 to 18:30",
			Confirmed:    true,
			Verified:     true,
			Latitude:     lat(-17.8292),
			Longitude:    lat(31.0522),
			RegisteredAt: time.Now(),
		},
	}
	for i := range stores {
		var existing models.Store
		if err := models.DB.Where("email = ?", stores[i].Email).First(&existing).Error; err != nil {
			if err := models.DB.Create(&stores[i]).Error; err != nil {
				stdLog.Printf("Failed to create store %s: %v", stores[i].Name, err)
			} else {
				stdLog.Printf("Created store: %s", stores[i].Name)
			}
		} else {
			stores[i] = existing
			stdLog.Printf("Store already exists: %s", existing.Name)
		}
	}

	// 添加商品
	products := []models.Product{
		{
			StoreID:     stores[0].ID,
			Name:        "Chicken Biryani",
			Description: "Fragrant rice with slow cooked chicken",
			Category:    "Mains",
			PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromFloat(8.50)),
			Quantity:    50,
			IsActive:    true,
		},
		{
			StoreID:     stores[0].ID,
			Name:        "Chapati",
			Description: "Fresh layered flatbread",
			Category:    "Sides",
			PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromFloat(0.80)),
			Quantity:    200,
			IsActive:    true,
		},
		{
			StoreID:     stores[1].ID,
			Name:        "Flame Grilled Chicken",
			Description: "Half chicken with peri peri sauce",
			Category:    "Grill",
			PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromFloat(6.00)),
			Quantity:    40,
			IsActive:    true,
		},
		{
			StoreID:     stores[1].ID,
			Name:        "Sadza and Greens",
			Description: "Traditional maize meal with vegetables",
			Category:    "Mains",
			PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromFloat(3.50)),
			Quantity:    60,
			IsActive:    true,
		},
	}
	for _, product := range products {
		if product.StoreID == 0 {
			continue
		}
		var existing models.Product
		if err := models.DB.Where("store_id = ? AND name = ?", product.StoreID, product.Name).First(&existing).Error; err != nil {
			if err := models.DB.Create(&product).Error; err != nil {
				stdLog.Printf("Failed to create product %s: %v", product.Name, err)
			} else {
				stdLog.Printf("Created product: %s", product.Name)
			}
		} else {
			stdLog.Printf("Product already exists: %s", product.Name)
		}
	}

	// 添加演示顾客
	user := models.User{
		Username:  "amara",
		LastName:  "Okafor",
		Email:     "amara@smarteats.dev",
		Latitude:  lat(-1.2921),
		Longitude: lat(36.8219),
	}
	var existingUser models.User
	if err := models.DB.Where("email = ?", user.Email).First(&existingUser).Error; err != nil {
		if err := models.DB.Create(&user).Error; err != nil {
			stdLog.Printf("Failed to create user %s: %v", user.Username, err)
		} else {
			stdLog.Printf("Created user: %s", user.Username)
		}
	} else {
		stdLog.Printf("User already exists: %s", existingUser.Username)
	}

	// 添加演示骑手
	courier := models.Courier{
		Names:  "Tendai Moyo",
		Email:  "tendai@smarteats.dev",
		IsFree: true,
	}
	var existingCourier models.Courier
	if err := models.DB.Where("email = ?", courier.Email).First(&existingCourier).Error; err != nil {
		if err := models.DB.Create(&courier).Error; err != nil {
			stdLog.Printf("Failed to create courier %s: %v", courier.Names, err)
		} else {
			stdLog.Printf("Created courier: %s", courier.Names)
		}
	} else {
		stdLog.Printf("Courier already exists: %s", existingCourier.Names)
	}

	stdLog.Printf("Seed completed")
}
