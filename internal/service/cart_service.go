package service

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/smarteats-next/internal/cache"
	"github.com/smarteats-next/internal/logger"
	"github.com/smarteats-next/internal/models"
	"github.com/smarteats-next/internal/push"
	"github.com/smarteats-next/internal/repository"
)

// CartTotals 购物车聚合结果
type CartTotals struct {
	Count    int          `json:"count"`    // 商品件数（数量求和）
	Subtotal models.Money `json:"subtotal"` // 小计金额
}

// CartService 购物车服务
type CartService struct {
	carts    repository.CartRepository
	products repository.ProductRepository
	meals    repository.CustomMealRepository
	cache    cache.Store
	hub      *push.Hub
}

// NewCartService 创建购物车服务
func NewCartService(
	carts repository.CartRepository,
	products repository.ProductRepository,
	meals repository.CustomMealRepository,
	cacheStore cache.Store,
	hub *push.Hub,
) *CartService {
	return &CartService{
		carts:    carts,
		products: products,
		meals:    meals,
		cache:    cacheStore,
		hub:      hub,
	}
}

// GetCart 获取 (用户, 门店) 的购物车，不存在时返回空购物车。
// 已下架商品的购物车项在读取时剔除，不参与展示与结算。
func (s *CartService) GetCart(userID, storeID uint) (*models.Cart, error) {
	cart, err := s.carts.GetByUserAndStore(userID, storeID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return &models.Cart{UserID: userID, StoreID: storeID}, nil
	}
	cart.Items = liveCartItems(cart.Items)
	return cart, nil
}

// liveCartItems 过滤掉引用已下架商品的购物车项
func liveCartItems(items []models.CartItem) []models.CartItem {
	live := make([]models.CartItem, 0, len(items))
	for _, item := range items {
		if item.Product != nil && !item.Product.IsActive {
			continue
		}
		live = append(live, item)
	}
	return live
}

func (s *CartService) getOrCreate(userID, storeID uint) (*models.Cart, error) {
	cart, err := s.carts.GetByUserAndStore(userID, storeID)
	if err != nil {
		return nil, err
	}
	if cart != nil {
		return cart, nil
	}
	cart = &models.Cart{UserID: userID, StoreID: storeID}
	if err := s.carts.Create(cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// AddProduct 添加商品到购物车，已存在时累加数量
func (s *CartService) AddProduct(ctx context.Context, userID, storeID, productID uint, quantity int) (*models.CartItem, error) {
	if quantity <= 0 {
		quantity = 1
	}

	product, err := s.products.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil || product.StoreID != storeID {
		return nil, ErrProductNotFound
	}
	if !product.IsActive {
		return nil, ErrProductNotAvailable
	}

	cart, err := s.getOrCreate(userID, storeID)
	if err != nil {
		return nil, err
	}

	item, err := s.carts.FindProductItem(cart.ID, productID)
	if err != nil {
		return nil, err
	}
	if item != nil {
		item.Quantity += quantity
		if err := s.carts.UpdateItemQuantity(item.ID, item.Quantity); err != nil {
			return nil, err
		}
	} else {
		item = &models.CartItem{CartID: cart.ID, ProductID: &productID, Quantity: quantity}
		if err := s.carts.CreateItem(item); err != nil {
			return nil, err
		}
	}

	s.afterMutation(ctx, userID, storeID)
	return item, nil
}

// AddCustomMeal 添加自选套餐到购物车
func (s *CartService) AddCustomMeal(ctx context.Context, userID, storeID, customMealID uint, quantity int) (*models.CartItem, error) {
	if quantity <= 0 {
		quantity = 1
	}

	meal, err := s.meals.GetByIDAndUser(customMealID, userID)
	if err != nil {
		return nil, err
	}
	if meal == nil || meal.StoreID != storeID {
		return nil, ErrCustomMealNotFound
	}

	cart, err := s.getOrCreate(userID, storeID)
	if err != nil {
		return nil, err
	}

	item, err := s.carts.FindCustomMealItem(cart.ID, customMealID)
	if err != nil {
		return nil, err
	}
	if item != nil {
		item.Quantity += quantity
		if err := s.carts.UpdateItemQuantity(item.ID, item.Quantity); err != nil {
			return nil, err
		}
	} else {
		item = &models.CartItem{CartID: cart.ID, CustomMealID: &customMealID, Quantity: quantity}
		if err := s.carts.CreateItem(item); err != nil {
			return nil, err
		}
	}

	s.afterMutation(ctx, userID, storeID)
	return item, nil
}

// IncrementItem 购物车项数量加一
func (s *CartService) IncrementItem(ctx context.Context, userID, storeID, itemID uint) (*models.CartItem, error) {
	_, item, err := s.findItem(userID, storeID, itemID)
	if err != nil {
		return nil, err
	}

	item.Quantity++
	if err := s.carts.UpdateItemQuantity(item.ID, item.Quantity); err != nil {
		return nil, err
	}

	s.afterMutation(ctx, userID, storeID)
	return item, nil
}

// DecrementItem 购物车项数量减一，减到零即删除该项
func (s *CartService) DecrementItem(ctx context.Context, userID, storeID, itemID uint) (*models.CartItem, error) {
	_, item, err := s.findItem(userID, storeID, itemID)
	if err != nil {
		return nil, err
	}

	item.Quantity--
	if item.Quantity <= 0 {
		if err := s.carts.DeleteItem(item.ID); err != nil {
			return nil, err
		}
		item = nil
	} else {
		if err := s.carts.UpdateItemQuantity(item.ID, item.Quantity); err != nil {
			return nil, err
		}
	}

	s.afterMutation(ctx, userID, storeID)
	return item, nil
}

// RemoveItem 删除购物车项
func (s *CartService) RemoveItem(ctx context.Context, userID, storeID, itemID uint) error {
	_, item, err := s.findItem(userID, storeID, itemID)
	if err != nil {
		return err
	}
	if err := s.carts.DeleteItem(item.ID); err != nil {
		return err
	}

	s.afterMutation(ctx, userID, storeID)
	return nil
}

func (s *CartService) findItem(userID, storeID, itemID uint) (*models.Cart, *models.CartItem, error) {
	cart, err := s.carts.GetByUserAndStore(userID, storeID)
	if err != nil {
		return nil, nil, err
	}
	if cart == nil {
		return nil, nil, ErrCartItemNotFound
	}
	item, err := s.carts.GetItem(cart.ID, itemID)
	if err != nil {
		return nil, nil, err
	}
	if item == nil {
		return nil, nil, ErrCartItemNotFound
	}
	return cart, item, nil
}

// Totals 购物车聚合（件数与小计），命中缓存时跳过数据库
func (s *CartService) Totals(ctx context.Context, userID, storeID uint) (*CartTotals, error) {
	key := totalsCacheKey(storeID)
	if raw, ok, err := s.cache.Get(ctx, userID, key); err == nil && ok {
		var totals CartTotals
		if err := json.Unmarshal([]byte(raw), &totals); err == nil {
			return &totals, nil
		}
	} else if err != nil {
		logger.Debugw("cart_cache_get_failed", "user_id", userID, "error", err)
	}

	cart, err := s.carts.GetByUserAndStore(userID, storeID)
	if err != nil {
		return nil, err
	}
	totals := computeTotals(cart)

	if raw, err := json.Marshal(totals); err == nil {
		if err := s.cache.Set(ctx, userID, key, string(raw)); err != nil {
			logger.Debugw("cart_cache_set_failed", "user_id", userID, "error", err)
		}
	}
	return totals, nil
}

// computeTotals 从购物车明细计算聚合值
func computeTotals(cart *models.Cart) *CartTotals {
	totals := &CartTotals{Subtotal: models.NewMoneyFromDecimal(decimal.Zero)}
	if cart == nil {
		return totals
	}
	sum := decimal.Zero
	for _, item := range liveCartItems(cart.Items) {
		var unit decimal.Decimal
		switch {
		case item.Product != nil:
			unit = item.Product.PriceAmount.Decimal
		case item.CustomMeal != nil:
			unit = item.CustomMeal.TotalAmount.Decimal
		default:
			continue
		}
		totals.Count += item.Quantity
		sum = sum.Add(unit.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	totals.Subtotal = models.NewMoneyFromDecimal(sum)
	return totals
}

func totalsCacheKey(storeID uint) string {
	return cache.KeyCartTotals + ":" + strconv.FormatUint(uint64(storeID), 10)
}

// afterMutation 购物车变化后的统一收尾：失效缓存并推送最新件数
func (s *CartService) afterMutation(ctx context.Context, userID, storeID uint) {
	if err := s.cache.Remove(ctx, userID, totalsCacheKey(storeID)); err != nil {
		logger.Debugw("cart_cache_invalidate_failed", "user_id", userID, "error", err)
	}
	totals, err := s.Totals(ctx, userID, storeID)
	if err != nil {
		logger.Warnw("cart_totals_recompute_failed", "user_id", userID, "store_id", storeID, "error", err)
		return
	}
	s.hub.UpdateCartCount(userID, totals.Count, totals.Subtotal.String())
}
