package service

import (
	"github.com/smarteats-next/internal/logger"
	"github.com/smarteats-next/internal/models"
	"github.com/smarteats-next/internal/repository"
)

// StoreService 门店服务
type StoreService struct {
	stores   repository.StoreRepository
	products repository.ProductRepository
}

// NewStoreService 创建门店服务
func NewStoreService(stores repository.StoreRepository, products repository.ProductRepository) *StoreService {
	return &StoreService{stores: stores, products: products}
}

// List 门店列表
func (s *StoreService) List() ([]models.Store, error) {
	return s.stores.ListAll()
}

// Get 获取门店
func (s *StoreService) Get(id uint) (*models.Store, error) {
	store, err := s.stores.GetByID(id)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, ErrStoreNotFound
	}
	return store, nil
}

// Products 门店在售商品
func (s *StoreService) Products(storeID uint) ([]models.Product, error) {
	if _, err := s.Get(storeID); err != nil {
		return nil, err
	}
	return s.products.ListByStore(storeID, true)
}

// SetVerified 管理员审核门店
func (s *StoreService) SetVerified(id uint, verified bool) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	if err := s.stores.SetVerified(id, verified); err != nil {
		return err
	}
	logger.Infow("store_verified_changed", "store_id", id, "verified", verified)
	return nil
}
