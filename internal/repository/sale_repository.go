package repository

import (
	"github.com/smarteats-next/internal/models"

	"gorm.io/gorm"
)

// SaleRepository 销售流水数据访问接口（只追加）
type SaleRepository interface {
	CreateBatch(sales []models.Sale) error
	ListByStore(storeID uint, page, pageSize int) ([]models.Sale, int64, error)
	WithTx(tx *gorm.DB) *GormSaleRepository
}

// GormSaleRepository GORM 实现
type GormSaleRepository struct {
	db *gorm.DB
}

// NewSaleRepository 创建销售流水仓库
func NewSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// WithTx 绑定事务
func (r *GormSaleRepository) WithTx(tx *gorm.DB) *GormSaleRepository {
	if tx == nil {
		return r
	}
	return &GormSaleRepository{db: tx}
}

// CreateBatch 批量写入流水
func (r *GormSaleRepository) CreateBatch(sales []models.Sale) error {
	if len(sales) == 0 {
		return nil
	}
	return r.db.Create(&sales).Error
}

// ListByStore 分页获取门店流水
func (r *GormSaleRepository) ListByStore(storeID uint, page, pageSize int) ([]models.Sale, int64, error) {
	query := r.db.Model(&models.Sale{}).Where("store_id = ?", storeID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, page, pageSize)

	var sales []models.Sale
	if err := query.Order("id desc").Find(&sales).Error; err != nil {
		return nil, 0, err
	}
	return sales, total, nil
}
