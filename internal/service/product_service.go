package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/aybjewelry-client/internal/api"
	"github.com/aybjewelry-client/internal/cache"
	"github.com/aybjewelry-client/internal/constants"
	"github.com/aybjewelry-client/internal/logger"
	"github.com/aybjewelry-client/internal/models"
)

// ValidateSizeSelection 校验尺寸选择：戒指分类必须从商品尺寸列表中
// 选择，其余分类忽略尺寸
func ValidateSizeSelection(product *models.Product, size string) error {
	if product == nil || !constants.IsSizedCategory(product.Category) {
		return nil
	}
	if strings.TrimSpace(size) == "" {
		return ErrSizeRequired
	}
	if !product.HasSize(size) {
		return ErrSizeNotAvailable
	}
	return nil
}

// ProductService 商品目录服务：只读拉取，可选 Redis 缓存减少回源。
// 购物车与心愿单永不缓存（后端是唯一持久来源），仅商品目录走缓存
type ProductService struct {
	api      *api.Client
	cacheTTL time.Duration
}

// NewProductService 创建商品目录服务
func NewProductService(apiClient *api.Client, cacheTTL time.Duration) *ProductService {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &ProductService{
		api:      apiClient,
		cacheTTL: cacheTTL,
	}
}

// ListByCategory 按分类获取商品列表，category 为空返回全部
func (s *ProductService) ListByCategory(ctx context.Context, category string) ([]models.Product, error) {
	cacheKey := "products:" + strings.TrimSpace(category)

	var cached []models.Product
	if hit, err := cache.GetJSON(ctx, cacheKey, &cached); err != nil {
		logger.Warnw("product_cache_read_failed", "key", cacheKey, "error", err)
	} else if hit {
		return cached, nil
	}

	products, err := s.api.ListProducts(ctx, category)
	if err != nil {
		return nil, err
	}

	if err := cache.SetJSON(ctx, cacheKey, products, s.cacheTTL); err != nil {
		logger.Warnw("product_cache_write_failed", "key", cacheKey, "error", err)
	}
	return products, nil
}

// GetByID 获取商品详情
func (s *ProductService) GetByID(ctx context.Context, productID string) (*models.Product, error) {
	cacheKey := "product:" + productID

	var cached models.Product
	if hit, err := cache.GetJSON(ctx, cacheKey, &cached); err != nil {
		logger.Warnw("product_cache_read_failed", "key", cacheKey, "error", err)
	} else if hit {
		return &cached, nil
	}

	product, err := s.api.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if err := cache.SetJSON(ctx, cacheKey, product, s.cacheTTL); err != nil {
		logger.Warnw("product_cache_write_failed", "key", cacheKey, "error", err)
	}
	return product, nil
}
