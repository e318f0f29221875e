package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/aybjewelry-client/internal/models"
)

// ListProducts 按分类获取商品列表，category 为空时返回全部
func (c *Client) ListProducts(ctx context.Context, category string) ([]models.Product, error) {
	var query url.Values
	if strings.TrimSpace(category) != "" {
		query = url.Values{"category": {category}}
	}
	var products []models.Product
	if err := c.do(ctx, http.MethodGet, "/api/products", query, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct 获取商品详情
func (c *Client) GetProduct(ctx context.Context, productID string) (*models.Product, error) {
	var product models.Product
	if err := c.do(ctx, http.MethodGet, "/api/products/"+url.PathEscape(productID), nil, nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}
