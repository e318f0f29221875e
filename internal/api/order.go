package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/aybjewelry-client/internal/models"
)

// CreateOrder 从当前购物车行项创建订单
func (c *Client) CreateOrder(ctx context.Context, userID string, input models.CheckoutInput) (*models.Order, error) {
	var order models.Order
	if err := c.do(ctx, http.MethodPost, "/api/orders/"+url.PathEscape(userID), nil, input, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrders 获取用户历史订单
func (c *Client) ListOrders(ctx context.Context, userID string) ([]models.Order, error) {
	var orders []models.Order
	if err := c.do(ctx, http.MethodGet, "/api/orders/"+url.PathEscape(userID), nil, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}
