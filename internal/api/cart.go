package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/aybjewelry-client/internal/models"
)

// CartItemInput 购物车添加/更新输入
type CartItemInput struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size,omitempty"`
}

// GetCart 获取用户购物车
func (c *Client) GetCart(ctx context.Context, userID string) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := c.do(ctx, http.MethodGet, "/api/cart/"+url.PathEscape(userID), nil, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// AddCartItem 添加购物车项（同键已存在时由后端累加数量）
func (c *Client) AddCartItem(ctx context.Context, userID string, input CartItemInput) error {
	return c.do(ctx, http.MethodPost, "/api/cart/"+url.PathEscape(userID), nil, input, nil)
}

// UpdateCartItem 更新购物车项数量
func (c *Client) UpdateCartItem(ctx context.Context, userID, productID string, quantity int, size string) error {
	payload := struct {
		Quantity int    `json:"quantity"`
		Size     string `json:"size,omitempty"`
	}{Quantity: quantity, Size: size}
	path := "/api/cart/" + url.PathEscape(userID) + "/" + url.PathEscape(productID)
	return c.do(ctx, http.MethodPut, path, nil, payload, nil)
}

// DeleteCartItem 删除购物车项（戒指分类以 size 参与删除键）
func (c *Client) DeleteCartItem(ctx context.Context, userID, productID, size string) error {
	var query url.Values
	if strings.TrimSpace(size) != "" {
		query = url.Values{"size": {size}}
	}
	path := "/api/cart/" + url.PathEscape(userID) + "/" + url.PathEscape(productID)
	return c.do(ctx, http.MethodDelete, path, query, nil, nil)
}

// ClearCart 清空用户购物车
func (c *Client) ClearCart(ctx context.Context, userID string) error {
	return c.do(ctx, http.MethodDelete, "/api/cart/"+url.PathEscape(userID), nil, nil, nil)
}
