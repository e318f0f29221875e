package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/aybjewelry-client/internal/models"
)

// GetWishlist 获取用户心愿单
func (c *Client) GetWishlist(ctx context.Context, userID string) ([]models.WishlistItem, error) {
	var resp struct {
		Items []models.WishlistItem `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/wishlist/"+url.PathEscape(userID), nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// AddWishlistItem 添加心愿单项
func (c *Client) AddWishlistItem(ctx context.Context, userID, productID string) error {
	payload := struct {
		ProductID string `json:"productId"`
	}{ProductID: productID}
	return c.do(ctx, http.MethodPost, "/api/wishlist/"+url.PathEscape(userID), nil, payload, nil)
}

// DeleteWishlistItem 删除心愿单项
func (c *Client) DeleteWishlistItem(ctx context.Context, userID, productID string) error {
	path := "/api/wishlist/" + url.PathEscape(userID) + "/" + url.PathEscape(productID)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// ClearWishlist 清空用户心愿单
func (c *Client) ClearWishlist(ctx context.Context, userID string) error {
	return c.do(ctx, http.MethodDelete, "/api/wishlist/"+url.PathEscape(userID), nil, nil, nil)
}
