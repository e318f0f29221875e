package service

import (
	"context"
	"strings"

	"github.com/aybjewelry-client/internal/api"
	"github.com/aybjewelry-client/internal/logger"
	"github.com/aybjewelry-client/internal/models"
)

// OrderService 结账服务：将当前购物车镜像提交为订单，下单成功后
// 清空购物车（清空操作自身会广播 cart-updated）
type OrderService struct {
	api   *api.Client
	users UserSource
	cart  *CartService
}

// NewOrderService 创建结账服务
func NewOrderService(apiClient *api.Client, users UserSource, cart *CartService) *OrderService {
	return &OrderService{
		api:   apiClient,
		users: users,
		cart:  cart,
	}
}

// Checkout 提交订单。与购物车变更操作不同，结账错误向调用方传播，
// 由结账页面决定如何呈现
func (s *OrderService) Checkout(ctx context.Context, address, phone string) (*models.Order, error) {
	user := s.users.CurrentUser()
	if !user.SignedIn() {
		return nil, ErrNotSignedIn
	}
	if strings.TrimSpace(address) == "" || strings.TrimSpace(phone) == "" {
		return nil, ErrCheckoutIncomplete
	}

	items := s.cart.FetchCart(ctx)
	if len(items) == 0 {
		return nil, ErrCartEmpty
	}

	order, err := s.api.CreateOrder(ctx, user.ID, models.CheckoutInput{
		Items:   items,
		Address: address,
		Phone:   phone,
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("order_created", "user_id", user.ID, "order_id", order.ID, "total", order.Total.String())
	s.cart.ClearCart(ctx)
	return order, nil
}

// ListOrders 获取当前用户历史订单
func (s *OrderService) ListOrders(ctx context.Context) ([]models.Order, error) {
	user := s.users.CurrentUser()
	if !user.SignedIn() {
		return nil, ErrNotSignedIn
	}
	return s.api.ListOrders(ctx, user.ID)
}
