package service

import (
	"context"
	"sync"

	"github.com/aybjewelry-client/internal/api"
	"github.com/aybjewelry-client/internal/bus"
	"github.com/aybjewelry-client/internal/logger"
	"github.com/aybjewelry-client/internal/models"
	"github.com/aybjewelry-client/internal/notify"
)

// CartService 购物车同步服务：持有当前用户购物车的本地镜像，
// 所有变更操作先请求后端再重新同步镜像，成功后向总线广播。
// 后端是唯一持久状态来源，镜像仅用于渲染。
//
// 变更操作的失败不会作为错误返回：在操作边界捕获、记录日志并通过
// Notifier 呈现瞬态提示，镜像保持不变，不重试。未登录时所有操作
// 立即返回（调用方负责引导用户登录）。
type CartService struct {
	api      *api.Client
	bus      *bus.Bus
	users    UserSource
	notifier notify.Notifier

	mu      sync.Mutex
	items   []models.CartItem
	pending map[string]bool

	unsubscribe func()
}

// NewCartService 创建购物车服务并订阅登出事件（登出时镜像清空）
func NewCartService(apiClient *api.Client, b *bus.Bus, users UserSource, notifier notify.Notifier) *CartService {
	if notifier == nil {
		notifier = notify.Nop()
	}
	s := &CartService{
		api:      apiClient,
		bus:      b,
		users:    users,
		notifier: notifier,
		pending:  make(map[string]bool),
	}
	s.unsubscribe = b.Subscribe(bus.TopicUserLogout, func(bus.Event) {
		s.reset()
	})
	return s
}

// Close 取消总线订阅
func (s *CartService) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}

// Items 返回镜像快照
func (s *CartService) Items() []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.CartItem(nil), s.items...)
}

// Total 返回镜像总额
func (s *CartService) Total() models.Money {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.CartTotal(s.items)
}

// Count 返回镜像行项数（头部角标用）
func (s *CartService) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// IsCartItem 判断商品是否已在购物车中（仅按 productId，忽略尺寸：
// 多尺寸戒指购物车下该判断回答"任一尺寸是否在购物车"，需要尺寸级
// 状态的调用方应直接检查 Items）
func (s *CartService) IsCartItem(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.ProductID == productID {
			return true
		}
	}
	return false
}

// Pending 判断商品是否有进行中的购物车请求（界面按钮禁用用）
func (s *CartService) Pending(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending[productID]
}

// FetchCart 从后端拉取权威购物车列表并刷新镜像。失败时镜像重置为空、
// 呈现非致命提示，返回空列表；成功时返回最新列表供需要内联数据的调用方使用
func (s *CartService) FetchCart(ctx context.Context) []models.CartItem {
	user := s.users.CurrentUser()
	if !user.SignedIn() {
		s.reset()
		return nil
	}

	items, err := s.api.GetCart(ctx, user.ID)
	if err != nil {
		logger.Warnw("cart_fetch_failed", "user_id", user.ID, "error", err)
		s.notifier.Notify(notify.LevelWarn, "Couldn't load your cart")
		s.reset()
		return nil
	}

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	return append([]models.CartItem(nil), items...)
}

// AddToCart 请求后端添加/累加购物车项，成功后重新同步镜像并广播。
// 同一 (productId, size) 键已存在时由后端累加数量而非新增行项
func (s *CartService) AddToCart(ctx context.Context, productID string, quantity int, size string) {
	user := s.users.CurrentUser()
	if !user.SignedIn() {
		return
	}
	if quantity < 1 {
		logger.Debugw("cart_add_skipped", "product_id", productID, "quantity", quantity)
		return
	}

	s.setPending(productID, true)
	defer s.setPending(productID, false)

	err := s.api.AddCartItem(ctx, user.ID, api.CartItemInput{
		ProductID: productID,
		Quantity:  quantity,
		Size:      size,
	})
	if err != nil {
		logger.Warnw("cart_add_failed", "user_id", user.ID, "product_id", productID, "error", err)
		s.notifier.Notify(notify.LevelWarn, "Couldn't add to cart")
		return
	}

	s.FetchCart(ctx)
	s.bus.Publish(bus.Event{Topic: bus.TopicCartUpdated, ProductID: productID})
}

// RemoveFromCart 请求后端删除匹配行项（戒指分类以 size 参与删除键），
// 成功后重新同步镜像并广播
func (s *CartService) RemoveFromCart(ctx context.Context, productID, size string) {
	user := s.users.CurrentUser()
	if !user.SignedIn() {
		return
	}

	s.setPending(productID, true)
	defer s.setPending(productID, false)

	if err := s.api.DeleteCartItem(ctx, user.ID, productID, size); err != nil {
		logger.Warnw("cart_remove_failed", "user_id", user.ID, "product_id", productID, "error", err)
		s.notifier.Notify(notify.LevelWarn, "Couldn't remove from cart")
		return
	}

	s.FetchCart(ctx)
	s.bus.Publish(bus.Event{Topic: bus.TopicCartUpdated, ProductID: productID})
}

// UpdateCartItem 请求后端修改行项数量，成功后重新同步镜像并广播。
// 数量在输入边界统一钳制：小于 1 的请求不会发往后端（删除需显式调用
// RemoveFromCart）
func (s *CartService) UpdateCartItem(ctx context.Context, productID string, quantity int, size string) {
	user := s.users.CurrentUser()
	if !user.SignedIn() {
		return
	}
	if quantity < 1 {
		logger.Debugw("cart_update_clamped", "product_id", productID, "quantity", quantity)
		return
	}

	s.setPending(productID, true)
	defer s.setPending(productID, false)

	if err := s.api.UpdateCartItem(ctx, user.ID, productID, quantity, size); err != nil {
		logger.Warnw("cart_update_failed", "user_id", user.ID, "product_id", productID, "error", err)
		s.notifier.Notify(notify.LevelWarn, "Couldn't update your cart")
		return
	}

	s.FetchCart(ctx)
	s.bus.Publish(bus.Event{Topic: bus.TopicCartUpdated, ProductID: productID})
}

// ClearCart 请求后端清空购物车；结果已知，成功后直接置空镜像（不再
// 回源同步）并广播
func (s *CartService) ClearCart(ctx context.Context) {
	user := s.users.CurrentUser()
	if !user.SignedIn() {
		return
	}

	if err := s.api.ClearCart(ctx, user.ID); err != nil {
		logger.Warnw("cart_clear_failed", "user_id", user.ID, "error", err)
		s.notifier.Notify(notify.LevelWarn, "Couldn't clear your cart")
		return
	}

	s.reset()
	s.bus.Publish(bus.Event{Topic: bus.TopicCartUpdated})
}

func (s *CartService) reset() {
	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()
}

func (s *CartService) setPending(productID string, value bool) {
	s.mu.Lock()
	if value {
		s.pending[productID] = true
	} else {
		delete(s.pending, productID)
	}
	s.mu.Unlock()
}
