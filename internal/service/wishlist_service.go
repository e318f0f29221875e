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

// WishlistService 心愿单同步服务：语义与 CartService 一致，
// 行项键仅为 productId（无尺寸变体），成员关系为集合
type WishlistService struct {
	api      *api.Client
	bus      *bus.Bus
	users    UserSource
	cart     *CartService
	notifier notify.Notifier

	mu      sync.Mutex
	items   []models.WishlistItem
	pending map[string]bool

	unsubscribe func()
}

// NewWishlistService 创建心愿单服务并订阅登出事件
func NewWishlistService(apiClient *api.Client, b *bus.Bus, users UserSource, cart *CartService, notifier notify.Notifier) *WishlistService {
	if notifier == nil {
		notifier = notify.Nop()
	}
	s := &WishlistService{
		api:      apiClient,
		bus:      b,
		users:    users,
		cart:     cart,
		notifier: notifier,
		pending:  make(map[string]bool),
	}
	s.unsubscribe = b.Subscribe(bus.TopicUserLogout, func(bus.Event) {
		s.reset()
	})
	return s
}

// Close 取消总线订阅
func (s *WishlistService) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}

// Items 返回镜像快照
func (s *WishlistService) Items() []models.WishlistItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.WishlistItem(nil), s.items...)
}

// Count 返回镜像项数（头部角标用）
func (s *WishlistService) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// IsWishlistItem 判断商品是否已在心愿单中
func (s *WishlistService) IsWishlistItem(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.contains(productID)
}

// Pending 判断商品是否有进行中的心愿单请求
func (s *WishlistService) Pending(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending[productID]
}

// FetchWishlist 从后端拉取权威心愿单并刷新镜像，失败时镜像重置为空
func (s *WishlistService) FetchWishlist(ctx context.Context) []models.WishlistItem {
	user := s.users.CurrentUser()
	if !user.SignedIn() {
		s.reset()
		return nil
	}

	items, err := s.api.GetWishlist(ctx, user.ID)
	if err != nil {
		logger.Warnw("wishlist_fetch_failed", "user_id", user.ID, "error", err)
		s.notifier.Notify(notify.LevelWarn, "Couldn't load your wishlist")
		s.reset()
		return nil
	}

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	return append([]models.WishlistItem(nil), items...)
}

// ToggleWishlist 单一入口的添加/移除：成员判断在调用时刻对当前镜像
// 加锁读取（而非构造时捕获的列表），再发起相反方向的请求，成功后
// 重新同步镜像并广播。连续两次调用使成员状态回到原点
func (s *WishlistService) ToggleWishlist(ctx context.Context, product *models.Product) {
	user := s.users.CurrentUser()
	if !user.SignedIn() || product == nil {
		return
	}

	s.setPending(product.ID, true)
	defer s.setPending(product.ID, false)

	s.mu.Lock()
	member := s.contains(product.ID)
	s.mu.Unlock()

	var err error
	if member {
		err = s.api.DeleteWishlistItem(ctx, user.ID, product.ID)
	} else {
		err = s.api.AddWishlistItem(ctx, user.ID, product.ID)
	}
	if err != nil {
		logger.Warnw("wishlist_toggle_failed",
			"user_id", user.ID,
			"product_id", product.ID,
			"was_member", member,
			"error", err,
		)
		s.notifier.Notify(notify.LevelWarn, "Couldn't update your wishlist")
		return
	}

	s.FetchWishlist(ctx)
	s.bus.Publish(bus.Event{Topic: bus.TopicWishlistUpdated, ProductID: product.ID})
}

// RemoveFromWishlist 请求后端删除心愿单项，成功后重新同步镜像并广播
func (s *WishlistService) RemoveFromWishlist(ctx context.Context, productID string) {
	user := s.users.CurrentUser()
	if !user.SignedIn() {
		return
	}

	s.setPending(productID, true)
	defer s.setPending(productID, false)

	if err := s.api.DeleteWishlistItem(ctx, user.ID, productID); err != nil {
		logger.Warnw("wishlist_remove_failed", "user_id", user.ID, "product_id", productID, "error", err)
		s.notifier.Notify(notify.LevelWarn, "Couldn't remove from wishlist")
		return
	}

	s.FetchWishlist(ctx)
	s.bus.Publish(bus.Event{Topic: bus.TopicWishlistUpdated, ProductID: productID})
}

// MoveToCart 复合操作：先请求加入购物车，再请求移出心愿单。心愿单
// 镜像按本地过滤更新（不回源），两个主题均广播，并强制购物车镜像
// 重新同步。加购成功而移除失败时商品同时留在购物车与心愿单——
// 尽力而为，不做补偿回滚
func (s *WishlistService) MoveToCart(ctx context.Context, product *models.Product, size string) {
	user := s.users.CurrentUser()
	if !user.SignedIn() || product == nil {
		return
	}

	s.setPending(product.ID, true)
	defer s.setPending(product.ID, false)

	err := s.api.AddCartItem(ctx, user.ID, api.CartItemInput{
		ProductID: product.ID,
		Quantity:  1,
		Size:      size,
	})
	if err != nil {
		logger.Warnw("wishlist_move_add_failed", "user_id", user.ID, "product_id", product.ID, "error", err)
		s.notifier.Notify(notify.LevelWarn, "Couldn't move to cart")
		return
	}

	if err := s.api.DeleteWishlistItem(ctx, user.ID, product.ID); err != nil {
		logger.Warnw("wishlist_move_remove_failed", "user_id", user.ID, "product_id", product.ID, "error", err)
		s.notifier.Notify(notify.LevelWarn, "Added to cart, but couldn't remove from wishlist")
	} else {
		s.mu.Lock()
		filtered := s.items[:0]
		for _, item := range s.items {
			if item.ProductID != product.ID {
				filtered = append(filtered, item)
			}
		}
		s.items = filtered
		s.mu.Unlock()
	}

	s.bus.Publish(bus.Event{Topic: bus.TopicCartUpdated, ProductID: product.ID})
	s.bus.Publish(bus.Event{Topic: bus.TopicWishlistUpdated, ProductID: product.ID})
	if s.cart != nil {
		s.cart.FetchCart(ctx)
	}
}

func (s *WishlistService) contains(productID string) bool {
	for _, item := range s.items {
		if item.ProductID == productID {
			return true
		}
	}
	return false
}

func (s *WishlistService) reset() {
	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()
}

func (s *WishlistService) setPending(productID string, value bool) {
	s.mu.Lock()
	if value {
		s.pending[productID] = true
	} else {
		delete(s.pending, productID)
	}
	s.mu.Unlock()
}
