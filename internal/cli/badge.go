package cli

import (
	"fmt"
	"sync"

	"github.com/aybjewelry-client/internal/bus"
	"github.com/aybjewelry-client/internal/service"
)

// Badge 头部角标视图：独立订阅购物车/心愿单变更与登出事件，收到
// 信号后从服务镜像重新读取计数（订阅随视图生命周期获取与释放）
type Badge struct {
	cart     *service.CartService
	wishlist *service.WishlistService

	mu            sync.Mutex
	cartCount     int
	wishlistCount int

	unsubscribes []func()
}

// NewBadge 创建角标视图并订阅相关主题
func NewBadge(b *bus.Bus, cart *service.CartService, wishlist *service.WishlistService) *Badge {
	badge := &Badge{
		cart:     cart,
		wishlist: wishlist,
	}
	badge.refresh()
	badge.unsubscribes = []func(){
		b.Subscribe(bus.TopicCartUpdated, func(bus.Event) { badge.refresh() }),
		b.Subscribe(bus.TopicWishlistUpdated, func(bus.Event) { badge.refresh() }),
		b.Subscribe(bus.TopicUserLogout, func(bus.Event) { badge.refresh() }),
	}
	return badge
}

// Close 取消订阅
func (b *Badge) Close() {
	for _, unsubscribe := range b.unsubscribes {
		unsubscribe()
	}
}

// Render 渲染角标（提示符前缀）
func (b *Badge) Render() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return fmt.Sprintf("[cart:%d wish:%d]", b.cartCount, b.wishlistCount)
}

func (b *Badge) refresh() {
	cartCount := b.cart.Count()
	wishlistCount := b.wishlist.Count()

	b.mu.Lock()
	b.cartCount = cartCount
	b.wishlistCount = wishlistCount
	b.mu.Unlock()
}
