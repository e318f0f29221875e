package bus

import (
	"sync"

	"github.com/aybjewelry-client/internal/logger"
)

// Topic 事件主题
type Topic string

// 事件主题常量
const (
	TopicCartUpdated     Topic = "cart-updated"
	TopicWishlistUpdated Topic = "wishlist-updated"
	TopicUserLogout      Topic = "user-logout"
)

// Event 总线事件（订阅方收到信号后自行向后端重新同步，不携带状态数据）
type Event struct {
	Topic     Topic  // 主题
	ProductID string // 变更相关商品ID（可为空）
}

// Handler 事件处理函数
type Handler func(Event)

// Bus 进程内发布/订阅总线
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[Topic]map[int]Handler
}

// New 创建总线
func New() *Bus {
	return &Bus{
		subs: make(map[Topic]map[int]Handler),
	}
}

// Subscribe 订阅主题，返回取消订阅函数；取消后处理函数不会再被调用
func (b *Bus) Subscribe(topic Topic, handler Handler) func() {
	if handler == nil {
		return func() {}
	}

	b.mu.Lock()
	b.nextID++
	id := b.nextID
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[int]Handler)
	}
	b.subs[topic][id] = handler
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs[topic], id)
			b.mu.Unlock()
		})
	}
}

// Publish 发布事件（同步扇出，所有当前订阅者各收到一次）
func (b *Bus) Publish(event Event) {
	b.mu.Lock()
	handlers := make([]Handler, 0, len(b.subs[event.Topic]))
	for _, handler := range b.subs[event.Topic] {
		handlers = append(handlers, handler)
	}
	b.mu.Unlock()

	logger.Debugw("bus_publish",
		"topic", string(event.Topic),
		"product_id", event.ProductID,
		"subscribers", len(handlers),
	)
	for _, handler := range handlers {
		handler(event)
	}
}
