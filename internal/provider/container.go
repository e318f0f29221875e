package provider

import (
	"github.com/aybjewelry-client/internal/api"
	"github.com/aybjewelry-client/internal/bus"
	"github.com/aybjewelry-client/internal/config"
	"github.com/aybjewelry-client/internal/notify"
	"github.com/aybjewelry-client/internal/service"
	"github.com/aybjewelry-client/internal/session"
)

// Container 依赖注入容器：所有共享状态（会话、镜像、总线）在此
// 显式构建并注入，不使用包级单例
type Container struct {
	Config   *config.Config
	Bus      *bus.Bus
	Sessions *session.Store
	API      *api.Client
	Notifier notify.Notifier

	// Services
	AuthService     *service.AuthService
	CartService     *service.CartService
	WishlistService *service.WishlistService
	ProductService  *service.ProductService
	OrderService    *service.OrderService

	stopSessionWatch func()
}

// Build 构建容器
func Build(cfg *config.Config, notifier notify.Notifier) (*Container, error) {
	if notifier == nil {
		notifier = notify.Nop()
	}

	sessions, err := session.New(cfg.Session.Dir)
	if err != nil {
		return nil, err
	}

	eventBus := bus.New()
	apiClient := api.NewClient(cfg.API.BaseURL, cfg.API.Timeout(), sessions)

	authService := service.NewAuthService(apiClient, eventBus, sessions)
	cartService := service.NewCartService(apiClient, eventBus, authService, notifier)
	wishlistService := service.NewWishlistService(apiClient, eventBus, authService, cartService, notifier)
	productService := service.NewProductService(apiClient, cfg.Redis.CacheTTL())
	orderService := service.NewOrderService(apiClient, authService, cartService)

	return &Container{
		Config:          cfg,
		Bus:             eventBus,
		Sessions:        sessions,
		API:             apiClient,
		Notifier:        notifier,
		AuthService:     authService,
		CartService:     cartService,
		WishlistService: wishlistService,
		ProductService:  productService,
		OrderService:    orderService,
	}, nil
}

// StartSessionWatch 启动跨进程会话信号监听
func (c *Container) StartSessionWatch() error {
	stop, err := c.Sessions.Watch(c.AuthService.HandleSessionChange)
	if err != nil {
		return err
	}
	c.stopSessionWatch = stop
	return nil
}

// Close 释放容器持有的订阅与监听
func (c *Container) Close() {
	if c.stopSessionWatch != nil {
		c.stopSessionWatch()
	}
	c.WishlistService.Close()
	c.CartService.Close()
}
