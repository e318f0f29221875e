package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/aybjewelry-client/internal/api"
	"github.com/aybjewelry-client/internal/bus"
	"github.com/aybjewelry-client/internal/logger"
	"github.com/aybjewelry-client/internal/models"
	"github.com/aybjewelry-client/internal/session"
)

const defaultLogoutSettleDelay = 300 * time.Millisecond

// AuthService 会话服务：持有当前登录用户、驱动登录/登出流程。
// 登出是三态流转 active → logging-out → logged-out：先尽力清理后端
// 购物车与心愿单（404 视为已清理），再清除本地会话记录并广播登出
// 事件。与购物车/心愿单操作不同，登出的清理错误会向调用方传播
type AuthService struct {
	api         *api.Client
	bus         *bus.Bus
	sessions    *session.Store
	settleDelay time.Duration

	mu         sync.Mutex
	user       *models.User
	loggingOut bool
}

// NewAuthService 创建会话服务并从本地会话存储恢复登录态
func NewAuthService(apiClient *api.Client, b *bus.Bus, sessions *session.Store) *AuthService {
	s := &AuthService{
		api:         apiClient,
		bus:         b,
		sessions:    sessions,
		settleDelay: defaultLogoutSettleDelay,
	}
	user, err := sessions.Load()
	if err != nil {
		logger.Warnw("session_restore_failed", "error", err)
	}
	s.user = user
	return s
}

// CurrentUser 返回当前登录用户，未登录时返回 nil
func (s *AuthService) CurrentUser() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Login 登录并持久化会话记录
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.api.Login(ctx, api.LoginInput{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Save(user); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.user = user
	s.mu.Unlock()

	logger.Infow("user_logged_in", "user_id", user.ID)
	return user, nil
}

// Register 注册并持久化会话记录（注册成功即登录态）
func (s *AuthService) Register(ctx context.Context, input api.RegisterInput) (*models.User, error) {
	user, err := s.api.Register(ctx, input)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Save(user); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.user = user
	s.mu.Unlock()

	logger.Infow("user_registered", "user_id", user.ID)
	return user, nil
}

// Logout 登出。后端购物车/心愿单清理请求返回 404 视为已清理；
// 其他错误中止流转并返回（本地会话记录保留，状态回到 active）。
// 已有登出进行中时返回 ErrLogoutInProgress
func (s *AuthService) Logout(ctx context.Context) error {
	s.mu.Lock()
	if s.loggingOut {
		s.mu.Unlock()
		return ErrLogoutInProgress
	}
	user := s.user
	if !user.SignedIn() {
		s.mu.Unlock()
		return nil
	}
	s.loggingOut = true
	s.mu.Unlock()

	if err := s.teardown(ctx, user.ID); err != nil {
		s.mu.Lock()
		s.loggingOut = false
		s.mu.Unlock()
		return err
	}

	if err := s.sessions.Clear(); err != nil {
		s.mu.Lock()
		s.loggingOut = false
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()

	// 会话文件删除本身即跨进程登出信号，进程内订阅者走总线
	s.bus.Publish(bus.Event{Topic: bus.TopicUserLogout})
	logger.Infow("user_logged_out", "user_id", user.ID)

	// 延迟清除防重入标志，给订阅者留出安顿时间
	time.AfterFunc(s.settleDelay, func() {
		s.mu.Lock()
		s.loggingOut = false
		s.mu.Unlock()
	})
	return nil
}

// HandleSessionChange 处理跨进程会话变更信号（会话文件被其他进程
// 写入或删除）：登出广播 user-logout 使镜像清空，登录/换用户广播
// 两个变更主题促使各视图为新用户重新同步
func (s *AuthService) HandleSessionChange() {
	fresh, err := s.sessions.Load()
	if err != nil {
		logger.Warnw("session_reload_failed", "error", err)
		return
	}

	s.mu.Lock()
	previous := s.user
	s.user = fresh
	s.mu.Unlock()

	switch {
	case previous.SignedIn() && !fresh.SignedIn():
		logger.Infow("session_signed_out_externally", "user_id", previous.ID)
		s.bus.Publish(bus.Event{Topic: bus.TopicUserLogout})
	case fresh.SignedIn() && (!previous.SignedIn() || previous.ID != fresh.ID):
		logger.Infow("session_signed_in_externally", "user_id", fresh.ID)
		s.bus.Publish(bus.Event{Topic: bus.TopicCartUpdated})
		s.bus.Publish(bus.Event{Topic: bus.TopicWishlistUpdated})
	}
}

// teardown 尽力清理后端购物车与心愿单，404 视为已清理
func (s *AuthService) teardown(ctx context.Context, userID string) error {
	if err := s.api.ClearCart(ctx, userID); err != nil && !errors.Is(err, api.ErrNotFound) {
		logger.Errorw("logout_cart_teardown_failed", "user_id", userID, "error", err)
		return err
	}
	if err := s.api.ClearWishlist(ctx, userID); err != nil && !errors.Is(err, api.ErrNotFound) {
		logger.Errorw("logout_wishlist_teardown_failed", "user_id", userID, "error", err)
		return err
	}
	return nil
}
