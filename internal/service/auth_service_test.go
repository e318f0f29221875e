package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aybjewelry-client/internal/api"
	"github.com/aybjewelry-client/internal/backendtest"
	"github.com/aybjewelry-client/internal/bus"
	"github.com/aybjewelry-client/internal/models"
	"github.com/aybjewelry-client/internal/session"
)

func setupAuthTest(t *testing.T) (*backendtest.Server, *AuthService, *session.Store, *bus.Bus, *api.Client) {
	t.Helper()
	server := backendtest.New(t)
	server.SeedUser(t, "u1", "Ani", "Khachatryan", "ani@example.com", "secret")
	server.SeedProduct(t, models.Product{
		ID:       "n1",
		Name:     "Silver Chain",
		Category: "necklace",
		Price:    models.NewMoney(20000),
		InStock:  true,
	})

	sessions, err := session.New(t.TempDir())
	if err != nil {
		t.Fatalf("create session store failed: %v", err)
	}
	client := api.NewClient(server.URL(), 5*time.Second, sessions)
	eventBus := bus.New()
	auth := NewAuthService(client, eventBus, sessions)
	return server, auth, sessions, eventBus, client
}

func TestLoginPersistsSession(t *testing.T) {
	_, auth, sessions, _, _ := setupAuthTest(t)

	user, err := auth.Login(context.Background(), "ani@example.com", "secret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if !user.SignedIn() {
		t.Fatalf("expected signed-in user, got %+v", user)
	}

	persisted, err := sessions.Load()
	if err != nil {
		t.Fatalf("load session failed: %v", err)
	}
	if persisted == nil || persisted.ID != user.ID || persisted.Token != user.Token {
		t.Fatalf("expected persisted session to match login, got %+v", persisted)
	}
	if auth.CurrentUser().ID != "u1" {
		t.Fatalf("expected current user u1, got %+v", auth.CurrentUser())
	}
}

func TestLoginBadCredentials(t *testing.T) {
	_, auth, sessions, _, _ := setupAuthTest(t)

	_, err := auth.Login(context.Background(), "ani@example.com", "nope")
	if !errors.Is(err, api.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if user, _ := sessions.Load(); user != nil {
		t.Fatalf("expected no session after failed login, got %+v", user)
	}
}

func TestLogoutToleratesMissingCartAndWishlist(t *testing.T) {
	_, auth, sessions, eventBus, _ := setupAuthTest(t)
	ctx := context.Background()

	if _, err := auth.Login(ctx, "ani@example.com", "secret"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	logoutEvents := 0
	eventBus.Subscribe(bus.TopicUserLogout, func(bus.Event) { logoutEvents++ })

	// 购物车与心愿单均为空：两个清理请求都返回 404，登出仍须完成
	if err := auth.Logout(ctx); err != nil {
		t.Fatalf("logout must tolerate 404 teardown, got %v", err)
	}

	if auth.CurrentUser().SignedIn() {
		t.Fatal("expected signed-out state after logout")
	}
	if user, _ := sessions.Load(); user != nil {
		t.Fatalf("expected session cleared, got %+v", user)
	}
	if logoutEvents != 1 {
		t.Fatalf("expected one user-logout broadcast, got %d", logoutEvents)
	}
}

func TestLogoutAbortsOnTeardownFailure(t *testing.T) {
	server, auth, sessions, eventBus, client := setupAuthTest(t)
	ctx := context.Background()

	user, err := auth.Login(ctx, "ani@example.com", "secret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if err := client.AddCartItem(ctx, user.ID, api.CartItemInput{ProductID: "n1", Quantity: 1}); err != nil {
		t.Fatalf("seed cart failed: %v", err)
	}

	logoutEvents := 0
	eventBus.Subscribe(bus.TopicUserLogout, func(bus.Event) { logoutEvents++ })

	server.ForceStatus("DELETE /api/cart/:userId", 500)
	err = auth.Logout(ctx)
	if err == nil {
		t.Fatal("expected logout to propagate teardown failure")
	}

	// 会话记录保留，状态回到 active，可重试
	if !auth.CurrentUser().SignedIn() {
		t.Fatal("expected user still signed in after aborted logout")
	}
	if persisted, _ := sessions.Load(); persisted == nil {
		t.Fatal("expected session record retained after aborted logout")
	}
	if logoutEvents != 0 {
		t.Fatalf("expected no user-logout broadcast after aborted logout, got %d", logoutEvents)
	}

	server.ForceStatus("DELETE /api/cart/:userId", 0)
	if err := auth.Logout(ctx); err != nil {
		t.Fatalf("retry after aborted logout failed: %v", err)
	}
}

func TestLogoutGuardsAgainstDuplicateCalls(t *testing.T) {
	_, auth, _, _, _ := setupAuthTest(t)
	ctx := context.Background()

	if _, err := auth.Login(ctx, "ani@example.com", "secret"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if err := auth.Logout(ctx); err != nil {
		t.Fatalf("logout failed: %v", err)
	}

	// 防重入标志在安顿延迟内保持，期间的重复调用被拒绝
	if err := auth.Logout(ctx); !errors.Is(err, ErrLogoutInProgress) {
		t.Fatalf("expected ErrLogoutInProgress, got %v", err)
	}
}

func TestLogoutWithoutUserIsNoop(t *testing.T) {
	server, auth, _, _, _ := setupAuthTest(t)

	if err := auth.Logout(context.Background()); err != nil {
		t.Fatalf("logout without user must be a no-op, got %v", err)
	}
	if total := server.TotalRequests(); total != 0 {
		t.Fatalf("expected no teardown requests without user, got %d", total)
	}
}

func TestHandleSessionChangeExternalLogout(t *testing.T) {
	_, auth, sessions, eventBus, _ := setupAuthTest(t)
	ctx := context.Background()

	if _, err := auth.Login(ctx, "ani@example.com", "secret"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	logoutEvents := 0
	eventBus.Subscribe(bus.TopicUserLogout, func(bus.Event) { logoutEvents++ })

	// 模拟其他进程清除会话槽后信号到达
	if err := sessions.Clear(); err != nil {
		t.Fatalf("clear session failed: %v", err)
	}
	auth.HandleSessionChange()

	if auth.CurrentUser().SignedIn() {
		t.Fatal("expected signed-out state after external logout signal")
	}
	if logoutEvents != 1 {
		t.Fatalf("expected user-logout broadcast, got %d", logoutEvents)
	}
}

func TestHandleSessionChangeExternalLogin(t *testing.T) {
	_, auth, sessions, eventBus, _ := setupAuthTest(t)

	cartEvents := 0
	wishlistEvents := 0
	eventBus.Subscribe(bus.TopicCartUpdated, func(bus.Event) { cartEvents++ })
	eventBus.Subscribe(bus.TopicWishlistUpdated, func(bus.Event) { wishlistEvents++ })

	// 模拟其他进程写入登录态
	if err := sessions.Save(&models.User{ID: "u1", Token: "tok", Name: "Ani"}); err != nil {
		t.Fatalf("save session failed: %v", err)
	}
	auth.HandleSessionChange()

	if !auth.CurrentUser().SignedIn() {
		t.Fatal("expected signed-in state after external login signal")
	}
	if cartEvents != 1 || wishlistEvents != 1 {
		t.Fatalf("expected both change topics broadcast for resync, got cart=%d wishlist=%d", cartEvents, wishlistEvents)
	}
}
