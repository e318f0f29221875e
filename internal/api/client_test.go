package api_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/aybjewelry-client/internal/api"
	"github.com/aybjewelry-client/internal/backendtest"
	"github.com/aybjewelry-client/internal/models"
)

func newClient(t *testing.T, server *backendtest.Server, token string) *api.Client {
	t.Helper()
	return api.NewClient(server.URL(), 5*time.Second, api.StaticToken(token))
}

func seedRing(t *testing.T, server *backendtest.Server) models.Product {
	t.Helper()
	ring := models.Product{
		ID:       "r1",
		Name:     "Gold Band",
		Category: "ring",
		Price:    models.NewMoney(45000),
		Sizes:    []string{"17", "18", "19"},
		InStock:  true,
	}
	server.SeedProduct(t, ring)
	return ring
}

func TestCartRoundtrip(t *testing.T) {
	server := backendtest.New(t)
	user := server.SeedUser(t, "u1", "Ani", "K", "ani@example.com", "secret")
	seedRing(t, server)
	client := newClient(t, server, user.Token)
	ctx := context.Background()

	if err := client.AddCartItem(ctx, user.ID, api.CartItemInput{ProductID: "r1", Quantity: 2, Size: "18"}); err != nil {
		t.Fatalf("add cart item failed: %v", err)
	}

	items, err := client.GetCart(ctx, user.ID)
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 line item, got %d", len(items))
	}
	if items[0].Quantity != 2 || items[0].Size != "18" || items[0].Name != "Gold Band" {
		t.Fatalf("unexpected line item: %+v", items[0])
	}

	if err := client.UpdateCartItem(ctx, user.ID, "r1", 5, "18"); err != nil {
		t.Fatalf("update cart item failed: %v", err)
	}
	items, err = client.GetCart(ctx, user.ID)
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if items[0].Quantity != 5 {
		t.Fatalf("expected quantity 5 after update, got %d", items[0].Quantity)
	}

	if err := client.DeleteCartItem(ctx, user.ID, "r1", "18"); err != nil {
		t.Fatalf("delete cart item failed: %v", err)
	}
	items, err = client.GetCart(ctx, user.ID)
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty cart, got %d items", len(items))
	}
}

func TestMissingTokenIsUnauthorized(t *testing.T) {
	server := backendtest.New(t)
	server.SeedUser(t, "u1", "Ani", "K", "ani@example.com", "secret")
	client := newClient(t, server, "")

	_, err := client.GetCart(context.Background(), "u1")
	if !errors.Is(err, api.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestDeleteMissingItemIsNotFound(t *testing.T) {
	server := backendtest.New(t)
	user := server.SeedUser(t, "u1", "Ani", "K", "ani@example.com", "secret")
	client := newClient(t, server, user.Token)

	err := client.DeleteCartItem(context.Background(), user.ID, "nope", "")
	if !errors.Is(err, api.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	var apiErr *api.APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusNotFound {
		t.Fatalf("expected APIError with 404 status, got %v", err)
	}
}

func TestWishlistRoundtrip(t *testing.T) {
	server := backendtest.New(t)
	user := server.SeedUser(t, "u1", "Ani", "K", "ani@example.com", "secret")
	seedRing(t, server)
	client := newClient(t, server, user.Token)
	ctx := context.Background()

	if err := client.AddWishlistItem(ctx, user.ID, "r1"); err != nil {
		t.Fatalf("add wishlist item failed: %v", err)
	}
	items, err := client.GetWishlist(ctx, user.ID)
	if err != nil {
		t.Fatalf("get wishlist failed: %v", err)
	}
	if len(items) != 1 || items[0].ProductID != "r1" {
		t.Fatalf("unexpected wishlist: %+v", items)
	}

	if err := client.DeleteWishlistItem(ctx, user.ID, "r1"); err != nil {
		t.Fatalf("delete wishlist item failed: %v", err)
	}
	items, err = client.GetWishlist(ctx, user.ID)
	if err != nil {
		t.Fatalf("get wishlist failed: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty wishlist, got %+v", items)
	}
}

func TestLoginReturnsSessionUser(t *testing.T) {
	server := backendtest.New(t)
	server.SeedUser(t, "u1", "Ani", "Khachatryan", "ani@example.com", "secret")
	client := newClient(t, server, "")

	user, err := client.Login(context.Background(), api.LoginInput{Email: "ani@example.com", Password: "secret"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user.ID != "u1" || user.Token == "" || user.Surname != "Khachatryan" {
		t.Fatalf("unexpected user: %+v", user)
	}

	// 返回的 Token 必须可用于后续受保护接口
	authed := newClient(t, server, user.Token)
	if _, err := authed.GetCart(context.Background(), user.ID); err != nil {
		t.Fatalf("token from login rejected: %v", err)
	}
}

func TestLoginBadPassword(t *testing.T) {
	server := backendtest.New(t)
	server.SeedUser(t, "u1", "Ani", "K", "ani@example.com", "secret")
	client := newClient(t, server, "")

	_, err := client.Login(context.Background(), api.LoginInput{Email: "ani@example.com", Password: "wrong"})
	if !errors.Is(err, api.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
