package models

import "testing"

func TestCartLineKeyRingIncludesSize(t *testing.T) {
	if got := CartLineKey("ring", "r1", "18"); got != "r1#18" {
		t.Fatalf("expected ring line key r1#18, got %q", got)
	}
	if got := CartLineKey("ring", "r1", "19"); got == CartLineKey("ring", "r1", "18") {
		t.Fatal("expected distinct keys for distinct ring sizes")
	}
}

func TestCartLineKeyNonRingIgnoresSize(t *testing.T) {
	if got := CartLineKey("necklace", "n1", "18"); got != "n1" {
		t.Fatalf("expected size-free key for necklace, got %q", got)
	}
	if got := CartLineKey("ring", "r1", ""); got != "r1" {
		t.Fatalf("expected bare product key for ring without size, got %q", got)
	}
}

func TestSubtotalAndCartTotal(t *testing.T) {
	items := []CartItem{
		{ProductID: "r1", Category: "ring", Price: NewMoney(45000), Quantity: 2, Size: "18"},
		{ProductID: "n1", Category: "necklace", Price: NewMoney(20000), Quantity: 3},
	}

	if got := items[0].Subtotal(); got != NewMoney(90000) {
		t.Fatalf("expected subtotal 90000, got %s", got)
	}
	if got := CartTotal(items); got != NewMoney(150000) {
		t.Fatalf("expected total 150000, got %s", got)
	}
	if got := CartTotal(nil); got != NewMoney(0) {
		t.Fatalf("expected zero total for empty cart, got %s", got)
	}
}

func TestMoneyString(t *testing.T) {
	// 德拉姆无小数位，始终整数字符串
	if got := NewMoney(45000).String(); got != "45000" {
		t.Fatalf("expected \"45000\", got %q", got)
	}
	if got := NewMoney(0).String(); got != "0" {
		t.Fatalf("expected \"0\", got %q", got)
	}
}

func TestProductToWishlistItem(t *testing.T) {
	p := &Product{ID: "r1", Name: "Gold Band", Category: "ring", Price: NewMoney(45000), Image: "r1.jpg"}
	item := p.ToWishlistItem()
	if item.ProductID != "r1" || item.Name != "Gold Band" || item.Price != NewMoney(45000) {
		t.Fatalf("unexpected wishlist item: %+v", item)
	}
}

func TestUserSignedIn(t *testing.T) {
	var none *User
	if none.SignedIn() {
		t.Fatal("nil user must not be signed in")
	}
	if (&User{ID: "u1"}).SignedIn() {
		t.Fatal("user without token must not be signed in")
	}
	if !(&User{ID: "u1", Token: "tok"}).SignedIn() {
		t.Fatal("user with id and token must be signed in")
	}
}
