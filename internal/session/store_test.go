package session

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/aybjewelry-client/internal/models"
)

func testUser() *models.User {
	return &models.User{
		ID:      "u1",
		Token:   "token-u1",
		Name:    "Ani",
		Surname: "Khachatryan",
		Email:   "ani@example.com",
	}
}

func TestLoadWithoutSessionReturnsNil(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("create store failed: %v", err)
	}
	user, err := store.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if user != nil {
		t.Fatalf("expected nil user, got %+v", user)
	}
}

func TestSaveLoadClearRoundtrip(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("create store failed: %v", err)
	}

	if err := store.Save(testUser()); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded == nil || loaded.ID != "u1" || loaded.Token != "token-u1" {
		t.Fatalf("unexpected user: %+v", loaded)
	}
	if got := store.Token(); got != "token-u1" {
		t.Fatalf("unexpected token: %q", got)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	loaded, err = store.Load()
	if err != nil {
		t.Fatalf("load after clear failed: %v", err)
	}
	if loaded != nil {
		t.Fatalf("expected nil after clear, got %+v", loaded)
	}
	if got := store.Token(); got != "" {
		t.Fatalf("expected empty token after clear, got %q", got)
	}
}

func TestClearWithoutSessionIsNoop(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("create store failed: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("clear of missing session must succeed: %v", err)
	}
}

func TestSaveRejectsInvalidUser(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("create store failed: %v", err)
	}
	if err := store.Save(&models.User{Name: "no-id"}); err == nil {
		t.Fatal("expected error for user without id/token")
	}
}

func TestWatchFiresOnExternalChange(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir)
	if err != nil {
		t.Fatalf("create store failed: %v", err)
	}

	var fired atomic.Int32
	stop, err := store.Watch(func() { fired.Add(1) })
	if err != nil {
		t.Fatalf("watch failed: %v", err)
	}
	defer stop()

	// 模拟另一进程写入同一会话槽
	other, err := New(dir)
	if err != nil {
		t.Fatalf("create second store failed: %v", err)
	}
	if err := other.Save(testUser()); err != nil {
		t.Fatalf("save from second store failed: %v", err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for fired.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("watch callback never fired after external write")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
