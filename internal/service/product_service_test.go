package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aybjewelry-client/internal/api"
	"github.com/aybjewelry-client/internal/backendtest"
	"github.com/aybjewelry-client/internal/models"
)

func setupProductTest(t *testing.T) (*backendtest.Server, *ProductService) {
	t.Helper()
	server := backendtest.New(t)
	server.SeedProduct(t, models.Product{
		ID:       "r1",
		Name:     "Gold Band",
		Category: "ring",
		Price:    models.NewMoney(45000),
		Sizes:    []string{"17", "18"},
		InStock:  true,
	})
	server.SeedProduct(t, models.Product{
		ID:       "n1",
		Name:     "Silver Chain",
		Category: "necklace",
		Price:    models.NewMoney(20000),
		InStock:  true,
	})

	client := api.NewClient(server.URL(), 5*time.Second, api.StaticToken(""))
	return server, NewProductService(client, time.Minute)
}

func TestListByCategoryFilters(t *testing.T) {
	_, products := setupProductTest(t)
	ctx := context.Background()

	all, err := products.ListByCategory(ctx, "")
	if err != nil {
		t.Fatalf("list all failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 products, got %d", len(all))
	}

	rings, err := products.ListByCategory(ctx, "ring")
	if err != nil {
		t.Fatalf("list rings failed: %v", err)
	}
	if len(rings) != 1 || rings[0].ID != "r1" {
		t.Fatalf("expected only r1 in ring category, got %+v", rings)
	}
}

func TestGetByIDReturnsProduct(t *testing.T) {
	_, products := setupProductTest(t)

	product, err := products.GetByID(context.Background(), "r1")
	if err != nil {
		t.Fatalf("get product failed: %v", err)
	}
	if product.Name != "Gold Band" || !product.HasSize("18") {
		t.Fatalf("unexpected product: %+v", product)
	}
	if product.HasSize("25") {
		t.Fatal("expected HasSize false for unlisted size")
	}
}

func TestGetByIDMissingIsProductNotFound(t *testing.T) {
	_, products := setupProductTest(t)

	_, err := products.GetByID(context.Background(), "nope")
	if !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestValidateSizeSelection(t *testing.T) {
	ring := &models.Product{ID: "r1", Category: "ring", Sizes: []string{"17", "18"}}

	if err := ValidateSizeSelection(ring, ""); !errors.Is(err, ErrSizeRequired) {
		t.Fatalf("expected ErrSizeRequired for ring without size, got %v", err)
	}
	if err := ValidateSizeSelection(ring, "25"); !errors.Is(err, ErrSizeNotAvailable) {
		t.Fatalf("expected ErrSizeNotAvailable for unlisted size, got %v", err)
	}
	if err := ValidateSizeSelection(ring, "17"); err != nil {
		t.Fatalf("expected listed size to pass, got %v", err)
	}

	necklace := &models.Product{ID: "n1", Category: "necklace"}
	if err := ValidateSizeSelection(necklace, "18"); err != nil {
		t.Fatalf("expected size to be ignored for non-ring, got %v", err)
	}
}

func TestCatalogRequiresNoAuth(t *testing.T) {
	server, products := setupProductTest(t)

	if _, err := products.ListByCategory(context.Background(), "ring"); err != nil {
		t.Fatalf("catalog read without token failed: %v", err)
	}
	if got := server.Requests("GET /api/products"); got != 1 {
		t.Fatalf("expected one catalog request, got %d", got)
	}
}
