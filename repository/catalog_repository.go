package repository

import (
	"context"
	"sync"

	"github.com/Bill-Pill/sunglasses-io/models"
)

// CatalogRepository defines read access to the brand and product catalog.
type CatalogRepository interface {
	Load(brands []models.Brand, products []models.Product)
	Brands(ctx context.Context) []models.Brand
	Products(ctx context.Context) []models.Product
}

// InMemoryCatalogRepository keeps the catalog in load order.
type InMemoryCatalogRepository struct {
	mu       sync.RWMutex
	brands   []models.Brand
	products []models.Product
}

// NewInMemoryCatalogRepository creates an empty catalog.
func NewInMemoryCatalogRepository() *InMemoryCatalogRepository {
	return &InMemoryCatalogRepository{}
}

// Load replaces the catalog.
func (r *InMemoryCatalogRepository) Load(brands []models.Brand, products []models.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.brands = append([]models.Brand(nil), brands...)
	r.products = append([]models.Product(nil), products...)
}

func (r *InMemoryCatalogRepository) Brands(_ context.Context) []models.Brand {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append(make([]models.Brand, 0, len(r.brands)), r.brands...)
}

func (r *InMemoryCatalogRepository) Products(_ context.Context) []models.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append(make([]models.Product, 0, len(r.products)), r.products...)
}
