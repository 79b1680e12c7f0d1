package repository

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/Lixing-Zhang/kart-challenge/catalog-service/internal/models"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// ListFilter selects a page of products in insertion order
type ListFilter struct {
	Offset   int
	Limit    int
	Category string // empty means no filter
}

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	// Create stores p and sets p.ID to the identifier assigned by storage
	Create(ctx context.Context, p *models.Product) error
	List(ctx context.Context, filter ListFilter) ([]models.Product, error)
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	// Update overwrites every column of the record identified by p.ID
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id int64) error
}

// InMemoryProductRepository implements ProductRepository with in-memory storage
type InMemoryProductRepository struct {
	mu       sync.RWMutex
	products map[int64]models.Product
	nextID   int64
}

// NewInMemoryProductRepository creates an empty in-memory product repository
func NewInMemoryProductRepository() *InMemoryProductRepository {
	return &InMemoryProductRepository{
		products: make(map[int64]models.Product),
		nextID:   1,
	}
}

// Create assigns the next identifier and stores a copy of p
func (r *InMemoryProductRepository) Create(ctx context.Context, p *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p.ID = r.nextID
	r.nextID++
	r.products[p.ID] = *p
	return nil
}

// List returns products ordered by ID, filtered and paged
func (r *InMemoryProductRepository) List(ctx context.Context, filter ListFilter) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]models.Product, 0, len(r.products))
	for _, product := range r.products {
		if filter.Category != "" && product.Category != filter.Category {
			continue
		}
		matched = append(matched, product)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	if filter.Offset >= len(matched) {
		return []models.Product{}, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit >= 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

// GetByID returns a product by its ID
func (r *InMemoryProductRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, exists := r.products[id]
	if !exists {
		return nil, ErrProductNotFound
	}
	return &product, nil
}

// Update replaces the stored record with p
func (r *InMemoryProductRepository) Update(ctx context.Context, p *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.products[p.ID]; !exists {
		return ErrProductNotFound
	}
	r.products[p.ID] = *p
	return nil
}

// Delete removes a product permanently
func (r *InMemoryProductRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.products[id]; !exists {
		return ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}
