package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/Lixing-Zhang/kart-challenge/catalog-service/internal/models"
	"github.com/Lixing-Zhang/kart-challenge/catalog-service/internal/repository"
)

// ProductService handles validation and persistence of products
type ProductService struct {
	repo     repository.ProductRepository
	validate *validator.Validate
}

// NewProductService creates a new product service
func NewProductService(repo repository.ProductRepository) *ProductService {
	return &ProductService{
		repo:     repo,
		validate: newValidator(),
	}
}

// CreateProduct validates in and stores a new product
func (s *ProductService) CreateProduct(ctx context.Context, in models.ProductInput) (*models.Product, error) {
	if err := check(s.validate, in); err != nil {
		return nil, err
	}

	var product models.Product
	in.Apply(&product)

	if err := s.repo.Create(ctx, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// ListProducts returns a page of products in insertion order
func (s *ProductService) ListProducts(ctx context.Context, params models.ListParams) ([]models.Product, error) {
	if err := check(s.validate, params); err != nil {
		return nil, err
	}

	return s.repo.List(ctx, repository.ListFilter{
		Offset:   params.Skip,
		Limit:    params.Limit,
		Category: params.Category,
	})
}

// GetProduct returns a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, id)
	}
	return product, nil
}

// UpdateProduct replaces every field of the product with in
func (s *ProductService) UpdateProduct(ctx context.Context, id int64, in models.ProductInput) (*models.Product, error) {
	if err := check(s.validate, in); err != nil {
		return nil, err
	}

	product := models.Product{ID: id}
	in.Apply(&product)

	if err := s.repo.Update(ctx, &product); err != nil {
		return nil, notFound(err, id)
	}
	return &product, nil
}

// DeleteProduct permanently removes a product
func (s *ProductService) DeleteProduct(ctx context.Context, id int64) error {
	return notFound(s.repo.Delete(ctx, id), id)
}

// notFound translates the repository sentinel into a KindNotFound error
func notFound(err error, id int64) error {
	if errors.Is(err, repository.ErrProductNotFound) {
		return NotFoundError(id)
	}
	return err
}
