// AngelaMos | 2026
// service.go

package product

import (
	"context"
	"fmt"
	"strings"

	"github.com/carterperez-dev/storefront-api/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]Product, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, req CreateProductRequest) (*Product, error) {
	product := req.toProduct()
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *Service) Update(
	ctx context.Context,
	id int64,
	req UpdateProductRequest,
) (*Product, error) {
	changes := req.changes()
	if changes.IsEmpty() {
		return nil, fmt.Errorf("update product: %w", core.Invalid("no valid updates provided"))
	}
	return s.repo.Update(ctx, id, changes)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListByCategory(ctx context.Context, category string) ([]Product, error) {
	return s.repo.ListByCategory(ctx, strings.ToLower(category))
}

func (s *Service) Popular(ctx context.Context) ([]Product, error) {
	return s.repo.Popular(ctx)
}

func (s *Service) Search(ctx context.Context, term string) ([]Product, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, fmt.Errorf("search products: %w", core.Invalid("search term is required"))
	}
	return s.repo.Search(ctx, term)
}
