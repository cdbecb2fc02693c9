// AngelaMos | 2026
// service.go

package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/carterperez-dev/storefront-api/internal/core"
)

var ErrNoActiveOrder = errors.New("no active order")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]Order, error) {
	return s.repo.List(ctx)
}

// Get returns the order with its line items. callerID must own it.
func (s *Service) Get(ctx context.Context, id, callerID int64) (*Order, []OrderProduct, error) {
	order, err := s.owned(ctx, id, callerID)
	if err != nil {
		return nil, nil, err
	}

	products, err := s.repo.Products(ctx, order.ID)
	if err != nil {
		return nil, nil, err
	}

	return order, products, nil
}

func (s *Service) Create(ctx context.Context, callerID int64) (*Order, error) {
	return s.repo.Create(ctx, callerID)
}

func (s *Service) AddProduct(
	ctx context.Context,
	id, callerID int64,
	req AddProductRequest,
) (*OrderProduct, error) {
	if _, err := s.owned(ctx, id, callerID); err != nil {
		return nil, err
	}
	return s.repo.AddProduct(ctx, id, req.ProductID, req.Quantity)
}

func (s *Service) Delete(ctx context.Context, id, callerID int64) error {
	if _, err := s.owned(ctx, id, callerID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// UpdateStatus sets any valid status. Completed orders may be reopened.
func (s *Service) UpdateStatus(
	ctx context.Context,
	id, callerID int64,
	req UpdateStatusRequest,
) (*Order, error) {
	if _, err := s.owned(ctx, id, callerID); err != nil {
		return nil, err
	}
	return s.repo.UpdateStatus(ctx, id, req.Status)
}

func (s *Service) Current(ctx context.Context, userID int64) (*Order, error) {
	order, err := s.repo.Current(ctx, userID)
	if errors.Is(err, core.ErrNotFound) {
		return nil, ErrNoActiveOrder
	}
	return order, err
}

func (s *Service) Completed(ctx context.Context, userID int64) ([]Order, error) {
	return s.repo.Completed(ctx, userID)
}

func (s *Service) owned(ctx context.Context, id, callerID int64) (*Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.UserID != callerID {
		return nil, fmt.Errorf("order %d: %w", id, core.ErrForbidden)
	}
	return order, nil
}
