package service

import (
	"context"

	"github.com/narwhalmedia/marquee/internal/owned/domain"
)

// StoreInterface defines the own-movie collection operations.
type StoreInterface interface {
	List(ctx context.Context) ([]domain.OwnMovie, error)
	Get(ctx context.Context, id string) (domain.OwnMovie, error)
	Create(ctx context.Context, form domain.MovieFormValues) (domain.OwnMovie, error)
	Update(ctx context.Context, id string, form domain.MovieFormValues) (domain.OwnMovie, bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// Ensure Store implements the interface.
var _ StoreInterface = (*Store)(nil)
