package operator

import (
	"context"

	"github.com/google/uuid"
)

//go:generate mockgen -source=repository.go -destination=mocks/mock_repository.go -package=mocks

// Repository defines the interface for operator storage
type Repository interface {
	Create(ctx context.Context, op *Operator) error
	GetByUsername(ctx context.Context, username string) (*Operator, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Operator, error)
	List(ctx context.Context) ([]*Operator, error)
}
