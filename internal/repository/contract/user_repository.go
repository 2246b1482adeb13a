package contract

import (
	"context"

	"symptom-checker-be/internal/entity"
	"symptom-checker-be/internal/repository/specification"
)

// UserRepository stores accounts. FindOne returns nil, nil when no user matches.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	Exists(ctx context.Context, specs ...specification.Specification) (bool, error)
}
