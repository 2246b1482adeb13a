package unitofwork

import (
	"context"

	"symptom-checker-be/internal/repository/contract"
)

// RepositoryFactory hands out a unit of work bound to one request context.
type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}

type UnitOfWork interface {
	// Transaction runs fn against repositories sharing one database
	// transaction. A non-nil error from fn rolls it back.
	Transaction(fn func(tx UnitOfWork) error) error

	UserRepository() contract.UserRepository
	DiagnosisRepository() contract.DiagnosisRepository
}
