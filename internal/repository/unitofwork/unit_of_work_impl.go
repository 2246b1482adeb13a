package unitofwork

import (
	"context"

	"symptom-checker-be/internal/repository/contract"
	"symptom-checker-be/internal/repository/implementation"

	"gorm.io/gorm"
)

type RepositoryFactoryImpl struct {
	db *gorm.DB
}

func NewRepositoryFactory(db *gorm.DB) RepositoryFactory {
	return &RepositoryFactoryImpl{db: db}
}

func (f *RepositoryFactoryImpl) NewUnitOfWork(ctx context.Context) UnitOfWork {
	return &UnitOfWorkImpl{db: f.db.WithContext(ctx)}
}

type UnitOfWorkImpl struct {
	db *gorm.DB
}

func (u *UnitOfWorkImpl) Transaction(fn func(tx UnitOfWork) error) error {
	return u.db.Transaction(func(tx *gorm.DB) error {
		return fn(&UnitOfWorkImpl{db: tx})
	})
}

func (u *UnitOfWorkImpl) UserRepository() contract.UserRepository {
	return implementation.NewUserRepository(u.db)
}

func (u *UnitOfWorkImpl) DiagnosisRepository() contract.DiagnosisRepository {
	return implementation.NewDiagnosisRepository(u.db)
}
