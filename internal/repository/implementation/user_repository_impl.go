package implementation

import (
	"context"

	"symptom-checker-be/internal/entity"
	"symptom-checker-be/internal/mapper"
	"symptom-checker-be/internal/model"
	"symptom-checker-be/internal/repository/contract"
	"symptom-checker-be/internal/repository/specification"

	"gorm.io/gorm"
)

type UserRepositoryImpl struct {
	gormRepository[entity.User, model.User]
}

func NewUserRepository(db *gorm.DB) contract.UserRepository {
	return &UserRepositoryImpl{
		gormRepository: gormRepository[entity.User, model.User]{db: db, mapper: mapper.NewUserMapper()},
	}
}

func (r *UserRepositoryImpl) Create(ctx context.Context, user *entity.User) error {
	return r.create(ctx, user)
}

func (r *UserRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	return r.findOne(ctx, specs)
}

func (r *UserRepositoryImpl) Exists(ctx context.Context, specs ...specification.Specification) (bool, error) {
	n, err := r.count(ctx, specs)
	return n > 0, err
}
