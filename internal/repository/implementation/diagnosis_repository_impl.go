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

type DiagnosisRepositoryImpl struct {
	gormRepository[entity.DiagnosisRecord, model.Diagnosis]
}

func NewDiagnosisRepository(db *gorm.DB) contract.DiagnosisRepository {
	return &DiagnosisRepositoryImpl{
		gormRepository: gormRepository[entity.DiagnosisRecord, model.Diagnosis]{db: db, mapper: mapper.NewDiagnosisMapper()},
	}
}

func (r *DiagnosisRepositoryImpl) Create(ctx context.Context, record *entity.DiagnosisRecord) error {
	return r.create(ctx, record)
}

func (r *DiagnosisRepositoryImpl) Delete(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return r.delete(ctx, specs)
}

func (r *DiagnosisRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.DiagnosisRecord, error) {
	return r.findOne(ctx, specs)
}

func (r *DiagnosisRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DiagnosisRecord, error) {
	return r.findAll(ctx, specs)
}

func (r *DiagnosisRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return r.count(ctx, specs)
}
