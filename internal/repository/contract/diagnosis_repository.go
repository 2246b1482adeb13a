package contract

import (
	"context"

	"symptom-checker-be/internal/entity"
	"symptom-checker-be/internal/repository/specification"
)

type DiagnosisRepository interface {
	Create(ctx context.Context, record *entity.DiagnosisRecord) error
	// Delete hard deletes every row matching specs and reports how many were removed.
	Delete(ctx context.Context, specs ...specification.Specification) (int64, error)
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.DiagnosisRecord, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DiagnosisRecord, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
