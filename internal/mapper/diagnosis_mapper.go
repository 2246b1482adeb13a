package mapper

import (
	"symptom-checker-be/internal/entity"
	"symptom-checker-be/internal/model"

	"gorm.io/datatypes"
)

type DiagnosisMapper struct{}

func NewDiagnosisMapper() *DiagnosisMapper {
	return &DiagnosisMapper{}
}

func (m *DiagnosisMapper) ToEntity(d *model.Diagnosis) *entity.DiagnosisRecord {
	if d == nil {
		return nil
	}
	return &entity.DiagnosisRecord{
		Id:          d.Id,
		UserId:      d.UserId,
		Disease:     d.Disease,
		Description: d.Description,
		Symptoms:    nonNil(d.Symptoms),
		Severity:    d.Severity,
		Medicines:   nonNil(d.Medicines),
		Urgency:     d.Urgency,
		AiScore:     d.AiScore,
		RuleScore:   d.RuleScore,
		Notes:       d.Notes,
		CreatedAt:   d.CreatedAt,
	}
}

func (m *DiagnosisMapper) ToModel(d *entity.DiagnosisRecord) *model.Diagnosis {
	if d == nil {
		return nil
	}
	return &model.Diagnosis{
		Id:          d.Id,
		UserId:      d.UserId,
		Disease:     d.Disease,
		Description: d.Description,
		Symptoms:    datatypes.JSONSlice[string](nonNil(d.Symptoms)),
		Severity:    d.Severity,
		Medicines:   datatypes.JSONSlice[string](nonNil(d.Medicines)),
		Urgency:     d.Urgency,
		AiScore:     d.AiScore,
		RuleScore:   d.RuleScore,
		Notes:       d.Notes,
		CreatedAt:   d.CreatedAt,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
