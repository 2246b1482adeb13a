package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Diagnosis has no DeletedAt: deletes are hard deletes.
type Diagnosis struct {
	Id          uuid.UUID                   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId      uuid.UUID                   `gorm:"type:uuid;not null;index:idx_diagnoses_user_created,priority:1"`
	Disease     string                      `gorm:"type:varchar(255);not null"`
	Description string                      `gorm:"type:text"`
	Symptoms    datatypes.JSONSlice[string] `gorm:"type:jsonb;not null"`
	Severity    string                      `gorm:"type:varchar(20);not null;index"`
	Medicines   datatypes.JSONSlice[string] `gorm:"type:jsonb;not null"`
	Urgency     string                      `gorm:"type:varchar(20)"`
	AiScore     float64                     `gorm:"type:numeric(4,3);not null"`
	RuleScore   float64                     `gorm:"type:numeric(4,3);not null"`
	Notes       *string                     `gorm:"type:text"`
	CreatedAt   time.Time                   `gorm:"not null;index:idx_diagnoses_user_created,priority:2,sort:desc"`
}

func (Diagnosis) TableName() string {
	return "diagnoses"
}
