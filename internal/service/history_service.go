package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"symptom-checker-be/internal/dto"
	"symptom-checker-be/internal/entity"
	"symptom-checker-be/internal/pkg/logger"
	"symptom-checker-be/internal/pkg/metrics"
	"symptom-checker-be/internal/repository/specification"
	"symptom-checker-be/internal/repository/unitofwork"
	"symptom-checker-be/pkg/diagnosis"
	"symptom-checker-be/pkg/events"

	"github.com/google/uuid"
)

const historyModule = "HISTORY"

type IHistoryService interface {
	Create(ctx context.Context, principal uuid.UUID, req dto.CreateDiagnosisRecord) (*dto.DiagnosisRecordResponse, error)
	List(ctx context.Context, principal uuid.UUID) ([]dto.DiagnosisRecordResponse, error)
	Delete(ctx context.Context, principal uuid.UUID, id uuid.UUID) error
	Stats(ctx context.Context, principal uuid.UUID) (*dto.HistoryStatsResponse, error)
}

type historyService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher events.Publisher
	logger         logger.ILogger
	now            func() time.Time
}

func NewHistoryService(uowFactory unitofwork.RepositoryFactory, eventPublisher events.Publisher, logger logger.ILogger) IHistoryService {
	if eventPublisher == nil {
		eventPublisher = events.NopPublisher{}
	}
	return &historyService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		logger:         logger,
		now:            time.Now,
	}
}

func (s *historyService) Create(ctx context.Context, principal uuid.UUID, req dto.CreateDiagnosisRecord) (*dto.DiagnosisRecordResponse, error) {
	if principal == uuid.Nil {
		return nil, ErrUnauthenticated
	}

	record := &entity.DiagnosisRecord{
		Id:          uuid.New(),
		UserId:      principal,
		Disease:     req.Disease,
		Description: req.Description,
		Symptoms:    req.Symptoms,
		Severity:    req.Severity,
		Medicines:   req.Medicines,
		Urgency:     req.Urgency,
		AiScore:     req.AiScore,
		RuleScore:   diagnosis.RuleScore(req.AiScore),
		CreatedAt:   s.now().UTC(),
	}
	if notes := strings.TrimSpace(req.Notes); notes != "" {
		record.Notes = &notes
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	err := uow.DiagnosisRepository().Create(ctx, record)
	metrics.RecordHistoryOp("create", err)
	if err != nil {
		s.logger.Error(historyModule, "Failed to save diagnosis record", map[string]interface{}{
			"user_id": principal.String(),
			"disease": req.Disease,
			"error":   err.Error(),
		})
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	s.logger.Info(historyModule, "Diagnosis record saved", map[string]interface{}{
		"user_id":   principal.String(),
		"record_id": record.Id.String(),
		"disease":   record.Disease,
	})

	s.publish(ctx, events.TypeDiagnosisSaved, map[string]interface{}{
		"user_id":   principal,
		"record_id": record.Id,
		"disease":   record.Disease,
		"severity":  record.Severity,
		"ai_score":  record.AiScore,
	})

	res := toRecordResponse(record)
	return &res, nil
}

func (s *historyService) List(ctx context.Context, principal uuid.UUID) ([]dto.DiagnosisRecordResponse, error) {
	if principal == uuid.Nil {
		return nil, ErrUnauthenticated
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	records, err := uow.DiagnosisRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: principal},
		specification.NewestFirst{},
	)
	metrics.RecordHistoryOp("list", err)
	if err != nil {
		s.logger.Error(historyModule, "Failed to list history", map[string]interface{}{
			"user_id": principal.String(),
			"error":   err.Error(),
		})
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	res := make([]dto.DiagnosisRecordResponse, 0, len(records))
	for _, r := range records {
		res = append(res, toRecordResponse(r))
	}
	return res, nil
}

// Delete removes a record owned by principal. Records owned by someone else
// are indistinguishable from missing ones.
func (s *historyService) Delete(ctx context.Context, principal uuid.UUID, id uuid.UUID) error {
	if principal == uuid.Nil {
		return ErrUnauthenticated
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	affected, err := uow.DiagnosisRepository().Delete(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: principal},
	)
	metrics.RecordHistoryOp("delete", err)
	if err != nil {
		s.logger.Error(historyModule, "Failed to delete diagnosis record", map[string]interface{}{
			"user_id":   principal.String(),
			"record_id": id.String(),
			"error":     err.Error(),
		})
		return fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	s.logger.Info(historyModule, "Diagnosis record deleted", map[string]interface{}{
		"user_id":   principal.String(),
		"record_id": id.String(),
	})
	s.publish(ctx, events.TypeDiagnosisDeleted, map[string]interface{}{
		"user_id":   principal,
		"record_id": id,
	})
	return nil
}

func (s *historyService) Stats(ctx context.Context, principal uuid.UUID) (*dto.HistoryStatsResponse, error) {
	if principal == uuid.Nil {
		return nil, ErrUnauthenticated
	}

	var stats dto.HistoryStatsResponse
	uow := s.uowFactory.NewUnitOfWork(ctx)
	err := uow.Transaction(func(tx unitofwork.UnitOfWork) error {
		repo := tx.DiagnosisRepository()
		owned := specification.UserOwnedBy{UserID: principal}

		total, err := repo.Count(ctx, owned)
		if err != nil {
			return err
		}
		mild, err := repo.Count(ctx, owned, specification.BySeverity{Severity: string(diagnosis.SeverityMild)})
		if err != nil {
			return err
		}
		stats = dto.HistoryStatsResponse{Total: total, Mild: mild, NonMild: total - mild}
		return nil
	})
	if err == nil {
		metrics.RecordHistoryOp("stats", nil)
		return &stats, nil
	}

	metrics.RecordHistoryOp("stats", err)
	s.logger.Error(historyModule, "Failed to compute history stats", map[string]interface{}{
		"user_id": principal.String(),
		"error":   err.Error(),
	})
	return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
}

func (s *historyService) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	event := events.BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: s.now(),
	}
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Warn(historyModule, "Failed to publish event", map[string]interface{}{
			"type":  eventType,
			"error": err.Error(),
		})
	}
}

func toRecordResponse(r *entity.DiagnosisRecord) dto.DiagnosisRecordResponse {
	return dto.DiagnosisRecordResponse{
		Id:             r.Id,
		Disease:        r.Disease,
		Description:    r.Description,
		Symptoms:       r.Symptoms,
		Severity:       r.Severity,
		Medicines:      r.Medicines,
		Urgency:        r.Urgency,
		AiScore:        r.AiScore,
		RuleScore:      r.RuleScore,
		ConfidenceBand: string(diagnosis.BandOf(r.AiScore)),
		Notes:          r.Notes,
		CreatedAt:      r.CreatedAt,
	}
}
