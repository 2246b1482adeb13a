package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"symptom-checker-be/internal/dto"
	"symptom-checker-be/internal/pkg/logger"
	"symptom-checker-be/internal/pkg/metrics"
	"symptom-checker-be/internal/repository/memory"
	"symptom-checker-be/pkg/staging"
	"symptom-checker-be/pkg/store"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

const flushModule = "FLUSH"

// IPendingFlushService turns a staged selection into a history record once
// the device that staged it signs in.
type IPendingFlushService interface {
	Flush(ctx context.Context, principal uuid.UUID, deviceID string) (*dto.DiagnosisRecordResponse, error)
	Consume(ctx context.Context) error
}

type pendingFlushService struct {
	subscriber message.Subscriber
	topicName  string
	staging    *staging.Store
	sessions   *memory.SessionRepository
	history    IHistoryService
	logger     logger.ILogger

	// claimed staged values, keyed by device and stamp; Add fails if present
	claimed *cache.Cache
}

func NewPendingFlushService(
	subscriber message.Subscriber,
	topicName string,
	stagingStore *staging.Store,
	sessions *memory.SessionRepository,
	history IHistoryService,
	logger logger.ILogger,
) IPendingFlushService {
	ttl := stagingStore.TTL() + time.Minute
	return &pendingFlushService{
		subscriber: subscriber,
		topicName:  topicName,
		staging:    stagingStore,
		sessions:   sessions,
		history:    history,
		logger:     logger,
		claimed:    cache.New(ttl, 10*time.Minute),
	}
}

// Flush saves the device's staged selection at most once. It returns nil
// without error when there is nothing to flush or another flush already
// claimed the same staged value. On failure the slot is left in place.
func (s *pendingFlushService) Flush(ctx context.Context, principal uuid.UUID, deviceID string) (*dto.DiagnosisRecordResponse, error) {
	if principal == uuid.Nil || deviceID == "" {
		return nil, nil
	}

	pending, ok := s.staging.Read(ctx, deviceID)
	if !ok {
		return nil, nil
	}

	claim := fmt.Sprintf("%s|%d", deviceID, pending.StagedAt.UnixNano())
	if err := s.claimed.Add(claim, principal, cache.DefaultExpiration); err != nil {
		metrics.RecordFlush("duplicate")
		return nil, nil
	}

	details := map[string]interface{}{
		"user_id":    principal.String(),
		"device_id":  deviceID,
		"request_id": pending.RequestID.String(),
		"disease":    pending.Candidate.Disease,
	}

	// the candidate may still be on screen; share its save lifecycle
	session, tracked := s.sessions.Get(deviceID)
	if tracked {
		switch err := session.BeginSave(pending.RequestID, pending.Candidate.Rank); {
		case errors.Is(err, store.ErrAlreadySaved):
			s.staging.ClearIf(ctx, deviceID, pending.StagedAt)
			metrics.RecordFlush("duplicate")
			return nil, nil
		case errors.Is(err, store.ErrSaveInProgress):
			s.claimed.Delete(claim)
			metrics.RecordFlush("duplicate")
			return nil, nil
		case err != nil:
			// session moved on to another request
			tracked = false
		}
	}

	record, err := s.history.Create(ctx, principal, recordFrom(pending.Candidate, pending.Symptoms, pending.Severity, pending.Notes))
	if err != nil {
		if tracked {
			session.FailSave(pending.RequestID, pending.Candidate.Rank)
		}
		// release the claim so a later sign in or explicit save can retry
		s.claimed.Delete(claim)
		metrics.RecordFlush("failed")
		details["error"] = err.Error()
		s.logger.Error(flushModule, "Failed to flush pending selection", details)
		return nil, err
	}

	// a selection staged while the record was written stays for its own flush
	s.staging.ClearIf(ctx, deviceID, pending.StagedAt)
	if tracked {
		session.FinishSave(pending.RequestID, pending.Candidate.Rank, record.Id)
	}

	metrics.RecordFlush("saved")
	details["record_id"] = record.Id.String()
	s.logger.Info(flushModule, "Pending selection saved after sign in", details)
	return record, nil
}

func (s *pendingFlushService) Consume(ctx context.Context) error {
	messages, err := s.subscriber.Subscribe(ctx, s.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (s *pendingFlushService) processMessage(ctx context.Context, msg *message.Message) {
	// always ack: a failed flush is retried by the user, not by redelivery
	defer msg.Ack()

	var payload dto.PrincipalAuthenticatedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		s.logger.Error(flushModule, "Failed to unmarshal auth message", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		return
	}

	_, _ = s.Flush(ctx, payload.UserId, payload.DeviceId)
}
