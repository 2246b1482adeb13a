package service

import (
	"context"
	"encoding/json"

	"symptom-checker-be/internal/dto"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

const TopicPrincipalAuthenticated = "auth.principal_authenticated"

// IPublisherService puts auth state changes on the in-process bus.
type IPublisherService interface {
	PublishPrincipalAuthenticated(ctx context.Context, userID uuid.UUID, deviceID string) error
}

type publisherService struct {
	topicName string
	publisher message.Publisher
}

func NewPublisherService(topicName string, publisher message.Publisher) IPublisherService {
	return &publisherService{
		topicName: topicName,
		publisher: publisher,
	}
}

func (ps *publisherService) PublishPrincipalAuthenticated(ctx context.Context, userID uuid.UUID, deviceID string) error {
	payload, err := json.Marshal(dto.PrincipalAuthenticatedMessage{
		UserId:   userID,
		DeviceId: deviceID,
	})
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	return ps.publisher.Publish(ps.topicName, msg)
}
