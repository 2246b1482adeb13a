package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"symptom-checker-be/internal/dto"
	"symptom-checker-be/internal/entity"
	"symptom-checker-be/internal/pkg/logger"
	"symptom-checker-be/internal/repository/specification"
	"symptom-checker-be/internal/repository/unitofwork"
	"symptom-checker-be/pkg/events"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const authModule = "AUTH"

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest, deviceID string) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest, deviceID, userAgent string) (*dto.AuthResponse, error)
	Me(ctx context.Context, principal uuid.UUID) (*dto.UserDTO, error)
}

type authService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	eventPublisher   events.Publisher
	logger           logger.ILogger
	jwtSecret        []byte
	tokenExpiry      time.Duration
}

func NewAuthService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	eventPublisher events.Publisher,
	logger logger.ILogger,
	jwtSecret string,
	tokenExpiry time.Duration,
) IAuthService {
	if eventPublisher == nil {
		eventPublisher = events.NopPublisher{}
	}
	return &authService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		logger:           logger,
		jwtSecret:        []byte(jwtSecret),
		tokenExpiry:      tokenExpiry,
	}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest, deviceID string) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &entity.User{
		Id:           uuid.New(),
		Email:        email,
		FullName:     strings.TrimSpace(req.FullName),
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	err = uow.Transaction(func(tx unitofwork.UnitOfWork) error {
		taken, err := tx.UserRepository().Exists(ctx, specification.ByEmail{Email: email})
		if err != nil {
			return err
		}
		if taken {
			return ErrEmailTaken
		}
		return tx.UserRepository().Create(ctx, user)
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// lost a race with a concurrent registration
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info(authModule, "User registered", map[string]interface{}{
		"user_id": user.Id.String(),
	})

	return s.signIn(ctx, user, deviceID, "")
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest, deviceID, userAgent string) (*dto.AuthResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	return s.signIn(ctx, user, deviceID, userAgent)
}

// signIn issues the access token and announces the new principal for the device.
func (s *authService) signIn(ctx context.Context, user *entity.User, deviceID, userAgent string) (*dto.AuthResponse, error) {
	claims := jwt.MapClaims{
		"user_id": user.Id.String(),
		"exp":     time.Now().Add(s.tokenExpiry).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	if deviceID != "" {
		if err := s.publisherService.PublishPrincipalAuthenticated(ctx, user.Id, deviceID); err != nil {
			s.logger.Warn(authModule, "Failed to announce sign in", map[string]interface{}{
				"user_id":   user.Id.String(),
				"device_id": deviceID,
				"error":     err.Error(),
			})
		}
	}

	event := events.BaseEvent{
		Type: events.TypeUserLogin,
		Data: map[string]interface{}{
			"user_id": user.Id,
			"device":  userAgent,
			"time":    time.Now().Format(time.RFC822),
		},
		OccurredAt: time.Now(),
	}
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Warn(authModule, "Failed to publish USER_LOGIN event", map[string]interface{}{
			"error": err.Error(),
		})
	}

	return &dto.AuthResponse{
		AccessToken: signedToken,
		User:        toUserDTO(user),
	}, nil
}

// Me resolves the principal of a valid token. A token that outlived its
// account is treated as unauthenticated.
func (s *authService) Me(ctx context.Context, principal uuid.UUID) (*dto.UserDTO, error) {
	if principal == uuid.Nil {
		return nil, ErrUnauthenticated
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: principal})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnauthenticated
	}

	res := toUserDTO(user)
	return &res, nil
}

func toUserDTO(u *entity.User) dto.UserDTO {
	return dto.UserDTO{
		Id:        u.Id,
		Email:     u.Email,
		FullName:  u.FullName,
		CreatedAt: u.CreatedAt,
	}
}
