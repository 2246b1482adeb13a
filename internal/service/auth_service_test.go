package service

import (
	"context"
	"testing"
	"time"

	"symptom-checker-be/internal/dto"
	"symptom-checker-be/internal/pkg/logger"
	"symptom-checker-be/pkg/events"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newAuth(t *testing.T) (IAuthService, *fakeDB, *fakeAuthPublisher, *recordingPublisher) {
	t.Helper()
	db := &fakeDB{}
	authPub := &fakeAuthPublisher{}
	eventPub := &recordingPublisher{}
	svc := NewAuthService(fakeFactory{db: db}, authPub, eventPub, logger.NewNopLogger(), testSecret, time.Hour)
	return svc, db, authPub, eventPub
}

func TestAuthService_RegisterThenLogin(t *testing.T) {
	svc, db, authPub, pub := newAuth(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, &dto.RegisterRequest{
		FullName: "Ana Lopez",
		Email:    " Ana@Example.com ",
		Password: "secret1",
	}, "device-1")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", reg.User.Email)
	require.Len(t, db.users, 1)
	assert.NotEqual(t, "secret1", db.users[0].PasswordHash)

	token, err := jwt.Parse(reg.AccessToken, func(t *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, reg.User.Id.String(), claims["user_id"])

	login, err := svc.Login(ctx, &dto.LoginRequest{Email: "ana@example.com", Password: "secret1"}, "device-2", "test-agent")
	require.NoError(t, err)
	assert.Equal(t, reg.User.Id, login.User.Id)

	require.Len(t, authPub.calls, 2)
	assert.Equal(t, "device-1", authPub.calls[0].DeviceID)
	assert.Equal(t, "device-2", authPub.calls[1].DeviceID)
	assert.Equal(t, reg.User.Id, authPub.calls[1].UserID)
	assert.Equal(t, []string{events.TypeUserLogin, events.TypeUserLogin}, pub.types())
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	svc, _, _, _ := newAuth(t)
	ctx := context.Background()
	req := &dto.RegisterRequest{FullName: "Ana", Email: "ana@example.com", Password: "secret1"}

	_, err := svc.Register(ctx, req, "")
	require.NoError(t, err)

	req.Email = "ANA@example.com"
	_, err = svc.Register(ctx, req, "")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthService_LoginRejectsBadCredentials(t *testing.T) {
	svc, _, authPub, _ := newAuth(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &dto.RegisterRequest{FullName: "Ana", Email: "ana@example.com", Password: "secret1"}, "")
	require.NoError(t, err)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "ana@example.com", Password: "wrong-pass"}, "device-1", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "bob@example.com", Password: "secret1"}, "device-1", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// no device header, no principal announcement
	assert.Empty(t, authPub.calls)
}

func TestAuthService_Me(t *testing.T) {
	svc, _, _, _ := newAuth(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, &dto.RegisterRequest{FullName: "Ana", Email: "ana@example.com", Password: "secret1"}, "")
	require.NoError(t, err)

	me, err := svc.Me(ctx, reg.User.Id)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", me.Email)
	assert.Equal(t, "Ana", me.FullName)

	_, err = svc.Me(ctx, uuid.Nil)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	// account removed while the token is still valid
	_, err = svc.Me(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrUnauthenticated)
}
