package serverutils

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jwtSecret = "test-secret"

func signed(t *testing.T, method jwt.SigningMethod, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(jwtSecret))
	require.NoError(t, err)
	return token
}

func TestJwtMiddleware(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{
			name:       "valid token",
			header:     "Bearer " + signed(t, jwt.SigningMethodHS256, jwt.MapClaims{"user_id": userID.String(), "exp": time.Now().Add(time.Hour).Unix()}),
			wantStatus: fiber.StatusOK,
		},
		{
			name:       "token without expiry",
			header:     "Bearer " + signed(t, jwt.SigningMethodHS256, jwt.MapClaims{"user_id": userID.String()}),
			wantStatus: fiber.StatusUnauthorized,
		},
		{
			name:       "expired token",
			header:     "Bearer " + signed(t, jwt.SigningMethodHS256, jwt.MapClaims{"user_id": userID.String(), "exp": time.Now().Add(-time.Minute).Unix()}),
			wantStatus: fiber.StatusUnauthorized,
		},
		{
			name:       "other signing method",
			header:     "Bearer " + signed(t, jwt.SigningMethodHS512, jwt.MapClaims{"user_id": userID.String(), "exp": time.Now().Add(time.Hour).Unix()}),
			wantStatus: fiber.StatusUnauthorized,
		},
		{
			name:       "missing user id",
			header:     "Bearer " + signed(t, jwt.SigningMethodHS256, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}),
			wantStatus: fiber.StatusUnauthorized,
		},
		{
			name:       "no header",
			wantStatus: fiber.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/me", NewJwtMiddleware(jwtSecret), func(ctx *fiber.Ctx) error {
				assert.Equal(t, userID, UserID(ctx))
				return ctx.SendStatus(fiber.StatusOK)
			})

			req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestOptionalJwtMiddleware_IgnoresTokenWithoutExpiry(t *testing.T) {
	app := fiber.New()
	app.Get("/session", NewOptionalJwtMiddleware(jwtSecret), func(ctx *fiber.Ctx) error {
		assert.Equal(t, uuid.Nil, UserID(ctx))
		return ctx.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest(fiber.MethodGet, "/session", nil)
	req.Header.Set("Authorization", "Bearer "+signed(t, jwt.SigningMethodHS256, jwt.MapClaims{"user_id": uuid.NewString()}))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
