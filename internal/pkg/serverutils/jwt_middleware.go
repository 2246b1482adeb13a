package serverutils

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	LocalUserID    = "user_id"
	DeviceIDHeader = "X-Device-Id"
)

// NewJwtMiddleware rejects requests without a valid bearer token.
func NewJwtMiddleware(secret string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		userID, err := parseBearer(ctx, secret)
		if err != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, err.Error()))
		}
		ctx.Locals(LocalUserID, userID)
		return ctx.Next()
	}
}

// NewOptionalJwtMiddleware sets user_id only when a valid token is present.
// Anonymous requests pass through untouched.
func NewOptionalJwtMiddleware(secret string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if userID, err := parseBearer(ctx, secret); err == nil {
			ctx.Locals(LocalUserID, userID)
		}
		return ctx.Next()
	}
}

func parseBearer(ctx *fiber.Ctx, secret string) (string, error) {
	authHeader := ctx.Get("Authorization")
	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return "", fiber.NewError(fiber.StatusUnauthorized, "Missing token")
	}
	tokenStr := authHeader[7:]

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return "", fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fiber.NewError(fiber.StatusUnauthorized, "Invalid claims")
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", fiber.NewError(fiber.StatusUnauthorized, "Invalid claims")
	}
	return userID, nil
}

// UserID returns the authenticated principal or uuid.Nil.
func UserID(ctx *fiber.Ctx) uuid.UUID {
	raw, ok := ctx.Locals(LocalUserID).(string)
	if !ok {
		return uuid.Nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil
	}
	return id
}

// DeviceID returns the client slot id, trimmed. Empty when the header is absent.
func DeviceID(ctx *fiber.Ctx) string {
	return strings.TrimSpace(ctx.Get(DeviceIDHeader))
}
