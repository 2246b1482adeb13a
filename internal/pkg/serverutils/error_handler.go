package serverutils

import (
	"errors"

	"symptom-checker-be/internal/service"
	"symptom-checker-be/pkg/diagnosis"
	"symptom-checker-be/pkg/llm"
	"symptom-checker-be/pkg/store"

	"github.com/gofiber/fiber/v2"
)

// ResolveError maps a domain error to an HTTP status and a user-facing message.
// Parser and transport internals never reach the client.
func ResolveError(err error) (int, string) {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code, fiberErr.Message
	}

	var verr *ValidationError
	if errors.As(err, &verr) {
		return fiber.StatusBadRequest, verr.Error()
	}

	var gwErr *llm.GatewayError
	if errors.As(err, &gwErr) {
		switch gwErr.Kind {
		case llm.KindRateLimited:
			return fiber.StatusTooManyRequests, "Too many requests to the diagnosis service, please try again later"
		case llm.KindUnavailable:
			return fiber.StatusServiceUnavailable, "The diagnosis service is currently unavailable"
		case llm.KindMalformedResponse:
			return fiber.StatusUnprocessableEntity, "The diagnosis service returned an unexpected answer, please retry"
		case llm.KindUnauthorized:
			return fiber.StatusBadGateway, "The diagnosis service is not configured correctly"
		default:
			return fiber.StatusBadGateway, "Could not reach the diagnosis service, please retry"
		}
	}

	var diagErr *diagnosis.ValidationError
	if errors.As(err, &diagErr) {
		return fiber.StatusUnprocessableEntity, "The diagnosis service returned an unexpected answer, please retry"
	}

	switch {
	case errors.Is(err, diagnosis.ErrNoSymptoms),
		errors.Is(err, diagnosis.ErrInvalidSeverity),
		errors.Is(err, diagnosis.ErrOutOfRange),
		errors.Is(err, service.ErrDeviceRequired):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrUnauthenticated),
		errors.Is(err, service.ErrInvalidCredentials):
		return fiber.StatusUnauthorized, err.Error()
	case errors.Is(err, service.ErrNotFound),
		errors.Is(err, service.ErrNoPending),
		errors.Is(err, store.ErrNoResults):
		return fiber.StatusNotFound, err.Error()
	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, store.ErrStaleResponse),
		errors.Is(err, store.ErrAlreadySaved),
		errors.Is(err, store.ErrSaveInProgress):
		return fiber.StatusConflict, err.Error()
	case errors.Is(err, service.ErrStorageFailure):
		return fiber.StatusInternalServerError, "Could not save your history, please retry"
	}

	return fiber.StatusInternalServerError, "Internal server error"
}

// ErrorHandler is installed as fiber's ErrorHandler.
func ErrorHandler(ctx *fiber.Ctx, err error) error {
	status, message := ResolveError(err)
	return ctx.Status(status).JSON(ErrorResponse(status, message))
}

// ErrorHandlerMiddleware converts errors returned by downstream handlers into
// the common response envelope.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		return ErrorHandler(ctx, err)
	}
}
