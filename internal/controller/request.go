package controller

import (
	"symptom-checker-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
)

// bind parses the JSON body into out and validates it.
func bind(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	return serverutils.ValidateRequest(out)
}
