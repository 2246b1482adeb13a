package controller

import (
	"symptom-checker-be/internal/dto"
	"symptom-checker-be/internal/pkg/serverutils"
	"symptom-checker-be/internal/service"
	"symptom-checker-be/pkg/store"

	"github.com/gofiber/fiber/v2"
)

type IDiagnosisController interface {
	RegisterRoutes(r fiber.Router)
	Symptoms(ctx *fiber.Ctx) error
	Analyze(ctx *fiber.Ctx) error
	GetSession(ctx *fiber.Ctx) error
	AbandonSession(ctx *fiber.Ctx) error
	SelectCandidate(ctx *fiber.Ctx) error
	GetSelected(ctx *fiber.Ctx) error
	SaveSelected(ctx *fiber.Ctx) error
	GetPending(ctx *fiber.Ctx) error
	ClearPending(ctx *fiber.Ctx) error
}

type diagnosisController struct {
	service service.IDiagnosisService
	// sets the principal when a valid token is present
	optionalAuth fiber.Handler
}

func NewDiagnosisController(service service.IDiagnosisService, optionalAuth fiber.Handler) IDiagnosisController {
	return &diagnosisController{service: service, optionalAuth: optionalAuth}
}

func (c *diagnosisController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/diagnosis/v1")
	h.Use(c.optionalAuth)
	h.Get("/symptoms", c.Symptoms)
	h.Post("/analyze", c.Analyze)

	h.Get("/session", c.GetSession)
	h.Delete("/session", c.AbandonSession)
	h.Get("/session/selection", c.GetSelected)
	h.Put("/session/selection", c.SelectCandidate)
	h.Post("/session/save", c.SaveSelected)

	h.Get("/pending", c.GetPending)
	h.Delete("/pending", c.ClearPending)
}

func (c *diagnosisController) Symptoms(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Common symptoms", c.service.SymptomVocabulary()))
}

func (c *diagnosisController) Analyze(ctx *fiber.Ctx) error {
	var req dto.AnalyzeRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.RunInference(ctx.UserContext(), serverutils.DeviceID(ctx), req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Analysis complete", res))
}

func (c *diagnosisController) GetSession(ctx *fiber.Ctx) error {
	res, err := c.service.GetSession(serverutils.DeviceID(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Current session", res))
}

func (c *diagnosisController) AbandonSession(ctx *fiber.Ctx) error {
	c.service.AbandonSession(serverutils.DeviceID(ctx))
	return ctx.JSON(serverutils.SuccessResponse[any]("Session cleared", nil))
}

func (c *diagnosisController) SelectCandidate(ctx *fiber.Ctx) error {
	var req dto.SelectCandidateRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.SelectCandidate(serverutils.DeviceID(ctx), req.Rank)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Selection updated", res))
}

func (c *diagnosisController) GetSelected(ctx *fiber.Ctx) error {
	res, err := c.service.GetSelected(serverutils.DeviceID(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Selected candidate", res))
}

// SaveSelected answers 201 when the record was written and 202 otherwise.
// A 202 without a pending value means staging failed and nothing will be
// saved on sign in.
func (c *diagnosisController) SaveSelected(ctx *fiber.Ctx) error {
	res, err := c.service.SaveSelected(ctx.UserContext(), serverutils.DeviceID(ctx), serverutils.UserID(ctx))
	if err != nil {
		return err
	}

	if res.State == string(store.SaveSaved) {
		return ctx.Status(fiber.StatusCreated).JSON(serverutils.CreatedResponse("Diagnosis saved to history", res))
	}
	message := "Sign in to save this diagnosis"
	if res.Pending == nil {
		message = "Selection could not be kept, sign in and save it again"
	}
	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.BaseResponse[*dto.SaveResponse]{
		Success: true,
		Code:    fiber.StatusAccepted,
		Message: message,
		Data:    res,
	})
}

func (c *diagnosisController) GetPending(ctx *fiber.Ctx) error {
	res, err := c.service.GetPending(ctx.UserContext(), serverutils.DeviceID(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Pending selection", res))
}

func (c *diagnosisController) ClearPending(ctx *fiber.Ctx) error {
	c.service.ClearPending(ctx.UserContext(), serverutils.DeviceID(ctx))
	return ctx.JSON(serverutils.SuccessResponse[any]("Pending selection cleared", nil))
}
