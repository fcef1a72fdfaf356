package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/deal-engine/internal/service"
)

// formatValidationError converts the first validator error into a client message.
// Field names are the JSON names registered by internal/validator.
func formatValidationError(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		fe := ve[0]
		field := fe.Field()

		switch fe.Tag() {
		case "required":
			return "invalid request: " + field + " is required"
		case "notblank":
			return "invalid request: " + field + " cannot be whitespace only"
		case "max":
			return "invalid request: " + field + " exceeds maximum length of " + fe.Param()
		case "gte":
			return "invalid request: " + field + " must be at least " + fe.Param()
		case "oneof":
			return "invalid request: " + field + " must be one of: " + fe.Param()
		case "dealcategory":
			return "invalid request: " + field + " is not a known deal category"
		case "discounttype":
			return "invalid request: " + field + " must be percentage or fixed"
		case "percentmax":
			return "invalid request: " + field + " must be at most " + fe.Param() + " for percentage deals"
		default:
			return "invalid request: " + field + " is invalid"
		}
	}
	return "invalid request"
}

// parseAndValidate decodes the JSON body into req and runs struct validation.
// On failure it writes the 400 response and returns false.
func parseAndValidate(c *fiber.Ctx, v *validator.Validate, req any) (bool, error) {
	if err := c.BodyParser(req); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := v.Struct(req); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}
	return true, nil
}

// writeServiceError maps service sentinel errors to HTTP statuses.
// Anything unrecognised is logged and reported as a 500.
func writeServiceError(c *fiber.Ctx, err error, msg string) error {
	switch {
	case errors.Is(err, service.ErrInvalidRequest):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	case errors.Is(err, service.ErrDealNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "deal not found"})
	case errors.Is(err, service.ErrProfileNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "user profile not found"})
	case errors.Is(err, service.ErrDealExists):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "deal already exists"})
	case errors.Is(err, service.ErrAlreadyApplied):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "deal already applied to transaction"})
	}

	log.Error().
		Err(err).
		Str("request_id", c.GetRespHeader("X-Request-ID")).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Msg(msg)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}
