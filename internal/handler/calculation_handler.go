package handler

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/deal-engine/internal/model"
	"github.com/fairyhunter13/deal-engine/internal/service"
)

// CalculationServiceInterface defines validation and pricing of stored deals.
type CalculationServiceInterface interface {
	ValidateDeal(ctx context.Context, req *model.ValidateDealRequest) ([]model.ValidationError, error)
	CalculateDiscount(ctx context.Context, req *model.CalculateDiscountRequest) (*model.CalculationResult, error)
	CalculateTotal(ctx context.Context, req *model.CalculateTotalRequest) (*model.CalculationResult, error)
	ApplyDeal(ctx context.Context, req *model.ApplyDealRequest) (*model.CalculationResult, error)
}

// CalculationHandler handles deal validation, pricing and application.
type CalculationHandler struct {
	service   CalculationServiceInterface
	validator *validator.Validate
}

// NewCalculationHandler creates a new CalculationHandler with the given service and validator.
func NewCalculationHandler(svc CalculationServiceInterface, v *validator.Validate) *CalculationHandler {
	return &CalculationHandler{service: svc, validator: v}
}

// ValidateDeal handles POST /api/deals/validate.
// An inapplicable deal is still a 200; the body lists the reasons.
func (h *CalculationHandler) ValidateDeal(c *fiber.Ctx) error {
	var req model.ValidateDealRequest
	if ok, err := parseAndValidate(c, h.validator, &req); !ok {
		return err
	}

	errs, err := h.service.ValidateDeal(c.Context(), &req)
	if err != nil {
		return writeServiceError(c, err, "failed to validate deal")
	}
	return c.JSON(fiber.Map{
		"deal_id":  req.DealID,
		"is_valid": len(errs) == 0,
		"errors":   errs,
	})
}

// CalculateDiscount handles POST /api/deals/calculate.
func (h *CalculationHandler) CalculateDiscount(c *fiber.Ctx) error {
	var req model.CalculateDiscountRequest
	if ok, err := parseAndValidate(c, h.validator, &req); !ok {
		return err
	}

	res, err := h.service.CalculateDiscount(c.Context(), &req)
	if err != nil {
		return writeServiceError(c, err, "failed to calculate discount")
	}
	return c.JSON(res)
}

// CalculateTotal handles POST /api/deals/calculate-total.
func (h *CalculationHandler) CalculateTotal(c *fiber.Ctx) error {
	var req model.CalculateTotalRequest
	if ok, err := parseAndValidate(c, h.validator, &req); !ok {
		return err
	}

	res, err := h.service.CalculateTotal(c.Context(), &req)
	if err != nil {
		return writeServiceError(c, err, "failed to calculate total discount")
	}
	return c.JSON(res)
}

// ApplyDeal handles POST /api/deals/apply.
// A rejected deal returns 422 with the calculation result as the body.
func (h *CalculationHandler) ApplyDeal(c *fiber.Ctx) error {
	var req model.ApplyDealRequest
	if ok, err := parseAndValidate(c, h.validator, &req); !ok {
		return err
	}

	res, err := h.service.ApplyDeal(c.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrDealNotApplicable) && res != nil {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(res)
		}
		return writeServiceError(c, err, "failed to apply deal")
	}

	log.Info().
		Str("request_id", c.GetRespHeader("X-Request-ID")).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Str("deal_id", req.DealID).
		Str("transaction_id", req.TransactionID).
		Int64("discount_amount", res.DiscountAmount).
		Msg("deal applied successfully")

	return c.JSON(res)
}
