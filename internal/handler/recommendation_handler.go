package handler

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/fairyhunter13/deal-engine/internal/model"
)

// RecommendationServiceInterface defines the personalised deal operations.
type RecommendationServiceInterface interface {
	Recommend(ctx context.Context, req *model.RecommendationRequest) ([]model.Recommendation, error)
	OptimalMix(ctx context.Context, req *model.RecommendationRequest) (*model.OptimalDealMix, error)
	Notifications(ctx context.Context, userID string) ([]model.Notification, error)
}

// RecommendationHandler handles recommendation and notification requests.
type RecommendationHandler struct {
	service   RecommendationServiceInterface
	validator *validator.Validate
}

// NewRecommendationHandler creates a new RecommendationHandler with the given service and validator.
func NewRecommendationHandler(svc RecommendationServiceInterface, v *validator.Validate) *RecommendationHandler {
	return &RecommendationHandler{service: svc, validator: v}
}

// Recommend handles POST /api/recommendations.
func (h *RecommendationHandler) Recommend(c *fiber.Ctx) error {
	var req model.RecommendationRequest
	if ok, err := parseAndValidate(c, h.validator, &req); !ok {
		return err
	}

	recs, err := h.service.Recommend(c.Context(), &req)
	if err != nil {
		return writeServiceError(c, err, "failed to generate recommendations")
	}
	return c.JSON(fiber.Map{
		"user_id":         req.UserID,
		"recommendations": recs,
	})
}

// OptimalMix handles POST /api/recommendations/optimal-mix.
func (h *RecommendationHandler) OptimalMix(c *fiber.Ctx) error {
	var req model.RecommendationRequest
	if ok, err := parseAndValidate(c, h.validator, &req); !ok {
		return err
	}

	mix, err := h.service.OptimalMix(c.Context(), &req)
	if err != nil {
		return writeServiceError(c, err, "failed to build optimal deal mix")
	}
	return c.JSON(mix)
}

// Notifications handles GET /api/users/:user_id/notifications.
func (h *RecommendationHandler) Notifications(c *fiber.Ctx) error {
	userID := c.Params("user_id")
	if strings.TrimSpace(userID) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request: user_id is required"})
	}

	notes, err := h.service.Notifications(c.Context(), userID)
	if err != nil {
		return writeServiceError(c, err, "failed to build notifications")
	}
	return c.JSON(fiber.Map{
		"user_id":       userID,
		"notifications": notes,
	})
}
