package handler

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/deal-engine/internal/model"
)

// DealCatalogServiceInterface defines the catalog operations exposed over HTTP.
type DealCatalogServiceInterface interface {
	CreateDeal(ctx context.Context, req *model.CreateDealRequest) (*model.Deal, error)
	GetDeal(ctx context.Context, id string) (*model.Deal, error)
	Trending(ctx context.Context) ([]model.Deal, error)
}

// DealHandler handles HTTP requests for the deal catalog.
type DealHandler struct {
	service   DealCatalogServiceInterface
	validator *validator.Validate
}

// NewDealHandler creates a new DealHandler with the given service and validator.
func NewDealHandler(svc DealCatalogServiceInterface, v *validator.Validate) *DealHandler {
	return &DealHandler{service: svc, validator: v}
}

// CreateDeal handles POST /api/deals.
func (h *DealHandler) CreateDeal(c *fiber.Ctx) error {
	var req model.CreateDealRequest
	if ok, err := parseAndValidate(c, h.validator, &req); !ok {
		return err
	}

	deal, err := h.service.CreateDeal(c.Context(), &req)
	if err != nil {
		return writeServiceError(c, err, "failed to create deal")
	}

	log.Info().
		Str("request_id", c.GetRespHeader("X-Request-ID")).
		Str("deal_id", deal.ID).
		Str("category", string(deal.Category)).
		Msg("deal created")

	return c.Status(fiber.StatusCreated).JSON(deal)
}

// GetDeal handles GET /api/deals/:id.
func (h *DealHandler) GetDeal(c *fiber.Ctx) error {
	id := c.Params("id")
	if strings.TrimSpace(id) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request: id is required"})
	}

	deal, err := h.service.GetDeal(c.Context(), id)
	if err != nil {
		return writeServiceError(c, err, "failed to get deal")
	}
	return c.JSON(deal)
}

// Trending handles GET /api/deals/trending.
func (h *DealHandler) Trending(c *fiber.Ctx) error {
	deals, err := h.service.Trending(c.Context())
	if err != nil {
		return writeServiceError(c, err, "failed to load trending deals")
	}
	return c.JSON(fiber.Map{"deals": deals})
}

// Categories handles GET /api/categories.
func (h *DealHandler) Categories(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"categories": model.CategoryCatalog()})
}
