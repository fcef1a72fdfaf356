package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/deal-engine/internal/model"
	dealvalidator "github.com/fairyhunter13/deal-engine/internal/validator"
)

// mockDealService implements every service interface the handlers depend on.
type mockDealService struct {
	createDealFn        func(ctx context.Context, req *model.CreateDealRequest) (*model.Deal, error)
	getDealFn           func(ctx context.Context, id string) (*model.Deal, error)
	trendingFn          func(ctx context.Context) ([]model.Deal, error)
	validateDealFn      func(ctx context.Context, req *model.ValidateDealRequest) ([]model.ValidationError, error)
	calculateDiscountFn func(ctx context.Context, req *model.CalculateDiscountRequest) (*model.CalculationResult, error)
	calculateTotalFn    func(ctx context.Context, req *model.CalculateTotalRequest) (*model.CalculationResult, error)
	applyDealFn         func(ctx context.Context, req *model.ApplyDealRequest) (*model.CalculationResult, error)
	recommendFn         func(ctx context.Context, req *model.RecommendationRequest) ([]model.Recommendation, error)
	optimalMixFn        func(ctx context.Context, req *model.RecommendationRequest) (*model.OptimalDealMix, error)
	notificationsFn     func(ctx context.Context, userID string) ([]model.Notification, error)
}

func (m *mockDealService) CreateDeal(ctx context.Context, req *model.CreateDealRequest) (*model.Deal, error) {
	if m.createDealFn != nil {
		return m.createDealFn(ctx, req)
	}
	return &model.Deal{}, nil
}

func (m *mockDealService) GetDeal(ctx context.Context, id string) (*model.Deal, error) {
	if m.getDealFn != nil {
		return m.getDealFn(ctx, id)
	}
	return &model.Deal{ID: id}, nil
}

func (m *mockDealService) Trending(ctx context.Context) ([]model.Deal, error) {
	if m.trendingFn != nil {
		return m.trendingFn(ctx)
	}
	return []model.Deal{}, nil
}

func (m *mockDealService) ValidateDeal(ctx context.Context, req *model.ValidateDealRequest) ([]model.ValidationError, error) {
	if m.validateDealFn != nil {
		return m.validateDealFn(ctx, req)
	}
	return []model.ValidationError{}, nil
}

func (m *mockDealService) CalculateDiscount(ctx context.Context, req *model.CalculateDiscountRequest) (*model.CalculationResult, error) {
	if m.calculateDiscountFn != nil {
		return m.calculateDiscountFn(ctx, req)
	}
	return &model.CalculationResult{IsValid: true}, nil
}

func (m *mockDealService) CalculateTotal(ctx context.Context, req *model.CalculateTotalRequest) (*model.CalculationResult, error) {
	if m.calculateTotalFn != nil {
		return m.calculateTotalFn(ctx, req)
	}
	return &model.CalculationResult{IsValid: true}, nil
}

func (m *mockDealService) ApplyDeal(ctx context.Context, req *model.ApplyDealRequest) (*model.CalculationResult, error) {
	if m.applyDealFn != nil {
		return m.applyDealFn(ctx, req)
	}
	return &model.CalculationResult{IsValid: true}, nil
}

func (m *mockDealService) Recommend(ctx context.Context, req *model.RecommendationRequest) ([]model.Recommendation, error) {
	if m.recommendFn != nil {
		return m.recommendFn(ctx, req)
	}
	return []model.Recommendation{}, nil
}

func (m *mockDealService) OptimalMix(ctx context.Context, req *model.RecommendationRequest) (*model.OptimalDealMix, error) {
	if m.optimalMixFn != nil {
		return m.optimalMixFn(ctx, req)
	}
	return &model.OptimalDealMix{Complementary: []model.Recommendation{}}, nil
}

func (m *mockDealService) Notifications(ctx context.Context, userID string) ([]model.Notification, error) {
	if m.notificationsFn != nil {
		return m.notificationsFn(ctx, userID)
	}
	return []model.Notification{}, nil
}

// setupTestApp registers every deal route against svc, mirroring cmd/api.
func setupTestApp(svc *mockDealService) *fiber.App {
	app := fiber.New()
	v := dealvalidator.New()

	deals := NewDealHandler(svc, v)
	calc := NewCalculationHandler(svc, v)
	recs := NewRecommendationHandler(svc, v)

	app.Get("/api/categories", deals.Categories)
	app.Post("/api/deals", deals.CreateDeal)
	app.Get("/api/deals/trending", deals.Trending)
	app.Get("/api/deals/:id", deals.GetDeal)
	app.Post("/api/deals/validate", calc.ValidateDeal)
	app.Post("/api/deals/calculate", calc.CalculateDiscount)
	app.Post("/api/deals/calculate-total", calc.CalculateTotal)
	app.Post("/api/deals/apply", calc.ApplyDeal)
	app.Post("/api/recommendations", recs.Recommend)
	app.Post("/api/recommendations/optimal-mix", recs.OptimalMix)
	app.Get("/api/users/:user_id/notifications", recs.Notifications)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) *http.Response {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer func() {
		_ = resp.Body.Close()
	}()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func errorMessage(t *testing.T, resp *http.Response) string {
	t.Helper()
	var result map[string]string
	decodeBody(t, resp, &result)
	return result["error"]
}
