package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/deal-engine/internal/model"
	"github.com/fairyhunter13/deal-engine/internal/service"
)

func TestRecommend_Success(t *testing.T) {
	svc := &mockDealService{
		recommendFn: func(ctx context.Context, req *model.RecommendationRequest) ([]model.Recommendation, error) {
			assert.Equal(t, "user_001", req.UserID)
			assert.Equal(t, 2500.0, req.CurrentBill)
			assert.Equal(t, "diwali", req.Season)
			require.NotNil(t, req.IsWeekend)
			assert.True(t, *req.IsWeekend)
			return []model.Recommendation{{
				Deal:             model.Deal{ID: "D1"},
				Reason:           "Perfect for the diwali season",
				Priority:         model.PriorityHigh,
				PotentialSavings: 250,
				Confidence:       0.9,
				Tags:             []string{"Seasonal"},
			}}, nil
		},
	}

	resp := doJSON(t, setupTestApp(svc), http.MethodPost, "/api/recommendations",
		`{"user_id":"user_001","current_bill":2500,"season":"diwali","is_weekend":true}`)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var result struct {
		UserID          string                 `json:"user_id"`
		Recommendations []model.Recommendation `json:"recommendations"`
	}
	decodeBody(t, resp, &result)
	assert.Equal(t, "user_001", result.UserID)
	require.Len(t, result.Recommendations, 1)
	assert.Equal(t, model.PriorityHigh, result.Recommendations[0].Priority)
}

func TestRecommend_WeekendOmitted(t *testing.T) {
	svc := &mockDealService{
		recommendFn: func(ctx context.Context, req *model.RecommendationRequest) ([]model.Recommendation, error) {
			assert.Nil(t, req.IsWeekend, "service derives weekend when omitted")
			return []model.Recommendation{}, nil
		},
	}

	resp := doJSON(t, setupTestApp(svc), http.MethodPost, "/api/recommendations", `{"user_id":"user_001"}`)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRecommend_ProfileNotFound(t *testing.T) {
	svc := &mockDealService{
		recommendFn: func(ctx context.Context, req *model.RecommendationRequest) ([]model.Recommendation, error) {
			return nil, service.ErrProfileNotFound
		},
	}

	resp := doJSON(t, setupTestApp(svc), http.MethodPost, "/api/recommendations", `{"user_id":"ghost"}`)

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "user profile not found", errorMessage(t, resp))
}

func TestRecommend_NegativeBill(t *testing.T) {
	resp := doJSON(t, setupTestApp(&mockDealService{}), http.MethodPost, "/api/recommendations",
		`{"user_id":"user_001","current_bill":-10}`)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid request: current_bill must be at least 0", errorMessage(t, resp))
}

func TestOptimalMix_Success(t *testing.T) {
	svc := &mockDealService{
		optimalMixFn: func(ctx context.Context, req *model.RecommendationRequest) (*model.OptimalDealMix, error) {
			return &model.OptimalDealMix{
				Primary:       &model.Recommendation{Deal: model.Deal{ID: "P"}, PotentialSavings: 300},
				Complementary: []model.Recommendation{{Deal: model.Deal{ID: "C"}, PotentialSavings: 100}},
				TotalSavings:  400,
			}, nil
		},
	}

	resp := doJSON(t, setupTestApp(svc), http.MethodPost, "/api/recommendations/optimal-mix", `{"user_id":"user_001"}`)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var mix model.OptimalDealMix
	decodeBody(t, resp, &mix)
	require.NotNil(t, mix.Primary)
	assert.Equal(t, "P", mix.Primary.Deal.ID)
	assert.Equal(t, int64(400), mix.TotalSavings)
}

func TestOptimalMix_Empty(t *testing.T) {
	resp := doJSON(t, setupTestApp(&mockDealService{}), http.MethodPost, "/api/recommendations/optimal-mix", `{"user_id":"user_001"}`)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var result map[string]any
	decodeBody(t, resp, &result)
	assert.Nil(t, result["primary"])
	assert.Equal(t, []any{}, result["complementary"])
	assert.Equal(t, float64(0), result["total_savings"])
}

func TestNotifications_Success(t *testing.T) {
	svc := &mockDealService{
		notificationsFn: func(ctx context.Context, userID string) ([]model.Notification, error) {
			return []model.Notification{{
				Type:    model.NotificationExpiring,
				DealID:  "D1",
				Title:   "Deal expiring today!",
				Urgency: model.PriorityHigh,
			}}, nil
		},
	}

	resp := doJSON(t, setupTestApp(svc), http.MethodGet, "/api/users/user_001/notifications", "")

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var result struct {
		UserID        string               `json:"user_id"`
		Notifications []model.Notification `json:"notifications"`
	}
	decodeBody(t, resp, &result)
	assert.Equal(t, "user_001", result.UserID)
	require.Len(t, result.Notifications, 1)
	assert.Equal(t, model.NotificationExpiring, result.Notifications[0].Type)
}

func TestNotifications_ProfileNotFound(t *testing.T) {
	svc := &mockDealService{
		notificationsFn: func(ctx context.Context, userID string) ([]model.Notification, error) {
			return nil, service.ErrProfileNotFound
		},
	}

	resp := doJSON(t, setupTestApp(svc), http.MethodGet, "/api/users/ghost/notifications", "")

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
