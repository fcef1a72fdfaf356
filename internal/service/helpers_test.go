package service

import (
	"time"

	"github.com/fairyhunter13/deal-engine/internal/model"
	"github.com/fairyhunter13/deal-engine/pkg/clock"
)

// testNow is a Saturday.
var testNow = time.Date(2025, 6, 14, 10, 0, 0, 0, time.UTC)

func newTestEngine() *DealEngine {
	return NewDealEngine(clock.NewFixed(testNow), EngineOptions{})
}

func intPtr(i int) *int {
	return &i
}

func floatPtr(f float64) *float64 {
	return &f
}

// baseDeal is an active 10% instant discount, minimum bill 500, valid 30 days.
func baseDeal(id string) model.Deal {
	return model.Deal{
		ID:            id,
		Title:         "Deal " + id,
		Category:      model.CategoryInstantDiscount,
		DiscountType:  model.DiscountPercentage,
		DiscountValue: 10,
		MinimumBill:   500,
		ValidUntil:    testNow.Add(30 * 24 * time.Hour),
		IsActive:      true,
	}
}

func errorTypes(errs []model.ValidationError) []model.ErrorType {
	out := make([]model.ErrorType, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.ErrorType)
	}
	return out
}
