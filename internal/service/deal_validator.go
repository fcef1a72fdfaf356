package service

import (
	"fmt"
	"math"

	"github.com/fairyhunter13/deal-engine/internal/model"
	"github.com/fairyhunter13/deal-engine/pkg/money"
)

// ValidateDeal returns every reason deal cannot be applied to billAmount right
// now. Checks are independent; an empty result means the deal is eligible.
// An empty userType is treated as unknown and fails segment-restricted deals.
func (e *DealEngine) ValidateDeal(deal model.Deal, billAmount float64, applied []model.AppliedDeal, userType model.UserType) []model.ValidationError {
	errs := []model.ValidationError{}
	add := func(t model.ErrorType, msg string) {
		errs = append(errs, model.ValidationError{DealID: deal.ID, ErrorType: t, Message: msg})
	}

	if math.IsNaN(billAmount) || math.IsInf(billAmount, 0) || billAmount < 0 {
		add(model.ErrorInvalidAmount, "Bill amount must be a finite, non-negative number")
	}

	if !deal.IsActive {
		add(model.ErrorExpired, "This deal is no longer active")
	}

	if e.clock.Now().After(deal.ValidUntil) {
		add(model.ErrorExpired, "This deal has expired")
	}

	if billAmount < deal.MinimumBill {
		add(model.ErrorMinimumBill, fmt.Sprintf("Minimum bill amount of %s required", money.FormatINR(deal.MinimumBill)))
	}

	if deal.UsageLimit != nil && deal.UsageCount >= *deal.UsageLimit {
		add(model.ErrorUsageLimit, "Usage limit for this deal has been reached")
	}

	for _, a := range applied {
		if a.DealID == deal.ID {
			add(model.ErrorUsageLimit, "This deal has already been applied")
			break
		}
	}

	if deal.Category == model.CategoryFirstTime && userType != model.UserTypeFirstTime {
		add(model.ErrorProductRestriction, "This deal is only valid for first-time customers")
	}

	if deal.Category == model.CategoryLoyalty && userType != model.UserTypeLoyalty {
		add(model.ErrorProductRestriction, "This deal is only valid for loyalty members")
	}

	return errs
}
