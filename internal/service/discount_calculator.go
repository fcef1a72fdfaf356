package service

import (
	"fmt"

	"github.com/fairyhunter13/deal-engine/internal/model"
	"github.com/fairyhunter13/deal-engine/pkg/money"
)

// bogoSavingsPercent approximates average buy-one-get-one savings as a share
// of the bill. It is not a per-item BOGO computation.
const bogoSavingsPercent = 33

// MultipleDealsID is the DealID carried by the single-deal policy error.
const MultipleDealsID = "multiple"

// CalculateDealDiscount validates deal and, when eligible, prices it against
// billAmount. Invalid deals yield no discount and the bill unchanged.
func (e *DealEngine) CalculateDealDiscount(deal model.Deal, billAmount float64, applied []model.AppliedDeal, userType model.UserType) model.CalculationResult {
	errs := e.ValidateDeal(deal, billAmount, applied, userType)
	if len(errs) > 0 {
		return model.CalculationResult{
			IsValid:        false,
			DiscountAmount: 0,
			FinalAmount:    money.Round(billAmount),
			Errors:         errs,
			Warnings:       []string{},
		}
	}

	warnings := []string{}
	var discount float64

	switch {
	case deal.DiscountType == model.DiscountPercentage:
		discount = money.Percent(billAmount, deal.DiscountValue)
		if deal.MaxDiscount != nil && discount > *deal.MaxDiscount {
			discount = *deal.MaxDiscount
			warnings = append(warnings, fmt.Sprintf("Discount capped at maximum of %s", money.FormatINR(*deal.MaxDiscount)))
		}
	case deal.Category == model.CategoryBuyOneGetOne:
		discount = money.Percent(billAmount, bogoSavingsPercent)
		warnings = append(warnings, "Buy One Get One savings estimated at 33% of the bill (average savings)")
	default:
		discount = deal.DiscountValue
	}

	if discount > billAmount {
		discount = billAmount
		warnings = append(warnings, "Discount adjusted to not exceed bill amount")
	}

	discountAmount := money.Round(discount)
	finalAmount := money.Round(billAmount) - discountAmount
	if finalAmount < 0 {
		finalAmount = 0
	}

	return model.CalculationResult{
		IsValid:        true,
		DiscountAmount: discountAmount,
		FinalAmount:    finalAmount,
		Errors:         []model.ValidationError{},
		Warnings:       warnings,
	}
}

// CalculateTotalDiscount applies deals in order, each against the bill left
// after the previous ones, so input order changes the result. Without
// allowStacking more than one deal is rejected outright.
func (e *DealEngine) CalculateTotalDiscount(deals []model.Deal, billAmount float64, allowStacking bool, userType model.UserType) model.CalculationResult {
	if len(deals) == 0 {
		return model.CalculationResult{
			IsValid:        true,
			DiscountAmount: 0,
			FinalAmount:    money.Round(billAmount),
			Errors:         []model.ValidationError{},
			Warnings:       []string{},
		}
	}

	if len(deals) > 1 && !allowStacking {
		return singleDealOnlyResult(billAmount)
	}

	total := model.CalculationResult{
		IsValid:  true,
		Errors:   []model.ValidationError{},
		Warnings: []string{},
	}
	running := billAmount
	stacked := make([]model.AppliedDeal, 0, len(deals))

	for _, deal := range deals {
		res := e.CalculateDealDiscount(deal, running, stacked, userType)
		total.Errors = append(total.Errors, res.Errors...)
		total.Warnings = append(total.Warnings, res.Warnings...)
		if !res.IsValid {
			total.IsValid = false
			continue
		}
		total.DiscountAmount += res.DiscountAmount
		running = float64(res.FinalAmount)
		stacked = append(stacked, model.AppliedDeal{DealID: deal.ID, DiscountAmount: res.DiscountAmount})
	}

	total.FinalAmount = money.Round(billAmount) - total.DiscountAmount
	if total.FinalAmount < 0 {
		total.FinalAmount = 0
	}
	return total
}

func singleDealOnlyResult(billAmount float64) model.CalculationResult {
	return model.CalculationResult{
		IsValid:        false,
		DiscountAmount: 0,
		FinalAmount:    money.Round(billAmount),
		Errors: []model.ValidationError{{
			DealID:    MultipleDealsID,
			ErrorType: model.ErrorStoreRestriction,
			Message:   "Only one deal can be applied at a time",
		}},
		Warnings: []string{},
	}
}
