package model

import "time"

// CreateDealRequest is the DTO for creating a deal.
type CreateDealRequest struct {
	ID                 string       `json:"id" validate:"omitempty,notblank,max=64"`
	Title              string       `json:"title" validate:"required,notblank,max=255"`
	Description        string       `json:"description" validate:"max=2000"`
	Category           Category     `json:"category" validate:"required,dealcategory"`
	DiscountType       DiscountType `json:"discount_type" validate:"required,discounttype"`
	DiscountValue      *float64     `json:"discount_value" validate:"required,gte=0"`
	MaxDiscount        *float64     `json:"max_discount" validate:"omitempty,gte=0"`
	MinimumBill        float64      `json:"minimum_bill" validate:"gte=0"`
	ValidUntil         *time.Time   `json:"valid_until" validate:"required"`
	IsActive           *bool        `json:"is_active"`
	UsageLimit         *int         `json:"usage_limit" validate:"omitempty,gte=0"`
	ApplicableProducts []string     `json:"applicable_products" validate:"dive,notblank"`
	Season             string       `json:"season" validate:"max=32"`
}

// ValidateDealRequest asks whether a stored deal applies to a bill.
type ValidateDealRequest struct {
	DealID        string   `json:"deal_id" validate:"required,notblank"`
	BillAmount    *float64 `json:"bill_amount" validate:"required"`
	TransactionID string   `json:"transaction_id" validate:"max=64"`
	UserType      UserType `json:"user_type" validate:"omitempty,oneof=first-time loyalty regular"`
}

// CalculateDiscountRequest prices a single stored deal against a bill.
type CalculateDiscountRequest struct {
	DealID        string   `json:"deal_id" validate:"required,notblank"`
	BillAmount    *float64 `json:"bill_amount" validate:"required"`
	TransactionID string   `json:"transaction_id" validate:"max=64"`
	UserType      UserType `json:"user_type" validate:"omitempty,oneof=first-time loyalty regular"`
}

// CalculateTotalRequest prices several stored deals in the given order.
type CalculateTotalRequest struct {
	DealIDs       []string `json:"deal_ids" validate:"required,dive,notblank"`
	BillAmount    *float64 `json:"bill_amount" validate:"required"`
	AllowStacking bool     `json:"allow_stacking"`
	UserType      UserType `json:"user_type" validate:"omitempty,oneof=first-time loyalty regular"`
}

// ApplyDealRequest commits a deal to a transaction.
type ApplyDealRequest struct {
	DealID        string   `json:"deal_id" validate:"required,notblank"`
	TransactionID string   `json:"transaction_id" validate:"required,notblank,max=64"`
	BillAmount    *float64 `json:"bill_amount" validate:"required"`
	AllowStacking bool     `json:"allow_stacking"`
	UserType      UserType `json:"user_type" validate:"omitempty,oneof=first-time loyalty regular"`
}

// RecommendationRequest asks for recommendations for a stored user profile.
type RecommendationRequest struct {
	UserID      string  `json:"user_id" validate:"required,notblank,max=255"`
	CurrentBill float64 `json:"current_bill" validate:"gte=0"`
	Season      string  `json:"season" validate:"max=32"`
	IsWeekend   *bool   `json:"is_weekend"`
}
