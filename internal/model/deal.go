package model

import "time"

// Category classifies a deal. The set is closed.
type Category string

const (
	CategoryInstantDiscount Category = "instant-discount"
	CategoryCashback        Category = "cashback"
	CategoryBuyOneGetOne    Category = "buy-one-get-one"
	CategorySeasonal        Category = "seasonal"
	CategoryFirstTime       Category = "first-time"
	CategoryLoyalty         Category = "loyalty"
	CategoryClearance       Category = "clearance"
)

// AllCategories returns every deal category in display order.
func AllCategories() []Category {
	return []Category{
		CategoryInstantDiscount,
		CategoryCashback,
		CategoryBuyOneGetOne,
		CategorySeasonal,
		CategoryFirstTime,
		CategoryLoyalty,
		CategoryClearance,
	}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryInstantDiscount, CategoryCashback, CategoryBuyOneGetOne,
		CategorySeasonal, CategoryFirstTime, CategoryLoyalty, CategoryClearance:
		return true
	}
	return false
}

// DiscountType selects how DiscountValue is interpreted.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Valid reports whether t is a known discount type.
func (t DiscountType) Valid() bool {
	return t == DiscountPercentage || t == DiscountFixed
}

// UserType is the customer segment a deal is checked against.
// The zero value means the caller did not supply one.
type UserType string

const (
	UserTypeFirstTime UserType = "first-time"
	UserTypeLoyalty   UserType = "loyalty"
	UserTypeRegular   UserType = "regular"
)

// Deal is a promotional offer from the catalog.
type Deal struct {
	ID                 string       `json:"id"`
	Title              string       `json:"title"`
	Description        string       `json:"description"`
	Category           Category     `json:"category"`
	DiscountType       DiscountType `json:"discount_type"`
	DiscountValue      float64      `json:"discount_value"`
	MaxDiscount        *float64     `json:"max_discount,omitempty"` // percentage deals only
	MinimumBill        float64      `json:"minimum_bill"`
	ValidUntil         time.Time    `json:"valid_until"`
	IsActive           bool         `json:"is_active"`
	UsageLimit         *int         `json:"usage_limit,omitempty"`
	UsageCount         int          `json:"usage_count"`
	ApplicableProducts []string     `json:"applicable_products,omitempty"`
	Season             string       `json:"season,omitempty"` // empty matches any season
	CreatedAt          time.Time    `json:"-"`
}

// HasUsageLimit reports whether the deal caps its total uses.
func (d Deal) HasUsageLimit() bool {
	return d.UsageLimit != nil
}

// RemainingUses returns UsageLimit-UsageCount. Only meaningful with a limit.
func (d Deal) RemainingUses() int {
	if d.UsageLimit == nil {
		return 0
	}
	return *d.UsageLimit - d.UsageCount
}

// AppliedDeal is a deal already committed to the current transaction.
type AppliedDeal struct {
	DealID         string `json:"deal_id"`
	DiscountAmount int64  `json:"discount_amount,omitempty"`
}
