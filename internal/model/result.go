package model

// ErrorType enumerates why a deal cannot be applied.
type ErrorType string

const (
	ErrorExpired            ErrorType = "EXPIRED"
	ErrorMinimumBill        ErrorType = "MINIMUM_BILL"
	ErrorUsageLimit         ErrorType = "USAGE_LIMIT"
	ErrorProductRestriction ErrorType = "PRODUCT_RESTRICTION"
	ErrorStoreRestriction   ErrorType = "STORE_RESTRICTION"
	ErrorInvalidAmount      ErrorType = "INVALID_AMOUNT"
)

// ValidationError is one reason a deal is not applicable.
// The same ErrorType may appear more than once with different messages.
type ValidationError struct {
	DealID    string    `json:"deal_id"`
	ErrorType ErrorType `json:"error_type"`
	Message   string    `json:"message"`
}

// CalculationResult is the outcome of applying one or more deals to a bill.
// Callers must check IsValid before trusting the amounts.
type CalculationResult struct {
	IsValid        bool              `json:"is_valid"`
	DiscountAmount int64             `json:"discount_amount"`
	FinalAmount    int64             `json:"final_amount"`
	Errors         []ValidationError `json:"errors"`
	Warnings       []string          `json:"warnings"`
}
