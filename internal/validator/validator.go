package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/fairyhunter13/deal-engine/internal/model"
)

// New creates a new validator instance with custom validations registered.
// This ensures consistent validation across the application and tests.
func New() *validator.Validate {
	v := validator.New()

	// Report fields by their JSON names so error messages match the request body
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// "notblank" rejects whitespace-only strings such as deal IDs and titles
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		str, ok := fl.Field().Interface().(string)
		if !ok {
			return true // Not a string, let other validators handle it
		}
		return strings.TrimSpace(str) != ""
	})

	_ = v.RegisterValidation("dealcategory", func(fl validator.FieldLevel) bool {
		return model.Category(fl.Field().String()).Valid()
	})

	_ = v.RegisterValidation("discounttype", func(fl validator.FieldLevel) bool {
		return model.DiscountType(fl.Field().String()).Valid()
	})

	v.RegisterStructValidation(percentageCap, model.CreateDealRequest{})

	return v
}

// percentageCap rejects percentage deals above 100%.
func percentageCap(sl validator.StructLevel) {
	req := sl.Current().Interface().(model.CreateDealRequest)
	if req.DiscountType == model.DiscountPercentage && req.DiscountValue != nil && *req.DiscountValue > 100 {
		sl.ReportError(req.DiscountValue, "discount_value", "DiscountValue", "percentmax", "100")
	}
}
