package http

import (
	"regexp"

	"loan-ledger/internal/domain/covenant"
	"loan-ledger/internal/domain/principal"
	"loan-ledger/pkg/id"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Reusable error payload
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
type ErrorResponse struct {
	Error   string       `json:"error"`
	Code    string       `json:"code,omitempty"`
	Details []FieldError `json:"details,omitempty"`
}

var reBytes32 = regexp.MustCompile(`^(0x)?[a-fA-F0-9]{64}$`)

type CustomValidator struct{ v *validator.Validate }

func NewValidator() *CustomValidator {
	v := validator.New()

	// loan id = 32-char lowercase hex
	_ = v.RegisterValidation("hex32", func(fl validator.FieldLevel) bool {
		return id.Valid(fl.Field().String())
	})
	// content hash = 32 bytes of hex, 0x optional
	_ = v.RegisterValidation("bytes32", func(fl validator.FieldLevel) bool {
		return reBytes32.MatchString(fl.Field().String())
	})
	// identity must not be empty or the zero address
	_ = v.RegisterValidation("principal", func(fl validator.FieldLevel) bool {
		return !principal.IsNull(fl.Field().String())
	})
	// non-negative integer in decimal notation, any size
	_ = v.RegisterValidation("fixedpoint", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		return err == nil && !d.IsNegative() && d.Equal(d.Truncate(0)) && len(d.String()) <= covenant.MaxThresholdDigits
	})

	return &CustomValidator{v: v}
}

func (cv *CustomValidator) Validate(i any) error { return cv.v.Struct(i) }

// Map validator.ValidationErrors → []FieldError with readable messages.
func ToFieldErrors(err error) []FieldError {
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "_", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(ve))
	for _, e := range ve {
		field := e.Field()
		switch e.Tag() {
		case "required":
			out = append(out, FieldError{Field: field, Message: "is required"})
		case "hex32":
			out = append(out, FieldError{Field: field, Message: "must be 32-char lowercase hex"})
		case "bytes32":
			out = append(out, FieldError{Field: field, Message: "must be a 32-byte hex digest"})
		case "principal":
			out = append(out, FieldError{Field: field, Message: "must not be empty or the zero address"})
		case "fixedpoint":
			out = append(out, FieldError{Field: field, Message: "must be a non-negative integer"})
		case "oneof":
			out = append(out, FieldError{Field: field, Message: "must be one of " + e.Param()})
		case "datetime":
			out = append(out, FieldError{Field: field, Message: "must be a date formatted " + e.Param()})
		case "gt":
			out = append(out, FieldError{Field: field, Message: "must be greater than " + e.Param()})
		case "gte":
			out = append(out, FieldError{Field: field, Message: "must be greater than or equal to " + e.Param()})
		case "lte":
			out = append(out, FieldError{Field: field, Message: "must be less than or equal to " + e.Param()})
		default:
			out = append(out, FieldError{Field: field, Message: e.Tag() + " validation failed"})
		}
	}
	return out
}
