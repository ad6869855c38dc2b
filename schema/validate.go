package schema

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		validate.RegisterValidation("budget_tier", validBudgetTier)
	})
	return validate
}

func validBudgetTier(fl validator.FieldLevel) bool {
	return BudgetTier(fl.Field().String()).Valid()
}

// FieldError is a single rejected request field
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// ValidationErrors lists every rejected field of a request
type ValidationErrors []FieldError

func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, v := range e {
		msgs = append(msgs, v.Error())
	}
	return strings.Join(msgs, "; ")
}

// Has reports whether field was rejected
func (e ValidationErrors) Has(field string) bool {
	for _, v := range e {
		if v.Field == field {
			return true
		}
	}
	return false
}

// Validate checks the request against the planning rules: origin and destination
// are present, the end date is strictly after the start date, the traveler count
// is within [1, MaxTravelers] and the budget tier is recognized.
// The returned error is a ValidationErrors.
func (r TripRequest) Validate() error {
	err := getValidator().Struct(r)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	ret := make(ValidationErrors, 0, len(verrs))
	for _, v := range verrs {
		ret = append(ret, FieldError{
			Field:  fieldName(v),
			Reason: reason(v),
		})
	}
	return ret
}

func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.IndexByte(ns, '.'); idx >= 0 {
		return ns[idx+1:]
	}
	return fe.Field()
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gtfield":
		return "must be after start_date"
	case "min", "max":
		return fmt.Sprintf("must be between 1 and %d", MaxTravelers)
	case "budget_tier":
		tiers := make([]string, 0, len(BudgetTiers))
		for _, t := range BudgetTiers {
			tiers = append(tiers, string(t))
		}
		return fmt.Sprintf("must be one of %s, got %q", strings.Join(tiers, ", "), fe.Value())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
