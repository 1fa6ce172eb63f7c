package app

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/example/kin/internal/core/calendar"
	"github.com/example/kin/internal/core/outcome"
)

// requestValidate checks the validate tags on primary request structs.
// Initialized in init() with the kindate tag.
var requestValidate *validator.Validate

func init() {
	requestValidate = validator.New()
	_ = requestValidate.RegisterValidation("kindate", validateKinDate)
}

// validateKinDate accepts a real date at year, month or day precision.
func validateKinDate(fl validator.FieldLevel) bool {
	return calendar.Check(fl.Field().String()) == nil
}

// validateRequest turns tag failures into a single validation outcome.
func validateRequest(req any) error {
	err := requestValidate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return outcome.Validation("invalid request: %v", err)
	}

	msgs := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		switch fe.Tag() {
		case "kindate":
			msgs[i] = fe.Namespace() + " must be YYYY, YYYY-MM or YYYY-MM-DD"
		case "required", "required_without":
			msgs[i] = fe.Namespace() + " is required"
		default:
			if fe.Param() != "" {
				msgs[i] = fe.Namespace() + " fails " + fe.Tag() + "=" + fe.Param()
			} else {
				msgs[i] = fe.Namespace() + " fails " + fe.Tag()
			}
		}
	}
	return outcome.Validation("%s", strings.Join(msgs, "; "))
}
