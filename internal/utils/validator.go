// internal/utils/validator.go
package utils

import (
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("iso8601period", validateISO8601Period)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validateISO8601Period(fl validator.FieldLevel) bool {
	_, err := ParsePeriod(fl.Field().String())
	return err == nil
}

type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func GetValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	if err == nil {
		return validationErrors
	}

	if fieldErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range fieldErrors {
			validationErrors = append(validationErrors, ValidationError{
				Field:   fe.Field(),
				Tag:     fe.Tag(),
				Message: fe.Error(),
			})
		}
	} else {
		validationErrors = append(validationErrors, ValidationError{
			Field:   "",
			Tag:     "struct",
			Message: err.Error(),
		})
	}

	return validationErrors
}
