package services

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/joshua-takyi/vena/internal/models"
)

// validationFields flattens validator errors into json name -> failed rule.
func validationFields(err error) map[string]string {
	fields := map[string]string{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fields["_"] = err.Error()
		return fields
	}
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	return fields
}

func validateStruct(v interface{}, kind error) error {
	if err := models.Validate.Struct(v); err != nil {
		return &ValidationError{Kind: kind, Fields: validationFields(err), Message: "invalid input"}
	}
	return nil
}
