package http

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/metodoleandrolobo/nexquadra-sub000/internal/application"
)

// validate checks request DTOs before they reach the services, so obviously
// broken payloads never cost a repository round trip. Field names come from
// the json tags, matching what the client actually sent.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		tag := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return field.Name
		}
		return tag
	})
	return v
}

// validateRequest runs struct validation and converts failures into the same
// field-level shape the services produce.
func validateRequest(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	vErr := &application.ValidationError{FieldErrors: make(map[string]string)}
	if !asValidationErrors(err, &fieldErrs) {
		vErr.FieldErrors["corpo"] = "corpo da requisição inválido"
		return vErr
	}

	for _, fieldErr := range fieldErrs {
		vErr.FieldErrors[fieldErr.Field()] = validationMessage(fieldErr)
	}
	return vErr
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	errs, ok := err.(validator.ValidationErrors)
	if ok {
		*target = errs
	}
	return ok
}

func validationMessage(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "campo obrigatório"
	case "min":
		return "valor abaixo do mínimo (" + fieldErr.Param() + ")"
	case "max":
		return "valor acima do máximo (" + fieldErr.Param() + ")"
	case "oneof":
		return "valor deve ser um de: " + strings.ReplaceAll(fieldErr.Param(), " ", ", ")
	case "len":
		return "tamanho deve ser " + fieldErr.Param()
	case "numeric":
		return "apenas dígitos são aceitos"
	default:
		return "valor inválido"
	}
}
