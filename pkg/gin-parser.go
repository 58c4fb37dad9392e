package pkg

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"storeapi/internal/api/apperror"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})
	return v
}

// ParseAndValidate binds the JSON body into dto and validates it. Failures
// are returned as an *apperror.ValidationError keyed by json field names.
func ParseAndValidate(c *gin.Context, dto interface{}) error {
	if err := c.ShouldBindJSON(dto); err != nil {
		return apperror.NewValidation(apperror.ErrorItem{
			Field:   "body",
			Message: fmt.Sprintf("malformed request body: %v", err),
			Type:    apperror.TypeInvalid,
		})
	}
	return Validate(dto)
}

// Validate runs the struct validation tags of dto.
func Validate(dto interface{}) error {
	err := validate.Struct(dto)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	items := make([]apperror.ErrorItem, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		items = append(items, toErrorItem(fe))
	}
	return apperror.NewValidation(items...)
}

func toErrorItem(fe validator.FieldError) apperror.ErrorItem {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return apperror.ErrorItem{Field: field, Message: field + " is required", Type: apperror.TypeRequired}
	case "email":
		return apperror.ErrorItem{Field: field, Message: field + " must be a valid email", Type: apperror.TypeInvalid}
	case "min", "gte", "gt":
		return apperror.ErrorItem{Field: field, Message: fmt.Sprintf("%s must be at least %s", field, fe.Param()), Type: apperror.TypeInvalid}
	case "max", "lte", "lt":
		return apperror.ErrorItem{Field: field, Message: fmt.Sprintf("%s must be at most %s", field, fe.Param()), Type: apperror.TypeInvalid}
	case "oneof":
		return apperror.ErrorItem{Field: field, Message: fmt.Sprintf("%s must be one of [%s]", field, fe.Param()), Type: apperror.TypeInvalid}
	default:
		return apperror.ErrorItem{Field: field, Message: fmt.Sprintf("%s failed %q validation", field, fe.Tag()), Type: apperror.TypeInvalid}
	}
}
