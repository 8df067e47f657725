// Package validation builds the struct validator shared by catalog loading
// and request decoding.
package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type enumValue interface {
	IsValid() bool
}

// New returns a validator that reports json field names, compares
// decimal.Decimal fields numerically and understands the "enum" tag.
func New() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	if err := v.RegisterValidation("enum", validEnum); err != nil {
		panic(fmt.Sprintf("register enum validation: %v", err))
	}
	return v
}

func decimalValue(field reflect.Value) any {
	d, ok := field.Interface().(decimal.Decimal)
	if !ok {
		return nil
	}
	f, _ := d.Float64()
	return f
}

func validEnum(fl validator.FieldLevel) bool {
	value, ok := fl.Field().Interface().(enumValue)
	if !ok {
		return false
	}
	return value.IsValid()
}

// Message renders a field error as a short human readable phrase.
func Message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must have at least %s entries", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "enum":
		return fmt.Sprintf("has unsupported value %v", fe.Value())
	}
	return "is invalid"
}
