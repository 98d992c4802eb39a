package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/SscSPs/teller_payroll_app/internal/apperrors"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// moneyScale matches the NUMERIC(14, 2) money columns.
const moneyScale = 2

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// Money fields are compared numerically by the gt/gte/ne tags.
		validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			if d, ok := field.Interface().(decimal.Decimal); ok {
				f, _ := d.Float64()
				return f
			}
			return nil
		}, decimal.Decimal{})
	})
	return validate
}

// Validate checks a request struct against its validate tags and rejects money
// values with more than two decimal places.
// Failures are returned wrapped in apperrors.ErrValidation.
func Validate(req any) error {
	err := validatorInstance().Struct(req)
	if err == nil {
		return checkMoneyScale(req)
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			if fe.Param() != "" {
				msgs = append(msgs, fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param()))
			} else {
				msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
			}
		}
		return fmt.Errorf("%w: %s", apperrors.ErrValidation, strings.Join(msgs, "; "))
	}
	return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
}

// checkMoneyScale looks at the top-level decimal fields of a request struct.
// The custom type func hands tag validators a float, so scale is checked here instead.
func checkMoneyScale(req any) error {
	v := reflect.Indirect(reflect.ValueOf(req))
	if v.Kind() != reflect.Struct {
		return nil
	}
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		if !t.Field(i).IsExported() {
			continue
		}
		var d decimal.Decimal
		switch f := v.Field(i).Interface().(type) {
		case decimal.Decimal:
			d = f
		case *decimal.Decimal:
			if f == nil {
				continue
			}
			d = *f
		default:
			continue
		}
		if !d.Equal(d.Round(moneyScale)) {
			return fmt.Errorf("%w: %s must have at most %d decimal places, got %s", apperrors.ErrValidation, t.Field(i).Name, moneyScale, d)
		}
	}
	return nil
}
