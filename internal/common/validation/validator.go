package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	commonerrors "github.com/AlibekovAA/job-board/backend/internal/common/errors"
)

var (
	once     sync.Once
	instance *validator.Validate
)

func get() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		instance = v
	})
	return instance
}

// Struct validates s against its `validate` tags. Field failures come back as
// ErrValidation with a details map of json field name to failed rule.
func Struct(s any) error {
	err := get().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return commonerrors.ErrValidation.WithCause(err)
	}

	fields := make(map[string]any, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields[fieldPath(fe)] = fe.Tag()
	}
	return commonerrors.ErrValidation.WithCause(err).WithDetails(map[string]any{"fields": fields})
}

// Failed builds the same error shape as Struct for rules checked by hand.
func Failed(field, rule string) error {
	return commonerrors.ErrValidation.WithDetails(map[string]any{
		"fields": map[string]any{field: rule},
	})
}

// fieldPath drops the root struct name from the namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx != -1 {
		return ns[idx+1:]
	}
	return fe.Field()
}
