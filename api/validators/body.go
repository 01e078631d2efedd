package validators

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/shery7378/multifront/pkg/errors"
)

// MaxBodyBytes caps cart and checkout payloads.
const MaxBodyBytes = 1 << 20

var validate = buildValidator()

func buildValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)
	// money accepts a non-negative decimal string such as "12.50".
	_ = v.RegisterValidation("money", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(strings.TrimSpace(fl.Field().String()))
		return err == nil && !d.IsNegative()
	})
	return v
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	}
	return name
}

// DecodeJSONBody reads a single JSON object into dest and runs its validate tags.
func DecodeJSONBody(r *http.Request, dest any) error {
	body := http.MaxBytesReader(nil, r.Body, MaxBodyBytes)
	defer func() {
		_, _ = io.Copy(io.Discard, body)
	}()

	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		return decodeError(err)
	}
	if dec.More() {
		return pkgerrors.New(pkgerrors.CodeValidation, "request body must contain a single JSON object")
	}

	err := validate.Struct(dest)
	var fieldErrs validator.ValidationErrors
	switch {
	case err == nil:
		return nil
	case errors.As(err, &fieldErrs):
		details := make(map[string]string, len(fieldErrs))
		for _, fe := range fieldErrs {
			details[fe.Field()] = describe(fe)
		}
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	default:
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
	}
}

func decodeError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "request body exceeds %d bytes", tooLarge.Limit)
	}
	if errors.Is(err, io.EOF) {
		return pkgerrors.New(pkgerrors.CodeValidation, "request body is empty")
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body").
		WithDetails(map[string]string{"body": err.Error()})
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "money":
		return "must be a non-negative amount"
	case "min", "gte":
		return "must be at least " + fe.Param()
	case "max", "lte":
		return "must be at most " + fe.Param()
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	}
	return "is invalid"
}
