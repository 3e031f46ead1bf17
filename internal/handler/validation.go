package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	customError "github.com/segyhp/club-engine/pkg/errors"
)

// Validator checks request DTOs and renders failures with English messages
// keyed by JSON field name.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

func NewValidator() *Validator {
	v := validator.New()

	_en := en.New()
	uni := ut.New(_en, _en)
	trans, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(v, trans)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// money amounts are compared numerically, ids as strings
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if id, ok := field.Interface().(uuid.UUID); ok && id != uuid.Nil {
			return id.String()
		}
		return ""
	}, uuid.UUID{})

	return &Validator{validate: v, translator: trans}
}

// Struct validates s and returns a validation BusinessError listing every failing field.
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return customError.WrapValidation(err.Error())
	}

	fields := make([]customError.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, customError.FieldError{
			Field: fe.Field(),
			Error: fe.Translate(v.translator),
		})
	}
	return customError.WrapValidation("invalid request", fields...)
}

// Decode reads a JSON body into dst and validates it.
func (v *Validator) Decode(r *http.Request, dst interface{}) error {
	if err := decodeJSON(r, dst, false); err != nil {
		return err
	}
	return v.Struct(dst)
}

// decodeJSON reads a JSON body into dst. An empty body is accepted when optional is set.
func decodeJSON(r *http.Request, dst interface{}, optional bool) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if optional && errors.Is(err, io.EOF) {
			return nil
		}
		return customError.WrapValidation("invalid request body: " + err.Error())
	}
	return nil
}
