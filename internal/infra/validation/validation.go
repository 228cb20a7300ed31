package validation

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"unicode"

	english "github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/translations/en"
	"github.com/iamolegga/valmid"

	"github.com/fleetwire/fleetwire/internal/httptools"
	"github.com/fleetwire/fleetwire/internal/infra/logger"
)

func init() {
	v, trans := newValidator()
	valmid.SetValidator(v)
	valmid.SetErrorHandler(errorHandler(trans))
}

// newValidator reports fields under their wire names (json or httpin key)
// and translates messages to English.
func newValidator() (*validator.Validate, ut.Translator) {
	v := validator.New()
	v.RegisterTagNameFunc(wireName)

	eng := english.New()
	trans, _ := ut.New(eng, eng).GetTranslator("en")
	if err := en.RegisterDefaultTranslations(v, trans); err != nil {
		panic(err)
	}
	return v, trans
}

func errorHandler(trans ut.Translator) func(http.ResponseWriter, *http.Request, error) {
	return func(w http.ResponseWriter, r *http.Request, err error) {
		log := logger.FromContext(r.Context())

		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			log.Error("failed to validate request, error is not expected validation error", "error", err)
			httptools.BadRequest(w, r, err.Error())
			return
		}

		fields := make([]httptools.FieldError, 0, len(verrs))
		for _, e := range verrs {
			fields = append(fields, httptools.FieldError{
				Field:   e.Field(),
				Message: e.Translate(trans),
			})
		}

		log.Debug("validation failed", "fields", fields)
		httptools.ValidationError(w, r, fields)
	}
}

// wireName resolves json:"name,..." first, then in:"query=name;...".
func wireName(f reflect.StructField) string {
	if name, _, _ := strings.Cut(f.Tag.Get("json"), ","); name != "" {
		return name
	}
	if in := f.Tag.Get("in"); in != "" {
		directive, _, _ := strings.Cut(in, ";")
		if _, keys, ok := strings.Cut(directive, "="); ok {
			key, _, _ := strings.Cut(keys, ",")
			return key
		}
	}
	return snakeCase(f.Name)
}

func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
