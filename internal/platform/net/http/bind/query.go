package bind

import (
	"net/http"
	"reflect"
	"strconv"
	"strings"

	perr "membersearch/internal/platform/errors"
	"membersearch/internal/platform/logger"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cast"
)

// ParseQuery decodes URL query params into T by `query` tag and validates it
// absent params leave pointer fields nil, repeated params fill []string fields
func ParseQuery[T any](r *http.Request) (T, error) {
	var zero T
	dst, err := DecodeQuery[T](r.URL.Query())
	if err != nil {
		return zero, err
	}
	if err := Get().Validator.Struct(dst); err != nil {
		if inv, ok := err.(*validator.InvalidValidationError); ok {
			logger.Get().Error().Err(inv).Msg("validator internal error")
			return zero, perr.Newf(perr.ErrorCodeValidation, "validation error")
		}
		field, msg := ValidationFieldAndMessage(err)
		return zero, perr.Validationf(field, "%s", msg)
	}
	return dst, nil
}

// DecodeQuery maps values into T without validating
// embedded structs are decoded in place
func DecodeQuery[T any](values map[string][]string) (T, error) {
	var dst T
	rv := reflect.ValueOf(&dst).Elem()
	if rv.Kind() != reflect.Struct {
		return dst, perr.Newf(perr.ErrorCodeUnknown, "bind: %T is not a struct", dst)
	}
	return dst, decodeStruct(rv, values)
}

func decodeStruct(rv reflect.Value, values map[string][]string) error {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if f.Anonymous && f.Type.Kind() == reflect.Struct {
			if err := decodeStruct(rv.Field(i), values); err != nil {
				return err
			}
			continue
		}
		name := f.Tag.Get("query")
		if name == "" || name == "-" || f.PkgPath != "" {
			continue
		}
		raw, ok := values[name]
		if !ok || len(raw) == 0 {
			continue
		}
		if err := setQueryField(rv.Field(i), raw); err != nil {
			return perr.Validationf(name, "%s must be %s", name, kindName(f.Type))
		}
	}
	return nil
}

func setQueryField(fv reflect.Value, raw []string) error {
	t := fv.Type()
	if t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.String {
		out := make([]string, 0, len(raw))
		for _, s := range raw {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		fv.Set(reflect.ValueOf(out).Convert(t))
		return nil
	}
	s := raw[0]
	if t.Kind() == reflect.Pointer {
		p := reflect.New(t.Elem())
		if err := setScalar(p.Elem(), s); err != nil {
			return err
		}
		fv.Set(p)
		return nil
	}
	return setScalar(fv, s)
}

func setScalar(fv reflect.Value, s string) error {
	switch fv.Kind() {
	case reflect.String:
		fv.SetString(s)
	case reflect.Int, reflect.Int32, reflect.Int64:
		// base 10 only, a leading zero is not octal
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, fv.Type().Bits())
		if err != nil {
			return err
		}
		fv.SetInt(n)
	case reflect.Bool:
		b, err := cast.ToBoolE(strings.TrimSpace(s))
		if err != nil {
			return err
		}
		fv.SetBool(b)
	default:
		return perr.Newf(perr.ErrorCodeUnknown, "bind: unsupported kind %s", fv.Kind())
	}
	return nil
}

func kindName(t reflect.Type) string {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int32, reflect.Int64:
		return "an integer"
	case reflect.Bool:
		return "a boolean"
	default:
		return "a " + t.Kind().String()
	}
}
