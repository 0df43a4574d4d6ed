package store

import (
	"context"
	"reflect"
	"strings"
	"sync"
	"time"

	perr "membersearch/internal/platform/errors"

	"github.com/spf13/cast"
)

// Scalar reads the first column of the first row into T
func Scalar[T any](ctx context.Context, q RowQuerier, sql string, args ...any) (T, error) {
	var v T
	if err := q.QueryRow(ctx, sql, args...).Scan(&v); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// One reads exactly one row with a custom scanner
// no row is ErrNotFound, a second row is ErrAmbiguous
func One[T any](ctx context.Context, q RowQuerier, scan func(Row) (T, error), sql string, args ...any) (T, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		var zero T
		return zero, err
	}
	return single(rows, func(r Rows) (T, error) { return scan(r) })
}

// NamedOne reads exactly one row into T matching columns to `db` tags
func NamedOne[T any](ctx context.Context, q RowQuerier, sql string, args ...any) (T, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		var zero T
		return zero, err
	}
	return single(rows, scanNamed[T])
}

// Named reads every row into T matching columns to `db` tags
func Named[T any](ctx context.Context, q RowQuerier, sql string, args ...any) ([]T, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		item, err := scanNamed[T](rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func single[T any](rows Rows, read func(Rows) (T, error)) (T, error) {
	defer rows.Close()

	var zero T
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return zero, err
		}
		return zero, perr.ErrNotFound
	}
	item, err := read(rows)
	if err != nil {
		return zero, err
	}
	if rows.Next() {
		return zero, perr.ErrAmbiguous
	}
	return item, rows.Err()
}

// fieldsByType caches column name -> field index per struct type
var fieldsByType sync.Map

func fieldsOf(t reflect.Type) map[string]int {
	if m, ok := fieldsByType.Load(t); ok {
		return m.(map[string]int)
	}
	m := make(map[string]int, t.NumField())
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := f.Tag.Get("db")
		if name == "-" {
			continue
		}
		if name == "" {
			name = f.Name
		}
		m[strings.ToLower(name)] = i
	}
	fieldsByType.Store(t, m)
	return m
}

func scanNamed[T any](rows Rows) (T, error) {
	var out T
	cols := rows.Columns()
	vals := make([]any, len(cols))
	dest := make([]any, len(cols))
	for i := range vals {
		dest[i] = &vals[i]
	}
	if err := rows.Scan(dest...); err != nil {
		return out, err
	}

	rv := reflect.ValueOf(&out).Elem()
	fields := fieldsOf(rv.Type())
	for i, c := range cols {
		idx, ok := fields[strings.ToLower(c)]
		if !ok {
			continue
		}
		if err := setField(rv.Field(idx), vals[i]); err != nil {
			return out, perr.Wrapf(err, perr.ErrorCodeDB, "column %s", c)
		}
	}
	return out, nil
}

// setField writes a driver value into a struct field
// nil leaves the zero value, so nullable columns map onto pointer fields
func setField(dst reflect.Value, src any) error {
	if src == nil {
		return nil
	}
	if dst.Kind() == reflect.Pointer {
		if sv := reflect.ValueOf(src); sv.Type().AssignableTo(dst.Type()) {
			dst.Set(sv)
			return nil
		}
		p := reflect.New(dst.Type().Elem())
		if err := setField(p.Elem(), src); err != nil {
			return err
		}
		dst.Set(p)
		return nil
	}

	sv := reflect.ValueOf(src)
	if sv.Type().AssignableTo(dst.Type()) {
		dst.Set(sv)
		return nil
	}

	switch dst.Kind() {
	case reflect.String:
		s, err := cast.ToStringE(src)
		if err != nil {
			return err
		}
		dst.SetString(s)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := cast.ToInt64E(src)
		if err != nil {
			return err
		}
		dst.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := cast.ToUint64E(src)
		if err != nil {
			return err
		}
		dst.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := cast.ToFloat64E(src)
		if err != nil {
			return err
		}
		dst.SetFloat(f)
	case reflect.Bool:
		b, err := cast.ToBoolE(src)
		if err != nil {
			return err
		}
		dst.SetBool(b)
	default:
		if dst.Type() == reflect.TypeOf(time.Time{}) {
			t, err := cast.ToTimeE(src)
			if err != nil {
				return err
			}
			dst.Set(reflect.ValueOf(t))
			return nil
		}
		if !sv.Type().ConvertibleTo(dst.Type()) {
			return perr.Newf(perr.ErrorCodeDB, "cannot assign %T to %s", src, dst.Type())
		}
		dst.Set(sv.Convert(dst.Type()))
	}
	return nil
}
