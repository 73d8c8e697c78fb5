package postgres

import (
	"reflect"
	"slices"
	"sync"
)

// Columns returns the "db" tags of T in field order, minus omit.
// Embedded structs are walked recursively. Call it once at repository construction.
func Columns[T any](omit ...string) []string {
	var zero T
	var cols []string
	for _, f := range fieldsOf(reflect.TypeOf(zero)) {
		if !slices.Contains(omit, f.column) {
			cols = append(cols, f.column)
		}
	}
	return cols
}

// RowValues returns the values of v for columns, in the same order.
// Columns with no matching field yield nil.
func RowValues(v any, columns []string) []any {
	rv := reflect.Indirect(reflect.ValueOf(v))
	byColumn := indexOf(rv.Type())

	out := make([]any, len(columns))
	for i, c := range columns {
		if path, ok := byColumn[c]; ok {
			out[i] = rv.FieldByIndex(path).Interface()
		}
	}
	return out
}

// ValueMap returns column → value for columns, for squirrel SetMap.
func ValueMap(v any, columns []string) map[string]any {
	vals := RowValues(v, columns)
	m := make(map[string]any, len(columns))
	for i, c := range columns {
		m[c] = vals[i]
	}
	return m
}

type columnField struct {
	column string
	path   []int
}

// fieldCache maps reflect.Type to []columnField.
var fieldCache sync.Map

func fieldsOf(t reflect.Type) []columnField {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if cached, ok := fieldCache.Load(t); ok {
		return cached.([]columnField)
	}
	fs := collectFields(t, nil)
	fieldCache.Store(t, fs)
	return fs
}

func collectFields(t reflect.Type, prefix []int) []columnField {
	if t.Kind() != reflect.Struct {
		return nil
	}
	var out []columnField
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		path := append(slices.Clone(prefix), i)
		if f.Anonymous {
			out = append(out, collectFields(f.Type, path)...)
			continue
		}
		tag := f.Tag.Get("db")
		if tag == "" || tag == "-" {
			continue
		}
		out = append(out, columnField{column: tag, path: path})
	}
	return out
}

func indexOf(t reflect.Type) map[string][]int {
	fs := fieldsOf(t)
	m := make(map[string][]int, len(fs))
	for _, f := range fs {
		m[f.column] = f.path
	}
	return m
}
