package querybuilder

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// InsertModel renders a single-row INSERT from the db-tagged exported fields
// of model. suffix, when set, is appended verbatim (ON CONFLICT, RETURNING).
func InsertModel(table string, model any, suffix string) (string, []any, error) {
	if strings.TrimSpace(table) == "" {
		return "", nil, errNoTable
	}
	fields, err := taggedFields(model)
	if err != nil {
		return "", nil, err
	}

	var b binder
	cols := make([]string, len(fields))
	marks := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = f.column
		marks[i] = b.bind(f.value)
	}
	b.write("INSERT INTO ", table, " (", strings.Join(cols, ", "), ") VALUES (", strings.Join(marks, ", "), ")")
	if suffix = strings.TrimSpace(suffix); suffix != "" {
		b.write(" ", suffix)
	}
	return b.result()
}

// Columns lists the db-tagged columns of model in field order, or nil when
// model is not a struct.
func Columns(model any) []string {
	fields, err := taggedFields(model)
	if err != nil {
		return nil
	}
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = f.column
	}
	return cols
}

type taggedField struct {
	column string
	value  any
}

func taggedFields(model any) ([]taggedField, error) {
	v := reflect.ValueOf(model)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, errors.New("querybuilder: nil model")
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, fmt.Errorf("querybuilder: model is %s, want struct", v.Kind())
	}

	t := v.Type()
	out := make([]taggedField, 0, t.NumField())
	for i := range t.NumField() {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(sf.Tag.Get("db"), ",")
		name = strings.TrimSpace(name)
		if name == "" || name == "-" {
			continue
		}
		out = append(out, taggedField{column: name, value: v.Field(i).Interface()})
	}
	if len(out) == 0 {
		return nil, errNoColumns
	}
	return out, nil
}
