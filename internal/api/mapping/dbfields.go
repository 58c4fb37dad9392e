package mapping

import (
	"math"
	"reflect"
	"strconv"
	"strings"

	"storeapi/internal/api/apperror"
)

// ToDatabaseFields turns a domain object into the persisted field set.
// Undefined values (nil, nil pointers) are dropped, keys are renamed to
// snake_case and string values under *_id keys are parsed to integers.
func ToDatabaseFields(domain map[string]any) (Record, error) {
	out := make(Record, len(domain))
	for key, raw := range domain {
		if isUndefined(raw) {
			continue
		}
		value := deref(raw)
		column := CamelToSnake(key)

		if s, ok := value.(string); ok && strings.HasSuffix(column, "_id") {
			id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
			if err != nil {
				return nil, &apperror.ParseError{Field: column, Value: s, Err: err}
			}
			value = id
		}
		out[column] = value
	}
	return out, nil
}

// ExtractRelationID accepts a bare id (integer, integral float or numeric
// string) or anything exposing an "id" key and returns the numeric id.
func ExtractRelationID(v any) (int64, error) {
	v = deref(v)
	switch id := v.(type) {
	case Entity:
		return ExtractRelationID(id["id"])
	case Record:
		return ExtractRelationID(id["id"])
	case map[string]any:
		return ExtractRelationID(id["id"])
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
		if err != nil {
			return 0, &apperror.ParseError{Field: "id", Value: id, Err: err}
		}
		return n, nil
	case float32, float64:
		f, _ := toFloat(id)
		if f != math.Trunc(f) {
			return 0, &apperror.ParseError{Field: "id", Value: id}
		}
		return int64(f), nil
	}

	if n, ok := toInt(v); ok {
		return n, nil
	}
	return 0, &apperror.ParseError{Field: "id", Value: v}
}

// ParseID parses a boundary id string into the numeric key.
func ParseID(id string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	if err != nil || n <= 0 {
		return 0, &apperror.ParseError{Field: "id", Value: id, Err: err}
	}
	return n, nil
}

func isUndefined(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
