package mapping

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// MapID renders an id as its decimal string form. Strings pass through.
func MapID(v any) string {
	v = deref(v)
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		return id
	case int:
		return strconv.FormatInt(int64(id), 10)
	case int32:
		return strconv.FormatInt(int64(id), 10)
	case int64:
		return strconv.FormatInt(id, 10)
	case uint:
		return strconv.FormatUint(uint64(id), 10)
	case uint32:
		return strconv.FormatUint(uint64(id), 10)
	case uint64:
		return strconv.FormatUint(id, 10)
	case float64:
		if id == math.Trunc(id) {
			return strconv.FormatInt(int64(id), 10)
		}
		return strconv.FormatFloat(id, 'f', -1, 64)
	default:
		return fmt.Sprint(id)
	}
}

func MapNullableString(v any, def ...string) string {
	v = deref(v)
	switch s := v.(type) {
	case nil:
		return first(def, "")
	case string:
		return s
	case []byte:
		return string(s)
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprint(s)
	}
}

func MapNullableNumber(v any, def ...float64) float64 {
	if n, ok := toFloat(deref(v)); ok {
		return n
	}
	return first(def, 0)
}

func MapNullableInt(v any, def ...int64) int64 {
	if n, ok := toInt(deref(v)); ok {
		return n
	}
	return first(def, 0)
}

func MapBoolean(v any, def ...bool) bool {
	switch b := deref(v).(type) {
	case bool:
		return b
	case string:
		if parsed, err := strconv.ParseBool(b); err == nil {
			return parsed
		}
	}
	return first(def, false)
}

// MapDate is an identity seam for date values. Any future timezone
// normalization belongs here.
func MapDate(v any) *time.Time {
	switch t := v.(type) {
	case time.Time:
		return &t
	case *time.Time:
		return t
	default:
		return nil
	}
}

// MapRelation maps a single nested record, returning nil when it is absent.
func MapRelation(v Value, fn func(Record) Entity) any {
	if v.Kind() != KindRecord {
		return nil
	}
	return fn(v.Record())
}

// MapRelationArray maps a nested collection, returning an empty slice when
// it is absent.
func MapRelationArray(v Value, fn func(Record) Entity) []Entity {
	switch v.Kind() {
	case KindRecordArray:
		out := make([]Entity, 0, len(v.Records()))
		for _, r := range v.Records() {
			out = append(out, fn(r))
		}
		return out
	case KindRecord:
		return []Entity{fn(v.Record())}
	default:
		return []Entity{}
	}
}

// Transform helpers for FieldMap tables.

func AsID(v any) any {
	if v == nil {
		return nil
	}
	return MapID(v)
}

func AsString(def string) Transform {
	return func(v any) any { return MapNullableString(v, def) }
}

func AsNumber(def float64) Transform {
	return func(v any) any { return MapNullableNumber(v, def) }
}

func AsInt(def int64) Transform {
	return func(v any) any { return MapNullableInt(v, def) }
}

func AsBool(def bool) Transform {
	return func(v any) any { return MapBoolean(v, def) }
}

func AsDate(v any) any {
	if t := MapDate(v); t != nil {
		return *t
	}
	return nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// toInt converts without going through float64 so that ids above 2^53
// keep every digit. Unsigned values above MaxInt64 do not convert.
func toInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return fromUint(uint64(n))
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return fromUint(n)
	case string:
		if i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64); err == nil {
			return i, true
		}
	}
	f, ok := toFloat(v)
	if !ok || f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}

func fromUint(n uint64) (int64, bool) {
	if n > math.MaxInt64 {
		return 0, false
	}
	return int64(n), true
}

func deref(v any) any {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	return rv.Interface()
}

func first[T any](values []T, fallback T) T {
	if len(values) > 0 {
		return values[0]
	}
	return fallback
}
