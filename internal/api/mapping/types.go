// Package mapping converts persisted records (snake_case keys, native
// values) into domain entities (camelCase keys) using declarative
// per-resource tables, and back into persisted field sets.
package mapping

import (
	"time"
)

// Record is a raw row as returned by the persistence layer.
type Record map[string]any

// Entity is the domain representation produced by MapEntity. It is built
// once per request and never mutated afterwards.
type Entity map[string]any

func (e Entity) Has(key string) bool {
	_, ok := e[key]
	return ok
}

func (e Entity) ID() string {
	return MapID(e["id"])
}

func (e Entity) String(key string) string {
	return MapNullableString(e[key])
}

func (e Entity) Int64(key string) int64 {
	return MapNullableInt(e[key])
}

func (e Entity) Float64(key string) float64 {
	return MapNullableNumber(e[key])
}

// Bool returns the boolean stored under key, or def when it is missing.
func (e Entity) Bool(key string, def bool) bool {
	return MapBoolean(e[key], def)
}

func (e Entity) Time(key string) *time.Time {
	return MapDate(e[key])
}

// Relation returns the nested entity under key, nil when the relation was
// absent.
func (e Entity) Relation(key string) Entity {
	switch v := e[key].(type) {
	case Entity:
		return v
	case map[string]any:
		return v
	default:
		return nil
	}
}

// Relations returns the nested collection under key, never nil.
func (e Entity) Relations(key string) []Entity {
	switch v := e[key].(type) {
	case []Entity:
		if v == nil {
			return []Entity{}
		}
		return v
	case []any:
		out := make([]Entity, 0, len(v))
		for _, item := range v {
			if ent, ok := item.(Entity); ok {
				out = append(out, ent)
			}
		}
		return out
	default:
		return []Entity{}
	}
}
