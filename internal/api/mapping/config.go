package mapping

import (
	"errors"
	"fmt"
)

// Transform converts one raw field value. It must tolerate nil.
type Transform func(any) any

// FieldMap copies Source from the record to Target on the entity.
type FieldMap struct {
	Source    string
	Target    string
	Transform Transform
}

// RelationMap maps a nested relation. Mapper is always called, with a Null
// value when the relation was not loaded, and must return nil for scalar
// relations or an empty slice for array relations in that case.
type RelationMap struct {
	Source  string
	Target  string
	IsArray bool
	// Include is the hint handed to the query layer so that it loads the
	// relation (the ORM preload name).
	Include string
	Mapper  func(Value) any
}

type EntityMapConfig struct {
	Fields    []FieldMap
	Relations []RelationMap
}

// Field declares a field whose target is the camelCase form of source.
func Field(source string, transform Transform) FieldMap {
	return FieldMap{Source: source, Target: SnakeToCamel(source), Transform: transform}
}

// HasOne declares a scalar relation mapped with fn.
func HasOne(source, include string, fn func(Record) Entity) RelationMap {
	return RelationMap{
		Source:  source,
		Target:  SnakeToCamel(source),
		Include: include,
		Mapper:  func(v Value) any { return MapRelation(v, fn) },
	}
}

// HasMany declares a collection relation mapped element-wise with fn.
func HasMany(source, include string, fn func(Record) Entity) RelationMap {
	return RelationMap{
		Source:  source,
		Target:  SnakeToCamel(source),
		IsArray: true,
		Include: include,
		Mapper:  func(v Value) any { return MapRelationArray(v, fn) },
	}
}

// Nested returns a relation element mapper driven by cfg.
func Nested(cfg EntityMapConfig) func(Record) Entity {
	return func(r Record) Entity { return MapEntity(cfg, r) }
}

func (c EntityMapConfig) Validate() error {
	var errs []error
	seen := make(map[string]struct{}, len(c.Fields)+len(c.Relations))

	check := func(target string) {
		if target == "" {
			errs = append(errs, errors.New("empty target field"))
			return
		}
		if _, dup := seen[target]; dup {
			errs = append(errs, fmt.Errorf("duplicate target field %q", target))
		}
		seen[target] = struct{}{}
	}

	for _, f := range c.Fields {
		check(f.Target)
	}
	for _, r := range c.Relations {
		check(r.Target)
		if r.Mapper == nil {
			errs = append(errs, fmt.Errorf("relation %q has no mapper", r.Target))
		}
	}
	return errors.Join(errs...)
}

// Targets lists the entity keys in declaration order.
func (c EntityMapConfig) Targets() []string {
	out := make([]string, 0, len(c.Fields)+len(c.Relations))
	for _, f := range c.Fields {
		out = append(out, f.Target)
	}
	for _, r := range c.Relations {
		out = append(out, r.Target)
	}
	return out
}

func (c EntityMapConfig) Includes() []string {
	var out []string
	for _, r := range c.Relations {
		if r.Include != "" {
			out = append(out, r.Include)
		}
	}
	return out
}

// HasSource reports whether column is a declared persisted field.
func (c EntityMapConfig) HasSource(column string) bool {
	for _, f := range c.Fields {
		if f.Source == column {
			return true
		}
	}
	return false
}
