package repo

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"storeapi/internal/api/apperror"
	"storeapi/internal/api/mapping"

	"gorm.io/gorm/schema"
)

// Catalog knows the gorm schema of every persisted resource and converts
// model values to records.
type Catalog struct {
	namer   schema.Namer
	schemas map[string]*schema.Schema
}

func NewCatalog(namer schema.Namer, models ...any) (*Catalog, error) {
	if namer == nil {
		namer = schema.NamingStrategy{SingularTable: true}
	}
	cache := &sync.Map{}
	c := &Catalog{namer: namer, schemas: make(map[string]*schema.Schema, len(models))}

	for _, model := range models {
		sch, err := schema.Parse(model, cache, namer)
		if err != nil {
			return nil, fmt.Errorf("parse model %T: %w", model, err)
		}
		c.schemas[sch.Table] = sch
	}
	return c, nil
}

func (c *Catalog) Schema(resource string) (*schema.Schema, error) {
	sch, ok := c.schemas[resource]
	if !ok {
		return nil, &apperror.ConfigurationError{Resource: resource}
	}
	return sch, nil
}

func (c *Catalog) Resources() []string {
	out := make([]string, 0, len(c.schemas))
	for name := range c.schemas {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// New returns a pointer to a fresh model value for sch.
func (c *Catalog) New(sch *schema.Schema) reflect.Value {
	return reflect.New(sch.ModelType)
}

// Assign copies fields onto the model pointed to by ptr. Unknown columns
// are rejected.
func (c *Catalog) Assign(ctx context.Context, sch *schema.Schema, ptr reflect.Value, fields mapping.Record) error {
	var items []apperror.ErrorItem
	for column, value := range fields {
		field, ok := sch.FieldsByDBName[column]
		if !ok {
			items = append(items, apperror.ErrorItem{Field: column, Message: "unknown field", Type: apperror.TypeInvalid})
			continue
		}
		if err := field.Set(ctx, ptr, value); err != nil {
			items = append(items, apperror.ErrorItem{Field: column, Message: err.Error(), Type: apperror.TypeInvalid})
		}
	}
	if len(items) > 0 {
		sort.Slice(items, func(i, j int) bool { return items[i].Field < items[j].Field })
		return apperror.NewValidation(items...)
	}
	return nil
}

// ToRecord converts a model value into a record. Relations are only
// emitted when named in includes; dotted includes descend into nested
// relations.
func (c *Catalog) ToRecord(ctx context.Context, sch *schema.Schema, value reflect.Value, includes []string) mapping.Record {
	value = reflect.Indirect(value)
	rec := make(mapping.Record, len(sch.DBNames)+len(includes))

	for _, field := range sch.Fields {
		if field.DBName == "" {
			continue
		}
		v, _ := field.ValueOf(ctx, value)
		rec[field.DBName] = plain(v)
	}

	for name, nested := range includeTree(includes) {
		rel, ok := sch.Relationships.Relations[name]
		if !ok {
			continue
		}
		key := c.RelationKey(rel)
		fieldValue := reflect.Indirect(rel.Field.ReflectValueOf(ctx, value))

		switch rel.Type {
		case schema.HasMany, schema.Many2Many:
			items := make([]mapping.Record, 0)
			if fieldValue.IsValid() {
				for i := 0; i < fieldValue.Len(); i++ {
					elem := reflect.Indirect(fieldValue.Index(i))
					if elem.IsValid() {
						items = append(items, c.ToRecord(ctx, rel.FieldSchema, elem, nested))
					}
				}
			}
			rec[key] = items
		default:
			if !fieldValue.IsValid() {
				rec[key] = nil
				continue
			}
			rec[key] = c.ToRecord(ctx, rel.FieldSchema, fieldValue, nested)
		}
	}
	return rec
}

// RelationKey is the record key a relation is stored under.
func (c *Catalog) RelationKey(rel *schema.Relationship) string {
	return c.namer.ColumnName("", rel.Name)
}

func includeTree(includes []string) map[string][]string {
	tree := make(map[string][]string, len(includes))
	for _, inc := range includes {
		head, rest, found := strings.Cut(inc, ".")
		if _, ok := tree[head]; !ok {
			tree[head] = nil
		}
		if found {
			tree[head] = append(tree[head], rest)
		}
	}
	return tree
}

// plain dereferences pointers so records carry bare values or nil.
func plain(v any) any {
	if v == nil {
		return nil
	}
	if t, ok := v.(time.Time); ok {
		return t
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		return rv.Elem().Interface()
	}
	return v
}
