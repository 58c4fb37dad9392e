package request

import (
	"reflect"

	"storeapi/internal/api/mapping"
)

// Body is a decoded request DTO that can produce the domain input of a
// create or update.
type Body interface {
	Input() mapping.Entity
}

// compact drops absent optional fields so that services only see what the
// client actually sent.
func compact(e mapping.Entity) mapping.Entity {
	for k, v := range e {
		if v == nil {
			delete(e, k)
			continue
		}
		if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
			delete(e, k)
		}
	}
	return e
}
