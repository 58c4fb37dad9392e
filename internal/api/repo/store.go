package repo

import (
	"context"

	"storeapi/internal/api/mapping"
)

// Query narrows a FindAll call. A zero Limit returns every row.
type Query struct {
	Offset        int
	Limit         int
	Filters       map[string]any
	Search        string
	SearchColumns []string
	OrderBy       string
	Desc          bool
	Includes      []string
}

// Store is the persistence collaborator. It works on resource names and
// returns snake_case records whose relations are nested records, loaded
// only when named in includes.
type Store interface {
	FindAll(ctx context.Context, resource string, q Query) ([]mapping.Record, int64, error)
	// FindByID returns a nil record and no error when the row is missing.
	FindByID(ctx context.Context, resource string, id int64, includes []string) (mapping.Record, error)
	Create(ctx context.Context, resource string, fields mapping.Record, includes []string) (mapping.Record, error)
	Update(ctx context.Context, resource string, id int64, fields mapping.Record, includes []string) (mapping.Record, error)
	Delete(ctx context.Context, resource string, id int64) error
	// Transaction runs fn atomically. Store calls made with the context
	// passed to fn take part in the transaction; a nested call joins the
	// outer one.
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}
