package repo

import (
	"context"
	"fmt"
	"math"

	"storeapi/internal/api/apperror"
	"storeapi/internal/api/mapping"

	"github.com/rs/zerolog"
)

// Filter is the list request understood by Repository.GetAll. Sort and
// filter keys are persisted (snake_case) column names.
type Filter struct {
	Page    int
	Limit   int
	Sort    string
	Desc    bool
	Search  string
	Filters map[string]any
}

// Page is one page of mapped entities plus the unpaged total.
type Page struct {
	Data  []mapping.Entity
	Total int64
	Page  int
	Limit int
}

// TotalPages is ceil(total/limit), and 0 when there are no records.
func (p Page) TotalPages() int {
	return TotalPages(p.Total, p.Limit)
}

func TotalPages(total int64, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(limit)))
}

// Repository is the CRUD surface of a single resource. The mapping config
// is resolved on every call so that a missing registration surfaces as a
// ConfigurationError on the request that needs it.
type Repository struct {
	resource      string
	store         Store
	registry      *mapping.Registry
	searchColumns []string
	logger        zerolog.Logger
}

func NewRepository(resource string, store Store, registry *mapping.Registry, logger zerolog.Logger, searchColumns ...string) *Repository {
	return &Repository{
		resource:      resource,
		store:         store,
		registry:      registry,
		searchColumns: searchColumns,
		logger:        logger.With().Str("resource", resource).Logger(),
	}
}

func (slf *Repository) Resource() string {
	return slf.resource
}

// Transaction runs fn in one store transaction. Repository calls made with
// the context passed to fn take part in it, whatever their resource.
func (slf *Repository) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return slf.store.Transaction(ctx, fn)
}

func (slf *Repository) Config() (mapping.EntityMapConfig, error) {
	return slf.registry.Lookup(slf.resource)
}

func (slf *Repository) GetAll(ctx context.Context, filter Filter) (Page, error) {
	cfg, err := slf.Config()
	if err != nil {
		return Page{}, err
	}

	if filter.Sort != "" && !cfg.HasSource(filter.Sort) {
		return Page{}, apperror.NewValidation(apperror.ErrorItem{
			Field:   "sort",
			Message: fmt.Sprintf("cannot sort by %q", filter.Sort),
			Type:    apperror.TypeInvalid,
		})
	}
	for column := range filter.Filters {
		if !cfg.HasSource(column) {
			return Page{}, apperror.NewValidation(apperror.ErrorItem{
				Field:   column,
				Message: fmt.Sprintf("cannot filter by %q", column),
				Type:    apperror.TypeInvalid,
			})
		}
	}

	q := Query{
		Filters:  filter.Filters,
		OrderBy:  filter.Sort,
		Desc:     filter.Desc,
		Includes: cfg.Includes(),
	}
	if filter.Search != "" {
		q.Search = filter.Search
		q.SearchColumns = slf.searchColumns
	}
	if filter.Limit > 0 {
		page := max(filter.Page, 1)
		q.Limit = filter.Limit
		q.Offset = (page - 1) * filter.Limit
	}

	records, total, err := slf.store.FindAll(ctx, slf.resource, q)
	if err != nil {
		return Page{}, err
	}

	return Page{
		Data:  mapping.MapEntities(cfg, records),
		Total: total,
		Page:  max(filter.Page, 1),
		Limit: filter.Limit,
	}, nil
}

// GetByID returns nil and no error when the id does not exist.
func (slf *Repository) GetByID(ctx context.Context, id string) (mapping.Entity, error) {
	cfg, err := slf.Config()
	if err != nil {
		return nil, err
	}
	key, err := mapping.ParseID(id)
	if err != nil {
		return nil, err
	}

	rec, err := slf.store.FindByID(ctx, slf.resource, key, cfg.Includes())
	if err != nil || rec == nil {
		return nil, err
	}
	return mapping.MapEntity(cfg, rec), nil
}

func (slf *Repository) Create(ctx context.Context, input mapping.Entity) (mapping.Entity, error) {
	cfg, err := slf.Config()
	if err != nil {
		return nil, err
	}
	fields, err := mapping.ToDatabaseFields(input)
	if err != nil {
		return nil, err
	}
	delete(fields, "id")

	rec, err := slf.store.Create(ctx, slf.resource, fields, cfg.Includes())
	if err != nil {
		return nil, err
	}
	slf.logger.Debug().Str("id", mapping.MapID(rec["id"])).Msg("Created record")
	return mapping.MapEntity(cfg, rec), nil
}

func (slf *Repository) Update(ctx context.Context, id string, input mapping.Entity) (mapping.Entity, error) {
	cfg, err := slf.Config()
	if err != nil {
		return nil, err
	}
	key, err := mapping.ParseID(id)
	if err != nil {
		return nil, err
	}
	fields, err := mapping.ToDatabaseFields(input)
	if err != nil {
		return nil, err
	}
	delete(fields, "id")

	rec, err := slf.store.Update(ctx, slf.resource, key, fields, cfg.Includes())
	if err != nil {
		return nil, err
	}
	return mapping.MapEntity(cfg, rec), nil
}

func (slf *Repository) Delete(ctx context.Context, id string) error {
	if _, err := slf.Config(); err != nil {
		return err
	}
	key, err := mapping.ParseID(id)
	if err != nil {
		return err
	}
	return slf.store.Delete(ctx, slf.resource, key)
}

// All returns every mapped entity of the resource, unpaged.
func (slf *Repository) All(ctx context.Context) ([]mapping.Entity, error) {
	page, err := slf.GetAll(ctx, Filter{})
	if err != nil {
		return nil, err
	}
	return page.Data, nil
}
