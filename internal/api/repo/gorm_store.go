package repo

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"storeapi/internal/api/apperror"
	"storeapi/internal/api/mapping"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

// GormStore is the relational Store. The connection pool is owned by the
// caller and shared by every repository.
type GormStore struct {
	Db      *gorm.DB
	catalog *Catalog
	logger  zerolog.Logger
}

type gormTxKey struct{}

func NewGormStore(db *gorm.DB, catalog *Catalog, logger zerolog.Logger) *GormStore {
	return &GormStore{Db: db, catalog: catalog, logger: logger}
}

func (slf *GormStore) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(gormTxKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return slf.Db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, gormTxKey{}, tx))
	})
}

// db returns the transaction carried by ctx, or the pool.
func (slf *GormStore) db(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(gormTxKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return slf.Db.WithContext(ctx)
}

func (slf *GormStore) FindAll(ctx context.Context, resource string, q Query) ([]mapping.Record, int64, error) {
	sch, err := slf.catalog.Schema(resource)
	if err != nil {
		return nil, 0, err
	}

	query := slf.db(ctx).Model(slf.catalog.New(sch).Interface())
	for column, value := range q.Filters {
		query = query.Where(clause.Eq{Column: clause.Column{Name: column}, Value: value})
	}
	if q.Search != "" && len(q.SearchColumns) > 0 {
		conds := make([]string, 0, len(q.SearchColumns))
		args := make([]any, 0, len(q.SearchColumns))
		pattern := "%" + q.Search + "%"
		for _, column := range q.SearchColumns {
			conds = append(conds, slf.Db.Statement.Quote(column)+" ILIKE ?")
			args = append(args, pattern)
		}
		query = query.Where(strings.Join(conds, " OR "), args...)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, slf.translate(err, resource, "count")
	}

	orderBy := q.OrderBy
	if orderBy == "" {
		orderBy = "id"
	}
	find := query.Order(clause.OrderByColumn{Column: clause.Column{Name: orderBy}, Desc: q.Desc})
	if q.Limit > 0 {
		find = find.Limit(q.Limit).Offset(q.Offset)
	}
	for _, inc := range q.Includes {
		find = find.Preload(inc)
	}

	dest := reflect.New(reflect.SliceOf(sch.ModelType))
	if err := find.Find(dest.Interface()).Error; err != nil {
		return nil, 0, slf.translate(err, resource, "find")
	}

	rows := dest.Elem()
	records := make([]mapping.Record, 0, rows.Len())
	for i := 0; i < rows.Len(); i++ {
		records = append(records, slf.catalog.ToRecord(ctx, sch, rows.Index(i), q.Includes))
	}
	return records, total, nil
}

func (slf *GormStore) FindByID(ctx context.Context, resource string, id int64, includes []string) (mapping.Record, error) {
	sch, err := slf.catalog.Schema(resource)
	if err != nil {
		return nil, err
	}

	query := slf.db(ctx)
	for _, inc := range includes {
		query = query.Preload(inc)
	}

	ptr := slf.catalog.New(sch)
	if err := query.First(ptr.Interface(), id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, slf.translate(err, resource, "find")
	}
	return slf.catalog.ToRecord(ctx, sch, ptr, includes), nil
}

func (slf *GormStore) Create(ctx context.Context, resource string, fields mapping.Record, includes []string) (mapping.Record, error) {
	sch, err := slf.catalog.Schema(resource)
	if err != nil {
		return nil, err
	}

	ptr := slf.catalog.New(sch)
	if err := slf.catalog.Assign(ctx, sch, ptr, fields); err != nil {
		return nil, err
	}
	if err := slf.db(ctx).Omit(clause.Associations).Create(ptr.Interface()).Error; err != nil {
		return nil, slf.translate(err, resource, "create")
	}

	id, err := primaryKey(ctx, sch, ptr)
	if err != nil {
		return nil, err
	}
	return slf.FindByID(ctx, resource, id, includes)
}

func (slf *GormStore) Update(ctx context.Context, resource string, id int64, fields mapping.Record, includes []string) (mapping.Record, error) {
	sch, err := slf.catalog.Schema(resource)
	if err != nil {
		return nil, err
	}

	for column := range fields {
		if _, ok := sch.FieldsByDBName[column]; !ok {
			return nil, apperror.NewValidation(apperror.ErrorItem{Field: column, Message: "unknown field", Type: apperror.TypeInvalid})
		}
	}

	if len(fields) > 0 {
		res := slf.db(ctx).
			Model(slf.catalog.New(sch).Interface()).
			Where(clause.Eq{Column: clause.PrimaryColumn, Value: id}).
			Updates(map[string]any(fields))
		if res.Error != nil {
			return nil, slf.translate(res.Error, resource, "update")
		}
		if res.RowsAffected == 0 {
			return nil, apperror.NewNotFound(resource, mapping.MapID(id))
		}
	}

	rec, err := slf.FindByID(ctx, resource, id, includes)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, apperror.NewNotFound(resource, mapping.MapID(id))
	}
	return rec, nil
}

func (slf *GormStore) Delete(ctx context.Context, resource string, id int64) error {
	sch, err := slf.catalog.Schema(resource)
	if err != nil {
		return err
	}

	res := slf.db(ctx).Delete(slf.catalog.New(sch).Interface(), id)
	if res.Error != nil {
		return slf.translate(res.Error, resource, "delete")
	}
	if res.RowsAffected == 0 {
		return apperror.NewNotFound(resource, mapping.MapID(id))
	}
	return nil
}

func (slf *GormStore) translate(err error, resource, op string) error {
	kind := apperror.PersistenceFailure
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		kind = apperror.PersistenceConflict
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		kind = apperror.PersistenceReference
	default:
		slf.logger.Error().Err(err).Str("resource", resource).Str("op", op).Msg("Database operation failed")
	}
	return &apperror.PersistenceError{Resource: resource, Op: op, Kind: kind, Err: err}
}

func primaryKey(ctx context.Context, sch *schema.Schema, ptr reflect.Value) (int64, error) {
	if sch.PrioritizedPrimaryField == nil {
		return 0, fmt.Errorf("model %s has no primary key", sch.Name)
	}
	v, _ := sch.PrioritizedPrimaryField.ValueOf(ctx, ptr)
	return mapping.ExtractRelationID(v)
}
