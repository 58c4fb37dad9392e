package repo

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"storeapi/internal/api/apperror"
	"storeapi/internal/api/mapping"

	"gorm.io/gorm/schema"
)

// MemoryStore keeps every table in process. It honours the same schema
// rules as the relational store: defaults, auto timestamps, unique columns
// and belongs-to references.
type MemoryStore struct {
	mu      sync.RWMutex
	catalog *Catalog
	state   *memState
	now     func() time.Time
}

// memState holds the tables. Stored rows are never mutated in place, so a
// copy of the two map levels is a full snapshot.
type memState struct {
	tables map[string]map[int64]mapping.Record
	nextID map[string]int64
}

func (s *memState) clone() *memState {
	out := &memState{
		tables: make(map[string]map[int64]mapping.Record, len(s.tables)),
		nextID: make(map[string]int64, len(s.nextID)),
	}
	for resource, rows := range s.tables {
		copied := make(map[int64]mapping.Record, len(rows))
		for id, row := range rows {
			copied[id] = row
		}
		out.tables[resource] = copied
	}
	for resource, n := range s.nextID {
		out.nextID[resource] = n
	}
	return out
}

type memTxKey struct{}

type memTx struct {
	store *MemoryStore
	state *memState
}

func NewMemoryStore(catalog *Catalog) *MemoryStore {
	return &MemoryStore{
		catalog: catalog,
		state: &memState{
			tables: make(map[string]map[int64]mapping.Record),
			nextID: make(map[string]int64),
		},
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Transaction holds the write lock while fn runs against a staged copy of
// the tables. The copy replaces the live tables only when fn succeeds.
// Calls made with a context other than the one passed to fn block until
// the transaction ends.
func (slf *MemoryStore) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := slf.tx(ctx); ok {
		return fn(ctx)
	}

	slf.mu.Lock()
	defer slf.mu.Unlock()

	staged := slf.state.clone()
	if err := fn(context.WithValue(ctx, memTxKey{}, &memTx{store: slf, state: staged})); err != nil {
		return err
	}
	slf.state = staged
	return nil
}

func (slf *MemoryStore) tx(ctx context.Context) (*memState, bool) {
	tx, ok := ctx.Value(memTxKey{}).(*memTx)
	if !ok || tx.store != slf {
		return nil, false
	}
	return tx.state, true
}

func (slf *MemoryStore) read(ctx context.Context) (*memState, func()) {
	if st, ok := slf.tx(ctx); ok {
		return st, func() {}
	}
	slf.mu.RLock()
	return slf.state, slf.mu.RUnlock
}

func (slf *MemoryStore) write(ctx context.Context) (*memState, func()) {
	if st, ok := slf.tx(ctx); ok {
		return st, func() {}
	}
	slf.mu.Lock()
	return slf.state, slf.mu.Unlock
}

func (slf *MemoryStore) FindAll(ctx context.Context, resource string, q Query) ([]mapping.Record, int64, error) {
	sch, err := slf.catalog.Schema(resource)
	if err != nil {
		return nil, 0, err
	}

	st, unlock := slf.read(ctx)
	defer unlock()

	var rows []mapping.Record
	for _, row := range st.tables[resource] {
		if matches(row, q) {
			rows = append(rows, row)
		}
	}

	orderBy := q.OrderBy
	if orderBy == "" {
		orderBy = "id"
	}
	sort.SliceStable(rows, func(i, j int) bool {
		c := compare(rows[i][orderBy], rows[j][orderBy])
		if c == 0 {
			c = compare(rows[i]["id"], rows[j]["id"])
		}
		if q.Desc {
			return c > 0
		}
		return c < 0
	})

	total := int64(len(rows))
	if q.Limit > 0 {
		start := min(q.Offset, len(rows))
		end := min(start+q.Limit, len(rows))
		rows = rows[start:end]
	}

	out := make([]mapping.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, expand(slf.catalog, st, sch, row, q.Includes))
	}
	return out, total, nil
}

func (slf *MemoryStore) FindByID(ctx context.Context, resource string, id int64, includes []string) (mapping.Record, error) {
	sch, err := slf.catalog.Schema(resource)
	if err != nil {
		return nil, err
	}

	st, unlock := slf.read(ctx)
	defer unlock()

	row, ok := st.tables[resource][id]
	if !ok {
		return nil, nil
	}
	return expand(slf.catalog, st, sch, row, includes), nil
}

func (slf *MemoryStore) Create(ctx context.Context, resource string, fields mapping.Record, includes []string) (mapping.Record, error) {
	sch, err := slf.catalog.Schema(resource)
	if err != nil {
		return nil, err
	}
	if err := checkColumns(sch, fields); err != nil {
		return nil, err
	}

	st, unlock := slf.write(ctx)
	defer unlock()

	now := slf.now()
	row := make(mapping.Record, len(sch.DBNames))
	for _, field := range sch.Fields {
		if field.DBName == "" {
			continue
		}
		if v, ok := fields[field.DBName]; ok {
			row[field.DBName] = v
			continue
		}
		switch {
		case field.AutoCreateTime > 0 || field.AutoUpdateTime > 0:
			row[field.DBName] = now
		case field.DefaultValueInterface != nil:
			row[field.DBName] = field.DefaultValueInterface
		case field.HasDefaultValue && field.DefaultValue != "" && !field.PrimaryKey:
			row[field.DBName] = field.DefaultValue
		default:
			row[field.DBName] = nil
		}
	}

	st.nextID[resource]++
	id := st.nextID[resource]
	row["id"] = id

	if err := checkConstraints(st, sch, resource, id, row); err != nil {
		st.nextID[resource]--
		return nil, err
	}

	if st.tables[resource] == nil {
		st.tables[resource] = make(map[int64]mapping.Record)
	}
	st.tables[resource][id] = row
	return expand(slf.catalog, st, sch, row, includes), nil
}

func (slf *MemoryStore) Update(ctx context.Context, resource string, id int64, fields mapping.Record, includes []string) (mapping.Record, error) {
	sch, err := slf.catalog.Schema(resource)
	if err != nil {
		return nil, err
	}
	if err := checkColumns(sch, fields); err != nil {
		return nil, err
	}

	st, unlock := slf.write(ctx)
	defer unlock()

	current, ok := st.tables[resource][id]
	if !ok {
		return nil, apperror.NewNotFound(resource, mapping.MapID(id))
	}

	row := clone(current)
	for column, value := range fields {
		row[column] = value
	}
	if len(fields) > 0 {
		for _, field := range sch.Fields {
			if field.AutoUpdateTime > 0 {
				row[field.DBName] = slf.now()
			}
		}
	}
	row["id"] = id

	if err := checkConstraints(st, sch, resource, id, row); err != nil {
		return nil, err
	}
	st.tables[resource][id] = row
	return expand(slf.catalog, st, sch, row, includes), nil
}

func (slf *MemoryStore) Delete(ctx context.Context, resource string, id int64) error {
	if _, err := slf.catalog.Schema(resource); err != nil {
		return err
	}

	st, unlock := slf.write(ctx)
	defer unlock()

	if _, ok := st.tables[resource][id]; !ok {
		return apperror.NewNotFound(resource, mapping.MapID(id))
	}
	delete(st.tables[resource], id)
	return nil
}

// checkConstraints enforces unique columns and belongs-to references.
// Callers hold the write lock.
func checkConstraints(st *memState, sch *schema.Schema, resource string, id int64, row mapping.Record) error {
	for _, field := range sch.Fields {
		if !field.Unique || row[field.DBName] == nil {
			continue
		}
		for otherID, other := range st.tables[resource] {
			if otherID != id && compare(other[field.DBName], row[field.DBName]) == 0 {
				return &apperror.PersistenceError{
					Resource: resource,
					Op:       "write",
					Kind:     apperror.PersistenceConflict,
					Err:      fmt.Errorf("duplicate %s", field.DBName),
				}
			}
		}
	}

	for _, rel := range sch.Relationships.Relations {
		if rel.Type != schema.BelongsTo || len(rel.References) == 0 {
			continue
		}
		column := rel.References[0].ForeignKey.DBName
		if row[column] == nil {
			continue
		}
		refID, err := mapping.ExtractRelationID(row[column])
		if err != nil {
			return err
		}
		if _, ok := st.tables[rel.FieldSchema.Table][refID]; !ok {
			return &apperror.PersistenceError{
				Resource: resource,
				Op:       "write",
				Kind:     apperror.PersistenceReference,
				Err:      fmt.Errorf("%s %d does not exist", rel.FieldSchema.Table, refID),
			}
		}
	}
	return nil
}

// expand copies row and attaches the requested relations. Callers hold
// at least the read lock.
func expand(catalog *Catalog, st *memState, sch *schema.Schema, row mapping.Record, includes []string) mapping.Record {
	out := clone(row)
	for name, nested := range includeTree(includes) {
		rel, ok := sch.Relationships.Relations[name]
		if !ok || len(rel.References) == 0 {
			continue
		}
		key := catalog.RelationKey(rel)
		target := rel.FieldSchema.Table
		ref := rel.References[0]

		switch rel.Type {
		case schema.HasMany:
			ownID := mapping.MapID(row[ref.PrimaryKey.DBName])
			var children []mapping.Record
			for _, child := range st.tables[target] {
				if mapping.MapID(child[ref.ForeignKey.DBName]) == ownID {
					children = append(children, child)
				}
			}
			sort.Slice(children, func(i, j int) bool { return compare(children[i]["id"], children[j]["id"]) < 0 })
			items := make([]mapping.Record, 0, len(children))
			for _, child := range children {
				items = append(items, expand(catalog, st, rel.FieldSchema, child, nested))
			}
			out[key] = items
		case schema.BelongsTo:
			out[key] = nil
			refID, err := mapping.ExtractRelationID(row[ref.ForeignKey.DBName])
			if err != nil {
				continue
			}
			if parent, ok := st.tables[target][refID]; ok {
				out[key] = expand(catalog, st, rel.FieldSchema, parent, nested)
			}
		}
	}
	return out
}

func checkColumns(sch *schema.Schema, fields mapping.Record) error {
	var items []apperror.ErrorItem
	for column := range fields {
		if _, ok := sch.FieldsByDBName[column]; !ok {
			items = append(items, apperror.ErrorItem{Field: column, Message: "unknown field", Type: apperror.TypeInvalid})
		}
	}
	if len(items) > 0 {
		sort.Slice(items, func(i, j int) bool { return items[i].Field < items[j].Field })
		return apperror.NewValidation(items...)
	}
	return nil
}

func matches(row mapping.Record, q Query) bool {
	for column, want := range q.Filters {
		if compare(row[column], want) != 0 {
			return false
		}
	}
	if q.Search == "" || len(q.SearchColumns) == 0 {
		return true
	}
	needle := strings.ToLower(q.Search)
	for _, column := range q.SearchColumns {
		if strings.Contains(strings.ToLower(mapping.MapNullableString(row[column])), needle) {
			return true
		}
	}
	return false
}

// compare orders nils first, then numbers, times and strings.
func compare(a, b any) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}
	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Compare(tb)
		}
	}
	if _, ok := a.(bool); ok {
		ab, bb := mapping.MapBoolean(a), mapping.MapBoolean(b)
		switch {
		case ab == bb:
			return 0
		case !ab:
			return -1
		default:
			return 1
		}
	}
	if _, isString := a.(string); !isString {
		fa, fb := mapping.MapNullableNumber(a), mapping.MapNullableNumber(b)
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(mapping.MapNullableString(a), mapping.MapNullableString(b))
}

func clone(r mapping.Record) mapping.Record {
	out := make(mapping.Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
