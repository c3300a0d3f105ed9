package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"stockview/internal/core/apperror"
	"stockview/internal/core/id"
	"stockview/internal/domain"
)

// uniqueViolation is the SQLSTATE of a unique constraint failure.
const uniqueViolation = "23505"

// InsertionOrder sorts top-level rows in the order they were stored.
// seq is an identity column, so the order holds across writers.
const InsertionOrder = "seq ASC"

// Table provides the common statements of a flat table whose rows map
// onto T by "db" tags. Repositories embed it.
type Table[T any] struct {
	txm    *TxManager
	name   string
	entity string
	cols   []string
	// order whitelists sortable columns; the empty key is the default order
	order map[string]string
}

// NewTable creates a table mapping. entity names the record in errors.
func NewTable[T any](txm *TxManager, name, entity string, order map[string]string) *Table[T] {
	return &Table[T]{
		txm:    txm,
		name:   name,
		entity: entity,
		cols:   ExtractDBColumns[T](),
		order:  order,
	}
}

// Builder returns a new squirrel builder with PostgreSQL placeholder format.
func (t *Table[T]) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Querier returns the transaction in ctx or the pool.
func (t *Table[T]) Querier(ctx context.Context) Querier {
	return t.txm.GetQuerier(ctx)
}

// Name returns the table name.
func (t *Table[T]) Name() string {
	return t.name
}

// Columns returns the mapped column names.
func (t *Table[T]) Columns() []string {
	return t.cols
}

// Select starts a SELECT of every mapped column.
func (t *Table[T]) Select() squirrel.SelectBuilder {
	return t.Builder().Select(t.cols...).From(t.name)
}

// Insert writes v as a new row.
func (t *Table[T]) Insert(ctx context.Context, v *T) error {
	data := StructToMap(v)
	values := make(map[string]any, len(t.cols))
	for _, col := range t.cols {
		values[col] = data[col]
	}

	sql, args, err := t.Builder().Insert(t.name).SetMap(values).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := t.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		return t.mapWriteErr(err)
	}
	return nil
}

// Update overwrites the row of rowID provided its stored version equals
// expected. v must already carry the next version.
func (t *Table[T]) Update(ctx context.Context, v *T, rowID id.ID, expected int) error {
	data := StructToMap(v)
	values := make(map[string]any, len(t.cols))
	for _, col := range t.cols {
		if col == "id" || col == "created_at" {
			continue
		}
		values[col] = data[col]
	}

	sql, args, err := t.Builder().
		Update(t.name).
		SetMap(values).
		Where(squirrel.Eq{"id": rowID}).
		Where(squirrel.Eq{"version": expected}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := t.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return t.mapWriteErr(err)
	}
	if result.RowsAffected() > 0 {
		return nil
	}

	exists, err := t.Exists(ctx, squirrel.Eq{"id": rowID})
	if err != nil {
		return err
	}
	if !exists {
		return apperror.NewNotFound(t.entity, rowID.String())
	}
	return apperror.NewConcurrentModification(t.entity, rowID.String())
}

// Versioned is implemented by entities under optimistic locking.
type Versioned interface {
	GetID() id.ID
	GetVersion() int
	SetVersion(v int)
	Touch()
}

// UpdateVersioned advances the version of v and writes it, expecting the
// previous version in storage. The version is restored when the write fails.
func UpdateVersioned[T any, P interface {
	*T
	Versioned
}](ctx context.Context, t *Table[T], v P) error {
	expected := v.GetVersion()
	v.Touch()
	if err := t.Update(ctx, (*T)(v), v.GetID(), expected); err != nil {
		v.SetVersion(expected)
		return err
	}
	return nil
}

// Get returns the single row matching where; key identifies it in errors.
func (t *Table[T]) Get(ctx context.Context, where squirrel.Sqlizer, key string) (*T, error) {
	sql, args, err := t.Select().Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	out := new(T)
	if err := pgxscan.Get(ctx, t.Querier(ctx), out, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(t.entity, key)
		}
		return nil, fmt.Errorf("get %s: %w", t.name, err)
	}
	return out, nil
}

// All runs q and scans every row.
func (t *Table[T]) All(ctx context.Context, q squirrel.SelectBuilder) ([]*T, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var out []*T
	if err := pgxscan.Select(ctx, t.Querier(ctx), &out, sql, args...); err != nil {
		return nil, fmt.Errorf("select %s: %w", t.name, err)
	}
	return out, nil
}

// Page counts the rows of q, then returns the requested page in orderBy order.
func (t *Table[T]) Page(ctx context.Context, q squirrel.SelectBuilder, filter domain.ListFilter) (domain.ListResult[*T], error) {
	result := domain.ListResult[*T]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	if len(filter.IDs) > 0 {
		q = q.Where(squirrel.Eq{"id": filter.IDs})
	}

	countSQL, countArgs, err := t.Builder().Select("COUNT(*)").FromSelect(q, "sub").ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}
	if err := t.Querier(ctx).QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	orderBy, err := t.parseOrderBy(filter.OrderBy)
	if err != nil {
		return result, err
	}
	q = q.OrderBy(orderBy, InsertionOrder)

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	items, err := t.All(ctx, q)
	if err != nil {
		return result, err
	}
	result.Items = items
	if result.Items == nil {
		result.Items = []*T{}
	}
	return result, nil
}

// Exists reports whether any row matches where.
func (t *Table[T]) Exists(ctx context.Context, where squirrel.Sqlizer) (bool, error) {
	sql, args, err := t.Builder().Select("1").From(t.name).Where(where).Limit(1).ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var one int
	err = t.Querier(ctx).QueryRow(ctx, sql, args...).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("exists %s: %w", t.name, err)
	}
	return true, nil
}

// ReplaceChildren deletes the rows owned by parent and inserts rows in order.
// Must run inside a transaction.
func (t *Table[T]) ReplaceChildren(ctx context.Context, parentCol string, parent id.ID, rows []T) error {
	if t.txm.GetTx(ctx) == nil {
		return fmt.Errorf("replace %s requires transaction context", t.name)
	}

	sql, args, err := t.Builder().Delete(t.name).Where(squirrel.Eq{parentCol: parent}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	if _, err := t.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete %s: %w", t.name, err)
	}
	if len(rows) == 0 {
		return nil
	}

	q := t.Builder().Insert(t.name).Columns(t.cols...)
	for i := range rows {
		data := StructToMap(&rows[i])
		values := make([]any, len(t.cols))
		for j, col := range t.cols {
			values[j] = data[col]
		}
		q = q.Values(values...)
	}

	sql, args, err = q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := t.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		return t.mapWriteErr(err)
	}
	return nil
}

func (t *Table[T]) mapWriteErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		field := strings.TrimPrefix(strings.TrimSuffix(pgErr.ConstraintName, "_key"), t.name+"_")
		return apperror.NewDuplicate(t.entity, field, pgErr.Detail).WithCause(err)
	}
	return fmt.Errorf("write %s: %w", t.name, err)
}

// parseOrderBy turns "field" or "-field" into a whitelisted ORDER BY clause.
func (t *Table[T]) parseOrderBy(orderBy string) (string, error) {
	orderBy = strings.TrimSpace(orderBy)
	if orderBy == "" {
		if def, ok := t.order[""]; ok {
			return def, nil
		}
		return InsertionOrder, nil
	}

	direction := "ASC"
	field := orderBy
	if strings.HasPrefix(orderBy, "-") {
		direction = "DESC"
		field = strings.TrimPrefix(orderBy, "-")
	} else if strings.HasPrefix(orderBy, "+") {
		field = strings.TrimPrefix(orderBy, "+")
	}

	expr, ok := t.order[strings.TrimSpace(field)]
	if !ok || field == "" {
		return "", apperror.NewValidation("invalid orderBy").WithDetail("orderBy", orderBy)
	}
	return expr + " " + direction, nil
}
