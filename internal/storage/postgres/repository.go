package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/gatherly/events-api/internal/domain"
	"github.com/gatherly/events-api/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is satisfied by both pgxpool.Pool and pgx.Tx; the unit of work
// hands repositories the transaction they must run on.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repository is the generic pgx-backed implementation of
// storage.Repository. Rows are mapped onto the record struct by its db
// tags and validated against the struct's schema tags on the way out.
type Repository[T any] struct {
	q       Querier
	table   string
	columns []string
}

func NewRepository[T any](q Querier, table string, columns []string) *Repository[T] {
	return &Repository[T]{q: q, table: table, columns: columns}
}

func (r *Repository[T]) GetAll(ctx context.Context, filter storage.Filter) ([]T, error) {
	where, args := whereClause(filter, 1)
	query := fmt.Sprintf("SELECT %s FROM %s%s", strings.Join(r.columns, ", "), r.table, where)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	records, err := pgx.CollectRows(rows, pgx.RowToStructByNameLax[T])
	if err != nil {
		return nil, mapError(err)
	}
	for i := range records {
		if err := domain.ValidateRecord(&records[i]); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", storage.ErrInvalidRecord, r.table, err)
		}
	}
	return records, nil
}

func (r *Repository[T]) GetOne(ctx context.Context, filter storage.Filter) (*T, error) {
	where, args := whereClause(filter, 1)
	query := fmt.Sprintf("SELECT %s FROM %s%s LIMIT 1", strings.Join(r.columns, ", "), r.table, where)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	record, err := pgx.CollectOneRow(rows, pgx.RowToStructByNameLax[T])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError(err)
	}
	if err := domain.ValidateRecord(&record); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", storage.ErrInvalidRecord, r.table, err)
	}
	return &record, nil
}

func (r *Repository[T]) AddOne(ctx context.Context, data storage.Fields) (*T, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s: no fields to insert", storage.ErrInvalidRecord, r.table)
	}
	cols := sortedKeys(data)
	placeholders := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, c := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = data[c]
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		r.table, strings.Join(cols, ", "), strings.Join(placeholders, ", "), strings.Join(r.columns, ", "))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	record, err := pgx.CollectOneRow(rows, pgx.RowToStructByNameLax[T])
	if err != nil {
		return nil, mapError(err)
	}
	if err := domain.ValidateRecord(&record); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", storage.ErrInvalidRecord, r.table, err)
	}
	return &record, nil
}

func (r *Repository[T]) UpdateOne(ctx context.Context, data storage.Fields, filter storage.Filter) (*T, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s: no fields to update", storage.ErrInvalidRecord, r.table)
	}
	cols := sortedKeys(data)
	assignments := make([]string, len(cols))
	args := make([]any, 0, len(cols)+len(filter))
	for i, c := range cols {
		assignments[i] = fmt.Sprintf("%s = $%d", c, i+1)
		args = append(args, data[c])
	}
	where, whereArgs := whereClause(filter, len(cols)+1)
	args = append(args, whereArgs...)

	query := fmt.Sprintf("UPDATE %s SET %s%s RETURNING %s",
		r.table, strings.Join(assignments, ", "), where, strings.Join(r.columns, ", "))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	record, err := pgx.CollectOneRow(rows, pgx.RowToStructByNameLax[T])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNoMatch
	}
	if err != nil {
		return nil, mapError(err)
	}
	if err := domain.ValidateRecord(&record); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", storage.ErrInvalidRecord, r.table, err)
	}
	return &record, nil
}

func (r *Repository[T]) DeleteOne(ctx context.Context, filter storage.Filter) error {
	where, args := whereClause(filter, 1)
	query := fmt.Sprintf("DELETE FROM %s%s", r.table, where)

	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		return mapError(err)
	}
	return nil
}

// whereClause renders equality filters in deterministic column order,
// numbering placeholders from start.
func whereClause(filter storage.Filter, start int) (string, []any) {
	if len(filter) == 0 {
		return "", nil
	}
	cols := sortedKeys(filter)
	conds := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, c := range cols {
		conds[i] = fmt.Sprintf("%s = $%d", c, start+i)
		args[i] = filter[c]
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func mapError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return fmt.Errorf("%w: %s", storage.ErrUniqueViolation, pgErr.ConstraintName)
		case "23503":
			return fmt.Errorf("%w: %s", storage.ErrForeignKeyViolation, pgErr.ConstraintName)
		}
	}
	return err
}
