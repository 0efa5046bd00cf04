package store

import (
	"context"
	"math"
	"reflect"

	"github.com/code19m/errx"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/schema"

	"github.com/rise-and-shine/cqsdata/filter"
	"github.com/rise-and-shine/cqsdata/pg"
)

// Query is an immutable, lazily executed query over the records of type T.
// Every builder method returns a new Query; nothing touches the database until
// Count, List, First or FindByKey is called.
type Query[T any] struct {
	h     *Handle
	table *schema.Table

	where []filter.Expr
	order []filter.Sort
	skip  int
	take  int
}

// Set returns the full record set of T visible through h.
func Set[T any](h *Handle) *Query[T] {
	return &Query[T]{
		h:     h,
		table: h.table(reflect.TypeFor[T]()),
	}
}

func (q *Query[T]) clone() *Query[T] {
	c := *q
	c.where = append([]filter.Expr(nil), q.where...)
	c.order = append([]filter.Sort(nil), q.order...)
	return &c
}

// Filter narrows the set. Successive filters are combined with AND.
// A zero predicate leaves the set unchanged.
func (q *Query[T]) Filter(e filter.Expr) *Query[T] {
	if e.IsZero() {
		return q
	}
	c := q.clone()
	c.where = append(c.where, e)
	return c
}

// Order appends a sort key. A zero sort is ignored.
func (q *Query[T]) Order(s filter.Sort) *Query[T] {
	if s.IsZero() {
		return q
	}
	c := q.clone()
	c.order = append(c.order, s)
	return c
}

// Skip drops the first n records of the ordered set.
func (q *Query[T]) Skip(n int) *Query[T] {
	c := q.clone()
	c.skip = max(n, 0)
	return c
}

// Take limits the result to n records. n <= 0 removes the limit.
func (q *Query[T]) Take(n int) *Query[T] {
	c := q.clone()
	c.take = max(n, 0)
	return c
}

// Fields lists the column names predicates and sorts may reference.
func (q *Query[T]) Fields() []string {
	names := make([]string, 0, len(q.table.Fields))
	for _, f := range q.table.Fields {
		names = append(names, f.Name)
	}
	return names
}

// Validate checks that every filter and sort of the query resolves to a column of
// the record table, without touching the database.
func (q *Query[T]) Validate() error {
	for _, e := range q.where {
		if _, _, err := compile(q.table, e); err != nil {
			return err
		}
	}
	for _, s := range q.order {
		if _, err := column(q.table, s.Field); err != nil {
			return err
		}
	}
	return nil
}

// Count returns the number of records matching the filters. Ordering and paging are ignored.
func (q *Query[T]) Count(ctx context.Context) (int, error) {
	if err := q.h.usable(); err != nil {
		return 0, err
	}

	sq := q.h.idb().NewSelect().Model((*T)(nil))
	sq, err := q.applyWhere(q.applyTable(sq))
	if err != nil {
		return 0, err
	}

	count, err := sq.Count(ctx)
	if err != nil {
		return 0, errx.Wrap(err, errx.WithType(pg.ErrorType(err)), errx.WithDetails(pg.ErrorDetails(err, sq)))
	}

	return count, nil
}

// List materializes the query. The result is never nil.
func (q *Query[T]) List(ctx context.Context) ([]T, error) {
	if err := q.h.usable(); err != nil {
		return nil, err
	}

	items := make([]T, 0)
	sq := q.h.idb().NewSelect().Model(&items)
	sq, err := q.applyWhere(q.applyTable(sq))
	if err != nil {
		return nil, err
	}
	sq, err = q.applyOrder(sq)
	if err != nil {
		return nil, err
	}
	switch {
	case q.take > 0:
		sq = sq.Limit(q.take)
	case q.skip > 0:
		// OFFSET without LIMIT is rejected by SQLite.
		sq = sq.Limit(math.MaxInt32)
	}
	if q.skip > 0 {
		sq = sq.Offset(q.skip)
	}

	if err = sq.Scan(ctx); err != nil {
		return nil, errx.Wrap(err, errx.WithType(pg.ErrorType(err)), errx.WithDetails(pg.ErrorDetails(err, sq)))
	}

	return items, nil
}

// First returns the first record of the query, if any.
func (q *Query[T]) First(ctx context.Context) (T, bool, error) {
	var zero T

	items, err := q.Take(1).List(ctx)
	if err != nil {
		return zero, false, err
	}
	if len(items) == 0 {
		return zero, false, nil
	}

	return items[0], true, nil
}

// FindByKey looks a record up by its primary key. Filters still apply.
func (q *Query[T]) FindByKey(ctx context.Context, key any) (T, bool, error) {
	var zero T

	if len(q.table.PKs) != 1 {
		return zero, false, errx.New(
			"record type must have exactly one primary key column",
			errx.WithDetails(errx.D{"type": q.table.TypeName, "pk_count": len(q.table.PKs)}),
		)
	}

	return q.Filter(filter.Eq(q.table.PKs[0].Name, key)).First(ctx)
}

func (q *Query[T]) applyTable(sq *bun.SelectQuery) *bun.SelectQuery {
	if q.h.schema == "" {
		return sq
	}
	return sq.ModelTableExpr("?.? AS ?", bun.Ident(q.h.schema), bun.Ident(q.table.Name), bun.Ident(q.table.Alias))
}

func (q *Query[T]) applyWhere(sq *bun.SelectQuery) (*bun.SelectQuery, error) {
	for _, e := range q.where {
		sql, args, err := compile(q.table, e)
		if err != nil {
			return nil, err
		}
		if len(args) == 0 {
			sq = sq.Where(sql)
		} else {
			sq = sq.Where(sql, args...)
		}
	}
	return sq, nil
}

func (q *Query[T]) applyOrder(sq *bun.SelectQuery) (*bun.SelectQuery, error) {
	for _, s := range q.order {
		col, err := column(q.table, s.Field)
		if err != nil {
			return nil, err
		}
		if s.Descending {
			sq = sq.OrderExpr("? DESC", bun.Safe(col))
		} else {
			sq = sq.OrderExpr("? ASC", bun.Safe(col))
		}
	}
	return sq, nil
}

func (h *Handle) usable() error {
	if h.closed {
		return errx.New("store handle is closed", errx.WithCode(CodeClosed))
	}
	return nil
}
