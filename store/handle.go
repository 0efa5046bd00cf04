package store

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"

	"github.com/code19m/errx"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/schema"

	"github.com/rise-and-shine/cqsdata/pg"
)

type opKind int

const (
	opAdd opKind = iota
	opUpdate
	opDelete
)

func (k opKind) String() string {
	switch k {
	case opAdd:
		return "add"
	case opUpdate:
		return "update"
	default:
		return "delete"
	}
}

type pendingOp struct {
	kind  opKind
	model any
}

// Handle is a unit of work bound to one connection.
// It is not safe for concurrent use.
type Handle struct {
	db     *bun.DB
	conn   bun.Conn
	tx     *bun.Tx
	mode   Mode
	schema string

	pending []pendingOp
	closed  bool
}

// Mode reports the mode the handle was opened with.
func (h *Handle) Mode() Mode {
	return h.mode
}

// Pending reports how many staged changes await Commit.
func (h *Handle) Pending() int {
	return len(h.pending)
}

// Add stages the insertion of model, a pointer to a record.
func (h *Handle) Add(model any) error {
	return h.stage(opAdd, model)
}

// Update stages the replacement of the stored record matched by model's primary key.
func (h *Handle) Update(model any) error {
	return h.stage(opUpdate, model)
}

// Delete stages the removal of the stored record matched by model's primary key.
func (h *Handle) Delete(model any) error {
	return h.stage(opDelete, model)
}

func (h *Handle) stage(kind opKind, model any) error {
	if h.closed {
		return errx.New("store handle is closed", errx.WithCode(CodeClosed))
	}
	if h.mode != ReadWrite {
		return errx.New(
			"cannot stage changes on a read-only handle",
			errx.WithCode(CodeReadOnly),
			errx.WithDetails(errx.D{"operation": kind.String()}),
		)
	}
	if model == nil || reflect.TypeOf(model).Kind() != reflect.Pointer {
		return errx.New(
			"record must be a non-nil pointer",
			errx.WithType(errx.T_Validation),
			errx.WithDetails(errx.D{"operation": kind.String()}),
		)
	}

	h.pending = append(h.pending, pendingOp{kind: kind, model: model})
	return nil
}

// Commit persists the staged changes in one transaction and returns the number of
// rows they affected. Staged changes are cleared whether or not Commit succeeds.
func (h *Handle) Commit(ctx context.Context) (int64, error) {
	if h.closed {
		return 0, errx.New("store handle is closed", errx.WithCode(CodeClosed))
	}

	ops := h.pending
	h.pending = nil

	if len(ops) == 0 {
		return 0, nil
	}

	tx, err := h.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, errx.Wrap(err)
	}

	var total int64
	for _, op := range ops {
		n, err := h.exec(ctx, tx, op)
		if err != nil {
			_ = tx.Rollback()
			return 0, err
		}
		total += n
	}

	if err = tx.Commit(); err != nil {
		return 0, errx.Wrap(err)
	}

	return total, nil
}

func (h *Handle) exec(ctx context.Context, tx bun.Tx, op pendingOp) (int64, error) {
	var (
		q   fmt.Stringer
		res sql.Result
		err error
	)

	switch op.kind {
	case opAdd:
		iq := tx.NewInsert().Model(op.model)
		if h.schema != "" {
			iq = iq.ModelTableExpr("?.? AS ?", h.tableIdents(iq.GetModel())...)
		}
		q = iq
		res, err = iq.Exec(ctx)
	case opUpdate:
		uq := tx.NewUpdate().Model(op.model).WherePK()
		if h.schema != "" {
			uq = uq.ModelTableExpr("?.? AS ?", h.tableIdents(uq.GetModel())...)
		}
		q = uq
		res, err = uq.Exec(ctx)
	default:
		dq := tx.NewDelete().Model(op.model).WherePK()
		if h.schema != "" {
			dq = dq.ModelTableExpr("?.? AS ?", h.tableIdents(dq.GetModel())...)
		}
		q = dq
		res, err = dq.Exec(ctx)
	}
	if err != nil {
		return 0, errx.Wrap(err, errx.WithType(pg.ErrorType(err)), errx.WithDetails(pg.ErrorDetails(err, q)))
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, errx.Wrap(err, errx.WithType(pg.ErrorType(err)), errx.WithDetails(pg.ErrorDetails(err, q)))
	}

	return n, nil
}

// tableIdents returns schema, table name and alias of model for a "?.? AS ?" table expression.
func (h *Handle) tableIdents(model bun.Model) []any {
	table := model.(bun.TableModel).Table() //nolint:errcheck // staged records are always table models
	return []any{bun.Ident(h.schema), bun.Ident(table.Name), bun.Ident(table.Alias)}
}

func (h *Handle) table(typ reflect.Type) *schema.Table {
	return h.db.Table(typ)
}

func (h *Handle) idb() bun.IDB {
	if h.tx != nil {
		return h.tx
	}
	return &h.conn
}

// Close discards staged changes and releases the connection.
func (h *Handle) Close() error {
	if h.closed {
		return nil
	}
	h.closed = true
	h.pending = nil

	if h.tx != nil {
		_ = h.tx.Rollback()
	}
	if err := h.conn.Close(); err != nil {
		return errx.Wrap(err)
	}
	return nil
}
