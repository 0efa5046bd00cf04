// Package store is the data context the request handlers talk to.
//
// A Factory opens one Handle per handler invocation. The handle owns a single
// database connection, stages record additions, updates and deletions, and persists
// them in one transaction on Commit. Typed record sets are queried through Set,
// whose predicates are filter.Expr values compiled to SQL when the query runs.
package store

import (
	"context"
	"database/sql"

	"github.com/code19m/errx"
	"github.com/uptrace/bun"
)

// Mode selects whether a handle may stage changes.
type Mode int

const (
	ReadOnly Mode = iota
	ReadWrite
)

func (m Mode) String() string {
	if m == ReadWrite {
		return "read_write"
	}
	return "read_only"
}

const (
	CodeReadOnly = "STORE_READ_ONLY"
	CodeClosed   = "STORE_CLOSED"
)

// Config holds store level options.
type Config struct {
	// SchemaName qualifies every table the store touches. Empty uses the search path.
	SchemaName string `yaml:"schema_name"`
	// ReadOnlyTx runs read-only handles inside a read-only transaction.
	ReadOnlyTx bool `yaml:"read_only_tx" default:"false"`
}

// Opener produces a fresh Handle for one handler invocation.
type Opener interface {
	Open(ctx context.Context, mode Mode) (*Handle, error)
}

// Factory is the bun backed Opener.
type Factory struct {
	db  *bun.DB
	cfg Config
}

var _ Opener = (*Factory)(nil)

// NewFactory creates a Factory over db.
func NewFactory(db *bun.DB, cfg Config) *Factory {
	return &Factory{db: db, cfg: cfg}
}

// Open acquires a dedicated connection. The caller must Close the handle.
func (f *Factory) Open(ctx context.Context, mode Mode) (*Handle, error) {
	conn, err := f.db.Conn(ctx)
	if err != nil {
		return nil, errx.Wrap(err, errx.WithDetails(errx.D{"mode": mode.String()}))
	}

	h := &Handle{
		db:     f.db,
		conn:   conn,
		mode:   mode,
		schema: f.cfg.SchemaName,
	}

	if mode == ReadOnly && f.cfg.ReadOnlyTx {
		tx, err := conn.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
		if err != nil {
			_ = conn.Close()
			return nil, errx.Wrap(err)
		}
		h.tx = &tx
	}

	return h, nil
}
