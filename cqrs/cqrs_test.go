package cqrs_test

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/rise-and-shine/cqsdata/cqrs"
	"github.com/rise-and-shine/cqsdata/internal/testdb"
	"github.com/rise-and-shine/cqsdata/store"
)

type gadget struct {
	bun.BaseModel `bun:"table:gadgets,alias:g"`

	UID  uuid.UUID `bun:"uid,pk,type:uuid"`
	Name string    `bun:"name,notnull"`
	Size int       `bun:"size,notnull"`
}

func (g gadget) GetUID() uuid.UUID { return g.UID }
func (g gadget) FKID() uuid.UUID { return g.UID }
func (g gadget) FKName() string { return g.Name }

// part has no Uid capability; lookups go through its primary key.
type part struct {
	bun.BaseModel `bun:"table:parts,alias:p"`

	Code  uuid.UUID `bun:"code,pk,type:uuid"`
	Label string    `bun:"label,notnull"`
}

type failingOpener struct{ err error }

func (o failingOpener) Open(context.Context, store.Mode) (*store.Handle, error) {
	return nil, o.err
}

type unknownRequest struct{}

func (unknownRequest) TransactionID() uuid.UUID { return uuid.New() }
func (unknownRequest) Kind() cqrs.Kind { return "unknown" }
func (unknownRequest) RecordType() reflect.Type { return reflect.TypeFor[gadget]() }

func newBroker(t *testing.T) (*cqrs.Broker, *bun.DB) {
	t.Helper()

	db := testdb.New(t, (*gadget)(nil), (*part)(nil))
	return cqrs.NewBroker(storeOf(db)), db
}

func storeOf(db *bun.DB) store.Opener {
	return store.NewFactory(db, store.Config{})
}

func seedGadgets(t *testing.T, db *bun.DB, n int) []gadget {
	t.Helper()

	gadgets := make([]gadget, n)
	for i := range gadgets {
		gadgets[i] = gadget{UID: uuid.New(), Name: fmt.Sprintf("gadget-%03d", i), Size: i % 10}
	}
	testdb.Seed(t, db, gadgets)
	return gadgets
}

func TestExecuteUnsupported(t *testing.T) {
	b, _ := newBroker(t)

	res, err := b.Execute(context.Background(), unknownRequest{})
	require.Nil(t, res)
	requireCode(t, err, cqrs.CodeRequestNotSupported)

	res, err = b.Execute(context.Background(), nil)
	require.Nil(t, res)
	requireCode(t, err, cqrs.CodeRequestNotSupported)
}

func TestExecuteStoreFault(t *testing.T) {
	b := cqrs.NewBroker(failingOpener{err: errors.New("connection refused")})
	id := uuid.New()

	res, err := cqrs.Dispatch[*cqrs.CommandResult](
		context.Background(), b, cqrs.NewAddCommand(gadget{UID: uuid.New()}, cqrs.WithTransactionID(id)),
	)
	require.NoError(t, err)
	require.False(t, res.Success())
	require.Contains(t, res.Message(), "Error saving Record")
	require.Contains(t, res.Message(), "connection refused")
	require.Contains(t, res.Message(), id.String())

	list, err := cqrs.Dispatch[*cqrs.ListProviderResult[gadget]](
		context.Background(), b, cqrs.NewListQuery[gadget](cqrs.ListParams{}, cqrs.WithTransactionID(id)),
	)
	require.NoError(t, err)
	require.False(t, list.Success())
	require.Contains(t, list.Message(), id.String())
	require.NotNil(t, list.Items())
}

func TestExecuteCanceled(t *testing.T) {
	b, _ := newBroker(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	requests := []cqrs.Request{
		cqrs.NewAddCommand(gadget{UID: uuid.New()}),
		cqrs.NewUpdateCommand(gadget{UID: uuid.New()}),
		cqrs.NewDeleteCommand(gadget{UID: uuid.New()}),
		cqrs.NewRecordQuery[gadget](uuid.New()),
		cqrs.NewListQuery[gadget](cqrs.ListParams{}),
		cqrs.NewFKListQuery[gadget](),
	}

	for _, req := range requests {
		t.Run(string(req.Kind()), func(t *testing.T) {
			res, err := b.Execute(ctx, req)
			require.Nil(t, res)
			requireCode(t, err, cqrs.CodeCanceled)
		})
	}
}

func TestDispatchResultMismatch(t *testing.T) {
	b, _ := newBroker(t)

	_, err := cqrs.Dispatch[*cqrs.CommandResult](context.Background(), b, cqrs.NewFKListQuery[gadget]())
	requireCode(t, err, cqrs.CodeResultMismatch)
}

func TestTransactionID(t *testing.T) {
	id := uuid.New()

	require.Equal(t, id, cqrs.NewListQuery[gadget](cqrs.ListParams{}, cqrs.WithTransactionID(id)).TransactionID())
	require.NotEqual(t, uuid.Nil, cqrs.NewRecordQuery[gadget](uuid.New()).TransactionID())
	require.NotEqual(t,
		cqrs.NewAddCommand(gadget{}).TransactionID(),
		cqrs.NewAddCommand(gadget{}).TransactionID(),
	)
}

func TestWrapOrder(t *testing.T) {
	var calls []string
	trace := func(name string) cqrs.WrapFunc {
		return func(next cqrs.Executor) cqrs.Executor {
			return cqrs.ExecutorFunc(func(ctx context.Context, req cqrs.Request) (cqrs.Result, error) {
				calls = append(calls, name)
				return next.Execute(ctx, req)
			})
		}
	}
	root := cqrs.ExecutorFunc(func(context.Context, cqrs.Request) (cqrs.Result, error) {
		calls = append(calls, "root")
		return cqrs.CommandSuccessful("ok", uuid.Nil), nil
	})

	_, err := cqrs.Wrap(root, trace("outer"), trace("inner")).Execute(context.Background(), unknownRequest{})
	require.NoError(t, err)
	require.Equal(t, []string{"outer", "inner", "root"}, calls)
}
