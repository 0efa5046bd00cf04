package cqrs

import (
	"context"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/rise-and-shine/cqsdata/filter"
	"github.com/rise-and-shine/cqsdata/store"
	"github.com/rise-and-shine/cqsdata/val"
)

// RecordQueryHandler fetches one record by Uid.
type RecordQueryHandler[T any] struct {
	opener store.Opener
}

func NewRecordQueryHandler[T any](opener store.Opener) *RecordQueryHandler[T] {
	return &RecordQueryHandler[T]{opener: opener}
}

func (h *RecordQueryHandler[T]) Execute(ctx context.Context, q *RecordQuery[T]) (*RecordProviderResult[T], error) {
	if q == nil {
		return RecordFailure[T](msgNoRecord), nil
	}
	if err := ctx.Err(); err != nil {
		return nil, canceled(ctx, q, err)
	}

	sh, err := h.opener.Open(ctx, store.ReadOnly)
	if err != nil {
		return recordFault[T](ctx, q, err)
	}
	defer sh.Close()

	var (
		record T
		found  bool
		set    = store.Set[T](sh)
	)
	if exposesUID[T]() {
		record, found, err = set.Filter(filter.Eq(UIDColumn, q.UID())).First(ctx)
	} else {
		record, found, err = set.FindByKey(ctx, q.UID())
	}
	if err != nil {
		return recordFault[T](ctx, q, err)
	}
	if !found {
		return RecordFailure[T](msgNoRecord), nil
	}

	return RecordSuccessful(record), nil
}

func recordFault[T any](ctx context.Context, q Request, err error) (*RecordProviderResult[T], error) {
	if isCanceled(ctx, err) {
		return nil, canceled(ctx, q, err)
	}
	return RecordFailure[T](faultMessage(msgNoRecord, q, err)), nil
}

// ListQueryHandler returns a filtered, sorted page of records and the size of the
// filtered set.
type ListQueryHandler[T any] struct {
	opener store.Opener
}

func NewListQueryHandler[T any](opener store.Opener) *ListQueryHandler[T] {
	return &ListQueryHandler[T]{opener: opener}
}

func (h *ListQueryHandler[T]) Execute(ctx context.Context, q *ListQuery[T]) (*ListProviderResult[T], error) {
	if q == nil {
		return ListFailure[T](msgNoQuery), nil
	}
	return h.Run(ctx, q, q.Params())
}

// Run executes params on behalf of req. Custom list handlers call it after
// adjusting the parameters of their own query type.
//
// The total is counted over the filtered set before sorting and paging, and an
// empty set returns without fetching. A PageSize of zero returns every match.
func (h *ListQueryHandler[T]) Run(ctx context.Context, req Request, params ListParams) (*ListProviderResult[T], error) {
	if err := ctx.Err(); err != nil {
		return nil, canceled(ctx, req, err)
	}
	if err := val.ValidateSchema(params); err != nil {
		return ListFailure[T](faultMessage(msgInvalidParams, req, err)), nil
	}

	sh, err := h.opener.Open(ctx, store.ReadOnly)
	if err != nil {
		return listFault[T](ctx, req, err)
	}
	defer sh.Close()

	set := store.Set[T](sh).Filter(params.Filter).Order(params.Sort)
	if err = set.Validate(); err != nil {
		return ListFailure[T](faultMessage(msgInvalidParams, req, err)), nil
	}

	total, err := set.Count(ctx)
	if err != nil {
		return listFault[T](ctx, req, err)
	}
	if total == 0 {
		return ListSuccessful([]T{}, 0), nil
	}

	if params.PageSize > 0 {
		set = set.Skip(params.StartIndex).Take(params.PageSize)
	}

	items, err := set.List(ctx)
	if err != nil {
		return listFault[T](ctx, req, err)
	}

	return ListSuccessful(items, total), nil
}

func listFault[T any](ctx context.Context, req Request, err error) (*ListProviderResult[T], error) {
	if isCanceled(ctx, err) {
		return nil, canceled(ctx, req, err)
	}
	return ListFailure[T](faultMessage(msgListFailed, req, err)), nil
}

// FKListQueryHandler lists every record of T as a foreign key reference.
type FKListQueryHandler[T FKRecord] struct {
	opener store.Opener
}

func NewFKListQueryHandler[T FKRecord](opener store.Opener) *FKListQueryHandler[T] {
	return &FKListQueryHandler[T]{opener: opener}
}

func (h *FKListQueryHandler[T]) Execute(ctx context.Context, q *FKListQuery[T]) (*FKListProviderResult, error) {
	if q == nil || q.TransactionID() == uuid.Nil {
		return FKListFailure(msgNoQuery), nil
	}
	if err := ctx.Err(); err != nil {
		return nil, canceled(ctx, q, err)
	}

	sh, err := h.opener.Open(ctx, store.ReadOnly)
	if err != nil {
		return h.fault(ctx, q, err)
	}
	defer sh.Close()

	records, err := store.Set[T](sh).List(ctx)
	if err != nil {
		return h.fault(ctx, q, err)
	}

	items := lo.Map(records, func(r T, _ int) FKItem {
		return FKItem{ID: r.FKID(), Name: r.FKName()}
	})

	return FKListSuccessful(items), nil
}

func (h *FKListQueryHandler[T]) fault(ctx context.Context, q Request, err error) (*FKListProviderResult, error) {
	if isCanceled(ctx, err) {
		return nil, canceled(ctx, q, err)
	}
	return FKListFailure(faultMessage(msgListFailed, q, err)), nil
}
