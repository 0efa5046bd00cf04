package cqrs

import (
	"context"

	"github.com/code19m/errx"

	"github.com/rise-and-shine/cqsdata/store"
)

// AddHandler inserts the record of an AddCommand.
type AddHandler[T any] struct {
	opener store.Opener
}

func NewAddHandler[T any](opener store.Opener) *AddHandler[T] {
	return &AddHandler[T]{opener: opener}
}

func (h *AddHandler[T]) Execute(ctx context.Context, cmd *AddCommand[T]) (*CommandResult, error) {
	if cmd == nil {
		return CommandFailure(msgSaveFailed), nil
	}
	return runCommand[T](ctx, h.opener, cmd, (*store.Handle).Add, msgRecordSaved, msgSaveFailed)
}

// UpdateHandler replaces the stored record matching an UpdateCommand's record key.
type UpdateHandler[T any] struct {
	opener store.Opener
}

func NewUpdateHandler[T any](opener store.Opener) *UpdateHandler[T] {
	return &UpdateHandler[T]{opener: opener}
}

func (h *UpdateHandler[T]) Execute(ctx context.Context, cmd *UpdateCommand[T]) (*CommandResult, error) {
	if cmd == nil {
		return CommandFailure(msgUpdateFailed), nil
	}
	return runCommand[T](ctx, h.opener, cmd, (*store.Handle).Update, msgRecordUpdated, msgUpdateFailed)
}

// DeleteHandler removes the stored record matching a DeleteCommand's record key.
type DeleteHandler[T any] struct {
	opener store.Opener
}

func NewDeleteHandler[T any](opener store.Opener) *DeleteHandler[T] {
	return &DeleteHandler[T]{opener: opener}
}

func (h *DeleteHandler[T]) Execute(ctx context.Context, cmd *DeleteCommand[T]) (*CommandResult, error) {
	if cmd == nil {
		return CommandFailure(msgDeleteFailed), nil
	}
	return runCommand[T](ctx, h.opener, cmd, (*store.Handle).Delete, msgRecordDeleted, msgDeleteFailed)
}

type recordCommand[T any] interface {
	Request
	Record() T
}

// runCommand stages one mutation, commits it and succeeds only when exactly one
// row was affected.
func runCommand[T any](
	ctx context.Context,
	opener store.Opener,
	cmd recordCommand[T],
	stage func(*store.Handle, any) error,
	okMsg, failMsg string,
) (*CommandResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, canceled(ctx, cmd, err)
	}

	h, err := opener.Open(ctx, store.ReadWrite)
	if err != nil {
		if isCanceled(ctx, err) {
			return nil, canceled(ctx, cmd, err)
		}
		return CommandFailure(faultMessage(failMsg, cmd, err)), nil
	}
	defer h.Close()

	record := cmd.Record()
	if err = stage(h, &record); err != nil {
		return nil, errx.Wrap(err)
	}

	affected, err := h.Commit(ctx)
	if err != nil {
		if isCanceled(ctx, err) {
			return nil, canceled(ctx, cmd, err)
		}
		return CommandFailure(faultMessage(failMsg, cmd, err)), nil
	}

	if affected != 1 {
		return CommandFailure(failMsg), nil
	}

	newID, _ := uidOf(&record)
	return CommandSuccessful(okMsg, newID), nil
}
