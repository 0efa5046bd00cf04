package cqrs

import (
	"context"
	"errors"
	"fmt"

	"github.com/code19m/errx"
)

const (
	msgRecordSaved     = "Record Saved"
	msgRecordUpdated   = "Record Updated"
	msgRecordDeleted   = "Record Deleted"
	msgSaveFailed      = "Error saving Record"
	msgUpdateFailed    = "Error updating Record"
	msgDeleteFailed    = "Error deleting Record"
	msgNoRecord        = "No record retrieved"
	msgNoQuery         = "No Query defined"
	msgRecordRetrieved = "Record retrieved"
	msgItemsRetrieved  = "Items retrieved"
	msgInvalidParams   = "Invalid list parameters"
	msgListFailed      = "Error retrieving Items"
)

// isCanceled reports whether err, or the context itself, signals cancellation.
func isCanceled(ctx context.Context, err error) bool {
	return errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) ||
		ctx.Err() != nil
}

// canceled builds the error returned for a cancelled request.
func canceled(ctx context.Context, req Request, err error) error {
	if err == nil {
		err = ctx.Err()
	}
	return errx.Wrap(err, errx.WithCode(CodeCanceled), errx.WithDetails(errx.D{
		"transaction_id": req.TransactionID().String(),
		"request_kind":   string(req.Kind()),
	}))
}

// faultMessage renders a store fault for a failed result.
func faultMessage(prefix string, req Request, err error) string {
	return fmt.Sprintf("%s: %v (transaction %s)", prefix, err, req.TransactionID())
}

func asResult[R Result](res R, err error) (Result, error) {
	if err != nil {
		return nil, err
	}
	return res, nil
}
