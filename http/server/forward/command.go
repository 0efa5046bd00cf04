package forward

import (
	"github.com/code19m/errx"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/rise-and-shine/cqsdata/cqrs"
	"github.com/rise-and-shine/cqsdata/val"
)

// CommandResponse is the body written for a successful command.
type CommandResponse struct {
	TransactionID uuid.UUID `json:"transaction_id"`
	Message       string    `json:"message"`
	NewID         uuid.UUID `json:"new_id,omitempty"`
}

// ToAdd decodes a T from the body and adds it. Responds 201 with the new id.
// Each prepare func runs on the decoded record before validation, e.g. to assign
// a fresh uid.
func ToAdd[T any](ex cqrs.Executor, prepare ...func(*T)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		record, err := decodeBody[T](c)
		if err != nil {
			return errx.Wrap(err)
		}
		for _, fn := range prepare {
			fn(&record)
		}
		if err = val.ValidateSchema(record); err != nil {
			return errx.Wrap(err)
		}

		opts, err := requestOptions(c)
		if err != nil {
			return errx.Wrap(err)
		}

		return runCommand(c, ex, cqrs.NewAddCommand(record, opts...), fiber.StatusCreated)
	}
}

// ToUpdate decodes a T from the body and updates the stored record with the same key.
func ToUpdate[T any](ex cqrs.Executor) fiber.Handler {
	return func(c *fiber.Ctx) error {
		record, err := decodeBody[T](c)
		if err != nil {
			return errx.Wrap(err)
		}
		if err = val.ValidateSchema(record); err != nil {
			return errx.Wrap(err)
		}

		opts, err := requestOptions(c)
		if err != nil {
			return errx.Wrap(err)
		}

		return runCommand(c, ex, cqrs.NewUpdateCommand(record, opts...), fiber.StatusOK)
	}
}

// ToDelete deletes the record whose uid is in the path. byUID builds the record
// value carrying that key.
func ToDelete[T any](ex cqrs.Executor, byUID func(uuid.UUID) T) fiber.Handler {
	return func(c *fiber.Ctx) error {
		uid, err := pathUID(c)
		if err != nil {
			return errx.Wrap(err)
		}

		opts, err := requestOptions(c)
		if err != nil {
			return errx.Wrap(err)
		}

		return runCommand(c, ex, cqrs.NewDeleteCommand(byUID(uid), opts...), fiber.StatusOK)
	}
}

func runCommand(c *fiber.Ctx, ex cqrs.Executor, cmd cqrs.Request, status int) error {
	bind(c, cmd)

	res, err := cqrs.Dispatch[*cqrs.CommandResult](c.UserContext(), ex, cmd)
	if err != nil {
		return errx.Wrap(err)
	}
	if !res.Success() {
		return failure(cmd, res, errx.T_Conflict)
	}

	return errx.Wrap(c.Status(status).JSON(CommandResponse{
		TransactionID: cmd.TransactionID(),
		Message:       res.Message(),
		NewID:         res.NewID(),
	}))
}
