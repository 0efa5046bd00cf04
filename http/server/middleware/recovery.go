package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/code19m/errx"
	"github.com/gofiber/fiber/v2"

	"github.com/rise-and-shine/cqsdata/cqrs/wrapper"
	"github.com/rise-and-shine/cqsdata/http/server"
	"github.com/rise-and-shine/cqsdata/logger"
)

// NewRecoveryMW answers a panicking request with a 500. The panic value and stack
// go to the log only; the response never carries them.
func NewRecoveryMW(log logger.Logger) server.Middleware {
	log = log.Named("http.recovery")

	handler := func(c *fiber.Ctx) (err error) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			log.WithContext(c.UserContext()).
				With("panic_values", fmt.Sprint(r)).
				With("stack_trace", string(debug.Stack())).
				With("route", c.Route().Path).
				Error("panic recovered while serving request")

			panicErr := errx.New("panic recovered",
				errx.WithCode(wrapper.CodePanicRecovered),
				errx.WithType(errx.T_Internal),
			)
			err = server.WriteErrorResponse(c, panicErr, true)
		}()

		return c.Next()
	}

	return server.Middleware{Priority: 1000, Handler: handler}
}
