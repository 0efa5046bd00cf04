// Package wrapper provides broker middleware.
//
// Each wrapper is a cqrs.WrapFunc, so concerns such as request metadata, logging,
// tracing, metrics, panic recovery and timeouts can be stacked around a Broker
// with cqrs.Wrap without touching the handlers.
package wrapper

import (
	"github.com/rise-and-shine/cqsdata/cqrs"
)

// outcome classifies an execution for logs, spans and metrics.
func outcome(res cqrs.Result, err error) string {
	switch {
	case err != nil:
		return "error"
	case res != nil && res.Success():
		return "success"
	default:
		return "failure"
	}
}

func recordTypeName(req cqrs.Request) string {
	if t := req.RecordType(); t != nil {
		return t.String()
	}
	return ""
}
