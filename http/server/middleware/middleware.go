// Package middleware holds the Fiber middlewares used by server.HTTPServer.
// Priorities, highest first:
//
//	1000 recovery
//	 900 tracing
//	 800 timeout
//	 700 meta injection
//	 500 access log
//	 400 error rendering
//
// A typical chain:
//
//	srv := server.NewHTTPServer(cfg, []server.Middleware{
//		middleware.NewRecoveryMW(log),
//		middleware.NewTracingMW(),
//		middleware.NewTimeoutMW(cfg.HandleTimeout),
//		middleware.NewMetaInjectMW("weatherapi", "1.0.0"),
//		middleware.NewLoggerMW(log),
//		middleware.NewErrorHandlerMW(cfg.HideErrorDetails),
//	})
package middleware
