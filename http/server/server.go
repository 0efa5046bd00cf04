// Package server runs the Fiber application that exposes broker requests over HTTP.
package server

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
)

//nolint:gochecknoglobals // codec shared by every Fiber app
var json = jsoniter.ConfigCompatibleWithStandardLibrary

// HTTPServer is a Fiber app plus the address it listens on.
type HTTPServer struct {
	app  *fiber.App
	addr string
}

// NewHTTPServer builds the Fiber app from cfg and installs middlewares, highest
// priority first. Errors escaping every middleware are rendered as JSON.
func NewHTTPServer(cfg Config, middlewares []Middleware) *HTTPServer {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:    true,
		Immutable:                true,
		EnableSplittingOnParsers: true,
		BodyLimit:                cfg.BodyLimit,
		ReadTimeout:              cfg.ReadTimeout,
		WriteTimeout:             cfg.WriteTimeout,
		IdleTimeout:              cfg.IdleTimeout,
		JSONEncoder:              json.Marshal,
		JSONDecoder:              json.Unmarshal,
		ErrorHandler:             customErrorHandler(cfg.HideErrorDetails),
	})
	applyMiddlewares(app, middlewares)

	return &HTTPServer{app: app, addr: cfg.Address()}
}

// RegisterRouter lets register add routes to the app.
func (s *HTTPServer) RegisterRouter(register func(r fiber.Router)) {
	register(s.app)
}

// Start blocks serving on the configured address until Stop is called.
func (s *HTTPServer) Start() error {
	return s.app.Listen(s.addr)
}

// Stop waits for in-flight requests and closes the listener.
func (s *HTTPServer) Stop() error {
	return s.app.Shutdown()
}

// Test serves req in-process. A timeout of -1 waits indefinitely.
func (s *HTTPServer) Test(req *http.Request, timeoutMs ...int) (*http.Response, error) {
	return s.app.Test(req, timeoutMs...)
}
