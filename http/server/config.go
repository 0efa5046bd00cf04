package server

import (
	"net"
	"strconv"
	"time"
)

// Config holds the listener, timeout and error-rendering settings of HTTPServer.
type Config struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required"`

	// Fiber connection timeouts.
	ReadTimeout  time.Duration `yaml:"read_timeout"  validate:"required" default:"5s"`
	WriteTimeout time.Duration `yaml:"write_timeout" validate:"required" default:"5s"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"  validate:"required" default:"120s"`

	// HandleTimeout bounds the context of each request; see middleware.NewTimeoutMW.
	HandleTimeout time.Duration `yaml:"request_timeout" validate:"required" default:"10s"`

	// BodyLimit is in bytes.
	BodyLimit int `yaml:"body_limit" validate:"required" default:"4194304"`

	// HideErrorDetails strips trace and details from error bodies.
	HideErrorDetails bool `yaml:"hide_error_details"`
}

// Address is the host:port the server listens on.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
