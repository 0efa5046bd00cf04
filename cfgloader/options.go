package cfgloader

type options struct {
	dir         string
	environment string
	silent      bool
	dotenv      bool
}

func buildOptions(opts []Option) options {
	o := options{dir: "./config", dotenv: true}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Option configures Load.
type Option func(*options)

// WithDir reads config files from dir instead of ./config.
func WithDir(dir string) Option {
	return func(o *options) {
		o.dir = dir
	}
}

// WithEnvironment overrides the ENVIRONMENT variable.
func WithEnvironment(env string) Option {
	return func(o *options) {
		o.environment = env
	}
}

// WithSilent disables logging of the loaded configuration.
func WithSilent() Option {
	return func(o *options) {
		o.silent = true
	}
}

// WithoutDotenv skips loading a .env file.
func WithoutDotenv() Option {
	return func(o *options) {
		o.dotenv = false
	}
}
