// Package cfgloader loads, defaults and validates configuration at application start.
//
// The file is chosen by environment: <dir>/<ENVIRONMENT>.yaml. Variables from a .env
// file, when present, are loaded first and ${VAR} references in the YAML are expanded.
// Fields may carry `default` tags (creasty/defaults) and `validate` tags
// (go-playground/validator). Fields tagged `mask:"true"` are masked when the loaded
// configuration is logged.
package cfgloader

import (
	"fmt"
	"os"
	"reflect"
	"slices"
	"strings"

	"github.com/code19m/errx"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/rise-and-shine/cqsdata/logger"
)

const (
	EnvProduction = "production"
	EnvStaging    = "staging"
	EnvDev        = "dev"
	EnvLocal      = "local"
	EnvTest       = "test"
)

const (
	CodeInvalidEnvironment = "CONFIG_INVALID_ENVIRONMENT"
	CodeFileNotFound       = "CONFIG_FILE_NOT_FOUND"
	CodeInvalidConfig      = "CONFIG_INVALID"
)

// Load reads the configuration for the current environment into a T.
// T must be a struct type, not a pointer.
func Load[T any](opts ...Option) (T, error) {
	var config T

	o := buildOptions(opts)

	if reflect.TypeFor[T]().Kind() == reflect.Pointer {
		return config, errx.New("config type must not be a pointer", errx.WithCode(CodeInvalidConfig))
	}

	if o.dotenv {
		_ = godotenv.Load()
	}

	env := o.environment
	if env == "" {
		env = os.Getenv("ENVIRONMENT")
	}
	if !slices.Contains([]string{EnvProduction, EnvStaging, EnvDev, EnvLocal, EnvTest}, env) {
		return config, errx.New(
			"ENVIRONMENT is not set or invalid. Choices are: production, staging, dev, local, test",
			errx.WithCode(CodeInvalidEnvironment),
			errx.WithDetails(errx.D{"environment": env}),
		)
	}

	path := fmt.Sprintf("%s/%s.yaml", strings.TrimRight(o.dir, "/"), env)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return config, errx.New(
			"config file not found",
			errx.WithCode(CodeFileNotFound),
			errx.WithDetails(errx.D{"path": path}),
		)
	}
	if err != nil {
		return config, errx.Wrap(err, errx.WithDetails(errx.D{"path": path}))
	}

	data = []byte(os.ExpandEnv(string(data)))

	if err = yaml.Unmarshal(data, &config); err != nil {
		return config, errx.Wrap(err, errx.WithCode(CodeInvalidConfig), errx.WithDetails(errx.D{"path": path}))
	}

	if err = defaults.Set(&config); err != nil {
		return config, errx.Wrap(err, errx.WithCode(CodeInvalidConfig))
	}

	if err = validateConfig(&config, env); err != nil {
		return config, err
	}

	if !o.silent {
		printConfig(config, env)
	}

	return config, nil
}

// MustLoad is Load for main packages: it logs the error and exits on failure.
func MustLoad[T any](opts ...Option) T {
	config, err := Load[T](opts...)
	if err != nil {
		logger.Named("cfgloader").Fatalx(err)
	}
	return config
}

func validateConfig(config any, env string) error {
	v := validator.New(validator.WithRequiredStructEnabled())
	err := v.Struct(config)
	if err == nil {
		return nil
	}

	failedFields := make([]string, 0)
	if errs, ok := err.(validator.ValidationErrors); ok { //nolint: errorlint // validator returns the concrete type
		for _, fe := range errs {
			tagErr := fe.Tag()
			if fe.Param() != "" {
				tagErr += "=" + fe.Param()
			}
			failedFields = append(failedFields, fmt.Sprintf("%s: %s", fe.Namespace(), tagErr))
		}
	}

	return errx.New(
		fmt.Sprintf("invalid fields in %s config", env),
		errx.WithCode(CodeInvalidConfig),
		errx.WithType(errx.T_Validation),
		errx.WithDetails(errx.D{"fields": strings.Join(failedFields, ", ")}),
	)
}
