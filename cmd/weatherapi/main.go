// Command weatherapi serves the weather domain over HTTP, backed by PostgreSQL
// through the cqrs broker.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/code19m/errx"
	"github.com/rcrowley/go-metrics"

	"github.com/rise-and-shine/cqsdata/cfgloader"
	"github.com/rise-and-shine/cqsdata/cqrs"
	"github.com/rise-and-shine/cqsdata/cqrs/wrapper"
	"github.com/rise-and-shine/cqsdata/http/server"
	"github.com/rise-and-shine/cqsdata/http/server/middleware"
	"github.com/rise-and-shine/cqsdata/logger"
	"github.com/rise-and-shine/cqsdata/pg"
	"github.com/rise-and-shine/cqsdata/store"
	"github.com/rise-and-shine/cqsdata/tracing"
	"github.com/rise-and-shine/cqsdata/weather"
	"github.com/rise-and-shine/cqsdata/weather/api"
	"github.com/rise-and-shine/cqsdata/wire"
)

const (
	serviceName    = "weatherapi"
	serviceVersion = "0.1.0"
)

type Config struct {
	Logger   logger.Config         `yaml:"logger"`
	Tracing  tracing.Config        `yaml:"tracing"`
	Postgres pg.Config             `yaml:"postgres"`
	Store    store.Config          `yaml:"store"`
	Broker   wrapper.TimeoutConfig `yaml:"broker"`
	HTTP     server.Config         `yaml:"http"`
	Paging   wire.PageConfig       `yaml:"paging"`
}

func main() {
	cfg := cfgloader.MustLoad[Config]()
	logger.SetGlobal(cfg.Logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, cfg)
	stop()

	if err != nil {
		logger.Errorx(err)
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}

func run(ctx context.Context, cfg Config) error {
	log := logger.Named(serviceName)

	shutdown, err := tracing.InitGlobalTracer(cfg.Tracing, serviceName, serviceVersion)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdown(); err != nil {
			log.Warnx(err)
		}
	}()

	db, err := pg.NewBunDB(cfg.Postgres)
	if err != nil {
		return err
	}
	defer db.Close()

	if err = pg.WaitReady(ctx, db, cfg.Postgres); err != nil {
		return err
	}

	opener := store.NewFactory(db, cfg.Store)
	broker := cqrs.NewBroker(opener)
	if err = weather.Register(broker, opener); err != nil {
		return err
	}

	ex := cqrs.Wrap(broker,
		wrapper.NewRecoveryWrapper(log),
		wrapper.NewTracingWrapper(),
		wrapper.NewMetaInjectWrapper(serviceName, serviceVersion),
		wrapper.NewLoggerWrapper(log),
		wrapper.NewMetricsWrapper(metrics.DefaultRegistry),
		wrapper.NewTimeoutWrapper(cfg.Broker),
	)

	srv := server.NewHTTPServer(cfg.HTTP, []server.Middleware{
		middleware.NewRecoveryMW(log),
		middleware.NewTracingMW(),
		middleware.NewTimeoutMW(cfg.HTTP.HandleTimeout),
		middleware.NewMetaInjectMW(serviceName, serviceVersion),
		middleware.NewLoggerMW(log),
		middleware.NewErrorHandlerMW(cfg.HTTP.HideErrorDetails),
	})
	srv.RegisterRouter(api.Routes(ex, cfg.Paging))

	errCh := make(chan error, 1)
	go func() {
		log.With("address", cfg.HTTP.Address()).Info("http server started")
		errCh <- srv.Start()
	}()

	select {
	case err = <-errCh:
		return errx.Wrap(err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	return errx.Wrap(srv.Stop())
}
