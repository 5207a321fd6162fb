package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"medtrack/internal/config"
	"medtrack/internal/http/handlers"
	"medtrack/internal/http/pprofserver"
	"medtrack/internal/http/router"
	"medtrack/internal/logx"
	"medtrack/internal/repository"
	"medtrack/internal/service/assignment"
	"medtrack/internal/service/delivery"
	"medtrack/internal/service/packagecode"
	"medtrack/internal/service/patient"
	"medtrack/internal/service/rider"
)

// ContainerBuilder is a dig container builder.
type ContainerBuilder struct {
	dbConnect func(context.Context, string, int, time.Duration) (*pgxpool.Pool, error)
	logFatalf func(string, ...interface{})
	worker    bool
}

// NewContainerBuilder returns a new dig container builder
func NewContainerBuilder() *ContainerBuilder {
	return &ContainerBuilder{
		dbConnect: connectDbWithRetry,
		logFatalf: log.Fatalf,
	}
}

// WithDBConnect sets the database connection function
func (b *ContainerBuilder) WithDBConnect(
	fn func(context.Context, string, int, time.Duration) (*pgxpool.Pool, error),
) *ContainerBuilder {
	if fn != nil {
		b.dbConnect = fn
	}
	return b
}

// WithLogFatalf sets the log.Fatalf function
func (b *ContainerBuilder) WithLogFatalf(fn func(string, ...interface{})) *ContainerBuilder {
	if fn != nil {
		b.logFatalf = fn
	}
	return b
}

// ForWorker switches the builder to the worker wiring (kafka consumer and
// expiry sweep instead of the HTTP surface).
func (b *ContainerBuilder) ForWorker() *ContainerBuilder {
	b.worker = true
	return b
}

// MustBuild builds and returns a new dig container
func (b *ContainerBuilder) MustBuild(ctx context.Context) *dig.Container {
	container, err := b.build(ctx)
	if err != nil {
		b.logFatalf("failed to build container: %v", err)
	}
	return container
}

func (b *ContainerBuilder) build(ctx context.Context) (*dig.Container, error) {
	container := dig.New()

	if err := registerCore(container, ctx); err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	if err := registerDb(container, b.dbConnect); err != nil {
		return nil, fmt.Errorf("DB: %w", err)
	}
	if err := registerService(container); err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}
	if b.worker {
		if err := registerWorker(container); err != nil {
			return nil, fmt.Errorf("worker: %w", err)
		}
		return container, nil
	}
	if err := registerHTTP(container); err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	return container, nil
}

// MustBuildContainer builds the API container.
func MustBuildContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuild(ctx)
}

// MustBuildWorkerContainer builds the worker container.
func MustBuildWorkerContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().ForWorker().MustBuild(ctx)
}

func provideAll(container *dig.Container, providers ...any) error {
	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return fmt.Errorf("provide %T: %w", provider, err)
		}
	}
	return nil
}

func registerCore(container *dig.Container, ctx context.Context) error {
	return provideAll(container,
		func() context.Context { return ctx },
		config.Load,
		NewLogger,
		provideMetrics,
	)
}

func registerDb(
	container *dig.Container,
	dbConnect func(context.Context, string, int, time.Duration) (*pgxpool.Pool, error),
) error {
	providerDB := func(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
		return dbConnect(ctx, cfg.DB.DSN(), 10, time.Second)
	}
	return provideAll(container, providerDB)
}

type assignmentServiceIn struct {
	dig.In

	Deliveries  *repository.DeliveryRepo
	Patients    *repository.PatientRepo
	Riders      *repository.RiderRepo
	Cfg         *config.Config
	Logger      logx.Logger
	Assignments prometheus.Counter `name:"package_assignments_total"`
}

func registerService(container *dig.Container) error {
	return provideAll(container,
		repository.NewDeliveryRepo,
		repository.NewPatientRepo,
		repository.NewRiderRepo,
		packagecode.NewQREncoder,
		func(repo *repository.DeliveryRepo, enc packagecode.Encoder) *packagecode.Generator {
			return packagecode.NewGenerator(repo, enc)
		},
		func(
			dr *repository.DeliveryRepo,
			pr *repository.PatientRepo,
			rr *repository.RiderRepo,
			codes *packagecode.Generator,
			cfg *config.Config,
			logger logx.Logger,
			transitions *prometheus.CounterVec,
		) *delivery.Service {
			return delivery.NewService(dr, pr, rr, codes, cfg.Delivery.OperationTimeout, logger, transitions)
		},
		func(in assignmentServiceIn) *assignment.Service {
			return assignment.NewService(
				in.Deliveries, in.Patients, in.Riders,
				in.Cfg.Delivery.OperationTimeout, in.Logger, in.Assignments,
			)
		},
		func(rr *repository.RiderRepo, dr *repository.DeliveryRepo, cfg *config.Config) *rider.Service {
			return rider.NewService(rr, dr, cfg.Delivery.OperationTimeout)
		},
		func(pr *repository.PatientRepo, cfg *config.Config) *patient.Service {
			return patient.NewService(pr, cfg.Delivery.OperationTimeout)
		},
	)
}

type pprofServerOut struct {
	dig.Out

	Server *http.Server `name:"pprof_server"`
}

func registerHTTP(container *dig.Container) error {
	serverProvider := func(cfg *config.Config, mux http.Handler) *http.Server {
		return &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		}
	}
	pprofProvider := func(cfg *config.Config) pprofServerOut {
		if cfg.Pprof.Port <= 0 {
			return pprofServerOut{}
		}
		return pprofServerOut{Server: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Pprof.Port),
			Handler:           pprofserver.Handler(pprofserver.Config{User: cfg.Pprof.User, Pass: cfg.Pprof.Pass}),
			ReadHeaderTimeout: 5 * time.Second,
		}}
	}
	return provideAll(container,
		handlers.New,
		handlers.NewDeliveryUsecase,
		handlers.NewDeliveryHandler,
		handlers.NewAssignmentUsecase,
		handlers.NewAssignmentHandler,
		handlers.NewRiderUsecase,
		handlers.NewRiderHandler,
		handlers.NewPatientUsecase,
		handlers.NewPatientHandler,
		newRateLimitClock,
		newRateLimiter,
		newRateLimitMiddleware,
		router.New,
		serverProvider,
		pprofProvider,
	)
}
