package app

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"medtrack/internal/config"
	"medtrack/internal/logx"
	"medtrack/internal/service/delivery"
	"medtrack/internal/service/riderevents"
	"medtrack/internal/transport/kafka"
)

type sweepInterval time.Duration

func registerWorker(container *dig.Container) error {
	return provideAll(container,
		func(svc *delivery.Service, logger logx.Logger) *riderevents.Processor {
			return riderevents.NewProcessor(svc, logger)
		},
		func(p *riderevents.Processor) kafka.HandleFunc {
			return p.Handle
		},
		func(cfg *config.Config, h kafka.HandleFunc, logger logx.Logger) (*kafka.Consumer, error) {
			return kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.Topic, h, logger)
		},
		func(cfg *config.Config) sweepInterval {
			return sweepInterval(cfg.Delivery.ExpireSweepInterval)
		},
	)
}

// WorkerRunner runs the kafka consumer and the pending-delivery expiry sweep.
type WorkerRunner struct {
	runFn func(*dig.Container) error
}

// NewWorkerRunner returns a new WorkerRunner
func NewWorkerRunner() *WorkerRunner {
	return &WorkerRunner{runFn: runWorker}
}

// MustRun runs the worker using the provided DI container
func (r *WorkerRunner) MustRun(container *dig.Container) {
	err := r.runFn(container)
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	panic(err)
}

func runWorker(container *dig.Container) error {
	return container.Invoke(workerRun)
}

type workerIn struct {
	dig.In

	Ctx      context.Context
	Pool     *pgxpool.Pool
	Logger   logx.Logger
	Consumer *kafka.Consumer
	Delivery *delivery.Service
	Interval sweepInterval
	Expired  prometheus.Counter `name:"deliveries_expired_total"`
}

func workerRun(in workerIn) error {
	defer closeWorker(in.Pool, in.Logger, in.Consumer)

	in.Logger.Info("medtrack-worker started")

	go sweepLoop(in.Ctx, in.Delivery, time.Duration(in.Interval), in.Expired, in.Logger)

	if err := in.Consumer.Run(in.Ctx); err != nil {
		return err
	}
	// no kafka configured: keep the sweep running until shutdown
	<-in.Ctx.Done()
	return in.Ctx.Err()
}

func sweepLoop(ctx context.Context, svc *delivery.Service, interval time.Duration, expired prometheus.Counter, logger logx.Logger) {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := svc.ExpirePending(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				logger.Error("expire sweep failed", logx.Err(err))
				continue
			}
			if n > 0 && expired != nil {
				expired.Add(float64(n))
			}
		}
	}
}

func closeWorker(pool *pgxpool.Pool, logger logx.Logger, consumer *kafka.Consumer) {
	if err := consumer.Close(); err != nil {
		logger.Error("kafka close error", logx.Err(err))
	}
	if pool != nil {
		pool.Close()
	}
}
