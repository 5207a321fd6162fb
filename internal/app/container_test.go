package app

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"go.uber.org/dig"

	"medtrack/internal/config"
	"medtrack/internal/http/handlers"
	"medtrack/internal/logx"
)

func testConfig() *config.Config {
	return &config.Config{
		Port: 8080,
		Delivery: config.Delivery{
			ExpireSweepInterval: 30 * time.Second,
			OperationTimeout:    3 * time.Second,
		},
	}
}

func setupTestContainer(t *testing.T, cfg *config.Config) *dig.Container {
	t.Helper()

	c := dig.New()

	require.NoError(t, provideAll(c,
		func() context.Context { return context.Background() },
		func() logx.Logger { return logx.Nop() },
		func() *config.Config { return cfg },
		func() *pgxpool.Pool { return &pgxpool.Pool{} },
		provideMetrics,
	))

	require.NoError(t, registerService(c))
	require.NoError(t, registerHTTP(c))

	return c
}

func TestRegisterServiceAndHTTP_ProvidesHttpServerAndHandlers(t *testing.T) {
	c := setupTestContainer(t, testConfig())

	err := c.Invoke(func(
		srv *http.Server,
		base *handlers.Handlers,
		deliveryHandler *handlers.DeliveryHandler,
		assignmentHandler *handlers.AssignmentHandler,
		riderHandler *handlers.RiderHandler,
		patientHandler *handlers.PatientHandler,
	) {
		require.NotNil(t, srv, "http.Server is nil")
		require.Equal(t, ":8080", srv.Addr)
		require.Greater(t, srv.ReadHeaderTimeout, time.Duration(0))
		require.Greater(t, srv.ReadTimeout, time.Duration(0))
		require.Greater(t, srv.WriteTimeout, time.Duration(0))
		require.Greater(t, srv.IdleTimeout, time.Duration(0))

		require.NotNil(t, base)
		require.NotNil(t, deliveryHandler)
		require.NotNil(t, assignmentHandler)
		require.NotNil(t, riderHandler)
		require.NotNil(t, patientHandler)
	})
	require.NoError(t, err)
}

type pprofIn struct {
	dig.In

	Pprof *http.Server `name:"pprof_server"`
}

func TestRegisterHTTP_PprofDisabled_NilServer(t *testing.T) {
	cfg := testConfig()
	cfg.Pprof.Port = 0
	c := setupTestContainer(t, cfg)

	err := c.Invoke(func(in pprofIn) {
		require.Nil(t, in.Pprof)
	})
	require.NoError(t, err)
}

func TestRegisterHTTP_PprofEnabled_ProvidesServer(t *testing.T) {
	cfg := testConfig()
	cfg.Pprof.Port = 6060
	c := setupTestContainer(t, cfg)

	err := c.Invoke(func(in pprofIn) {
		require.NotNil(t, in.Pprof)
		require.Equal(t, ":6060", in.Pprof.Addr)
		require.NotNil(t, in.Pprof.Handler)
	})
	require.NoError(t, err)
}

func TestRegisterWorker_UnconfiguredKafkaGivesNilConsumer(t *testing.T) {
	c := setupTestContainer(t, testConfig())
	require.NoError(t, registerWorker(c))

	err := c.Invoke(func(in workerIn) {
		require.Nil(t, in.Consumer)
		require.Equal(t, sweepInterval(30*time.Second), in.Interval)
	})
	require.NoError(t, err)
}

func TestProvideAll_Success(t *testing.T) {
	t.Parallel()

	c := dig.New()

	err := provideAll(c,
		func() context.Context { return context.Background() },
		func() time.Duration { return 3 * time.Second },
	)
	require.NoError(t, err)

	err = c.Invoke(func(ctx context.Context, d time.Duration) {
		require.NotNil(t, ctx)
		require.Equal(t, 3*time.Second, d)
	})
	require.NoError(t, err)
}

func TestProvideAll_InvalidProvider(t *testing.T) {
	t.Parallel()

	c := dig.New()

	type bad struct{}
	err := provideAll(c, bad{})
	require.Error(t, err)
}

func TestProvideMetrics_ReturnsAllCounters(t *testing.T) {
	out, err := provideMetrics()
	require.NoError(t, err)
	require.NotNil(t, out.RateLimitExceededTotal)
	require.NotNil(t, out.PackageAssignmentsTotal)
	require.NotNil(t, out.DeliveriesExpiredTotal)
	require.NotNil(t, out.StatusTransitionsTotal)
}

func TestProvideMetrics_ReusesAlreadyRegistered(t *testing.T) {
	first, err := provideMetrics()
	require.NoError(t, err)

	second, err := provideMetrics()
	require.NoError(t, err)

	require.Same(t, first.RateLimitExceededTotal, second.RateLimitExceededTotal)
	require.Same(t, first.DeliveriesExpiredTotal, second.DeliveriesExpiredTotal)
}
