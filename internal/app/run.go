package app

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"cloudgw/internal/config"
	"cloudgw/internal/discovery"
	tracing "cloudgw/internal/otel"
	"cloudgw/internal/service"
)

const shutdownTimeout = 10 * time.Second

// Task is a background loop that runs until its context is done.
type Task func(ctx context.Context) error

// Serve runs app on ln together with tasks. When ctx is done, or when any of
// them fails, the server is shut down gracefully and every task is cancelled.
func Serve(ctx context.Context, app *fiber.App, ln net.Listener, log *zap.Logger, tasks ...Task) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("server_started", zap.String("addr", ln.Addr().String()))
		if err := app.Listener(ln); err != nil && gctx.Err() == nil {
			return fmt.Errorf("serve %s: %w", ln.Addr(), err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := app.ShutdownWithContext(sctx)
		// Serve may not have picked up ln yet.
		ln.Close()
		log.Info("server_stopped", zap.Error(err))
		return err
	})

	for _, task := range tasks {
		g.Go(func() error { return task(gctx) })
	}

	return g.Wait()
}

func listen(port string) (net.Listener, error) {
	ln, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on port %s: %w", port, err)
	}
	return ln, nil
}

// RunReport serves report r on cfg.Port and, when discovery is enabled, keeps
// the process registered until ctx is done.
func RunReport(ctx context.Context, cfg *config.AppConfig, r service.Report, log *zap.Logger) error {
	name := cfg.AppName
	if name == "" {
		name = r.App
	}
	r.App = name

	shutdownTracing, err := tracing.Init(ctx, name, log)
	if err != nil {
		return err
	}
	defer shutdownTracing(context.Background())

	app, err := NewReportApp(r, log, NewMetricsRegistry())
	if err != nil {
		return err
	}

	ln, err := listen(cfg.Port)
	if err != nil {
		return err
	}

	var tasks []Task
	if cfg.Discovery.Enabled {
		registrar, err := discovery.NewRegistrar(cfg.Discovery, log)
		if err != nil {
			ln.Close()
			return err
		}
		inst := discovery.NewInstance(cfg.Discovery, name, ln.Addr().(*net.TCPAddr).Port)
		hb := discovery.NewHeartbeat(registrar, inst, cfg.Discovery.RenewalInterval(), log)
		tasks = append(tasks, hb.Run)
	}

	return Serve(ctx, app, ln, log, tasks...)
}

// RunRegistry serves the registry on cfg.Port with its eviction loop and,
// when object storage is configured, snapshot restore and periodic saves.
func RunRegistry(ctx context.Context, cfg *config.AppConfig, log *zap.Logger) error {
	name := cfg.AppName
	if name == "" {
		name = RegistryName
	}

	shutdownTracing, err := tracing.Init(ctx, name, log)
	if err != nil {
		return err
	}
	defer shutdownTracing(context.Background())

	reg, err := NewRegistry(ctx, cfg, log, NewMetricsRegistry())
	if err != nil {
		return err
	}
	defer reg.Close()

	tasks := []Task{
		func(ctx context.Context) error {
			interval := time.Duration(cfg.Registry.EvictionIntervalSec) * time.Second
			return service.RunEviction(ctx, reg.Service, interval, log)
		},
	}

	if reg.Snapshot != nil {
		n, err := reg.Snapshot.Restore(ctx)
		if err != nil {
			// A broken snapshot must not keep the registry down.
			log.Error("snapshot_restore_failed", zap.Error(err))
		}
		log.Info("registry_restored", zap.Int("instances", n))

		tasks = append(tasks, func(ctx context.Context) error {
			interval := time.Duration(cfg.Registry.SnapshotIntervalSec) * time.Second
			return service.RunSnapshots(ctx, reg.Snapshot, interval, log)
		})
	}

	ln, err := listen(cfg.Port)
	if err != nil {
		return err
	}
	return Serve(ctx, reg.App, ln, log, tasks...)
}
