package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dmehra2102/prod-golang-projects/storefront/config"
	"github.com/dmehra2102/prod-golang-projects/storefront/internal/apierror"
	"github.com/dmehra2102/prod-golang-projects/storefront/internal/domain/operator"
	v1 "github.com/dmehra2102/prod-golang-projects/storefront/internal/handler/v1"
	"github.com/dmehra2102/prod-golang-projects/storefront/internal/repository/memory"
	"github.com/dmehra2102/prod-golang-projects/storefront/internal/repository/postgres"
	"github.com/dmehra2102/prod-golang-projects/storefront/internal/router"
	"github.com/dmehra2102/prod-golang-projects/storefront/internal/service"
	"github.com/dmehra2102/prod-golang-projects/storefront/pkg/auth"
	"github.com/dmehra2102/prod-golang-projects/storefront/pkg/database"
	"github.com/dmehra2102/prod-golang-projects/storefront/pkg/metrics"
	"github.com/dmehra2102/prod-golang-projects/storefront/pkg/tlsconfig"
	"github.com/dmehra2102/prod-golang-projects/storefront/pkg/tracer"
)

type storage struct {
	operators operator.Repository
	skills    operator.SkillRepository
	audit     service.AuditRepository
	ping      func(ctx context.Context) error
	close     func() error
}

func openStorage(cfg *config.Config, log *zap.Logger, m *metrics.Collector) (*storage, error) {
	if cfg.Database.Driver == config.StorageMemory {
		log.Warn("using in-memory operator storage; data is lost on restart")
		ops := memory.NewOperatorRepository()
		return &storage{
			operators: ops,
			skills:    ops,
			audit:     memory.NewAuditRepository(0),
			close:     func() error { return nil },
		}, nil
	}

	db, err := database.Connect(cfg.Database, log)
	if err != nil {
		return nil, err
	}
	return &storage{
		operators: postgres.NewOperatorRepository(db, log, m),
		skills:    postgres.NewSkillRepository(db, log),
		audit:     postgres.NewAuditRepository(db),
		ping:      func(ctx context.Context) error { return database.Ping(ctx, db) },
		close:     func() error { return database.Close(db) },
	}, nil
}

func serve(_ *cli.Context) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, err := tracer.Init(ctx, cfg.Tracing, cfg.App.Version)
	if err != nil {
		return fmt.Errorf("initialising tracer: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Warn("tracer shutdown failed", zap.Error(err))
		}
	}()

	m := metrics.NewCollector(cfg.Metrics.Namespace, prometheus.NewRegistry())
	m.RegisterRuntime()

	store, err := openStorage(cfg, log, m)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.close(); err != nil {
			log.Warn("closing storage failed", zap.Error(err))
		}
	}()

	audit := service.NewAuditService(store.audit, log.Named("audit"), m)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := audit.Shutdown(ctx); err != nil {
			log.Warn("audit shutdown incomplete", zap.Error(err))
		}
	}()

	products := memory.NewProductRepository(memory.SeedProducts()...)
	svcs := v1.Services{
		Operators: service.NewOperatorService(store.operators, store.skills, audit, log, m),
		Customers: service.NewCustomerService(memory.NewCustomerRepository(memory.SeedCustomers()...), audit, log, m),
		Orders:    service.NewOrderService(memory.NewOrderRepository(memory.SeedOrders()...), products, audit, log, m),
		Products:  service.NewProductService(products, audit, log, m),
	}

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := router.New(router.Deps{
		Config:        cfg,
		Log:           log,
		Metrics:       m,
		Authenticator: auth.NewAuthenticator(cfg.JWT, log),
		Builder:       apierror.NewBuilder(cfg.App.Debug),
		Services:      svcs,
		Ping:          store.ping,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	if cfg.Server.TLSEnabled() {
		tlsCfg, err := tlsconfig.Server(cfg.Server.TLSCertFile, cfg.Server.TLSKeyFile, cfg.Server.TLSClientCAFile)
		if err != nil {
			return fmt.Errorf("configuring TLS: %w", err)
		}
		srv.TLSConfig = tlsCfg
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.Bool("tls", cfg.Server.TLSEnabled()),
			zap.String("storage", cfg.Database.Driver),
		)
		var err error
		if srv.TLSConfig != nil {
			// Certificates are already loaded into TLSConfig.
			err = srv.ListenAndServeTLS("", "")
		} else {
			err = srv.ListenAndServe()
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down", zap.Duration("timeout", cfg.Server.ShutdownTimeout))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}
