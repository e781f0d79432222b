package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"wardstock/internal/audit"
	authhandler "wardstock/internal/auth/handler"
	authservice "wardstock/internal/auth/service"
	"wardstock/internal/auth/store/revocation"
	"wardstock/internal/auth/store/user"
	inventoryhandler "wardstock/internal/inventory/handler"
	inventoryservice "wardstock/internal/inventory/service"
	inventorystore "wardstock/internal/inventory/store"
	jwttoken "wardstock/internal/jwt_token"
	logshandler "wardstock/internal/logs/handler"
	logsservice "wardstock/internal/logs/service"
	logsstore "wardstock/internal/logs/store"
	"wardstock/internal/platform/config"
	"wardstock/internal/platform/httpserver"
	"wardstock/internal/platform/logger"
	"wardstock/internal/platform/metrics"
	"wardstock/internal/platform/postgres"
	"wardstock/internal/platform/redis"
	httptransport "wardstock/internal/transport/http"
)

const (
	tokenIssuer        = "wardstock"
	shutdownTimeout    = 10 * time.Second
	revocationSweepGap = 10 * time.Minute
)

type stores struct {
	users     authservice.UserStore
	userSaver user.Saver
	inventory inventoryservice.Store
	logs      logsservice.Store
	audit     audit.Store
	db        *sql.DB
}

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Server.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	if st.db != nil {
		defer st.db.Close()
	}
	// Without a database there is no other way to provision accounts.
	if cfg.Server.SeedDemoUsers || st.db == nil {
		if err := user.SeedDemoUsers(ctx, st.userSaver); err != nil {
			return err
		}
		log.Info("seeded demo users")
	}

	trl, sweeper, closeTRL, err := openRevocationList(ctx, cfg, st.db, log)
	if err != nil {
		return err
	}
	defer closeTRL()

	jwtService := jwttoken.NewJWTService(cfg.Server.JWTSecret, tokenIssuer)
	authSvc := authservice.New(st.users, jwtService, trl,
		authservice.WithLogger(log),
		authservice.WithMetrics(m),
		authservice.WithTokenTTL(cfg.Server.TokenTTL),
	)
	recorder := audit.NewRecorder(st.audit, audit.WithLogger(log), audit.WithMetrics(m))
	inventorySvc := inventoryservice.New(st.inventory, recorder,
		inventoryservice.WithLogger(log),
		inventoryservice.WithMetrics(m),
	)
	logsSvc := logsservice.New(st.logs, st.inventory,
		logsservice.WithLogger(log),
		logsservice.WithMetrics(m),
	)

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:      log,
		Metrics:     m,
		Gatherer:    reg,
		Validator:   jwttoken.NewJWTServiceAdapter(jwtService),
		Revocations: authSvc,
		Auth:        authhandler.New(authSvc, log),
		Inventory:   inventoryhandler.New(inventorySvc, log),
		Logs:        logshandler.New(logsSvc, log),
	})
	srv := httpserver.New(cfg.Server.Addr, router, log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting wardstock", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	if sweeper != nil {
		g.Go(func() error {
			sweepRevocations(gctx, sweeper, log)
			return nil
		})
	}
	return g.Wait()
}

func openStores(ctx context.Context, cfg config.Config, log *slog.Logger) (*stores, error) {
	if cfg.Database.URL == "" {
		log.Info("no database configured, using in-memory stores")
		users := user.New()
		items := inventorystore.NewInMemory()
		entries := logsstore.NewInMemory(users, items)
		return &stores{users: users, userSaver: users, inventory: items, logs: entries, audit: entries}, nil
	}

	db, err := postgres.Open(ctx, cfg.Database.URL)
	if err != nil {
		return nil, err
	}
	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		log.Info("database migrations applied")
	}
	users := user.NewPostgres(db)
	entries := logsstore.NewPostgres(db)
	return &stores{
		users:     users,
		userSaver: users,
		inventory: inventorystore.NewPostgres(db),
		logs:      entries,
		audit:     entries,
		db:        db,
	}, nil
}

type expiredPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// openRevocationList prefers Redis, then the database, then process memory.
func openRevocationList(ctx context.Context, cfg config.Config, db *sql.DB, log *slog.Logger) (authservice.TokenRevocationList, expiredPurger, func(), error) {
	client, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return nil, nil, nil, err
	}
	if client != nil {
		log.Info("token revocations stored in redis")
		return revocation.NewRedisTRL(client.Client), nil, func() { _ = client.Close() }, nil
	}
	if db != nil {
		log.Info("token revocations stored in postgres")
		trl := revocation.NewPostgresTRL(db)
		return trl, trl, func() {}, nil
	}
	log.Info("token revocations kept in memory")
	return revocation.NewInMemoryTRL(), nil, func() {}, nil
}

func sweepRevocations(ctx context.Context, p expiredPurger, log *slog.Logger) {
	ticker := time.NewTicker(revocationSweepGap)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := p.PurgeExpired(ctx)
			if err != nil {
				log.WarnContext(ctx, "failed to purge expired revocations", "error", err)
				continue
			}
			if n > 0 {
				log.InfoContext(ctx, "purged expired revocations", "count", n)
			}
		}
	}
}
