// Package main is the entry point for the trip engine API server.
// Its sole responsibility is wiring dependencies together and starting the
// server; no business logic belongs here.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
	"github.com/pressly/goose/v3"

	"github.com/lifetwin/trip-engine/internal/adapters/httpapi"
	membookingstore "github.com/lifetwin/trip-engine/internal/adapters/memory/bookingstore"
	memregistrystore "github.com/lifetwin/trip-engine/internal/adapters/memory/registrystore"
	memtripstore "github.com/lifetwin/trip-engine/internal/adapters/memory/tripstore"
	pgbookingstore "github.com/lifetwin/trip-engine/internal/adapters/postgres/bookingstore"
	pgregistrystore "github.com/lifetwin/trip-engine/internal/adapters/postgres/registrystore"
	pgtripstore "github.com/lifetwin/trip-engine/internal/adapters/postgres/tripstore"
	"github.com/lifetwin/trip-engine/internal/adapters/restclient"
	"github.com/lifetwin/trip-engine/internal/app/dashboard"
	"github.com/lifetwin/trip-engine/internal/app/ledger"
	"github.com/lifetwin/trip-engine/internal/app/phases"
	"github.com/lifetwin/trip-engine/internal/app/registry"
	"github.com/lifetwin/trip-engine/internal/app/trips"
	platformclock "github.com/lifetwin/trip-engine/internal/platform/clock"
	"github.com/lifetwin/trip-engine/internal/platform/config"
	"github.com/lifetwin/trip-engine/internal/platform/logger"
	"github.com/lifetwin/trip-engine/internal/ports/out/bookingstore"
	"github.com/lifetwin/trip-engine/internal/ports/out/registrystore"
	"github.com/lifetwin/trip-engine/internal/ports/out/tripstore"
	"github.com/lifetwin/trip-engine/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "configuration error:", err)
		os.Exit(1)
	}

	log := logger.New("trip-engine", cfg.LogLevel)

	var (
		tripStore     tripstore.Store
		bookingStore  bookingstore.Store
		registryStore registrystore.Store
	)
	switch cfg.StorageBackend {
	case config.BackendPostgres:
		if cfg.MigrateOnBoot {
			if err := runMigrations(cfg.PostgresDSN); err != nil {
				log.Fatal().Err(err).Msg("migrations failed")
			}
		}
		pool, err := pgxpool.New(context.Background(), cfg.PostgresDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("create postgres pool")
		}
		defer pool.Close()
		if err := pool.Ping(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("postgres unreachable")
		}
		tripStore = pgtripstore.NewStore(pool)
		bookingStore = pgbookingstore.NewStore(pool)
		registryStore = pgregistrystore.NewStore(pool)
		log.Info().Msg("using postgres storage")

	case config.BackendRest:
		client := restclient.New(cfg.RemoteStoreURL)
		tripStore = restclient.NewTripStore(client)
		bookingStore = restclient.NewBookingStore(client)
		registryStore = restclient.NewRegistryStore(client)
		log.Info().Str("url", cfg.RemoteStoreURL).Msg("using remote rest storage")

	default:
		tripStore = memtripstore.NewStore()
		bookingStore = membookingstore.NewStore()
		registryStore = memregistrystore.NewStore()
		log.Info().Msg("using in-memory storage (volatile)")
	}

	clk := platformclock.NewSystemClock()

	gen := dashboard.NewGenerator(bookingStore, registryStore, clk)
	ctrl := phases.NewController(tripStore, bookingStore, registryStore, gen, clk, log)
	tripsSvc := trips.NewService(tripStore, clk)
	ledgerSvc := ledger.NewService(bookingStore, clk)
	regSvc := registry.NewService(registryStore, tripStore, clk, log)

	srvHandlers := httpapi.NewServer(tripsSvc, ctrl, ledgerSvc, regSvc, gen)
	router := httpapi.NewRouter(srvHandlers, log, cfg.CORSOrigins)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-stop
	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
		os.Exit(1)
	}
	log.Info().Msg("server stopped")
}

// runMigrations applies the embedded goose migrations through database/sql.
func runMigrations(dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.Up(db, ".")
}
