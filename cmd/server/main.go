package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	goruntime "runtime"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/AvnerHilu2025/ginom-mockup/internal/app/routes"
	runrecords "github.com/AvnerHilu2025/ginom-mockup/internal/domain/runtime"
	"github.com/AvnerHilu2025/ginom-mockup/internal/domain/service"
	"github.com/AvnerHilu2025/ginom-mockup/internal/infrastructure/cache"
	"github.com/AvnerHilu2025/ginom-mockup/internal/infrastructure/config"
	"github.com/AvnerHilu2025/ginom-mockup/internal/infrastructure/database"
	"github.com/AvnerHilu2025/ginom-mockup/internal/infrastructure/eventbus"
	"github.com/AvnerHilu2025/ginom-mockup/internal/infrastructure/logging"
	"github.com/AvnerHilu2025/ginom-mockup/internal/infrastructure/store"
)

func main() {
	goruntime.GOMAXPROCS(goruntime.NumCPU())

	if err := logging.Setup(); err != nil {
		fmt.Printf("failed to set up logging: %v\n", err)
		os.Exit(1)
	}

	if err := godotenv.Load(); err != nil {
		logging.Warning("no .env file loaded: %v", err)
	} else {
		logging.Info("loaded .env file")
	}

	cfg := config.Get()

	pool, err := database.NewConnectionPool(cfg)
	if err != nil {
		logging.Error("failed to create store connection pool: %v", err)
		os.Exit(1)
	}
	defer pool.Close()

	gormStore := store.NewGormStore(pool.GetDB())
	if err := gormStore.Migrate(); err != nil {
		logging.Error("store migration failed: %v", err)
		os.Exit(1)
	}

	if cfg.ScenarioAutoload {
		if err := autoloadRules(gormStore, cfg.TemplateDir); err != nil {
			logging.Warning("rule autoload failed: %v", err)
		}
	}

	bus, err := eventbus.New(cfg.MQTTBrokerURL)
	if err != nil {
		logging.Warning("ops event bus unavailable, continuing without it: %v", err)
		bus = nil
	}
	if bus != nil {
		defer bus.Close()
	}

	chainCache := cache.New(cfg.GetRedisAddr(), cfg.RedisDB)
	if chainCache != nil {
		defer chainCache.Close()
		logging.Info("dependency-chain cache connected at %s", cfg.GetRedisAddr())
	}

	registry := runrecords.NewRegistry()
	engine := service.NewScenarioEngine(gormStore, registry, bus, chainCache)

	router := routes.SetupRouter(engine, pool)
	srv := &http.Server{
		Addr:    "0.0.0.0:" + cfg.ServerPort,
		Handler: router,
	}

	group, ctx := errgroup.WithContext(context.Background())
	group.Go(func() error {
		logging.Info("scenario engine listening on http://0.0.0.0:%s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	group.Go(func() error {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-stop:
		case <-ctx.Done():
			return ctx.Err()
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logging.Info("shutting down: draining in-flight requests")
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil && err != context.Canceled {
		logging.Error("server exited with error: %v", err)
		os.Exit(1)
	}
}

func autoloadRules(st *store.GormStore, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading template dir %q: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || len(entry.Name()) < 4 || entry.Name()[len(entry.Name())-4:] != ".csv" {
			continue
		}
		path := dir + string(os.PathSeparator) + entry.Name()
		f, err := os.Open(path)
		if err != nil {
			logging.Warning("autoload: cannot open %s: %v", path, err)
			continue
		}
		result, err := store.ImportRulesCSV(st, f)
		f.Close()
		if err != nil {
			logging.Warning("autoload: %s failed: %v", path, err)
			continue
		}
		logging.Info("autoload: %s imported %d templates, %d rules", path, result.TemplatesUpserted, result.RulesUpserted)
	}
	return nil
}
