// Command grapherd serves the expression evaluation API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/plotfn/grapher/internal/api"
	"github.com/plotfn/grapher/internal/cache"
	"github.com/plotfn/grapher/internal/config"
	"github.com/plotfn/grapher/internal/logger"
	"github.com/plotfn/grapher/internal/store"
	"github.com/plotfn/grapher/pkg/grapher"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (optional)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "grapherd: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(logger.Config{
		Level: cfg.Server.LogLevel,
		JSON:  cfg.Server.LogJSON,
	})

	var st store.Store
	if cfg.Store.Path != "" {
		st, err = store.NewSQLite(cfg.Store.Path)
		if err != nil {
			return fmt.Errorf("opening store: %w", err)
		}
		log.Info("using sqlite expression store", "path", cfg.Store.Path)
	} else {
		st = store.NewMemory()
		log.Info("using in-memory expression store")
	}
	defer st.Close()

	engine := grapher.New(grapher.WithMaxPoints(cfg.Engine.MaxPoints))
	results := cache.New[grapher.GraphData](cfg.Cache.Size, cfg.Cache.TTL)
	handler := api.NewHandler(engine, results, st, &cfg.Engine, log)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      api.NewRouter(handler, cfg.Server.AllowedOrigins, log),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(ctx)
}
