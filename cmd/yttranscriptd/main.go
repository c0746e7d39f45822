// Command yttranscriptd runs the transcript endpoint: the HTTP tool surface
// backed by the extraction fallback chain, with optional result caching,
// MongoDB persistence, and an MCP mount.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"yttranscript/internal/cache"
	"yttranscript/internal/config"
	"yttranscript/internal/extract"
	"yttranscript/internal/server"
	"yttranscript/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "yttranscriptd: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(log)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	extractor := extract.New(extract.Options{
		Timeout:         cfg.EndpointTimeout(),
		Headless:        cfg.Browser.HeadlessEnabled(),
		NavTimeout:      cfg.BrowserNavTimeout(),
		SelectorTimeout: cfg.BrowserSelectorTimeout(),
		Logger:          log,
	})

	var resultCache *cache.Cache
	if ttl, ok := cfg.CacheTTL(); ok {
		resultCache = cache.New(cfg.Cache.Dir, ttl)
		log.Info("result cache enabled", "ttl", ttl)
	}

	var recordStore store.Store
	if cfg.Storage.URI != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		recordStore, err = store.NewMongo(ctx, cfg.Storage.URI, cfg.Storage.Database, cfg.Storage.Collection)
		cancel()
		if err != nil {
			return fmt.Errorf("connecting storage: %w", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := recordStore.Close(ctx); err != nil {
				log.Warn("closing storage", "error", err)
			}
		}()
		log.Info("record storage enabled", "database", cfg.Storage.Database, "collection", cfg.Storage.Collection)
	}

	srv := server.New(server.Options{
		Name:      cfg.Server.Name,
		Extractor: extractor,
		Cache:     resultCache,
		Store:     recordStore,
		Logger:    log,
	})

	mux := http.NewServeMux()
	mux.Handle("/", srv.Handler())
	if cfg.Server.ServeMCP {
		mux.Handle("/mcp", srv.MCPHandler("/mcp"))
		log.Info("mcp endpoint mounted", "path", "/mcp")
	}

	httpServer := &http.Server{
		Addr:    cfg.Server.Listen,
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", cfg.Server.Listen)
		errCh <- httpServer.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutting down", "signal", sig.String())
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
