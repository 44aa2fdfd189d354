package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/DanGreiner33/texas-bar-scraper/api"
	"github.com/DanGreiner33/texas-bar-scraper/config"
	"github.com/DanGreiner33/texas-bar-scraper/fetch"
	"github.com/DanGreiner33/texas-bar-scraper/scrape"
	"github.com/DanGreiner33/texas-bar-scraper/store"
)

func main() {
	// ── 1. Load configuration ───────────────────────────────────────
	_ = godotenv.Load()
	cfg := config.Load()

	// ── 2. Initialise structured logging ────────────────────────────
	initLogger(cfg.Log)
	slog.Info("barscrape starting",
		"jurisdictions", cfg.Scraper.Jurisdictions,
		"workers", cfg.Scraper.Workers,
		"db", cfg.Store.Path,
	)

	// ── 3. Open the store ───────────────────────────────────────────
	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		slog.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	// ── 4. Initialise the HTTP client ───────────────────────────────
	client := fetch.New(cfg.Client)
	defer client.Close()

	// ── 5. Cancellation on SIGINT/SIGTERM ───────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── 6. Optional status API ──────────────────────────────────────
	var srv *http.Server
	if cfg.API.Enabled {
		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		srv = &http.Server{
			Addr:    addr,
			Handler: api.NewRouter(st, cfg, time.Now()),
		}
		go func() {
			slog.Info("status API listening", "addr", addr)
			if serveErr := srv.ListenAndServe(); serveErr != nil && serveErr != http.ErrServerClosed {
				slog.Error("status API error", "error", serveErr)
			}
		}()
	}

	// ── 7. Run each configured jurisdiction ─────────────────────────
	exitCode := 0
	for _, code := range cfg.Scraper.Jurisdictions {
		if ctx.Err() != nil {
			break
		}

		jurisdiction, lookupErr := scrape.Lookup(code)
		if lookupErr != nil {
			slog.Error("jurisdiction lookup failed",
				"code", code,
				"available", scrape.Codes(),
				"error", lookupErr,
			)
			exitCode = 1
			continue
		}

		scraper := scrape.New(cfg, jurisdiction, client, st, st)
		summary, runErr := scraper.Run(ctx)
		if runErr != nil {
			slog.Error("jurisdiction run failed", "code", code, "error", runErr)
			exitCode = 1
			continue
		}
		slog.Info("jurisdiction summary",
			"code", code,
			"runID", summary.RunID,
			"status", summary.Status,
			"found", summary.Found,
			"added", summary.Added,
			"updated", summary.Updated,
			"errors", summary.Errors,
		)
	}

	// ── 8. Graceful shutdown ────────────────────────────────────────
	if srv != nil && ctx.Err() == nil {
		slog.Info("scraping done, status API still serving (Ctrl-C to stop)")
		<-ctx.Done()
	}
	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
			slog.Error("status API forced shutdown", "error", shutdownErr)
		}
	}

	slog.Info("barscrape stopped")
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}

// initLogger configures slog based on the LogConfig.
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
