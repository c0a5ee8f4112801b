package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/claude/ironlog/internal/auth"
	"github.com/claude/ironlog/internal/calendar"
	"github.com/claude/ironlog/internal/config"
	"github.com/claude/ironlog/internal/ingest/alpha"
	ironmcp "github.com/claude/ironlog/internal/mcp"
	"github.com/claude/ironlog/internal/metrics"
	"github.com/claude/ironlog/internal/server"
	"github.com/claude/ironlog/internal/session"
	"github.com/claude/ironlog/internal/storage"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"tailscale.com/tsnet"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("IronLog starting", "version", Version)

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	loc, _ := cfg.Calendar.Location()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Open the workout source
	var (
		source     storage.Source
		writer     storage.Writer
		collectors []prometheus.Collector
	)
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		dsn := cfg.Database.DSN()
		if err := storage.RunMigrations(dsn, cfg.Storage.MigrationsPath); err != nil {
			log.Error("migration failed", "error", err)
			os.Exit(1)
		}
		log.Info("migrations applied")
		if *migrateOnly {
			log.Info("migrate-only: exiting")
			return
		}

		db, err := storage.New(ctx, dsn, cfg.Database.MaxConns)
		if err != nil {
			log.Error("failed to connect database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		log.Info("database connected")
		source, writer = db, db
		collectors = append(collectors, pgxpoolprometheus.NewCollector(db.Pool, map[string]string{"db_name": cfg.Database.Name}))

	case config.DriverSQLite:
		db, err := storage.OpenSQLite(cfg.Storage.SQLitePath)
		if err != nil {
			log.Error("failed to open sqlite", "path", cfg.Storage.SQLitePath, "error", err)
			os.Exit(1)
		}
		defer db.Close()
		log.Info("sqlite opened", "path", cfg.Storage.SQLitePath)
		source, writer = db, db

	default:
		source = storage.NewStatic(storage.SampleWorkouts())
		log.Info("serving the built-in sample workouts")
	}
	if *migrateOnly {
		log.Info("migrate-only: nothing to migrate for driver", "driver", cfg.Storage.Driver)
		return
	}

	// Metrics
	reg := metrics.SetupPrometheus(collectors...)
	metricsManager := metrics.NewManager("ironlog", "server", reg)

	// Form sessions
	forms := session.NewRegistry(source, cfg.Forms.UndoDepth)
	maxAge := cfg.Forms.MaxAge
	if maxAge <= 0 {
		maxAge = session.DefaultFormMaxAge
	}
	go forms.RunJanitor(ctx, time.Minute, maxAge, func(n int) {
		log.Info("closed idle forms", "count", n)
		metricsManager.GaugeOpenForms.Set(float64(forms.Len()))
	})

	var importer *alpha.Provider
	if writer != nil {
		importer = alpha.NewProvider(writer, log)
	}

	layout := calendar.Layout{
		CardWidth:        float64(cfg.Calendar.CardWidth),
		ContainerPadding: float64(cfg.Calendar.ContainerPadding),
	}

	// Create server
	srv := server.New(server.Deps{
		Source:   source,
		Forms:    forms,
		Auth:     auth.NewService(cfg.Auth.SignInDelay, log),
		Importer: importer,
		Metrics:  metricsManager,
		Layout:   layout,
		Labels:   calendar.English,
		Location: loc,
		APIKey:   cfg.Auth.APIKey,
	}, log)

	mcpSrv := ironmcp.New(source, ironmcp.Options{Layout: layout, Labels: calendar.English, Location: loc}, Version, log)
	srv.Mount("/mcp", mcpserver.NewStreamableHTTPServer(mcpSrv))
	srv.Mount("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	// Start server: tsnet or plain HTTP
	var listener net.Listener

	if cfg.Tailscale.Enabled {
		tsServer := &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		lc, err := tsServer.LocalClient()
		if err != nil {
			log.Error("tsnet local client failed", "error", err)
			os.Exit(1)
		}
		srv.SetTailscale(lc)

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "mode", "dev (no tailscale)")
	}

	httpSrv := &http.Server{Handler: srv, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}
