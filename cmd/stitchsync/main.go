package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	metricsadapter "github.com/ericfisherdev/stitchsync/internal/adapter/driven/metrics"
	sqliteadapter "github.com/ericfisherdev/stitchsync/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/stitchsync/internal/adapter/driven/stitch"
	httphandler "github.com/ericfisherdev/stitchsync/internal/adapter/driving/http"
	"github.com/ericfisherdev/stitchsync/internal/application"
	"github.com/ericfisherdev/stitchsync/internal/config"
	"github.com/ericfisherdev/stitchsync/internal/domain/model"
	"github.com/ericfisherdev/stitchsync/internal/domain/port/driven"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on malformed env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"api_url", cfg.APIURL,
		"access_token", cfg.AccessToken,
		"encryption", cfg.SecretKey != nil,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open database (dual reader/writer with WAL mode).
	db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	slog.Info("database opened", "path", db.Path())

	// 4. Run migrations on writer connection.
	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		return err
	}
	slog.Info("migrations complete")

	// 5. Wire adapters.
	credentialStore := sqliteadapter.NewCredentialRepo(db, cfg.SecretKey)
	runStore := sqliteadapter.NewRunRepo(db)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder, err := metricsadapter.NewRecorder(registry)
	if err != nil {
		return err
	}

	// 6. Resolve credentials: stored token takes priority over the env var.
	token, err := application.ResolveStitchToken(ctx, credentialStore, cfg.AccessToken.Reveal())
	if err != nil {
		return err
	}
	provider := application.NewCredentialProvider(token)
	if !provider.HasCredentials() {
		slog.Info("no stitch credentials configured, triggers disabled until a token is stored")
	}

	// 7. Build the replication task. A client is created per trigger so a
	// replaced token takes effect immediately.
	newClient, err := clientFactory(cfg.APIURL)
	if err != nil {
		return err
	}
	task := application.NewReplicationTask(newClient)
	replicationSvc := application.NewReplicationService(task.StartReplicationJob, provider, runStore, recorder, slog.Default())
	credentialSvc := application.NewCredentialService(credentialStore, provider, slog.Default())

	// 8. Create HTTP handler with middleware.
	apiHandler := httphandler.NewHandler(
		replicationSvc,
		credentialSvc,
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
		slog.Default(),
	)
	handler := httphandler.NewServeMux(apiHandler, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	slog.Info("stitchsync started", "listen_addr", cfg.ListenAddr)

	// 9. Wait for shutdown signal or a server failure.
	select {
	case <-ctx.Done():
		slog.Info("shutting down")
	case err := <-serveErr:
		if err != nil {
			return err
		}
	}

	// 10. Graceful shutdown with 10s timeout for in-flight triggers.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}

// clientFactory validates apiURL once and returns a factory that builds a
// Stitch client per set of credentials, sharing one http.Client.
func clientFactory(apiURL string) (application.ClientFactory, error) {
	httpClient := &http.Client{}
	if _, err := stitch.NewClientWithHTTPClient(httpClient, apiURL, model.StitchCredentials{}); err != nil {
		return nil, err
	}

	return func(creds model.StitchCredentials) driven.StitchClient {
		client, err := stitch.NewClientWithHTTPClient(httpClient, apiURL, creds)
		if err != nil {
			// Unreachable: apiURL was validated above.
			panic(err)
		}
		return client
	}, nil
}
