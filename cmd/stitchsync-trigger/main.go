// Command stitchsync-trigger starts one Stitch replication job and prints the
// API response as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	"github.com/ericfisherdev/stitchsync/internal/adapter/driven/stitch"
	"github.com/ericfisherdev/stitchsync/internal/application"
	"github.com/ericfisherdev/stitchsync/internal/config"
	"github.com/ericfisherdev/stitchsync/internal/domain/model"
	"github.com/ericfisherdev/stitchsync/internal/domain/port/driven"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("stitchsync-trigger", flag.ContinueOnError)
	fs.SetOutput(stderr)
	sourceID := fs.Int64("source-id", 0, "Stitch source ID to replicate")
	timeout := fs.Duration("timeout", 0, "give up after this long (0 waits indefinitely)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))

	if !cfg.HasAccessToken() {
		fmt.Fprintln(stderr, "STITCHSYNC_ACCESS_TOKEN is not set")
		return 1
	}

	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}

	task := application.NewReplicationTask(func(creds model.StitchCredentials) driven.StitchClient {
		client, err := stitch.NewClientWithHTTPClient(nil, cfg.APIURL, creds)
		if err != nil {
			// config.Load rejects relative API URLs.
			panic(err)
		}
		return client
	})

	start := time.Now()
	creds := model.NewStitchCredentials(cfg.AccessToken.Reveal())
	resp, err := task.StartReplicationJob(ctx, creds, *sourceID)
	if err != nil {
		slog.Debug("replication job failed", "source_id", *sourceID, "elapsed", time.Since(start))
		fmt.Fprintln(stderr, err)
		return 1
	}
	slog.Debug("replication job started", "source_id", *sourceID, "elapsed", time.Since(start))

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(resp); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}
