package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/frsuministros/orderflow/internal/catalog"
	"github.com/frsuministros/orderflow/internal/config"
	"github.com/frsuministros/orderflow/internal/engine"
	"github.com/frsuministros/orderflow/internal/mail"
	"github.com/frsuministros/orderflow/internal/match"
	"github.com/frsuministros/orderflow/internal/server"
	"github.com/frsuministros/orderflow/internal/service"
	"github.com/frsuministros/orderflow/internal/storage"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the matching service",
		Long: `Starts the full service: the mail poller, the matcher, and the
HTTP API for the frontend. Runs until interrupted.`,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "listen address (overrides config)")
	_ = cmd.Flags().MarkHidden("addr")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Server.Addr = addr
	}

	index, err := catalog.Load(cfg.Catalog.Path, cfg.Catalog.Cutoff)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	slog.Info("Catalog loaded", "path", cfg.Catalog.Path, "articles", index.Len())

	store, err := storage.Open(cfg.Storage.DBPath, cfg.Storage.MirrorPath, cfg.Storage.HistoryLimit)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer func() { _ = store.Close() }()
	slog.Info("Store opened", "db", cfg.Storage.DBPath, "confirmed", len(store.All()))

	graph, err := mail.NewGraphClient(mail.Config{
		TenantID:     cfg.Graph.TenantID,
		ClientID:     cfg.Graph.ClientID,
		ClientSecret: cfg.Graph.ClientSecret,
		UserEmail:    cfg.Graph.UserEmail,
	})
	if err != nil {
		return fmt.Errorf("failed to build mail client: %w", err)
	}

	matcher := match.New(store, index, cfg.Matcher.Offset)
	publisher := engine.NewPublisher()

	retry := service.RetryOptions{
		MaxAttempts:  3,
		InitialDelay: time.Second,
		MaxDelay:     time.Minute,
		Multiplier:   2.0,
	}
	poller := engine.NewPoller(graph, matcher, publisher, store, cfg.Poller.Interval, cfg.Poller.PageSize, retry)
	updater := engine.NewUpdater(store, index, store, cfg.Storage.BackupDir)

	srv := server.New(index, publisher, updater, graph, graph, poller)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	pollerDone := make(chan struct{})
	go func() {
		defer close(pollerDone)
		poller.Run(ctx)
	}()

	// A server failure must also stop the poller before we return.
	err = srv.Run(ctx, cfg.Server.Addr)
	cancel()
	<-pollerDone
	return err
}
