package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/stargate-press/stargate/internal/config"
	"github.com/stargate-press/stargate/internal/db"
	"github.com/stargate-press/stargate/internal/notify"
	discordadapter "github.com/stargate-press/stargate/internal/notify/discord"
	slackadapter "github.com/stargate-press/stargate/internal/notify/slack"
	"github.com/stargate-press/stargate/internal/server"
)

func newServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the StarGate API server",
		Long:  "Serves the department front-ends: job saves, status transitions, listings, and the event stream.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "stargate.yaml", "path to StarGate config file")
	return cmd
}

func runServe(cmd *cobra.Command, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	gormDB, err := db.Connect(db.Options{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		Database: cfg.Database.Name,
	})
	if err != nil {
		return fmt.Errorf("connect to %s: %w", cfg.Database.Name, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle OS signals for graceful shutdown.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	notifier, err := buildNotifier(ctx, cfg)
	if err != nil {
		return err
	}
	if notifier != nil {
		defer notifier.Close()
		go func() {
			if err := notifier.RunDigest(ctx, gormDB, cfg.Notify.DigestCron); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "digest scheduler: %v\n", err)
			}
		}()
	}

	return server.Start(ctx, server.StartOpts{
		DB:       gormDB,
		Port:     cfg.Server.Port,
		Notifier: notifier,
		DedupTTL: time.Duration(cfg.Dedup.TTLSeconds) * time.Second,
		Out:      cmd.OutOrStdout(),
	})
}

// buildNotifier creates the chat notifier from config, or nil when no
// platform is configured.
func buildNotifier(ctx context.Context, cfg *config.Config) (*notify.Notifier, error) {
	var adapter notify.Adapter
	var err error

	switch cfg.Notify.Platform {
	case "":
		return nil, nil
	case "slack":
		adapter, err = slackadapter.New(slackadapter.AdapterOpts{
			BotToken:  cfg.Notify.SlackToken,
			ChannelID: cfg.Notify.Channel,
		})
	case "discord":
		adapter, err = discordadapter.New(discordadapter.AdapterOpts{
			BotToken:  cfg.Notify.DiscordToken,
			ChannelID: cfg.Notify.Channel,
		})
	default:
		return nil, fmt.Errorf("notify: unsupported platform %q", cfg.Notify.Platform)
	}
	if err != nil {
		return nil, err
	}

	if err := adapter.Connect(ctx); err != nil {
		return nil, err
	}
	return notify.New(adapter, cfg.Notify.Channel), nil
}
