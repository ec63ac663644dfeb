package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pbaille/jobtrack/internal/config"
	"github.com/pbaille/jobtrack/internal/domain"
	"github.com/pbaille/jobtrack/internal/logger"
	"github.com/pbaille/jobtrack/internal/store"
	"github.com/pbaille/jobtrack/internal/tracker"
)

type rootOptions struct {
	configPath string
	dbPath     string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:          "jobtrack",
		Short:        "Track leads, applications, interviews, contacts, tasks and offers",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default ./config.yaml or ~/.jobtrack/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "database path, overrides storage.path")

	rootCmd.AddCommand(leadCmd(opts))
	rootCmd.AddCommand(applicationCmd(opts))
	rootCmd.AddCommand(interviewCmd(opts))
	rootCmd.AddCommand(contactCmd(opts))
	rootCmd.AddCommand(taskCmd(opts))
	rootCmd.AddCommand(offerCmd(opts))
	rootCmd.AddCommand(dashboardCmd(opts))
	rootCmd.AddCommand(exportCmd(opts))
	rootCmd.AddCommand(serveCmd(opts))

	return rootCmd
}

// session is an opened tracker with what it needs to shut down
type session struct {
	cfg     *config.Config
	log     logger.Logger
	tracker *tracker.Tracker
	backend store.Backend
}

func (s *session) Close() {
	if err := s.backend.Close(); err != nil {
		s.log.WithError(err).Warn("close storage", nil)
	}
	_ = s.log.Sync()
}

// open loads configuration and connects the tracker to the configured
// storage backend.
func (o *rootOptions) open(ctx context.Context) (*session, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.dbPath != "" {
		cfg.Storage.Path = o.dbPath
	}

	log := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format)

	backend, err := store.OpenBackend(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", cfg.Storage.Driver, err)
	}
	log.Debug("storage opened", map[string]interface{}{
		"driver": cfg.Storage.Driver,
		"path":   cfg.Storage.Path,
	})

	v := domain.NewValidator()
	t := tracker.New(
		store.New(backend, cfg.Storage.Key, store.WithLogger(log)),
		tracker.WithLogger(log),
		tracker.WithValidator(func(rec interface{}) error { return v.Struct(rec) }),
	)

	return &session{cfg: cfg, log: log, tracker: t, backend: backend}, nil
}
