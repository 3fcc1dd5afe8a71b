package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/milk9111/motionseq/config"
	"github.com/milk9111/motionseq/logging"
	"github.com/milk9111/motionseq/prefabs"
	"github.com/milk9111/motionseq/server"
	"github.com/milk9111/motionseq/sim"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the scene until the tick limit or an interrupt",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return run(ctx, cfg)
	},
}

func loadConfig() (config.Config, error) {
	cfg, err := config.NewLoader(configPath).Load()
	if err != nil {
		return config.Config{}, err
	}
	logging.Reconfigure(logging.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
	return cfg, nil
}

func run(ctx context.Context, cfg config.Config) error {
	runID := uuid.NewString()
	log := logging.Derive(func(c *zerolog.Context) { *c = c.Str(logging.FieldRunID, runID) })

	s, err := sim.Load(cfg, runID)
	if err != nil {
		return err
	}

	var watcher *prefabs.Watcher
	if cfg.Watch {
		dirs := watchDirs(cfg.DefsPath, cfg.ClipsPath)
		if watcher, err = prefabs.NewWatcher(dirs...); err != nil {
			return fmt.Errorf("watch %v: %w", dirs, err)
		}
		defer watcher.Close()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)
	interval := time.Second / time.Duration(cfg.TickRate)

	// Reaching the tick limit stops the server and watcher too.
	g.Go(func() error {
		defer cancel()
		return s.Run(ctx, interval, cfg.Ticks)
	})

	if cfg.Metrics.Addr != "" {
		g.Go(func() error {
			return server.Serve(ctx, cfg.Metrics.Addr, server.NewRouter(s, runID))
		})
	}

	if watcher != nil {
		g.Go(func() error {
			return s.WatchLibrary(ctx, watcher.Events, func() (*prefabs.Library, error) {
				return prefabs.LoadLibrary(cfg.DefsPath, cfg.ClipsPath)
			})
		})
	}

	log.Info().
		Int("tick_rate", cfg.TickRate).
		Int("ticks", cfg.Ticks).
		Str("metrics_addr", cfg.Metrics.Addr).
		Bool("watch", cfg.Watch).
		Msg("simulation started")

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	log.Info().Uint64(logging.FieldTick, s.Tick()).Msg("simulation stopped")
	return err
}

// watchDirs returns the distinct directories holding the given data files.
func watchDirs(paths ...string) []string {
	seen := map[string]bool{}
	var dirs []string
	for _, p := range paths {
		// Data files missing from the working directory are read from prefabs/.
		if _, err := os.Stat(p); err != nil {
			p = filepath.Join("prefabs", p)
		}
		d := filepath.Dir(p)
		if !seen[d] {
			seen[d] = true
			dirs = append(dirs, d)
		}
	}
	return dirs
}
