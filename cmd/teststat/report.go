package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/bgricker/teststat/internal/config"
	"github.com/bgricker/teststat/internal/filter"
	"github.com/bgricker/teststat/internal/output"
	"github.com/bgricker/teststat/internal/source"
	"github.com/bgricker/teststat/internal/stats"
)

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	log := newLogger(cmd, cfg)
	delimiter, err := cfg.DelimiterRune()
	if err != nil {
		return err
	}
	selection, err := filter.New(cfg.Builds, cfg.Phases, cfg.Teams)
	if err != nil {
		return fmt.Errorf("%w: %v", config.ErrInvalid, err)
	}
	renderer, err := output.New(cfg.Format, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	input := args[0]
	src := source.Open(input, source.Options{Delimiter: delimiter, Table: cfg.Table, Log: log})
	recs, err := src.Records(cmd.Context())
	if err != nil {
		return fmt.Errorf("load %q: %w", input, err)
	}
	total := len(recs)
	recs = selection.Apply(recs)

	agg, err := stats.AggregateParallel(cmd.Context(), recs, cfg.Workers, stats.Options{Log: log})
	if err != nil {
		return fmt.Errorf("aggregate %q: %w", input, err)
	}

	fields := logrus.Fields{"input": input, "read": total, "aggregated": agg.Records(), "unknown": agg.Unknown()}
	if agg.Unknown() > 0 {
		log.WithFields(fields).Warn("Counted executions with unknown result codes as not passed")
	} else {
		log.WithFields(fields).Info("Aggregated executions")
	}
	if cfg.Strict {
		if err := agg.CheckResults(); err != nil {
			return err
		}
	}

	return renderer.Render(agg.Report())
}

func newLogger(cmd *cobra.Command, cfg config.Config) *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(cmd.ErrOrStderr())
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	// Validate has already checked the level.
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}
	return logrus.NewEntry(logger)
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	root, err := os.Getwd()
	if err != nil {
		return config.Config{}, fmt.Errorf("determine working directory: %w", err)
	}

	cfg, err := config.Load(root)
	if err != nil {
		return config.Config{}, err
	}

	flags, err := gatherFlags(cmd)
	if err != nil {
		return config.Config{}, err
	}
	config.ApplyFlags(&cfg, flags)

	return cfg, nil
}
