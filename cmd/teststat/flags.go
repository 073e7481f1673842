package main

import (
	"fmt"

	"github.com/bgricker/teststat/internal/config"
	"github.com/spf13/cobra"
)

func gatherFlags(cmd *cobra.Command) (config.FlagValues, error) {
	flags := cmd.Flags()
	var values config.FlagValues

	for name, dst := range map[string]*config.StringFlag{
		"format":    &values.Format,
		"delimiter": &values.Delimiter,
		"table":     &values.Table,
		"log-level": &values.LogLevel,
	} {
		if !flags.Changed(name) {
			continue
		}
		v, err := flags.GetString(name)
		if err != nil {
			return values, fmt.Errorf("parse --%s: %w", name, err)
		}
		*dst = config.StringFlag{Value: v, Set: true}
	}

	for name, dst := range map[string]*config.SliceFlag{
		"build": &values.Builds,
		"phase": &values.Phases,
		"team":  &values.Teams,
	} {
		if !flags.Changed(name) {
			continue
		}
		v, err := flags.GetStringArray(name)
		if err != nil {
			return values, fmt.Errorf("parse --%s: %w", name, err)
		}
		*dst = config.SliceFlag{Values: append([]string{}, v...)}
	}

	if flags.Changed("workers") {
		v, err := flags.GetInt("workers")
		if err != nil {
			return values, fmt.Errorf("parse --workers: %w", err)
		}
		values.Workers = config.IntFlag{Value: v, Set: true}
	}

	if flags.Changed("strict") {
		v, err := flags.GetBool("strict")
		if err != nil {
			return values, fmt.Errorf("parse --strict: %w", err)
		}
		values.Strict = config.BoolFlag{Value: v, Set: true}
	}

	return values, nil
}
