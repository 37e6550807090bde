package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/modkeeper/modkeeper/internal/adapter"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and create the configuration file",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		printConfig(cmd.OutOrStdout(), cfg)
		return nil
	},
}

var configInitForce bool

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with default values",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			path = filepath.Join(adapter.DefaultConfigDir(), "config.yaml")
		}
		if _, err := os.Stat(path); err == nil && !configInitForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		cfg := adapter.DefaultConfig()
		if backendURL != "" {
			cfg.Backend.URL = backendURL
		}
		written, err := adapter.SaveConfig(cfg, path)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", written)
		return nil
	},
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the offline snapshot cache",
}

var cacheClearAll bool

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete cached library snapshots",
	Long: `Delete the cached snapshots of the configured backend.

With --all the whole cache directory is removed, covering every backend.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cacheClearAll {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := adapter.ClearCache(cfg); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s\n", cfg.Cache.Dir)
			return nil
		}
		a, err := getApp()
		if err != nil {
			return err
		}
		a.snapshots.InvalidateAll()
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Cleared cached snapshots for %s\n", a.cfg.Backend.URL)
		return nil
	},
}

// printConfig lists the effective settings as key/value rows
func printConfig(w io.Writer, cfg *adapter.Config) {
	tw := newTable(w)
	rows := [][2]string{
		{"backend.url", cfg.Backend.URL},
		{"backend.timeout", cfg.Backend.Timeout.String()},
		{"ui.locale", cfg.UI.Locale},
		{"ui.unknown_mod_name", cfg.UI.UnknownModName},
		{"ui.open_command", cfg.UI.OpenCommand},
		{"ui.open_args", strings.Join(cfg.UI.OpenArgs, " ")},
		{"logging.file", cfg.Logging.File},
		{"logging.level", cfg.Logging.Level},
		{"logging.format", cfg.Logging.Format},
		{"cache.dir", cfg.Cache.Dir},
		{"history.enabled", fmt.Sprint(cfg.History.Enabled)},
		{"history.path", cfg.History.Path},
		{"history.retention_days", fmt.Sprint(cfg.History.RetentionDays)},
	}
	for _, r := range rows {
		_, _ = fmt.Fprintf(tw, "%s\t%s\n", r[0], orDash(r[1]))
	}
	_ = tw.Flush()
}

func init() {
	cacheClearCmd.Flags().BoolVar(&cacheClearAll, "all", false, "remove the cache directory for every backend")
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing file")
	configCmd.AddCommand(configShowCmd, configInitCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(configCmd, cacheCmd)
}
