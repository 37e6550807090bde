package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/modkeeper/modkeeper/internal/tui/styles"
)

var statusOffline bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the active library",
	Long: `Show the active library and the other known libraries.

With --offline the last snapshot cached on disk is shown instead of asking
the backend.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStatus(cmd, statusOffline)
	},
}

func init() {
	statusCmd.Flags().BoolVar(&statusOffline, "offline", false, "show the cached snapshot without contacting the backend")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, offline bool) error {
	a, err := getApp()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if offline {
		sw, ok := a.snapshots.LoadSwitch()
		if !ok {
			return fmt.Errorf("no cached snapshot for %s", a.cfg.Backend.URL)
		}
		printSwitch(out, sw)
		if at, ok := a.snapshots.SavedAt(); ok {
			_, _ = fmt.Fprintln(out, styles.DimStyle.Render(fmt.Sprintf("\ncached %s ago", time.Since(at).Round(time.Second))))
		}
		return nil
	}

	sw, err := a.svc.Init(cmd.Context())
	if err != nil {
		return err
	}
	printSwitch(out, sw)
	return nil
}
