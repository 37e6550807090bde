package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/modkeeper/modkeeper/internal/history"
)

var (
	historyLimit  int
	historyFailed bool
	historyOp     string
	historyActive bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent library actions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp()
		if err != nil {
			return err
		}
		if a.ledger == nil {
			return errors.New("action history is disabled (set history.enabled: true)")
		}

		f := history.Filter{Limit: historyLimit, FailedOnly: historyFailed, Op: historyOp}
		if historyActive {
			svc, err := a.loadActive(cmd.Context())
			if err != nil {
				return err
			}
			f.LibraryID = svc.State().Active().ID
		}

		recs, err := a.ledger.List(cmd.Context(), f)
		if err != nil {
			return err
		}
		if len(recs) == 0 {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No actions recorded")
			return nil
		}
		printHistory(cmd.OutOrStdout(), recs)
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of entries")
	historyCmd.Flags().BoolVar(&historyFailed, "failed", false, "only show failed actions")
	historyCmd.Flags().StringVar(&historyOp, "op", "", "only show one action (e.g. sync_mods)")
	historyCmd.Flags().BoolVar(&historyActive, "active", false, "only show actions on the active library")
	rootCmd.AddCommand(historyCmd)
}
