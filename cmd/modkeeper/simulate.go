package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate [base-path]",
	Short: "Create a throwaway game folder for testing",
	Long: `Ask the backend to lay out a simulated game installation.

Use the printed game root with 'modkeeper library create' to try mods
without touching a real installation.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp()
		if err != nil {
			return err
		}
		base := ""
		if len(args) == 1 {
			base = args[0]
		}
		root, err := a.svc.CreateSimulationGameRoot(cmd.Context(), base)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintf(out, "game root: %s\n", root.GameRoot)
		if root.TempDirPath != "" {
			_, _ = fmt.Fprintf(out, "temp dir:  %s\n", root.TempDirPath)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(simulateCmd)
}
