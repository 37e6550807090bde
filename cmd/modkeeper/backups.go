package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var backupsCmd = &cobra.Command{
	Use:   "backups",
	Short: "List and restore mod backups",
}

var backupsListCmd = &cobra.Command{
	Use:   "list <mod>",
	Short: "List the backups of a mod, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp()
		if err != nil {
			return err
		}
		svc, err := a.loadActive(cmd.Context())
		if err != nil {
			return err
		}
		m, err := resolveMod(svc, args[0])
		if err != nil {
			return err
		}
		backups, err := svc.GetBackups(cmd.Context(), m.ID)
		if err != nil {
			return err
		}
		if len(backups) == 0 {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "No backups for %s\n", m.DisplayName())
			return nil
		}
		printBackups(cmd.OutOrStdout(), backups)
		return nil
	},
}

var backupsRestoreCmd = &cobra.Command{
	Use:   "restore <mod> <timestamp>",
	Short: "Restore a mod from one of its backups",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp()
		if err != nil {
			return err
		}
		svc, err := a.loadActive(cmd.Context())
		if err != nil {
			return err
		}
		m, err := resolveMod(svc, args[0])
		if err != nil {
			return err
		}
		if err := svc.RestoreBackup(cmd.Context(), m.ID, args[1]); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Restored %s from %s\n", m.DisplayName(), args[1])
		return nil
	},
}

func init() {
	backupsCmd.AddCommand(backupsListCmd, backupsRestoreCmd)
	rootCmd.AddCommand(backupsCmd)
}
