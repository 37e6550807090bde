package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	_ "go.uber.org/automaxprocs"
	"golang.org/x/term"

	"github.com/modkeeper/modkeeper/internal/adapter"
	"github.com/modkeeper/modkeeper/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

var (
	cfgFile    string
	verbose    bool
	backendURL string
)

var rootCmd = &cobra.Command{
	Use:     "modkeeper",
	Short:   "Manage SPT mod libraries from the terminal",
	Version: Version,
	Long: `modkeeper talks to the mod keeper backend to manage mod libraries:
enable and disable mods, import archives, sync the game folder and
restore backups.

Run without a subcommand in a terminal to open the interactive UI.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			return runTUI()
		}
		return runStatus(cmd, false)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.config/modkeeper/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose/debug logging to stderr")
	rootCmd.PersistentFlags().StringVar(&backendURL, "backend", "", "backend URL (overrides backend.url)")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	closeApp()
	if err != nil {
		os.Exit(1)
	}
}

// runTUI starts the interactive UI on the alternate screen
func runTUI() error {
	a, err := getApp()
	if err != nil {
		return err
	}

	obs := tui.NewChannelObserver()
	unsubscribe := a.svc.State().Subscribe(obs.OnState)
	defer unsubscribe()

	launcher := adapter.NewLauncher(a.cfg.UI.OpenCommand, a.cfg.UI.OpenArgs, a.logger)
	model := tui.NewModel(a.svc, a.svc.State(), obs, launcher, a.cfg.UI.UnknownModName, a.logger)

	p := tea.NewProgram(model, tea.WithAltScreen())

	a.logger.Info("starting TUI")
	if _, err := p.Run(); err != nil {
		a.logger.Error("TUI error", "error", err)
		return err
	}
	a.logger.Info("shutting down")
	return nil
}
