package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/modkeeper/modkeeper/internal/adapter"
	"github.com/modkeeper/modkeeper/internal/docs"
	"github.com/modkeeper/modkeeper/internal/domain"
	"github.com/modkeeper/modkeeper/internal/library"
	"github.com/modkeeper/modkeeper/internal/search"
)

var modsCmd = &cobra.Command{
	Use:     "mods",
	Aliases: []string{"mod"},
	Short:   "Manage the mods of the active library",
}

// resolveMod maps a CLI argument to a mod of the active library
func resolveMod(svc *library.Service, arg string) (domain.Mod, error) {
	active := svc.State().Active()
	if active == nil {
		return domain.Mod{}, errNoActive
	}
	m, ok := search.Resolve(arg, active.SortedMods())
	if !ok {
		return domain.Mod{}, fmt.Errorf("%w: %q", domain.ErrModNotFound, arg)
	}
	return m, nil
}

var (
	listOffline bool
	listLibrary string
)

var modsListCmd = &cobra.Command{
	Use:   "list [query]",
	Short: "List mods, optionally filtered by a fuzzy query",
	Long: `List the mods of the active library, optionally filtered by a fuzzy query.

With --offline the library is read from the snapshot cache instead of the
backend; --library picks another cached library by id.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp()
		if err != nil {
			return err
		}
		var lib domain.LibraryDTO
		if listOffline {
			lib, err = a.cachedLibrary(listLibrary)
		} else {
			var svc *library.Service
			if svc, err = a.loadActive(cmd.Context()); err == nil {
				lib = *svc.State().Active()
			}
		}
		if err != nil {
			return err
		}
		mods := lib.SortedMods()
		if len(args) == 1 {
			mods = search.RankMods(args[0], mods)
		}
		if len(mods) == 0 {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No mods")
			return nil
		}
		printMods(cmd.OutOrStdout(), mods)
		return nil
	},
}

var addUnknownName string

var modsAddCmd = &cobra.Command{
	Use:   "add <path>...",
	Short: "Import mod archives or folders into the active library",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp()
		if err != nil {
			return err
		}
		if _, err := a.loadActive(cmd.Context()); err != nil {
			return err
		}
		name := addUnknownName
		if name == "" {
			name = a.cfg.UI.UnknownModName
		}
		onProgress, done := newProgressPrinter(cmd.ErrOrStderr())
		lib, err := a.svc.AddMods(cmd.Context(), args, name, onProgress)
		done()
		if err != nil {
			return err
		}
		printLibrary(cmd.OutOrStdout(), lib)
		return nil
	},
}

var modsRemoveCmd = &cobra.Command{
	Use:   "remove <mod>...",
	Short: "Remove mods from the active library",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp()
		if err != nil {
			return err
		}
		svc, err := a.loadActive(cmd.Context())
		if err != nil {
			return err
		}
		ids := make([]string, 0, len(args))
		for _, arg := range args {
			m, err := resolveMod(svc, arg)
			if err != nil {
				return err
			}
			ids = append(ids, m.ID)
		}
		onProgress, done := newProgressPrinter(cmd.ErrOrStderr())
		lib, err := svc.RemoveMods(cmd.Context(), ids, onProgress)
		done()
		if err != nil {
			return err
		}
		printLibrary(cmd.OutOrStdout(), lib)
		return nil
	},
}

func toggleCommand(use, short string, active bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <mod>...",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp()
			if err != nil {
				return err
			}
			svc, err := a.loadActive(cmd.Context())
			if err != nil {
				return err
			}
			for _, arg := range args {
				m, err := resolveMod(svc, arg)
				if err != nil {
					return err
				}
				lib, err := svc.ToggleMod(cmd.Context(), m.ID, active)
				if err != nil {
					return fmt.Errorf("%s: %w", m.DisplayName(), err)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", modState(lib.Mods[m.ID].IsActive), m.DisplayName())
			}
			if lib := svc.State().Active(); lib != nil && lib.IsDirty {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Run 'modkeeper mods sync' to apply changes to the game folder")
			}
			return nil
		},
	}
}

var (
	modsEnableCmd  = toggleCommand("enable", "Enable mods", true)
	modsDisableCmd = toggleCommand("disable", "Disable mods", false)
)

var modsSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Apply enabled mods to the game folder",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp()
		if err != nil {
			return err
		}
		svc, err := a.loadActive(cmd.Context())
		if err != nil {
			return err
		}
		onProgress, done := newProgressPrinter(cmd.ErrOrStderr())
		lib, err := svc.SyncMods(cmd.Context(), onProgress)
		done()
		if err != nil {
			return err
		}
		printLibrary(cmd.OutOrStdout(), lib)
		return nil
	},
}

var modsDocsCmd = &cobra.Command{
	Use:   "docs <mod>",
	Short: "Print a mod's documentation",
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
		doc, err := svc.GetModDocumentation(cmd.Context(), m.ID)
		if err != nil {
			return err
		}
		text := strings.TrimSpace(docs.Render(doc))
		if text == "" {
			text = "No documentation"
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	},
}

var modsShowCmd = &cobra.Command{
	Use:   "show <mod>",
	Short: "Print a mod's manifest",
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
		printModDetails(cmd.OutOrStdout(), m)
		return nil
	},
}

var modsOpenCmd = &cobra.Command{
	Use:   "open <mod>",
	Short: "Open the first link published by a mod",
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
		if m.Manifest == nil || len(m.Manifest.Links) == 0 {
			return fmt.Errorf("%s: %w", m.DisplayName(), adapter.ErrNothingToOpen)
		}
		link := m.Manifest.Links[0]
		launcher := adapter.NewLauncher(a.cfg.UI.OpenCommand, a.cfg.UI.OpenArgs, a.logger)
		if err := launcher.Open(link.URL); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Opened %s\n", link.URL)
		return nil
	},
}

func init() {
	modsListCmd.Flags().BoolVar(&listOffline, "offline", false, "read the cached snapshot without contacting the backend")
	modsListCmd.Flags().StringVar(&listLibrary, "library", "", "cached library id to list with --offline (default: the active one)")
	modsAddCmd.Flags().StringVar(&addUnknownName, "unknown-name", "", "name for mods without a manifest (default ui.unknown_mod_name)")

	modsCmd.AddCommand(modsListCmd, modsAddCmd, modsRemoveCmd, modsEnableCmd, modsDisableCmd, modsSyncCmd, modsShowCmd, modsDocsCmd, modsOpenCmd)
	rootCmd.AddCommand(modsCmd)
}
