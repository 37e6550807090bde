package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/modkeeper/modkeeper/internal/domain"
)

var libraryCmd = &cobra.Command{
	Use:     "library",
	Aliases: []string{"lib"},
	Short:   "Manage mod libraries",
}

var libraryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List known libraries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp()
		if err != nil {
			return err
		}
		sw, err := a.svc.Init(cmd.Context())
		if err != nil {
			return err
		}
		activeID := ""
		if sw != nil && sw.Active != nil {
			activeID = sw.Active.ID
		}
		var libs []domain.LibraryDTO
		if sw != nil {
			libs = sw.Libraries
		}
		if len(libs) == 0 {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No libraries yet (create one with: modkeeper library create)")
			return nil
		}
		printLibraries(cmd.OutOrStdout(), libs, activeID)
		return nil
	},
}

var libraryOpenCmd = &cobra.Command{
	Use:   "open <repo-root>",
	Short: "Open an existing library and make it active",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp()
		if err != nil {
			return err
		}
		sw, err := a.svc.OpenLibrary(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printSwitch(cmd.OutOrStdout(), sw)
		return nil
	},
}

var (
	createName     string
	createGameRoot string
	createRepoRoot string
)

var libraryCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a library for a game installation",
	Long: `Create a library for a game installation and make it active.

The repository defaults to <game-root>/` + repoDirName + `.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp()
		if err != nil {
			return err
		}
		req := domain.LibraryCreationRequirement{
			Name:     createName,
			GameRoot: createGameRoot,
			RepoRoot: createRepoRoot,
		}
		if req.RepoRoot == "" {
			req.RepoRoot = defaultRepoRoot(req.GameRoot)
		}
		sw, err := a.svc.CreateLibrary(cmd.Context(), req)
		if err != nil {
			return err
		}
		printSwitch(cmd.OutOrStdout(), sw)
		return nil
	},
}

var libraryRenameCmd = &cobra.Command{
	Use:   "rename <name>",
	Short: "Rename the active library",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp()
		if err != nil {
			return err
		}
		if _, err := a.loadActive(cmd.Context()); err != nil {
			return err
		}
		sw, err := a.svc.RenameLibrary(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printSwitch(cmd.OutOrStdout(), sw)
		return nil
	},
}

var libraryCloseCmd = &cobra.Command{
	Use:   "close [repo-root]",
	Short: "Close a library (the active one by default)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := getApp()
		if err != nil {
			return err
		}
		repoRoot, err := targetRepoRoot(a, cmd, args)
		if err != nil {
			return err
		}
		sw, err := a.svc.CloseLibrary(cmd.Context(), repoRoot)
		if err != nil {
			return err
		}
		printSwitch(cmd.OutOrStdout(), sw)
		return nil
	},
}

var removeLibraryYes bool

var libraryRemoveCmd = &cobra.Command{
	Use:   "remove <repo-root>",
	Short: "Remove a library and its repository",
	Long: `Remove a library from the known set and delete its repository.

Mods already synced into the game folder are not touched. Pass --yes to
confirm.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !removeLibraryYes {
			return fmt.Errorf("refusing to remove %s without --yes", args[0])
		}
		a, err := getApp()
		if err != nil {
			return err
		}
		sw, err := a.svc.RemoveLibrary(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printSwitch(cmd.OutOrStdout(), sw)
		return nil
	},
}

// targetRepoRoot returns the explicit argument or the active library's repo root
func targetRepoRoot(a *app, cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	svc, err := a.loadActive(cmd.Context())
	if err != nil {
		return "", err
	}
	return svc.State().Active().RepoRoot, nil
}

func init() {
	libraryCreateCmd.Flags().StringVar(&createName, "name", "", "library name")
	libraryCreateCmd.Flags().StringVar(&createGameRoot, "game-root", "", "game installation folder")
	libraryCreateCmd.Flags().StringVar(&createRepoRoot, "repo-root", "", "repository folder (default <game-root>/"+repoDirName+")")
	_ = libraryCreateCmd.MarkFlagRequired("name")
	_ = libraryCreateCmd.MarkFlagRequired("game-root")

	libraryRemoveCmd.Flags().BoolVarP(&removeLibraryYes, "yes", "y", false, "confirm removal")

	libraryCmd.AddCommand(libraryListCmd, libraryOpenCmd, libraryCreateCmd, libraryRenameCmd, libraryCloseCmd, libraryRemoveCmd)
	rootCmd.AddCommand(libraryCmd)
}
