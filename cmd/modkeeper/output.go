package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"golang.org/x/term"

	"github.com/modkeeper/modkeeper/internal/domain"
	"github.com/modkeeper/modkeeper/internal/history"
	"github.com/modkeeper/modkeeper/internal/tui/components"
	"github.com/modkeeper/modkeeper/internal/tui/styles"
)

// repoDirName is where a library repository lives when none is given
const repoDirName = ".mod_keeper"

func defaultRepoRoot(gameRoot string) string {
	return filepath.Join(gameRoot, repoDirName)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// header writes a table header. Cells stay unstyled: escape codes would
// throw off tabwriter's column widths.
func header(tw io.Writer, cols ...string) {
	_, _ = fmt.Fprintln(tw, strings.Join(cols, "\t"))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// printLibrary prints the summary of one library
func printLibrary(w io.Writer, lib domain.LibraryDTO) {
	dirty := ""
	if lib.IsDirty {
		dirty = " " + styles.ErrorStyle.Render("(needs sync)")
	}
	_, _ = fmt.Fprintf(w, "%s%s\n", styles.AccentStyle.Render(lib.Name), dirty)
	_, _ = fmt.Fprintf(w, "  id:        %s\n", lib.ID)
	_, _ = fmt.Fprintf(w, "  game root: %s\n", lib.GameRoot)
	_, _ = fmt.Fprintf(w, "  repo root: %s\n", lib.RepoRoot)
	_, _ = fmt.Fprintf(w, "  SPT:       %s\n", orDash(lib.SPTVersion))
	_, _ = fmt.Fprintf(w, "  mods:      %d/%d enabled\n", lib.ActiveCount(), len(lib.Mods))
}

// printSwitch prints the active library and the other known ones
func printSwitch(w io.Writer, sw *domain.LibrarySwitch) {
	if sw == nil || sw.Active == nil {
		_, _ = fmt.Fprintln(w, "No active library")
	} else {
		printLibrary(w, *sw.Active)
	}
	var others []domain.LibraryDTO
	if sw != nil {
		for _, l := range sw.Libraries {
			if sw.Active == nil || l.ID != sw.Active.ID {
				others = append(others, l)
			}
		}
	}
	if len(others) > 0 {
		_, _ = fmt.Fprintf(w, "\n%d other librar%s known:\n", len(others), plural(len(others), "y", "ies"))
		for _, l := range others {
			_, _ = fmt.Fprintf(w, "  %s  %s\n", l.Name, styles.DimStyle.Render(l.RepoRoot))
		}
	}
}

// printLibraries lists known libraries, marking the active one
func printLibraries(w io.Writer, libs []domain.LibraryDTO, activeID string) {
	tw := newTable(w)
	header(tw, "", "NAME", "SPT", "MODS", "REPO ROOT")
	for _, l := range libs {
		mark := " "
		if l.ID == activeID {
			mark = "*"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", mark, l.Name, orDash(l.SPTVersion), len(l.Mods), l.RepoRoot)
	}
	_ = tw.Flush()
}

func modStateCell(active bool) string {
	if active {
		return styles.EnabledChar + " on"
	}
	return styles.DisabledChar + " off"
}

func modState(active bool) string {
	if active {
		return styles.SuccessStyle.Render(modStateCell(active))
	}
	return styles.DimStyle.Render(modStateCell(active))
}

// printMods prints one row per mod in the given order
func printMods(w io.Writer, mods []domain.Mod) {
	tw := newTable(w)
	header(tw, "STATE", "ID", "NAME", "VERSION", "TYPE")
	for _, m := range mods {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", modStateCell(m.IsActive), m.ID, m.DisplayName(), orDash(m.Version()), m.ModType)
	}
	_ = tw.Flush()
}

// printModDetails prints a mod's manifest
func printModDetails(w io.Writer, m domain.Mod) {
	_, _ = fmt.Fprintf(w, "%s %s\n", modState(m.IsActive), styles.AccentStyle.Render(m.DisplayName()))
	_, _ = fmt.Fprintf(w, "  id:      %s\n", m.ID)
	_, _ = fmt.Fprintf(w, "  type:    %s\n", m.ModType)
	if m.ManifestError != "" {
		_, _ = fmt.Fprintf(w, "  manifest unreadable: %s\n", m.ManifestError)
	}
	mf := m.Manifest
	if mf == nil {
		if m.ManifestError == "" {
			_, _ = fmt.Fprintln(w, "  no manifest")
		}
		return
	}
	_, _ = fmt.Fprintf(w, "  version: %s\n", orDash(mf.Version))
	_, _ = fmt.Fprintf(w, "  authors: %s\n", orDash(mf.Author.String()))
	_, _ = fmt.Fprintf(w, "  SPT:     %s\n", orDash(mf.SPTVersion))
	if mf.Description != "" {
		_, _ = fmt.Fprintf(w, "\n  %s\n", mf.Description)
	}

	if deps := mf.Dependencies.Entries(); len(deps) > 0 {
		_, _ = fmt.Fprintln(w, "\nDependencies:")
		for _, d := range deps {
			opt := ""
			if d.Optional {
				opt = " (optional)"
			}
			_, _ = fmt.Fprintf(w, "  %s %s%s\n", d.ID, orDash(d.Version), opt)
		}
	}
	if c := mf.Compatibility; len(c.Include) > 0 || len(c.Exclude) > 0 {
		_, _ = fmt.Fprintln(w, "\nCompatibility:")
		if len(c.Include) > 0 {
			_, _ = fmt.Fprintf(w, "  works with:     %s\n", strings.Join(c.Include, ", "))
		}
		if len(c.Exclude) > 0 {
			_, _ = fmt.Fprintf(w, "  conflicts with: %s\n", strings.Join(c.Exclude, ", "))
		}
	}
	if len(mf.Effects) > 0 {
		_, _ = fmt.Fprintln(w, "\nEffects:")
		for _, e := range mf.Effects {
			_, _ = fmt.Fprintf(w, "  - %s\n", e)
		}
	}
	if len(mf.Links) > 0 {
		_, _ = fmt.Fprintln(w, "\nLinks:")
		for _, l := range mf.Links {
			_, _ = fmt.Fprintf(w, "  %s\n", components.LinkLabel(l))
		}
	}
}

// printBackups lists backups newest first
func printBackups(w io.Writer, backups []domain.ModBackup) {
	sorted := append([]domain.ModBackup(nil), backups...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Timestamp > sorted[j].Timestamp })

	tw := newTable(w)
	header(tw, "TIMESTAMP", "PATH")
	for _, b := range sorted {
		_, _ = fmt.Fprintf(tw, "%s\t%s\n", b.Timestamp, b.Path)
	}
	_ = tw.Flush()
}

// printHistory prints ledger rows as stored (newest first)
func printHistory(w io.Writer, recs []history.ActionRecord) {
	tw := newTable(w)
	header(tw, "TIME", "ACTION", "RESULT", "DURATION", "DETAIL")
	for _, r := range recs {
		result := "ok"
		detail := ""
		if !r.OK {
			result = "failed"
			detail = r.Message
			if r.ErrorKind != "" {
				detail = r.ErrorKind + ": " + detail
			}
		}
		d := time.Duration(r.DurationMS) * time.Millisecond
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.At.Local().Format("2006-01-02 15:04:05"), r.Op, result, d, detail)
	}
	_ = tw.Flush()
}

// formatTask renders one progress notification on a single line
func formatTask(s domain.TaskStatus) string {
	label := s.Stage
	if s.Message != "" {
		label = s.Message
	}
	if s.Total > 0 {
		label = fmt.Sprintf("[%3.f%%] %s (%d/%d)", s.Percent()*100, label, s.Current, s.Total)
	}
	if s.Done {
		label = styles.EnabledChar + " " + label
	}
	return label
}

// newProgressPrinter reports task progress on w, redrawing one line on a
// terminal. done ends the line.
func newProgressPrinter(w io.Writer) (onProgress domain.ProgressFunc, done func()) {
	tty := false
	if f, ok := w.(*os.File); ok {
		tty = term.IsTerminal(int(f.Fd()))
	}

	var mu sync.Mutex
	drawn := false
	onProgress = func(s domain.TaskStatus) {
		mu.Lock()
		defer mu.Unlock()
		if tty {
			_, _ = fmt.Fprintf(w, "\r\033[K%s", formatTask(s))
			drawn = true
			return
		}
		_, _ = fmt.Fprintln(w, formatTask(s))
	}
	done = func() {
		mu.Lock()
		defer mu.Unlock()
		if drawn {
			_, _ = fmt.Fprintln(w)
			drawn = false
		}
	}
	return onProgress, done
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
