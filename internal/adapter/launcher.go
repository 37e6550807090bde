package adapter

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// ErrNothingToOpen is returned when a target is neither a URL nor an existing path.
var ErrNothingToOpen = errors.New("nothing to open")

// Launcher opens mod links and library folders in external applications
type Launcher struct {
	command string   // configured opener command, empty for system default
	args    []string // additional arguments for the opener
	logger  *slog.Logger

	// start runs the command; swapped in tests
	start func(name string, args ...string) error
}

// opener is one way of handing a target to the desktop
type opener struct {
	path string
	args []string
}

// systemOpeners lists the default handlers tried in order per platform
var systemOpeners = map[string][]opener{
	"darwin":  {{path: "open"}},
	"windows": {{path: "rundll32", args: []string{"url.dll,FileProtocolHandler"}}, {path: "cmd", args: []string{"/c", "start", ""}}},
	"linux":   {{path: "xdg-open"}, {path: "gio", args: []string{"open"}}},
}

// NewLauncher creates a Launcher. An empty command uses the platform default.
func NewLauncher(command string, args []string, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Launcher{
		command: command,
		args:    args,
		logger:  logger,
		start:   startDetached,
	}
}

// startDetached launches a command without waiting for it to exit
func startDetached(name string, args ...string) error {
	if _, err := exec.LookPath(name); err != nil {
		return err
	}
	return exec.Command(name, args...).Start()
}

// Open hands target (an http(s) URL or a local path) to the opener
func (l *Launcher) Open(target string) error {
	if err := validateTarget(target); err != nil {
		return err
	}

	// Tier 1: user configured a specific command
	if l.command != "" {
		args := append(append([]string{}, l.args...), target)
		l.logger.Info("opening with configured command", "command", l.command, "target", target)
		return l.start(l.command, args...)
	}

	// Tier 2: platform handlers in order
	candidates, ok := systemOpeners[runtime.GOOS]
	if !ok {
		candidates = systemOpeners["linux"]
	}
	var lastErr error
	for _, o := range candidates {
		args := append(append([]string{}, o.args...), target)
		if err := l.start(o.path, args...); err != nil {
			l.logger.Debug("opener not available", "path", o.path, "error", err)
			lastErr = err
			continue
		}
		l.logger.Info("opened with system default", "os", runtime.GOOS, "path", o.path, "target", target)
		return nil
	}
	return fmt.Errorf("no opener available on %s: %w", runtime.GOOS, lastErr)
}

// validateTarget accepts web URLs and existing filesystem paths only
func validateTarget(target string) error {
	target = strings.TrimSpace(target)
	if target == "" {
		return ErrNothingToOpen
	}
	if u, err := url.Parse(target); err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" {
		return nil
	}
	if _, err := os.Stat(target); err != nil {
		return fmt.Errorf("%w: %s", ErrNothingToOpen, target)
	}
	return nil
}
