package tui

import "github.com/modkeeper/modkeeper/internal/domain"

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// StateChangedMsg carries a fresh store snapshot
type StateChangedMsg struct {
	Snapshot domain.StateSnapshot
}

// ProgressMsg carries one task progress notification
type ProgressMsg struct {
	Status domain.TaskStatus
}

// ToggleResultMsg reports the outcome of one optimistic flip
type ToggleResultMsg struct {
	ModID    string
	Seq      uint64
	IsActive *bool // backend value after the call, nil on error or when absent
	Err      error
}

// ActionDoneMsg signals that a command finished; Status is shown briefly
type ActionDoneMsg struct {
	Status string
}

// DocsLoadedMsg carries rendered mod documentation
type DocsLoadedMsg struct {
	ModID string
	Title string
	Text  string
}

// ClearStatusMsg clears the status bar message
type ClearStatusMsg struct{}

// ClearProgressMsg hides a finished progress line
type ClearProgressMsg struct {
	TaskID string
}
