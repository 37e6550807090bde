package domain

// TaskStatus is one progress notification streamed by the backend while a
// long-running mod command (addMods, removeMods, syncMods) is in flight.
// It is advisory UI feedback and never feeds state merges.
type TaskStatus struct {
	TaskID  string `json:"task_id"`
	Stage   string `json:"stage"`
	Message string `json:"message,omitempty"`
	Current int    `json:"current"`
	Total   int    `json:"total"`
	Done    bool   `json:"done"`
}

// Percent returns completion in [0, 1]; 0 when total is unknown.
func (s TaskStatus) Percent() float64 {
	if s.Total <= 0 {
		return 0
	}
	p := float64(s.Current) / float64(s.Total)
	if p > 1 {
		return 1
	}
	return p
}

// ProgressFunc reports task progress to the TUI or CLI.
// Called repeatedly: (copying, 1/12), (copying, 2/12), ...
type ProgressFunc func(TaskStatus)

// NoProgress discards progress updates (for tests and batch operations).
func NoProgress(TaskStatus) {}
