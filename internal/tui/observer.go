package tui

import "github.com/modkeeper/modkeeper/internal/domain"

// ChannelObserver adapts store subscriptions and task progress callbacks to
// channels for Bubble Tea.
type ChannelObserver struct {
	states   chan domain.StateSnapshot
	progress chan domain.TaskStatus
}

// NewChannelObserver creates a new channel-based observer.
func NewChannelObserver() *ChannelObserver {
	return &ChannelObserver{
		states:   make(chan domain.StateSnapshot, 1),
		progress: make(chan domain.TaskStatus, 32),
	}
}

// OnState queues a snapshot. Only the latest unread snapshot is kept.
func (o *ChannelObserver) OnState(snap domain.StateSnapshot) {
	for {
		select {
		case o.states <- snap:
			return
		default:
		}
		// Drop the stale snapshot and retry
		select {
		case <-o.states:
		default:
		}
	}
}

// OnProgress sends progress to the channel (non-blocking if full).
func (o *ChannelObserver) OnProgress(status domain.TaskStatus) {
	select {
	case o.progress <- status:
	default: // Non-blocking if channel full
	}
}

// States is read by WaitForStateCmd.
func (o *ChannelObserver) States() <-chan domain.StateSnapshot { return o.states }

// Progress is read by WaitForProgressCmd.
func (o *ChannelObserver) Progress() <-chan domain.TaskStatus { return o.progress }
