package history

import (
	"time"

	"gorm.io/gorm"
)

// ActionRecord is one finished library action.
type ActionRecord struct {
	gorm.Model
	Op         string    `gorm:"index"` // Action name, e.g. toggle_mod
	LibraryID  string    `gorm:"index"` // Active library after the call
	OK         bool      // Whether the backend confirmed the action
	ErrorKind  string    // Backend error kind, empty for local failures
	Message    string    // Translated error shown to the user
	DurationMS int64     // Round-trip time
	At         time.Time `gorm:"index"` // When the action started
}
