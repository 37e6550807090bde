package domain

// SnapshotStore handles the offline cache (BoltDB + memory).
// It only ever holds state the backend already confirmed.
type SnapshotStore interface {
	// === Switch ===
	LoadSwitch() (*LibrarySwitch, bool)
	SaveSwitch(sw *LibrarySwitch) error

	// === Libraries ===
	GetLibrary(id string) (LibraryDTO, bool)
	SaveLibrary(lib LibraryDTO) error

	// === Invalidation ===
	InvalidateLibrary(id string)
	InvalidateAll()

	Close() error
}
