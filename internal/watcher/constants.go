package watcher

// Watcher configuration constants
const (
	// Events buffered before new ones are dropped
	EventBufferSize = 100

	// Consecutive capture failures logged at warn before dropping to debug
	CaptureWarnLimit = 3
)
