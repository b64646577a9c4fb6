package tasks

import (
	"fmt"
	"time"
)

// Mode is the action class a single invocation performs.
type Mode int

const (
	ModeRetrieve Mode = iota
	ModeDelete
	ModeInitialize
)

func (m Mode) String() string {
	switch m {
	case ModeRetrieve:
		return "retrieve"
	case ModeDelete:
		return "delete"
	case ModeInitialize:
		return "initialize"
	}
	return "unknown"
}

// SelectMode resolves the operation for this invocation. An explicit
// override wins; empty or "auto" resolves from the calendar: a never-ran
// install bootstraps itself, the first day of the month refreshes the
// queue, any other day drains it. Invalid overrides fail fast.
func SelectMode(override string, now time.Time, lastRun time.Time) (Mode, error) {
	switch override {
	case "retrieve":
		return ModeRetrieve, nil
	case "delete":
		return ModeDelete, nil
	case "initialize":
		return ModeInitialize, nil
	case "", "auto":
	default:
		return 0, fmt.Errorf("invalid mode %q", override)
	}

	if lastRun.IsZero() {
		return ModeInitialize, nil
	}
	if now.Day() == 1 {
		return ModeRetrieve, nil
	}
	return ModeDelete, nil
}
