package storage

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

const markerTimestampFormat = time.RFC3339

// ReadLastRun reads the last-run timestamp from the marker file. A missing
// or corrupt file yields the zero time, which the mode selector treats as
// "never ran".
func ReadLastRun(path string) (time.Time, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}

	ts, err := time.Parse(markerTimestampFormat, strings.TrimSpace(string(data)))
	if err != nil {
		return time.Time{}, nil
	}
	return ts, nil
}

// WriteLastRun writes the timestamp to the marker file, creating parent
// directories if needed.
func WriteLastRun(path string, ts time.Time) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(ts.Format(markerTimestampFormat)), 0644)
}
