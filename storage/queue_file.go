package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileQueue persists the pending queue as a JSON list of post IDs. It is
// the default backend: no extra infrastructure, read-modify-write within a
// single invocation.
type FileQueue struct {
	path string
}

func NewFileQueue(path string) *FileQueue {
	return &FileQueue{path: path}
}

func (q *FileQueue) Load(_ context.Context) ([]string, error) {
	data, err := os.ReadFile(q.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("corrupt queue file %s: %w", q.path, err)
	}
	return ids, nil
}

func (q *FileQueue) Save(_ context.Context, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	data, err := json.MarshalIndent(ids, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(q.path), 0755); err != nil {
		return err
	}
	return os.WriteFile(q.path, data, 0644)
}

func (q *FileQueue) Close() error {
	return nil
}
