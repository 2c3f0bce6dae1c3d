package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/lumen/internal/errors"
	"github.com/felixgeelhaar/lumen/internal/improvements"
	"github.com/felixgeelhaar/lumen/internal/log"
)

// TaskFile is the on-disk shape that carries tracked tasks between runs.
// Obsolete tasks are never written; they are re-derived from statistics. The
// fingerprint records which snapshot the statuses reflect, letting a later
// refresh skip work when the statistics have not moved.
type TaskFile struct {
	ExplorationID      string                    `json:"exp_id" yaml:"exp_id"`
	ExplorationVersion int                       `json:"exp_version" yaml:"exp_version"`
	Fingerprint        string                    `json:"fingerprint,omitempty" yaml:"fingerprint,omitempty"`
	Tasks              []improvements.TaskRecord `json:"tasks" yaml:"tasks"`
}

// Validate checks the task file header
func (f *TaskFile) Validate() error {
	if f.ExplorationID == "" {
		return fmt.Errorf("task file is missing exp_id")
	}
	if f.ExplorationVersion < 1 {
		return fmt.Errorf("task file exp_version must be >= 1, got %d", f.ExplorationVersion)
	}
	return nil
}

// LoadTaskFile reads a task file from disk. YAML is the default format; a
// .json extension switches to JSON.
func LoadTaskFile(path string) (*TaskFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewFileNotFoundError(path)
		}
		return nil, errors.Wrap(errors.ErrCodeFileReadFailed,
			fmt.Sprintf("failed to read task file: %s", path), err)
	}

	var file TaskFile
	if isJSONPath(path) {
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, errors.NewFileUnmarshalError(path, "JSON", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, errors.NewFileUnmarshalError(path, "YAML", err)
		}
	}

	if err := file.Validate(); err != nil {
		return nil, err
	}
	return &file, nil
}

// SaveTaskFile writes the registry's storable tasks to disk in the format
// implied by the path extension.
func SaveTaskFile(r *Registry, path string) error {
	file := TaskFile{
		ExplorationID:      r.ExplorationID(),
		ExplorationVersion: r.ExplorationVersion(),
		Fingerprint:        r.LastFingerprint(),
		Tasks:              r.StorableRecords(),
	}

	var (
		data []byte
		err  error
	)
	if isJSONPath(path) {
		data, err = json.MarshalIndent(file, "", "  ")
	} else {
		data, err = yaml.Marshal(file)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileMarshal,
			fmt.Sprintf("failed to marshal task file for %s", path), err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return errors.Wrap(errors.ErrCodeDirectoryFailed,
				fmt.Sprintf("failed to create directory: %s", dir), err)
		}
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed,
			fmt.Sprintf("failed to write task file: %s", path), err)
	}
	return nil
}

// NewFromFile builds a registry seeded with the tasks stored in file.
func NewFromFile(file *TaskFile, logger *log.Logger) (*Registry, error) {
	if err := file.Validate(); err != nil {
		return nil, err
	}

	r, err := New(file.ExplorationID, file.ExplorationVersion, logger)
	if err != nil {
		return nil, err
	}
	if err := r.LoadRecords(file.Tasks); err != nil {
		return nil, err
	}
	r.lastFingerprint = file.Fingerprint
	return r, nil
}

func isJSONPath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}
