package stats

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/lumen/internal/errors"
)

// StatsRepository defines the interface for loading and saving exploration
// statistics snapshots. This interface enables dependency injection and makes
// testing easier.
type StatsRepository interface {
	// Load reads an ExplorationStats snapshot from a file
	Load(path string) (*ExplorationStats, error)

	// Save writes an ExplorationStats snapshot to a file
	Save(stats *ExplorationStats, path string) error
}

// FileStatsRepository implements StatsRepository for file-based storage.
// YAML is the default format; files ending in .json are read and written as
// JSON.
type FileStatsRepository struct{}

// NewFileStatsRepository creates a new file-based stats repository
func NewFileStatsRepository() *FileStatsRepository {
	return &FileStatsRepository{}
}

// Load reads an ExplorationStats snapshot from a YAML or JSON file
func (r *FileStatsRepository) Load(path string) (*ExplorationStats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewStatsNotFoundError(path)
		}
		return nil, errors.Wrap(errors.ErrCodeFileReadFailed,
			fmt.Sprintf("failed to read stats file: %s", path), err)
	}

	var snapshot ExplorationStats
	if isJSONPath(path) {
		if err := json.Unmarshal(data, &snapshot); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStatsUnmarshal,
				fmt.Sprintf("failed to parse stats file: %s", path), err)
		}
	} else {
		if err := yaml.Unmarshal(data, &snapshot); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStatsUnmarshal,
				fmt.Sprintf("failed to parse stats file: %s", path), err)
		}
	}

	if err := snapshot.Validate(); err != nil {
		return nil, errors.NewStatsInvalidError(err.Error())
	}

	return &snapshot, nil
}

// Save writes an ExplorationStats snapshot to a YAML or JSON file
func (r *FileStatsRepository) Save(stats *ExplorationStats, path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(errors.ErrCodeDirectoryFailed,
			fmt.Sprintf("failed to create directory: %s", dir), err)
	}

	var data []byte
	var err error
	if isJSONPath(path) {
		data, err = json.MarshalIndent(stats, "", "  ")
	} else {
		data, err = yaml.Marshal(stats)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeStatsMarshal,
			fmt.Sprintf("failed to marshal stats for %s", path), err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed,
			fmt.Sprintf("failed to write stats file: %s", path), err)
	}

	return nil
}

func isJSONPath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// Default instance for package-level functions
var defaultRepository = NewFileStatsRepository()

// LoadStats reads an ExplorationStats snapshot using the default repository.
func LoadStats(path string) (*ExplorationStats, error) {
	return defaultRepository.Load(path)
}

// SaveStats writes an ExplorationStats snapshot using the default repository.
func SaveStats(stats *ExplorationStats, path string) error {
	return defaultRepository.Save(stats, path)
}

// Compile-time verification that FileStatsRepository implements StatsRepository
var _ StatsRepository = (*FileStatsRepository)(nil)
