package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/samber/lo"
)

const fileVersion = "1.0"

// Store persists run records between sessions, newest last.
type Store struct {
	path    string
	limit   int
	mu      sync.RWMutex
	version string
	runs    []Run
}

// NewStore opens the history at path, keeping at most limit runs. A limit
// below one keeps every run.
func NewStore(path string, limit int) (*Store, error) {
	s := &Store{
		path:    path,
		limit:   limit,
		version: fileVersion,
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	if err := s.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		s.runs = []Run{}
	}

	return s, nil
}

// Load reads the history from disk.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}

	var file File
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse history: %w", err)
	}

	s.version = file.Version
	s.runs = file.Runs
	return nil
}

// Save writes the history to disk atomically.
func (s *Store) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := json.MarshalIndent(File{Version: s.version, Runs: s.runs}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}

// Add appends a run, dropping the oldest runs beyond the limit.
func (s *Store) Add(run Run) error {
	if run.ID == "" {
		return fmt.Errorf("run ID cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if lo.ContainsBy(s.runs, func(existing Run) bool { return existing.ID == run.ID }) {
		return fmt.Errorf("run with ID %s already exists", run.ID)
	}

	s.runs = append(s.runs, run)
	if s.limit > 0 && len(s.runs) > s.limit {
		s.runs = append([]Run(nil), s.runs[len(s.runs)-s.limit:]...)
	}
	return nil
}

// Record adds run and saves the history.
func (s *Store) Record(run Run) error {
	if err := s.Add(run); err != nil {
		return err
	}
	return s.Save()
}

// List returns the runs, oldest first. A non-empty workflow filters by workflow id.
func (s *Store) List(workflow string) []Run {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if workflow == "" {
		result := make([]Run, len(s.runs))
		copy(result, s.runs)
		return result
	}
	return lo.Filter(s.runs, func(run Run, _ int) bool { return run.Workflow == workflow })
}

// Get retrieves a run by ID.
func (s *Store) Get(id string) (Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := lo.Find(s.runs, func(run Run) bool { return run.ID == id })
	if !ok {
		return Run{}, fmt.Errorf("run not found: %s", id)
	}
	return run, nil
}

// Clear removes every run.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = []Run{}
}
