package memory

import (
	"context"
	"fmt"
	"sync"

	"goclean/domain/cleaning"
	"goclean/domain/core"
)

// VersionStore is an insert-only, process-lifetime store of completed runs
type VersionStore struct {
	mu       sync.RWMutex
	versions map[core.VersionID]*cleaning.Version
	order    []core.VersionID
}

// NewVersionStore creates an empty store
func NewVersionStore() *VersionStore {
	return &VersionStore{versions: make(map[core.VersionID]*cleaning.Version)}
}

// Put inserts a version. Duplicate ids and versions whose summary does not
// describe their dataset are rejected.
func (s *VersionStore) Put(ctx context.Context, v *cleaning.Version) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkConsistency(v); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.versions[v.ID]; exists {
		return fmt.Errorf("%w: %s", core.ErrDuplicateVersion, v.ID)
	}
	s.versions[v.ID] = v
	s.order = append(s.order, v.ID)
	return nil
}

// Get returns a stored version or ErrVersionNotFound
func (s *VersionStore) Get(ctx context.Context, id core.VersionID) (*cleaning.Version, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.versions[id]
	if !ok {
		return nil, core.NewVersionNotFoundError(id)
	}
	return v, nil
}

// List returns every version in creation order
func (s *VersionStore) List(ctx context.Context) ([]*cleaning.Version, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*cleaning.Version, len(s.order))
	for i, id := range s.order {
		out[i] = s.versions[id]
	}
	return out, nil
}

func checkConsistency(v *cleaning.Version) error {
	switch {
	case v == nil:
		return fmt.Errorf("%w: nil version", core.ErrInconsistentVersion)
	case v.ID == "":
		return fmt.Errorf("%w: empty version id", core.ErrInconsistentVersion)
	case v.Dataset == nil:
		return fmt.Errorf("%w: version %s has no dataset", core.ErrInconsistentVersion, v.ID)
	case v.Summary.RowsCleaned != v.Dataset.NumRows():
		return fmt.Errorf("%w: version %s reports %d rows, dataset has %d",
			core.ErrInconsistentVersion, v.ID, v.Summary.RowsCleaned, v.Dataset.NumRows())
	case v.Summary.Columns != v.Dataset.NumColumns():
		return fmt.Errorf("%w: version %s reports %d columns, dataset has %d",
			core.ErrInconsistentVersion, v.ID, v.Summary.Columns, v.Dataset.NumColumns())
	case v.Summary.MissingValuesAfter != v.Dataset.TotalMissing():
		return fmt.Errorf("%w: version %s reports %d missing values, dataset has %d",
			core.ErrInconsistentVersion, v.ID, v.Summary.MissingValuesAfter, v.Dataset.TotalMissing())
	}
	return nil
}
