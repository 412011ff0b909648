package state

import (
	"context"
	"fmt"
	"sync"

	"github.com/toyinlola/mjop/pkg/interfaces"
)

// Session owns the state tree of one editing session. Transitions are
// serialized and committed atomically; readers always get a copy of the
// latest committed snapshot.
type Session struct {
	reducer *Reducer

	mu       sync.RWMutex
	current  *interfaces.Snapshot
	revision uint64
}

// NewSession starts a session from initial, rescoring every report so that
// scores loaded from elsewhere are never trusted as-is.
func NewSession(reducer *Reducer, initial *interfaces.Snapshot) (*Session, error) {
	snap, err := reducer.Reduce(initial, RescoreAll{})
	if err != nil {
		return nil, err
	}
	return &Session{reducer: reducer, current: snap}, nil
}

// Dispatch applies actions as one atomic batch. If any action fails the
// committed snapshot is left unchanged.
func (s *Session) Dispatch(actions ...Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.reducer.ReduceAll(s.current, actions)
	if err != nil {
		return err
	}
	s.current = next
	s.revision++
	return nil
}

// Snapshot returns a deep copy of the committed state.
func (s *Session) Snapshot() *interfaces.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

// Revision returns the number of committed dispatches.
func (s *Session) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// Save hands a copy of the committed state to the persistence collaborator.
// The session is not locked while the saver runs.
func (s *Session) Save(ctx context.Context, saver interfaces.SnapshotSaver) error {
	if err := saver.Save(ctx, s.Snapshot()); err != nil {
		return fmt.Errorf("state: saving snapshot: %w", err)
	}
	return nil
}
