// Package store provides in-memory storage for evaluated rolls.
package store

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lemonberrylabs/dicer/pkg/dice"
)

// Roll is a stored evaluation of a dice expression.
type Roll struct {
	Name       string            `json:"name"`
	Expression string            `json:"expression"`
	Canonical  string            `json:"canonical"`
	Mode       string            `json:"mode"`
	Seed       int64             `json:"seed,omitempty"`
	Total      int               `json:"total"`
	Dice       []dice.DieOutcome `json:"dice"`
	CreateTime time.Time         `json:"createTime"`
}

// ErrNotFound is returned by GetRoll for unknown names.
var ErrNotFound = errors.New("roll not found")

// Store is a thread-safe in-memory history of rolls.
type Store struct {
	mu    sync.RWMutex
	rolls map[string]*Roll
	order []string

	// limit caps the history; zero keeps everything.
	limit int
}

// New creates an empty store holding at most limit rolls. A limit of zero
// or less means unbounded.
func New(limit int) *Store {
	if limit < 0 {
		limit = 0
	}
	return &Store{
		rolls: make(map[string]*Roll),
		limit: limit,
	}
}

// CreateRoll assigns r a name and creation time and records it. The
// oldest roll is evicted once the history is full.
func (s *Store) CreateRoll(r Roll) *Roll {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := r
	stored.Name = "rolls/" + uuid.NewString()
	stored.CreateTime = time.Now().UTC()
	if stored.Dice == nil {
		stored.Dice = []dice.DieOutcome{}
	}
	s.rolls[stored.Name] = &stored
	s.order = append(s.order, stored.Name)

	if s.limit > 0 && len(s.order) > s.limit {
		evict := len(s.order) - s.limit
		for _, name := range s.order[:evict] {
			delete(s.rolls, name)
		}
		s.order = append([]string(nil), s.order[evict:]...)
	}
	return &stored
}

// GetRoll retrieves a roll by its full name.
func (s *Store) GetRoll(name string) (*Roll, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.rolls[name]
	if !ok {
		return nil, fmt.Errorf("roll '%s': %w", name, ErrNotFound)
	}
	return r, nil
}

// ListRolls returns the history, newest first.
func (s *Store) ListRolls() []*Roll {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*Roll, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		result = append(result, s.rolls[s.order[i]])
	}
	return result
}

// Len returns the number of stored rolls.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
