package storage

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/wadewooldridge/coin-calculator/internal/calculator"
)

// ErrNotConfigured indicates no denomination set has been stored yet.
var ErrNotConfigured = errors.New("denominations are not configured")

var defaultDenominations = []int{25, 10, 5, 1}

// Storage holds the current denomination set and the engine built for it.
type Storage interface {
	Denominations() ([]int, error)
	Engine() (*calculator.Engine, error)
	SetDenominations(denominations []int) (*calculator.Engine, error)
}

// MemoryStorage keeps the current engine in-memory and guards access with a RWMutex.
type MemoryStorage struct {
	mu      sync.RWMutex
	engine  *calculator.Engine
	options []calculator.Option
}

// NewMemoryStorage initialises storage with an engine for the given
// denominations, or for the defaults when none are given. The options are
// applied to every engine the storage builds.
func NewMemoryStorage(initial []int, opts ...calculator.Option) (*MemoryStorage, error) {
	if len(initial) == 0 {
		initial = defaultDenominations
	}
	s := &MemoryStorage{options: opts}
	if _, err := s.SetDenominations(initial); err != nil {
		return nil, fmt.Errorf("build initial engine: %w", err)
	}
	return s, nil
}

// DefaultDenominations returns a copy of the default denominations.
func DefaultDenominations() []int {
	return slices.Clone(defaultDenominations)
}

// Denominations returns a copy of the current denominations in caller order.
func (s *MemoryStorage) Denominations() ([]int, error) {
	engine, err := s.Engine()
	if err != nil {
		return nil, err
	}
	return engine.Denominations(), nil
}

// Engine returns the engine for the current denominations.
func (s *MemoryStorage) Engine() (*calculator.Engine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.engine == nil {
		return nil, ErrNotConfigured
	}
	return s.engine, nil
}

// SetDenominations replaces the current engine with one built for denominations
// and returns it. On a validation failure the previous engine stays in place and
// the *calculator.ValidationError is returned unchanged.
func (s *MemoryStorage) SetDenominations(denominations []int) (*calculator.Engine, error) {
	engine, err := calculator.New(denominations, s.options...)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.engine = engine
	s.mu.Unlock()

	return engine, nil
}
