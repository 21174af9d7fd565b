package store

import (
	"sort"
	"sync"
	"time"

	"github.com/Mugiii7/CustomHA/internal/core/domain"
	"github.com/Mugiii7/CustomHA/internal/core/port"
	"go.uber.org/zap"
)

type Clock func() time.Time

// MemoryStore keeps the entity set in memory. Records are replaced on update,
// never mutated, and every snapshot handed out is a deep copy.
type MemoryStore struct {
	mu       sync.RWMutex
	entities map[string]domain.Entity
	clock    Clock
	logger   *zap.Logger
}

type Option func(*MemoryStore)

func WithClock(clock Clock) Option {
	return func(s *MemoryStore) {
		s.clock = clock
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *MemoryStore) {
		s.logger = logger
	}
}

func New(seed []domain.Entity, opts ...Option) *MemoryStore {
	s := &MemoryStore{
		entities: make(map[string]domain.Entity, len(seed)),
		clock:    time.Now,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	for _, e := range seed {
		s.entities[e.EntityId] = e.DeepCopy()
	}
	return s
}

// NewDemo builds a store holding the demo seed entities.
func NewDemo(opts ...Option) *MemoryStore {
	s := New(nil, opts...)
	for _, e := range domain.SeedEntities(s.clock()) {
		s.entities[e.EntityId] = e
	}
	return s
}

// List returns a snapshot of all entities sorted by id.
func (s *MemoryStore) List() []domain.Entity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]domain.Entity, 0, len(s.entities))
	for _, e := range s.entities {
		list = append(list, e.DeepCopy())
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].EntityId < list[j].EntityId
	})
	return list
}

func (s *MemoryStore) Get(id string) (domain.Entity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entities[id]
	if !ok {
		return domain.Entity{}, false
	}
	return e.DeepCopy(), true
}

// Update replaces the entity with a copy carrying the new state. Unknown ids
// are ignored.
func (s *MemoryStore) Update(id string, state string) bool {
	return s.Modify(id, func(domain.Entity) (string, bool) {
		return state, true
	})
}

// Modify runs fn against the current record and stores the state it returns,
// all under the write lock. fn returning false leaves the record untouched.
func (s *MemoryStore) Modify(id string, fn func(current domain.Entity) (string, bool)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.entities[id]
	if !ok {
		s.logger.Debug("store: update of unknown entity ignored", zap.String("entity_id", id))
		return false
	}
	state, apply := fn(current.DeepCopy())
	if !apply {
		return false
	}
	s.entities[id] = current.WithState(state, s.nextTimestamp(current))
	return true
}

func (s *MemoryStore) nextTimestamp(current domain.Entity) time.Time {
	now := s.clock()
	last := current.LastUpdated
	if current.LastChanged.After(last) {
		last = current.LastChanged
	}
	if !now.After(last) {
		now = last.Add(time.Nanosecond)
	}
	return now
}

// ensure interface compliance
var _ port.EntityStore = (*MemoryStore)(nil)
