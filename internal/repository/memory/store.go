// Package memory holds in-process repositories used for local runs
// (STORAGE_DRIVER=memory) and tests. They follow the Mongo repositories'
// contract: lookups return (nil, nil) when nothing matches and owner
// scoped writes are atomic.
package memory

import (
	"errors"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"blogapi/internal/domain"
)

var ErrDuplicateKey = errors.New("duplicate key")

// Store is the shared backing state of every memory repository.
type Store struct {
	mu         sync.RWMutex
	users      []*domain.User
	categories []*domain.Category
	blogs      []*domain.Blog
	auditLogs  []*domain.AuditLog
	clock      func() time.Time
}

func NewStore() *Store {
	return &Store{
		clock: func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

// SetClock replaces the timestamp source. Tests use it to control createdAt.
func (s *Store) SetClock(clock func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock = clock
}

func (s *Store) now() time.Time {
	return s.clock()
}

func (s *Store) Users() domain.UserRepository {
	return &UserRepository{store: s}
}

func (s *Store) Categories() domain.CategoryRepository {
	return &CategoryRepository{store: s}
}

func (s *Store) Blogs() domain.BlogRepository {
	return &BlogRepository{store: s}
}

func (s *Store) AuditLogs() domain.AuditLogRepository {
	return &AuditLogRepository{store: s}
}

func newID(current primitive.ObjectID) primitive.ObjectID {
	if current.IsZero() {
		return primitive.NewObjectID()
	}
	return current
}

// byCreatedAt sorts oldest first, keeping insertion order for ties.
func byCreatedAt[T any](items []T, createdAt func(T) time.Time) {
	sort.SliceStable(items, func(i, j int) bool {
		return createdAt(items[i]).Before(createdAt(items[j]))
	})
}
