// Package registry tracks every live connection and owns its identity and
// display name. Identities are a monotonic counter, never reused within
// one process run.
package registry

import (
	"errors"
	"sync"
	"unicode/utf8"

	"watchsync/models"
)

const maxNameLength = 20

// ErrInvalidName is returned by Rename for empty names or names longer
// than 20 characters.
var ErrInvalidName = errors.New("invalid name: must be 1-20 characters")

// Registry is the connection table. All methods are safe for concurrent
// use.
type Registry struct {
	mu     sync.Mutex
	nextID int64
	conns  map[int64]*models.Client
}

func New() *Registry {
	return &Registry{conns: make(map[int64]*models.Client)}
}

// Register creates a record for a new connection and returns its client
// view. The display name starts as a default derived from the identity.
func (r *Registry) Register() models.Client {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	c := &models.Client{ID: r.nextID, Name: models.DefaultName(r.nextID)}
	r.conns[c.ID] = c
	return *c
}

// Rename validates and applies a new display name. The updated client view
// is returned so callers can broadcast it.
func (r *Registry) Rename(id int64, name string) (models.Client, error) {
	if name == "" || utf8.RuneCountInString(name) > maxNameLength {
		return models.Client{}, ErrInvalidName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.conns[id]
	if !ok {
		return models.Client{}, errors.New("unknown connection")
	}
	c.Name = name
	return *c, nil
}

// Get returns the current client view for an identity.
func (r *Registry) Get(id int64) (models.Client, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.conns[id]
	if !ok {
		return models.Client{}, false
	}
	return *c, true
}

// Unregister removes a connection record. Idempotent.
func (r *Registry) Unregister(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conns, id)
}

// Count returns the number of live connections.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.conns)
}
