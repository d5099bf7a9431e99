package pool

import (
	"sync"

	"github.com/google/uuid"

	"github.com/kasuganosora/sqlbridge/pkg/domain"
)

// Handle is one leased backend session. It carries a unique identity and a
// weak back-reference to its owning provider; the provider reclaims it on
// Release and the handle must never be used afterwards.
type Handle struct {
	id       string
	session  domain.Session
	owner    domain.Provider
	closeFn  func() error
	mu       sync.Mutex
	released bool
}

// NewHandle wraps a session in a handle with a fresh identity. closeFn, when
// non-nil, is invoked once when the owning provider releases the handle.
func NewHandle(session domain.Session, owner domain.Provider, closeFn func() error) *Handle {
	return &Handle{
		id:      uuid.NewString(),
		session: session,
		owner:   owner,
		closeFn: closeFn,
	}
}

// ID returns the handle's unique identity.
func (h *Handle) ID() string { return h.id }

// Session returns the backend session bound to this handle.
func (h *Handle) Session() domain.Session { return h.session }

// Released reports whether the handle has been returned to its provider.
func (h *Handle) Released() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.released
}

// close marks the handle released and tears down the underlying session.
// Closing twice is a no-op so release stays idempotent under error paths.
func (h *Handle) close() error {
	h.mu.Lock()
	if h.released {
		h.mu.Unlock()
		return nil
	}
	h.released = true
	h.mu.Unlock()

	if h.closeFn != nil {
		return h.closeFn()
	}
	return nil
}
