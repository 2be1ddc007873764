// Package session tracks in-progress edit sessions. Its one real job is the
// options-change guard: once an impact has been staged for a session, the
// variant list is locked until the user resolves it with a merge policy, so
// edits never interleave with an unresolved diff.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/storekart/variant-service/internal/catalog"
	"github.com/storekart/variant-service/internal/pkg/cuid2"
	"github.com/storekart/variant-service/internal/variant"
)

var (
	// ErrNotFound is returned for unknown or expired sessions.
	ErrNotFound = errors.New("session not found")
	// ErrPendingImpact blocks variant edits while an impact awaits resolution.
	ErrPendingImpact = errors.New("options change pending, resolve it before editing variants")
	// ErrNoPendingImpact is returned when resolving a session with nothing staged.
	ErrNoPendingImpact = errors.New("no pending options change to resolve")
)

// Session is one user's in-progress product edit. Sessions are single-user
// by construction; the store mutex only guards the map itself plus the
// staging/resolution transitions.
type Session struct {
	ID         string                       `json:"id"`
	CategoryID string                       `json:"categoryId"`
	Selection  catalog.Selection            `json:"selection"`
	AttrNames  []string                     `json:"attributeNames"`
	Variants   []variant.Variant            `json:"variants"`
	Pending    *variant.OptionsChangeImpact `json:"pending,omitempty"`
	PendingSel catalog.Selection            `json:"-"`
	UpdatedAt  time.Time                    `json:"updatedAt"`
}

// Store holds live edit sessions with TTL expiry.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	merger   *variant.Merger
	evict    func(sessionID string)
	logger   zerolog.Logger
}

// NewStore creates a session store. Sessions idle longer than ttl are
// reclaimed by the sweeper.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		merger:   variant.NewMerger(),
		logger:   log.With().Str("component", "session_store").Logger(),
	}
}

// Create starts a session for a category with the current selection and
// variant list.
func (s *Store) Create(categoryID string, sel catalog.Selection, attrNames []string, variants []variant.Variant) *Session {
	sess := &Session{
		ID:         cuid2.NewSessionID(),
		CategoryID: categoryID,
		Selection:  sel,
		AttrNames:  attrNames,
		Variants:   variants,
		UpdatedAt:  time.Now(),
	}
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

// Get returns a live session.
func (s *Store) Get(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return sess, nil
}

// StageImpact records a pending options-change impact together with the
// selection that produced it. Staging over an existing pending impact
// replaces it: the user re-edited options before confirming.
func (s *Store) StageImpact(id string, impact variant.OptionsChangeImpact, newSel catalog.Selection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return ErrNotFound
	}
	sess.Pending = &impact
	sess.PendingSel = newSel
	sess.UpdatedAt = time.Now()
	return nil
}

// UpdateVariants replaces the session's variant list. Blocked while an
// impact is pending.
func (s *Store) UpdateVariants(id string, variants []variant.Variant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return ErrNotFound
	}
	if sess.Pending != nil {
		return ErrPendingImpact
	}
	sess.Variants = variants
	sess.UpdatedAt = time.Now()
	return nil
}

// Resolve applies a merge policy to the pending impact exactly once,
// adopting the staged selection and clearing the pending state.
func (s *Store) Resolve(id string, policy variant.MergePolicy, cat *catalog.Catalog) ([]variant.Variant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	if sess.Pending == nil {
		return nil, ErrNoPendingImpact
	}

	next := s.merger.Apply(policy, sess.Variants, *sess.Pending, cat, sess.PendingSel)
	sess.Variants = next
	sess.Selection = sess.PendingSel
	if cat != nil {
		sess.AttrNames = attrNames(cat, sess.PendingSel)
	}
	sess.Pending = nil
	sess.PendingSel = nil
	sess.UpdatedAt = time.Now()

	s.logger.Info().
		Str("session_id", id).
		Str("policy", string(policy)).
		Int("variants", len(next)).
		Msg("Options change resolved")
	return next, nil
}

// SetEvictFunc registers a hook called with each session id removed by the
// sweeper, so per-session resources held elsewhere get released too.
func (s *Store) SetEvictFunc(fn func(sessionID string)) {
	s.mu.Lock()
	s.evict = fn
	s.mu.Unlock()
}

// SweepExpired removes sessions idle past the TTL, returning the count.
func (s *Store) SweepExpired() int {
	cutoff := time.Now().Add(-s.ttl)
	s.mu.Lock()
	var removed []string
	for id, sess := range s.sessions {
		if sess.UpdatedAt.Before(cutoff) {
			delete(s.sessions, id)
			removed = append(removed, id)
		}
	}
	evict := s.evict
	s.mu.Unlock()

	if evict != nil {
		for _, id := range removed {
			evict(id)
		}
	}
	return len(removed)
}

func attrNames(cat *catalog.Catalog, sel catalog.Selection) []string {
	attrs := cat.SelectedAttributes(sel)
	names := make([]string, len(attrs))
	for i, a := range attrs {
		names[i] = a.Name
	}
	return names
}
