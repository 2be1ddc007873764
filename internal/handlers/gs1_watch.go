package handlers

import (
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/storekart/variant-service/internal/gs1"
	"github.com/storekart/variant-service/internal/rejection"
	"github.com/storekart/variant-service/internal/session"
)

// WatchEANRequest submits the latest EAN keystroke for a session. An empty
// EAN clears the watch back to not-checked.
type WatchEANRequest struct {
	EAN string `json:"ean"`
}

// sessionWatch pairs a session's debounced watcher with the latest update
// it delivered.
type sessionWatch struct {
	watcher *gs1.Watcher

	mu   sync.Mutex
	last gs1.Update
}

func (sw *sessionWatch) observe(upd gs1.Update) {
	sw.mu.Lock()
	sw.last = upd
	sw.mu.Unlock()
}

func (sw *sessionWatch) latest() gs1.Update {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	return sw.last
}

// watchRegistry holds one debounced EAN watcher per edit session so rapid
// keystrokes coalesce into a single registry lookup server-side.
type watchRegistry struct {
	mu      sync.Mutex
	watches map[string]*sessionWatch
}

var eanWatches = &watchRegistry{watches: make(map[string]*sessionWatch)}

func (r *watchRegistry) get(sessionID string) *sessionWatch {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sw, ok := r.watches[sessionID]; ok {
		return sw
	}
	sw := &sessionWatch{}
	sw.watcher = gs1.NewWatcher(gs1Lookup, gs1Debounce, sw.observe)
	r.watches[sessionID] = sw
	return sw
}

func (r *watchRegistry) lookup(sessionID string) (*sessionWatch, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sw, ok := r.watches[sessionID]
	return sw, ok
}

func (r *watchRegistry) drop(sessionID string) {
	r.mu.Lock()
	sw, ok := r.watches[sessionID]
	delete(r.watches, sessionID)
	r.mu.Unlock()
	if ok {
		sw.watcher.Close()
	}
}

// DropEANWatch closes and removes a session's EAN watcher. Wired as the
// session store's evict hook so swept sessions don't leak watchers.
func DropEANWatch(sessionID string) {
	eanWatches.drop(sessionID)
}

// WatchSessionEAN registers the latest EAN keystroke for a session. Edits
// are debounced and last-write-wins; poll the GET endpoint for resolution.
// PUT /internal/sessions/:sessionId/ean
func WatchSessionEAN(c *gin.Context) {
	var req WatchEANRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"body": err.Error()}})
		return
	}
	if gs1Lookup == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "gs1 lookup not configured"})
		return
	}

	sessionID := c.Param("sessionId")
	if _, err := sessionStore.Get(sessionID); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			eanWatches.drop(sessionID)
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	eanWatches.get(sessionID).watcher.Submit(req.EAN)
	c.JSON(http.StatusAccepted, gin.H{"ean": req.EAN})
}

// GetSessionEANStatus returns the latest resolved lookup state for a
// session's watched EAN
// GET /internal/sessions/:sessionId/ean
func GetSessionEANStatus(c *gin.Context) {
	sessionID := c.Param("sessionId")
	if _, err := sessionStore.Get(sessionID); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			eanWatches.drop(sessionID)
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	sw, ok := eanWatches.lookup(sessionID)
	if !ok {
		c.JSON(http.StatusOK, Gs1LookupResponse{Status: rejection.Gs1NotChecked})
		return
	}

	upd := sw.latest()
	resp := Gs1LookupResponse{EAN: upd.EAN, Status: upd.Status}
	if upd.Status == "" {
		resp.Status = rejection.Gs1NotChecked
	}
	if upd.Status == rejection.Gs1Valid {
		resp.Prefill = prefillFromItem(upd.Item)
	}
	c.JSON(http.StatusOK, resp)
}
