package gs1

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/storekart/variant-service/internal/rejection"
)

// Lookuper is the subset of Client the watcher needs; satisfied by *Client.
type Lookuper interface {
	LookupByEAN(ctx context.Context, ean string) (Result, error)
}

// Update is delivered to the observer whenever the watched EAN's lookup
// state changes. Item is set only when the status is valid.
type Update struct {
	EAN    string
	Status rejection.Gs1Status
	Item   Item
}

// Watcher debounces EAN edits and runs at most one in-flight lookup.
// Semantics are last-write-wins: a new Submit cancels the pending timer and
// supersedes any in-flight lookup, and a stale response arriving after
// supersession is discarded without reaching the observer.
type Watcher struct {
	client   Lookuper
	debounce time.Duration
	observer func(Update)

	mu     sync.Mutex
	seq    uint64
	timer  *time.Timer
	cancel context.CancelFunc
	closed bool

	updates chan Update
	drained chan struct{}

	logger zerolog.Logger
}

// NewWatcher creates a watcher delivering updates to observer. Updates are
// delivered in order from a single dispatch goroutine, so a pending update
// never arrives after the resolution that follows it. The observer must not
// block for long; it stalls delivery, not correctness.
func NewWatcher(client Lookuper, debounce time.Duration, observer func(Update)) *Watcher {
	if debounce <= 0 {
		debounce = 400 * time.Millisecond
	}
	w := &Watcher{
		client:   client,
		debounce: debounce,
		observer: observer,
		updates:  make(chan Update, 16),
		drained:  make(chan struct{}),
		logger:   log.With().Str("component", "gs1_watcher").Logger(),
	}
	go w.dispatch()
	return w
}

func (w *Watcher) dispatch() {
	for upd := range w.updates {
		if w.observer != nil {
			w.observer(upd)
		}
	}
	close(w.drained)
}

// Submit registers the latest EAN keystroke. Format-invalid input resolves
// immediately (no lookup is issued); valid input emits a pending update and
// schedules the lookup after the debounce window.
func (w *Watcher) Submit(ean string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}

	w.seq++
	seq := w.seq

	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}

	normalized, err := rejection.NormalizeEAN(ean)

	if strings.TrimSpace(ean) == "" {
		w.emit(seq, Update{EAN: "", Status: rejection.Gs1NotChecked})
		return
	}
	if err != nil {
		w.emit(seq, Update{EAN: strings.TrimSpace(ean), Status: rejection.Gs1Invalid})
		return
	}

	w.emit(seq, Update{EAN: normalized, Status: rejection.Gs1Pending})

	w.timer = time.AfterFunc(w.debounce, func() {
		w.lookup(seq, normalized)
	})
}

// lookup runs the registry call for a debounced EAN. The sequence number was
// captured at Submit time; if another Submit happened since, the result is
// stale and dropped.
func (w *Watcher) lookup(seq uint64, ean string) {
	w.mu.Lock()
	if seq != w.seq || w.closed {
		w.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	w.mu.Unlock()

	res, err := w.client.LookupByEAN(ctx, ean)
	status := Status(res, err)
	if err != nil && ctx.Err() == nil {
		w.logger.Warn().Err(err).Str("ean", ean).Msg("GS1 lookup failed, resolving invalid")
	}

	upd := Update{EAN: ean, Status: status}
	if item, ok := res.FirstItem(); ok {
		upd.Item = item
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.emit(seq, upd)
}

// emit queues an update for the dispatcher unless it has been superseded.
// Callers hold w.mu, which also serializes sends against Close.
func (w *Watcher) emit(seq uint64, upd Update) {
	if seq != w.seq || w.closed || w.observer == nil {
		return
	}
	w.updates <- upd
}

// Close cancels any pending or in-flight lookup and waits for already-queued
// updates to finish delivering.
func (w *Watcher) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	w.seq++
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
	close(w.updates)
	w.mu.Unlock()

	<-w.drained
}
