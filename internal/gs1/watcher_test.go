package gs1

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storekart/variant-service/internal/rejection"
)

type fakeLookuper struct {
	mu      sync.Mutex
	calls   []string
	delay   time.Duration
	results map[string]Result
	err     error
}

func (f *fakeLookuper) LookupByEAN(ctx context.Context, ean string) (Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, ean)
	res := f.results[ean]
	delay := f.delay
	err := f.err
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return Result{}, ctx.Err()
		}
	}
	return res, err
}

func (f *fakeLookuper) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func collectUpdates() (func(Update), chan Update) {
	ch := make(chan Update, 16)
	return func(u Update) { ch <- u }, ch
}

func waitUpdate(t *testing.T, ch chan Update) Update {
	t.Helper()
	select {
	case u := <-ch:
		return u
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for update")
		return Update{}
	}
}

func TestWatcherResolvesValidEAN(t *testing.T) {
	fake := &fakeLookuper{results: map[string]Result{
		"1234567890123": {Status: true, Items: []Item{{Name: "Basmati Rice"}}},
	}}
	observer, ch := collectUpdates()
	w := NewWatcher(fake, 10*time.Millisecond, observer)
	defer w.Close()

	w.Submit("1234567890123")

	upd := waitUpdate(t, ch)
	assert.Equal(t, rejection.Gs1Pending, upd.Status)

	upd = waitUpdate(t, ch)
	assert.Equal(t, rejection.Gs1Valid, upd.Status)
	assert.Equal(t, "Basmati Rice", upd.Item.Name)
	assert.Equal(t, 1, fake.callCount())
}

func TestWatcherResolvesUnknownEANInvalid(t *testing.T) {
	fake := &fakeLookuper{results: map[string]Result{}}
	observer, ch := collectUpdates()
	w := NewWatcher(fake, 10*time.Millisecond, observer)
	defer w.Close()

	w.Submit("1234567890123")

	assert.Equal(t, rejection.Gs1Pending, waitUpdate(t, ch).Status)
	assert.Equal(t, rejection.Gs1Invalid, waitUpdate(t, ch).Status)
}

func TestWatcherFormatErrorSkipsLookup(t *testing.T) {
	fake := &fakeLookuper{}
	observer, ch := collectUpdates()
	w := NewWatcher(fake, 10*time.Millisecond, observer)
	defer w.Close()

	w.Submit("12345")

	upd := waitUpdate(t, ch)
	assert.Equal(t, rejection.Gs1Invalid, upd.Status)

	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, fake.callCount())
}

func TestWatcherEmptyInputResets(t *testing.T) {
	fake := &fakeLookuper{}
	observer, ch := collectUpdates()
	w := NewWatcher(fake, 10*time.Millisecond, observer)
	defer w.Close()

	w.Submit("   ")

	upd := waitUpdate(t, ch)
	assert.Equal(t, rejection.Gs1NotChecked, upd.Status)
	assert.Empty(t, upd.EAN)
}

func TestWatcherDebouncesRapidEdits(t *testing.T) {
	fake := &fakeLookuper{results: map[string]Result{
		"1234567890123": {Status: true, Items: []Item{{Name: "Final"}}},
	}}
	observer, ch := collectUpdates()
	w := NewWatcher(fake, 50*time.Millisecond, observer)
	defer w.Close()

	// Each keystroke lands inside the previous debounce window; only the
	// last one may reach the registry.
	w.Submit("1111111111111")
	time.Sleep(10 * time.Millisecond)
	w.Submit("2222222222222")
	time.Sleep(10 * time.Millisecond)
	w.Submit("1234567890123")

	var resolved []Update
	deadline := time.After(2 * time.Second)
	for len(resolved) == 0 {
		select {
		case u := <-ch:
			if u.Status != rejection.Gs1Pending {
				resolved = append(resolved, u)
			}
		case <-deadline:
			t.Fatal("timed out waiting for resolution")
		}
	}

	require.Len(t, resolved, 1)
	assert.Equal(t, "1234567890123", resolved[0].EAN)
	assert.Equal(t, rejection.Gs1Valid, resolved[0].Status)
	assert.Equal(t, 1, fake.callCount())

	fake.mu.Lock()
	assert.Equal(t, []string{"1234567890123"}, fake.calls)
	fake.mu.Unlock()
}

func TestWatcherSupersedesInFlightLookup(t *testing.T) {
	fake := &fakeLookuper{
		delay: 100 * time.Millisecond,
		results: map[string]Result{
			"1111111111111": {Status: true, Items: []Item{{Name: "Stale"}}},
			"2222222222222": {Status: true, Items: []Item{{Name: "Fresh"}}},
		},
	}
	observer, ch := collectUpdates()
	w := NewWatcher(fake, 5*time.Millisecond, observer)
	defer w.Close()

	w.Submit("1111111111111")
	// Let the first lookup start, then supersede it mid-flight.
	time.Sleep(30 * time.Millisecond)
	w.Submit("2222222222222")

	var final Update
	deadline := time.After(2 * time.Second)
	for final.Status == "" || final.Status == rejection.Gs1Pending {
		select {
		case u := <-ch:
			if u.Status != rejection.Gs1Pending {
				final = u
			}
		case <-deadline:
			t.Fatal("timed out waiting for resolution")
		}
	}

	assert.Equal(t, "2222222222222", final.EAN)
	assert.Equal(t, "Fresh", final.Item.Name)

	// No stale update may arrive afterwards.
	select {
	case u := <-ch:
		t.Fatalf("unexpected extra update: %+v", u)
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatcherDeliversUpdatesInOrder(t *testing.T) {
	fake := &fakeLookuper{results: map[string]Result{
		"1234567890123": {Status: true, Items: []Item{{Name: "Ordered"}}},
	}}
	observer, ch := collectUpdates()
	w := NewWatcher(fake, 5*time.Millisecond, observer)
	defer w.Close()

	// The pending update must never be observed after the resolution that
	// supersedes it, no matter how the scheduler interleaves.
	for i := 0; i < 25; i++ {
		w.Submit("1234567890123")
		require.Equal(t, rejection.Gs1Pending, waitUpdate(t, ch).Status, "iteration %d", i)
		require.Equal(t, rejection.Gs1Valid, waitUpdate(t, ch).Status, "iteration %d", i)
	}
}

func TestWatcherCloseDropsPending(t *testing.T) {
	fake := &fakeLookuper{results: map[string]Result{
		"1234567890123": {Status: true},
	}}
	observer, ch := collectUpdates()
	w := NewWatcher(fake, 30*time.Millisecond, observer)

	w.Submit("1234567890123")
	assert.Equal(t, rejection.Gs1Pending, waitUpdate(t, ch).Status)
	w.Close()

	select {
	case u := <-ch:
		t.Fatalf("update after close: %+v", u)
	case <-time.After(100 * time.Millisecond):
	}
	assert.Zero(t, fake.callCount())
}
