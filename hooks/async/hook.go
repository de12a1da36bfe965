// Package asynchook decouples hook sinks from the cache hot path.
//
// usage:
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{
//	    IncrFallbackEvery: 10, // sample: log ~every 10th fallback
//	})
//
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	cache, _ := vercache.New(vercache.Options{
//	    Server:    "localhost:6379",
//	    Namespace: "app:prod:user",
//	    Hooks:     hooks, // or `raw` if you don't want async
//	})
package asynchook

import (
	"sync"

	"github.com/unkn0wn-root/vercache"
)

// Hooks forwards events to an inner Hooks implementation from a bounded
// worker queue. Events are dropped when the queue is full - hooks are
// observability, never backpressure.
type Hooks struct {
	inner vercache.Hooks
	q     chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

var _ vercache.Hooks = (*Hooks)(nil)

func New(inner vercache.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

// Close stops the workers after the queued events drain. Safe to call more
// than once.
func (h *Hooks) Close() {
	h.once.Do(func() { close(h.q) })
	h.wg.Wait()
}

func (h *Hooks) enqueue(f func()) {
	select {
	case h.q <- f:
	default: // queue full; drop
	}
}

func (h *Hooks) IncrFallback(storageKey string) {
	h.enqueue(func() { h.inner.IncrFallback(storageKey) })
}

func (h *Hooks) VersionMigrated(key string, from, to int) {
	h.enqueue(func() { h.inner.VersionMigrated(key, from, to) })
}

func (h *Hooks) DecodeError(storageKey string, err error) {
	h.enqueue(func() { h.inner.DecodeError(storageKey, err) })
}
