// Package sloghooks bridges vercache hook events to a slog.Logger.
package sloghooks

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/vercache"
)

type Options struct {
	// Sampling to avoid floods under concurrent fallback storms; 0/1 = log
	// all.
	IncrFallbackEvery uint64
	// Optional key redactor. Defaults to a SHA-256 prefix so raw cache keys
	// never land in logs.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	fallbackCtr atomic.Uint64
}

var _ vercache.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	sum := sha256.Sum256([]byte(k))
	return hex.EncodeToString(sum[:8])
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) IncrFallback(storageKey string) {
	if h.l == nil || !sample(h.opts.IncrFallbackEvery, &h.fallbackCtr) {
		return
	}
	h.l.Warn("incr fell back to read-modify-write",
		slog.String("key", h.redact(storageKey)))
}

func (h *Hooks) VersionMigrated(key string, from, to int) {
	if h.l == nil {
		return
	}
	h.l.Debug("key moved to new version",
		slog.String("key", h.redact(key)),
		slog.Int("from", from),
		slog.Int("to", to))
}

func (h *Hooks) DecodeError(storageKey string, err error) {
	if h.l == nil {
		return
	}
	h.l.Error("stored value failed to decode",
		slog.String("key", h.redact(storageKey)),
		slog.Any("err", err))
}
