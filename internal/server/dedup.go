package server

import (
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// Deduper swallows repeated form submissions. Front-ends attach a
// request id to writes that users tend to double-click; a second
// submission with the same id inside the TTL window is acknowledged
// without touching the database.
type Deduper struct {
	cache *ttlcache.Cache[string, struct{}]
}

// NewDeduper creates a Deduper with the given window.
func NewDeduper(ttl time.Duration) *Deduper {
	cache := ttlcache.New(
		ttlcache.WithTTL[string, struct{}](ttl),
	)
	go cache.Start()
	return &Deduper{cache: cache}
}

// Seen reports whether id was submitted within the window, marking it
// as seen either way. An empty id is never a duplicate.
func (d *Deduper) Seen(id string) bool {
	if id == "" {
		return false
	}
	if d.cache.Has(id) {
		return true
	}
	d.cache.Set(id, struct{}{}, ttlcache.DefaultTTL)
	return false
}

// Stop halts the cache's expiry loop.
func (d *Deduper) Stop() {
	d.cache.Stop()
}
