// Package cache holds the two-tier month cache: an in-process map that is
// authoritative for reads, written through to a durable key-value store that
// is only consulted to rehydrate a cold process.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/ledger-sync/internal/kvstore"
	"github.com/carson-networks/ledger-sync/internal/ledger"
	"github.com/carson-networks/ledger-sync/internal/timeboundary"
)

const (
	KeyPrefix         = "monthly:"
	DefaultStaleAfter = 5 * time.Minute
)

// CacheIOError is a durable-store failure. It is logged and treated as a
// miss, never returned to callers.
type CacheIOError struct {
	Op  string
	Key string
	Err error
}

func (e *CacheIOError) Error() string {
	return fmt.Sprintf("cache %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *CacheIOError) Unwrap() error {
	return e.Err
}

// Entry is one cached month.
type Entry struct {
	Data      []ledger.Entry `json:"data"`
	FetchedAt time.Time      `json:"fetchedAt"`
}

// Key returns the durable key of month.
func Key(month timeboundary.MonthKey) string {
	return KeyPrefix + string(month)
}

type Option func(*MonthlyCache)

func WithClock(now func() time.Time) Option {
	return func(c *MonthlyCache) { c.now = now }
}

func WithStaleAfter(d time.Duration) Option {
	return func(c *MonthlyCache) { c.staleAfter = d }
}

type MonthlyCache struct {
	mu         sync.RWMutex
	memory     map[timeboundary.MonthKey]Entry
	durable    kvstore.Store
	log        *logrus.Logger
	now        func() time.Time
	staleAfter time.Duration
}

func New(durable kvstore.Store, log *logrus.Logger, opts ...Option) *MonthlyCache {
	c := &MonthlyCache{
		memory:     make(map[timeboundary.MonthKey]Entry),
		durable:    durable,
		log:        log,
		now:        time.Now,
		staleAfter: DefaultStaleAfter,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns a copy of the cached page for month. Memory is checked first;
// on a miss the durable store is read and, when found, memory is populated.
func (c *MonthlyCache) Get(ctx context.Context, month timeboundary.MonthKey) ([]ledger.Entry, bool) {
	entry, ok := c.lookup(ctx, month)
	if !ok {
		return nil, false
	}
	return ledger.Clone(entry.Data), true
}

// FetchedAt reports when month was last written.
func (c *MonthlyCache) FetchedAt(ctx context.Context, month timeboundary.MonthKey) (time.Time, bool) {
	entry, ok := c.lookup(ctx, month)
	return entry.FetchedAt, ok
}

// Set stores data for month stamped with the current time. The memory write
// is visible before the durable write starts.
func (c *MonthlyCache) Set(ctx context.Context, month timeboundary.MonthKey, data []ledger.Entry) {
	entry := Entry{Data: ledger.Clone(data), FetchedAt: c.now()}
	if entry.Data == nil {
		entry.Data = []ledger.Entry{}
	}

	c.mu.Lock()
	c.memory[month] = entry
	c.mu.Unlock()

	payload, err := json.Marshal(entry)
	if err != nil {
		c.logIOError(&CacheIOError{Op: "encode", Key: Key(month), Err: err})
		return
	}
	if err := c.durable.Set(ctx, Key(month), payload); err != nil {
		c.logIOError(&CacheIOError{Op: "write", Key: Key(month), Err: err})
	}
}

// IsStale uses the configured stale window.
func (c *MonthlyCache) IsStale(ctx context.Context, month timeboundary.MonthKey) bool {
	return c.IsStaleAfter(ctx, month, c.staleAfter)
}

// IsStaleAfter is true when month has no entry or was fetched more than
// staleAfter ago.
func (c *MonthlyCache) IsStaleAfter(ctx context.Context, month timeboundary.MonthKey, staleAfter time.Duration) bool {
	entry, ok := c.lookup(ctx, month)
	if !ok {
		return true
	}
	return c.now().Sub(entry.FetchedAt) > staleAfter
}

// ClearAll removes every durable key under the cache namespace and returns
// how many were removed. The memory tier is left untouched; use ResetMemory
// as well for a full invalidation.
func (c *MonthlyCache) ClearAll(ctx context.Context) int {
	keys, err := c.durable.ListKeys(ctx, KeyPrefix)
	if err != nil {
		c.logIOError(&CacheIOError{Op: "list", Key: KeyPrefix, Err: err})
		return 0
	}

	removed := 0
	for _, key := range keys {
		if err := c.durable.Delete(ctx, key); err != nil {
			c.logIOError(&CacheIOError{Op: "delete", Key: key, Err: err})
			continue
		}
		removed++
	}
	return removed
}

// ClearMonth drops month from both tiers.
func (c *MonthlyCache) ClearMonth(ctx context.Context, month timeboundary.MonthKey) {
	c.mu.Lock()
	delete(c.memory, month)
	c.mu.Unlock()

	if err := c.durable.Delete(ctx, Key(month)); err != nil {
		c.logIOError(&CacheIOError{Op: "delete", Key: Key(month), Err: err})
	}
}

// ResetMemory empties the in-process tier.
func (c *MonthlyCache) ResetMemory() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.memory = make(map[timeboundary.MonthKey]Entry)
}

// Months lists the months held durably, oldest first.
func (c *MonthlyCache) Months(ctx context.Context) []timeboundary.MonthKey {
	keys, err := c.durable.ListKeys(ctx, KeyPrefix)
	if err != nil {
		c.logIOError(&CacheIOError{Op: "list", Key: KeyPrefix, Err: err})
		return nil
	}

	months := make([]timeboundary.MonthKey, 0, len(keys))
	for _, key := range keys {
		month, err := timeboundary.ParseMonthKey(strings.TrimPrefix(key, KeyPrefix))
		if err != nil {
			continue
		}
		months = append(months, month)
	}
	return months
}

func (c *MonthlyCache) lookup(ctx context.Context, month timeboundary.MonthKey) (Entry, bool) {
	c.mu.RLock()
	entry, ok := c.memory[month]
	c.mu.RUnlock()
	if ok {
		return entry, true
	}

	payload, found, err := c.durable.Get(ctx, Key(month))
	if err != nil {
		c.logIOError(&CacheIOError{Op: "read", Key: Key(month), Err: err})
		return Entry{}, false
	}
	if !found {
		return Entry{}, false
	}

	if err := json.Unmarshal(payload, &entry); err != nil {
		c.logIOError(&CacheIOError{Op: "decode", Key: Key(month), Err: err})
		return Entry{}, false
	}

	c.mu.Lock()
	// A Set that landed while we were reading wins.
	if current, ok := c.memory[month]; ok {
		entry = current
	} else {
		c.memory[month] = entry
	}
	c.mu.Unlock()
	return entry, true
}

func (c *MonthlyCache) logIOError(err *CacheIOError) {
	c.log.WithError(err).WithFields(logrus.Fields{
		"op":  err.Op,
		"key": err.Key,
	}).Warn("MonthlyCache.IOError")
}
