// Package history keeps the bounded, persisted list of past calculations.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// DefaultKey identifies the calculator ledger in a Store.
const DefaultKey = "learnmint-calculator-history"

// MaxEntries is the number of calculations a ledger retains.
const MaxEntries = 5

var ErrIndexOutOfRange = errors.New("history index out of range")

// Entry is one past calculation.
type Entry struct {
	Expression string `json:"expression"`
	Result     string `json:"result"`
}

// Ledger is an ordered, most-recent-first list of at most MaxEntries
// entries. Every mutation writes the full list back to the store.
// A Ledger is not safe for concurrent use.
type Ledger struct {
	store   Store
	key     string
	logger  *zap.Logger
	entries []Entry
}

// Open reads the ledger stored under key. A missing key yields an empty
// ledger; stored data that cannot be decoded is discarded with a warning.
// Only store read failures are returned.
func Open(ctx context.Context, store Store, key string, logger *zap.Logger) (*Ledger, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	l := &Ledger{
		store:  store,
		key:    key,
		logger: logger.With(zap.String("history_key", key)),
	}

	data, err := store.Load(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return l, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	l.entries = decode(data, l.logger)
	return l, nil
}

func decode(data []byte, logger *zap.Logger) []Entry {
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		logger.Warn("discarding corrupt history", zap.Error(err), zap.Int("bytes", len(data)))
		return nil
	}

	if len(entries) > MaxEntries {
		logger.Warn("truncating oversized history", zap.Int("entries", len(entries)))
		entries = entries[:MaxEntries]
	}

	return entries
}

// Key returns the store key the ledger persists under.
func (l *Ledger) Key() string {
	return l.key
}

// Entries returns a copy of the entries, most recent first.
func (l *Ledger) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *Ledger) Len() int {
	return len(l.entries)
}

// Get returns the entry at index i.
func (l *Ledger) Get(i int) (Entry, error) {
	if i < 0 || i >= len(l.entries) {
		return Entry{}, fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	}
	return l.entries[i], nil
}

// Record prepends e, evicting the oldest entry beyond MaxEntries.
func (l *Ledger) Record(ctx context.Context, e Entry) error {
	entries := make([]Entry, 0, MaxEntries)
	entries = append(entries, e)
	entries = append(entries, l.entries...)
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}

	l.entries = entries
	return l.persist(ctx)
}

// Delete removes the entry at index i, keeping the order of the rest.
func (l *Ledger) Delete(ctx context.Context, i int) error {
	if i < 0 || i >= len(l.entries) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	}

	entries := make([]Entry, 0, len(l.entries)-1)
	entries = append(entries, l.entries[:i]...)
	entries = append(entries, l.entries[i+1:]...)

	l.entries = entries
	return l.persist(ctx)
}

// Clear empties the ledger.
func (l *Ledger) Clear(ctx context.Context) error {
	l.entries = nil
	return l.persist(ctx)
}

func (l *Ledger) persist(ctx context.Context) error {
	entries := l.entries
	if entries == nil {
		entries = []Entry{}
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}

	if err := l.store.Save(ctx, l.key, data); err != nil {
		l.logger.Error("failed to persist history", zap.Error(err))
		return err
	}

	return nil
}
