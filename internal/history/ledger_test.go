package history

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func entry(i int) Entry {
	return Entry{Expression: fmt.Sprintf("%d+0", i), Result: fmt.Sprint(i)}
}

func TestLedgerKeepsFiveMostRecent(t *testing.T) {
	ctx := context.Background()
	l, err := Open(ctx, NewMemoryStore(), DefaultKey, nil)
	require.NoError(t, err)

	for i := 1; i <= 8; i++ {
		require.NoError(t, l.Record(ctx, entry(i)))
	}

	assert.Equal(t, []Entry{entry(8), entry(7), entry(6), entry(5), entry(4)}, l.Entries())
}

func TestLedgerPersistsEveryMutation(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	l, err := Open(ctx, store, DefaultKey, nil)
	require.NoError(t, err)
	require.NoError(t, l.Record(ctx, entry(1)))
	require.NoError(t, l.Record(ctx, entry(2)))

	reopened, err := Open(ctx, store, DefaultKey, nil)
	require.NoError(t, err)
	assert.Equal(t, []Entry{entry(2), entry(1)}, reopened.Entries())

	require.NoError(t, l.Delete(ctx, 0))
	reopened, err = Open(ctx, store, DefaultKey, nil)
	require.NoError(t, err)
	assert.Equal(t, []Entry{entry(1)}, reopened.Entries())

	require.NoError(t, l.Clear(ctx))
	data, err := store.Load(ctx, DefaultKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}

func TestLedgerDeleteKeepsOrder(t *testing.T) {
	ctx := context.Background()
	l, err := Open(ctx, NewMemoryStore(), DefaultKey, nil)
	require.NoError(t, err)

	for i := 1; i <= 4; i++ {
		require.NoError(t, l.Record(ctx, entry(i)))
	}

	require.NoError(t, l.Delete(ctx, 1))
	assert.Equal(t, []Entry{entry(4), entry(2), entry(1)}, l.Entries())

	err = l.Delete(ctx, 3)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	err = l.Delete(ctx, -1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	assert.Equal(t, 3, l.Len())
}

func TestLedgerGet(t *testing.T) {
	ctx := context.Background()
	l, err := Open(ctx, NewMemoryStore(), DefaultKey, nil)
	require.NoError(t, err)
	require.NoError(t, l.Record(ctx, entry(1)))

	e, err := l.Get(0)
	require.NoError(t, err)
	assert.Equal(t, entry(1), e)

	_, err = l.Get(1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestOpenDiscardsCorruptHistory(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Save(ctx, DefaultKey, []byte(`{not json`)))

	core, logs := observer.New(zap.WarnLevel)
	l, err := Open(ctx, store, DefaultKey, zap.New(core))
	require.NoError(t, err)
	assert.Empty(t, l.Entries())

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "discarding corrupt history", logs.All()[0].Message)

	require.NoError(t, l.Record(ctx, entry(1)))
	assert.Equal(t, []Entry{entry(1)}, l.Entries())
}

func TestOpenTruncatesOversizedHistory(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	data := `[{"expression":"a","result":"1"},{"expression":"b","result":"2"},{"expression":"c","result":"3"},
	{"expression":"d","result":"4"},{"expression":"e","result":"5"},{"expression":"f","result":"6"}]`
	require.NoError(t, store.Save(ctx, DefaultKey, []byte(data)))

	l, err := Open(ctx, store, DefaultKey, nil)
	require.NoError(t, err)
	assert.Equal(t, MaxEntries, l.Len())

	first, err := l.Get(0)
	require.NoError(t, err)
	assert.Equal(t, "a", first.Expression)
}

type failingStore struct {
	*MemoryStore
	loadErr error
	saveErr error
}

func (s failingStore) Load(ctx context.Context, key string) ([]byte, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.MemoryStore.Load(ctx, key)
}

func (s failingStore) Save(ctx context.Context, key string, data []byte) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	return s.MemoryStore.Save(ctx, key, data)
}

func TestOpenPropagatesStoreFailure(t *testing.T) {
	boom := errors.New("disk on fire")
	_, err := Open(context.Background(), failingStore{MemoryStore: NewMemoryStore(), loadErr: boom}, DefaultKey, nil)
	assert.ErrorIs(t, err, boom)
}

func TestRecordReturnsSaveFailure(t *testing.T) {
	boom := errors.New("read-only")
	l, err := Open(context.Background(), failingStore{MemoryStore: NewMemoryStore(), saveErr: boom}, DefaultKey, nil)
	require.NoError(t, err)

	err = l.Record(context.Background(), entry(1))
	assert.ErrorIs(t, err, boom)
}
