package history

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStores(t *testing.T) {
	open := map[string]func(t *testing.T) Store{
		BackendMemory: func(t *testing.T) Store {
			return NewMemoryStore()
		},
		BackendFile: func(t *testing.T) Store {
			s, err := NewFileStore(t.TempDir())
			require.NoError(t, err)
			return s
		},
		BackendSQLite: func(t *testing.T) Store {
			s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "history.db"))
			require.NoError(t, err)
			return s
		},
	}

	for name, newStore := range open {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := newStore(t)
			t.Cleanup(func() { _ = s.Close() })

			_, err := s.Load(ctx, "missing")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Save(ctx, DefaultKey+":abc", []byte(`[1]`)))
			require.NoError(t, s.Save(ctx, DefaultKey+":abc", []byte(`[2]`)))

			got, err := s.Load(ctx, DefaultKey+":abc")
			require.NoError(t, err)
			assert.Equal(t, `[2]`, string(got))

			require.NoError(t, s.Delete(ctx, DefaultKey+":abc"))
			_, err = s.Load(ctx, DefaultKey+":abc")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Delete(ctx, "never-saved"))
		})
	}
}

func TestSQLiteStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "history.db")

	s, err := NewSQLiteStore(path)
	require.NoError(t, err)

	l, err := Open(ctx, s, DefaultKey, nil)
	require.NoError(t, err)
	require.NoError(t, l.Record(ctx, Entry{Expression: "2+2", Result: "4"}))
	require.NoError(t, s.Close())

	s, err = NewSQLiteStore(path)
	require.NoError(t, err)
	defer s.Close()

	l, err = Open(ctx, s, DefaultKey, nil)
	require.NoError(t, err)
	assert.Equal(t, []Entry{{Expression: "2+2", Result: "4"}}, l.Entries())
}

func TestOpenStoreRejectsUnknownBackend(t *testing.T) {
	_, err := OpenStore("redis", "")
	assert.ErrorIs(t, err, ErrUnknownBackend)

	s, err := OpenStore(BackendMemory, "")
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)
}
