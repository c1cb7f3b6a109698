package archive

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bridgegad/bridgegad/pkg/layout"
	"github.com/bridgegad/bridgegad/pkg/params"
)

func newRecord(t *testing.T, project string, at time.Time) *Record {
	t.Helper()
	set := params.Defaults()
	doc, err := layout.Generate(set, layout.Options{Project: project, Time: at})
	require.NoError(t, err)
	rec := NewRecord(doc, set, "hash-"+project, []string{"dxf", "pdf"})
	rec.CreatedAt = at.UTC().Truncate(time.Millisecond)
	return rec
}

func stores(t *testing.T) map[string]Store {
	t.Helper()
	mem, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	file, err := OpenSQLite(filepath.Join(t.TempDir(), "nested", "history.db"))
	require.NoError(t, err)
	all := map[string]Store{
		"sqlite-memory": mem,
		"sqlite-file":   file,
		"memory":        NewMemoryStore(),
	}
	t.Cleanup(func() {
		for _, s := range all {
			s.Close()
		}
	})
	return all
}

func TestStoreSaveGet(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			want := newRecord(t, "Ring Road", time.Date(2026, 5, 4, 10, 30, 0, 123456789, time.UTC))
			require.NoError(t, s.Save(ctx, want))

			got, err := s.Get(ctx, want.ID)
			require.NoError(t, err)
			assert.Equal(t, want.ID, got.ID)
			assert.Equal(t, want.DocumentID, got.DocumentID)
			assert.Equal(t, "Ring Road", got.Project)
			assert.Equal(t, 3, got.Spans)
			assert.Equal(t, want.Length, got.Length)
			assert.Equal(t, []string{"dxf", "pdf"}, got.Formats)
			assert.Equal(t, want.Params, got.Params)
			assert.True(t, want.CreatedAt.Equal(got.CreatedAt), "created_at %v != %v", got.CreatedAt, want.CreatedAt)

			assert.Error(t, s.Save(ctx, want), "duplicate id must fail")
		})
	}
}

func TestStoreGetMissing(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(ctx, "does-not-exist")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStoreListNewestFirst(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			for i, p := range []string{"first", "second", "third"} {
				require.NoError(t, s.Save(ctx, newRecord(t, p, base.Add(time.Duration(i)*time.Hour))))
			}

			all, err := s.List(ctx, 0)
			require.NoError(t, err)
			require.Len(t, all, 3)
			assert.Equal(t, "third", all[0].Project)
			assert.Equal(t, "first", all[2].Project)

			two, err := s.List(ctx, 2)
			require.NoError(t, err)
			assert.Len(t, two, 2)
		})
	}
}

func TestStoreDelete(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			rec := newRecord(t, "gone", time.Now())
			require.NoError(t, s.Save(ctx, rec))
			require.NoError(t, s.Delete(ctx, rec.ID))

			_, err := s.Get(ctx, rec.ID)
			assert.ErrorIs(t, err, ErrNotFound)
			assert.NoError(t, s.Delete(ctx, rec.ID))
		})
	}
}

func TestNewRecord(t *testing.T) {
	set := params.Defaults()
	doc, err := layout.Generate(set, layout.Options{Title: "GAD"})
	require.NoError(t, err)

	a := NewRecord(doc, set, "h", []string{"svg"})
	b := NewRecord(doc, set, "h", []string{"svg"})
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, doc.ID, a.DocumentID)
	assert.Equal(t, "GAD", a.Title)
	assert.Equal(t, float64(3), a.Params["NSPAN"])
	assert.Equal(t, a.CreatedAt, a.CreatedAt.Truncate(time.Millisecond))
}

func TestOpenMongoBadURI(t *testing.T) {
	_, err := OpenMongo(context.Background(), MongoConfig{URI: "not-a-mongo-uri"})
	assert.Error(t, err)
}
