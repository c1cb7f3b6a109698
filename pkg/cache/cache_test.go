package cache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNullCacheNeverStores(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	t.Cleanup(func() { c.Close() })

	require.NoError(t, c.Set(ctx, "document:r1:abc", []byte("{}"), time.Hour))
	data, ok, err := c.Get(ctx, "document:r1:abc")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, data)
	assert.NoError(t, c.Delete(ctx, "document:r1:abc"))
}

func newTestFileCache(t *testing.T) (*FileCache, *time.Time) {
	t.Helper()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "cache"))
	require.NoError(t, err)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	return c, &now
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestFileCache(t)
	defer c.Close()

	_, hit, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, hit)

	pdf := []byte("%PDF-1.4\n\x00\xff binary")
	require.NoError(t, c.Set(ctx, "artifact:pdf", pdf, TTLArtifact))
	data, hit, err := c.Get(ctx, "artifact:pdf")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, pdf, data)

	// Overwrite in place.
	require.NoError(t, c.Set(ctx, "artifact:pdf", []byte("v2"), 0))
	data, _, _ = c.Get(ctx, "artifact:pdf")
	assert.Equal(t, []byte("v2"), data)

	require.NoError(t, c.Delete(ctx, "artifact:pdf"))
	_, hit, _ = c.Get(ctx, "artifact:pdf")
	assert.False(t, hit)
	assert.NoError(t, c.Delete(ctx, "artifact:pdf"), "deleting twice is not an error")
}

func TestFileCacheLeavesNoTempFiles(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestFileCache(t)
	require.NoError(t, c.Set(ctx, "k", []byte("x"), 0))

	err := filepath.WalkDir(c.Dir(), func(path string, d os.DirEntry, err error) error {
		require.NoError(t, err)
		if !d.IsDir() {
			assert.True(t, strings.HasSuffix(path, entryExt), "stray file %s", path)
		}
		return nil
	})
	require.NoError(t, err)
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, now := newTestFileCache(t)

	require.NoError(t, c.Set(ctx, "short", []byte("x"), time.Minute))
	require.NoError(t, c.Set(ctx, "forever", []byte("y"), 0))

	_, hit, _ := c.Get(ctx, "short")
	assert.True(t, hit)

	*now = now.Add(2 * time.Minute)
	_, hit, err := c.Get(ctx, "short")
	require.NoError(t, err)
	assert.False(t, hit, "expired entry should miss")
	_, statErr := os.Stat(c.path("short"))
	assert.True(t, os.IsNotExist(statErr), "expired entry should be removed on read")

	_, hit, err = c.Get(ctx, "forever")
	require.NoError(t, err)
	assert.True(t, hit, "zero TTL should not expire")
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestFileCache(t)

	tests := map[string][]byte{
		"empty":     {},
		"short":     []byte("GADC1"),
		"bad magic": []byte("{\"data\":\"old json entry\"}"),
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			path := c.path(name)
			require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
			require.NoError(t, os.WriteFile(path, raw, 0o644))

			_, hit, err := c.Get(ctx, name)
			require.NoError(t, err)
			assert.False(t, hit)
			_, statErr := os.Stat(path)
			assert.True(t, os.IsNotExist(statErr), "corrupt entry should be removed")
		})
	}
}

func TestFileCacheUsagePruneClear(t *testing.T) {
	ctx := context.Background()
	c, now := newTestFileCache(t)

	require.NoError(t, c.Set(ctx, "a", []byte("aaaa"), time.Hour))
	require.NoError(t, c.Set(ctx, "b", []byte("bb"), time.Minute))
	require.NoError(t, c.Set(ctx, "c", []byte("c"), 0))
	// Files that are not entries are left alone.
	notes := filepath.Join(c.Dir(), "README.txt")
	require.NoError(t, os.WriteFile(notes, []byte("keep"), 0o644))

	*now = now.Add(10 * time.Minute)

	u, err := c.Usage()
	require.NoError(t, err)
	assert.Equal(t, 3, u.Entries)
	assert.Equal(t, 1, u.Expired)
	assert.Equal(t, int64(3*headerLen+7), u.Bytes)

	n, err := c.Prune()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	_, hit, _ := c.Get(ctx, "a")
	assert.True(t, hit, "prune keeps live entries")

	n, err = c.Clear()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	u, err = c.Usage()
	require.NoError(t, err)
	assert.Zero(t, u.Entries)

	_, err = os.Stat(notes)
	assert.NoError(t, err)
}

func TestFileCacheMissingDir(t *testing.T) {
	c, _ := newTestFileCache(t)
	require.NoError(t, os.RemoveAll(c.Dir()))

	n, err := c.Clear()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestHash(t *testing.T) {
	sum := Hash([]byte("NSPAN=3"))
	assert.Len(t, sum, 64)
	assert.Equal(t, sum, Hash([]byte("NSPAN=3")))
	assert.NotEqual(t, sum, Hash([]byte("NSPAN=4")))
}

func TestHashJSON(t *testing.T) {
	a, err := HashJSON(map[string]float64{"SPAN1": 30, "NSPAN": 3})
	require.NoError(t, err)
	b, err := HashJSON(map[string]float64{"NSPAN": 3, "SPAN1": 30})
	require.NoError(t, err)
	assert.Equal(t, a, b, "map order must not change the hash")

	_, err = HashJSON(func() {})
	assert.Error(t, err)
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()
	at100 := DocumentKeyOpts{Scale: "1:100"}

	doc := k.DocumentKey("p1", at100)
	assert.True(t, strings.HasPrefix(doc, fmt.Sprintf("document:r%d:", layoutRevision)), doc)
	assert.Equal(t, doc, k.DocumentKey("p1", at100))
	assert.NotEqual(t, doc, k.DocumentKey("p2", at100), "parameter hash")
	assert.NotEqual(t, doc, k.DocumentKey("p1", DocumentKeyOpts{Scale: "1:200"}), "scale")

	seen := map[string]ArtifactKeyOpts{}
	for _, o := range []ArtifactKeyOpts{
		{Format: "dxf"},
		{Format: "pdf"},
		{Format: "pdf", Schedule: true},
	} {
		key := k.ArtifactKey("d1", o)
		assert.True(t, strings.HasPrefix(key, "artifact:"), key)
		if prev, dup := seen[key]; dup {
			t.Errorf("%+v and %+v share key %s", prev, o, key)
		}
		seen[key] = o
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	staging := NewScopedKeyer(inner, "staging:")

	svg := ArtifactKeyOpts{Format: "svg"}
	assert.Equal(t, "staging:"+inner.ArtifactKey("d1", svg), staging.ArtifactKey("d1", svg))
	assert.True(t, strings.HasPrefix(staging.DocumentKey("p1", DocumentKeyOpts{}), "staging:document:"))

	bare := NewScopedKeyer(nil, "ci:")
	assert.Equal(t, "ci:"+DefaultKeyer{}.DocumentKey("p1", DocumentKeyOpts{}), bare.DocumentKey("p1", DocumentKeyOpts{}))
}

func TestNewRedisCacheBadURL(t *testing.T) {
	_, err := NewRedisCache(context.Background(), "http://not-redis")
	assert.Error(t, err)
}

var errRefused = &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}

func TestBackoff(t *testing.T) {
	ctx := context.Background()
	b := Backoff{Attempts: 3, Initial: time.Millisecond, Max: 2 * time.Millisecond}
	errAuth := errors.New("WRONGPASS invalid username-password pair")

	tests := []struct {
		name      string
		errs      []error
		wantCalls int
		wantErr   error
	}{
		{"first try", nil, 1, nil},
		{"recovers", []error{errRefused}, 2, nil},
		{"recovers from EOF", []error{io.EOF, errRefused}, 3, nil},
		{"gives up", []error{errRefused, errRefused, errRefused, errRefused}, 3, errRefused},
		{"not transient", []error{errAuth}, 1, errAuth},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := b.Do(ctx, func() error {
				calls++
				if calls <= len(tt.errs) {
					return tt.errs[calls-1]
				}
				return nil
			}, transient)
			assert.Equal(t, tt.wantCalls, calls)
			assert.Equal(t, tt.wantErr, err)
		})
	}
}

func TestBackoffZeroAttempts(t *testing.T) {
	calls := 0
	err := Backoff{}.Do(context.Background(), func() error {
		calls++
		return errRefused
	}, transient)
	assert.Equal(t, 1, calls, "at least one attempt is made")
	assert.ErrorIs(t, err, errRefused)
}

func TestBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Backoff{Attempts: 3, Initial: time.Hour}.Do(ctx, func() error {
		return errRefused
	}, transient)
	assert.ErrorIs(t, err, context.Canceled)
}
