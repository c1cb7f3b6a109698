package cache

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// entryExt marks files owned by FileCache; Clear and Prune touch nothing
// else in the directory.
const entryExt = ".gadc"

// entryMagic opens every entry file and is followed by the expiry as
// big-endian Unix nanoseconds (zero for none) and then the raw payload.
var entryMagic = []byte("GADC1")

const headerLen = 5 + 8

// FileCache keeps entries as files under a directory. It is what the CLI
// uses between runs. Writes go through a temp file and a rename, so two
// bridgegad processes sharing a directory never see half an entry.
type FileCache struct {
	dir string
	now func() time.Time
}

// NewFileCache opens (and if needed creates) a cache in dir.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir, now: time.Now}, nil
}

// Dir returns the cache directory.
func (c *FileCache) Dir() string { return c.dir }

func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	expires, payload, ok := decodeEntry(raw)
	if !ok || c.expired(expires) {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return payload, true, nil
}

func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	var expires time.Time
	if ttl > 0 {
		expires = c.now().Add(ttl)
	}

	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(encodeEntry(expires, data)); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (c *FileCache) Delete(ctx context.Context, key string) error {
	err := os.Remove(c.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (c *FileCache) Close() error { return nil }

// Usage summarizes what is on disk.
type Usage struct {
	Entries int
	Bytes   int64
	Expired int
}

// Usage walks the directory and counts entries, their size and how many
// have expired.
func (c *FileCache) Usage() (Usage, error) {
	var u Usage
	err := c.walk(func(path string, expires time.Time, size int64) error {
		u.Entries++
		u.Bytes += size
		if c.expired(expires) {
			u.Expired++
		}
		return nil
	})
	return u, err
}

// Clear removes every entry and returns how many were deleted.
func (c *FileCache) Clear() (int, error) {
	return c.remove(func(time.Time) bool { return true })
}

// Prune removes expired entries and returns how many were deleted.
func (c *FileCache) Prune() (int, error) {
	return c.remove(c.expired)
}

func (c *FileCache) remove(match func(expires time.Time) bool) (int, error) {
	n := 0
	err := c.walk(func(path string, expires time.Time, _ int64) error {
		if !match(expires) {
			return nil
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		n++
		return nil
	})
	return n, err
}

// walk calls fn for every entry file. Entries whose header cannot be read
// count as expired.
func (c *FileCache) walk(fn func(path string, expires time.Time, size int64) error) error {
	err := filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, entryExt) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		expires, err := readExpiry(path)
		if err != nil {
			expires = time.Unix(0, 1)
		}
		return fn(path, expires, info.Size())
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (c *FileCache) expired(expires time.Time) bool {
	return !expires.IsZero() && c.now().After(expires)
}

// path spreads entries over 256 subdirectories by the first byte of the
// key hash.
func (c *FileCache) path(key string) string {
	h := Hash([]byte(key))
	return filepath.Join(c.dir, h[:2], h[2:]+entryExt)
}

func encodeEntry(expires time.Time, data []byte) []byte {
	buf := make([]byte, headerLen, headerLen+len(data))
	copy(buf, entryMagic)
	var nanos int64
	if !expires.IsZero() {
		nanos = expires.UnixNano()
	}
	binary.BigEndian.PutUint64(buf[len(entryMagic):], uint64(nanos))
	return append(buf, data...)
}

func decodeEntry(raw []byte) (expires time.Time, payload []byte, ok bool) {
	if len(raw) < headerLen || !bytes.Equal(raw[:len(entryMagic)], entryMagic) {
		return time.Time{}, nil, false
	}
	if nanos := int64(binary.BigEndian.Uint64(raw[len(entryMagic):headerLen])); nanos != 0 {
		expires = time.Unix(0, nanos)
	}
	return expires, raw[headerLen:], true
}

func readExpiry(path string) (time.Time, error) {
	f, err := os.Open(path)
	if err != nil {
		return time.Time{}, err
	}
	defer f.Close()

	head := make([]byte, headerLen)
	if _, err := io.ReadFull(f, head); err != nil {
		return time.Time{}, err
	}
	expires, _, ok := decodeEntry(head)
	if !ok {
		return time.Time{}, errors.New("not a cache entry")
	}
	return expires, nil
}

var _ Cache = (*FileCache)(nil)
