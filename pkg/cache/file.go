package cache

import (
	"bytes"
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"time"

	errs "github.com/matzehuels/curvearrow/pkg/errors"
)

// entryMagic opens every file written by FileCache. It is followed by the
// expiry as big-endian Unix nanoseconds (zero for none) and the raw artifact.
// Keeping artifacts raw avoids base64-inflating PNG data.
var entryMagic = []byte("CAv1")

const entryHeaderLen = 4 + 8

// FileCache keeps one file per artifact under a directory, so cached
// renders survive a server restart.
type FileCache struct {
	dir string
}

// NewFileCache creates dir if needed and returns a cache rooted there.
func NewFileCache(dir string) (*FileCache, error) {
	if err := errs.ValidatePath(dir); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidPath, err, "create cache dir %s", dir)
	}
	return &FileCache{dir: dir}, nil
}

// Get reads the artifact stored under key. Files that fail to decode or
// have expired are deleted and count as misses.
func (c *FileCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	name := c.path(key)
	raw, err := os.ReadFile(name)
	switch {
	case os.IsNotExist(err):
		return nil, false, nil
	case err != nil:
		return nil, false, errs.Wrap(errs.ErrCodeInternal, err, "read cache entry")
	}

	data, expires, ok := decodeEntry(raw)
	if !ok || (!expires.IsZero() && time.Now().After(expires)) {
		_ = os.Remove(name)
		return nil, false, nil
	}
	return data, true, nil
}

// Set writes data under key. The file is staged next to its destination
// and renamed, so a concurrent Get sees the old entry or the new one.
func (c *FileCache) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	var expires time.Time
	if ttl > 0 {
		expires = time.Now().Add(ttl)
	}

	name := c.path(key)
	dir := filepath.Dir(name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err, "create cache subdir")
	}
	tmp, err := os.CreateTemp(dir, ".entry-*")
	if err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err, "stage cache entry")
	}
	_, werr := tmp.Write(encodeEntry(data, expires))
	if cerr := tmp.Close(); werr == nil {
		werr = cerr
	}
	if werr == nil {
		werr = os.Rename(tmp.Name(), name)
	}
	if werr != nil {
		_ = os.Remove(tmp.Name())
		return errs.Wrap(errs.ErrCodeInternal, werr, "write cache entry")
	}
	return nil
}

func (c *FileCache) Delete(_ context.Context, key string) error {
	if err := os.Remove(c.path(key)); err != nil && !os.IsNotExist(err) {
		return errs.Wrap(errs.ErrCodeInternal, err, "delete cache entry")
	}
	return nil
}

func (c *FileCache) Close() error { return nil }

// Dir returns the cache directory.
func (c *FileCache) Dir() string { return c.dir }

// path spreads entries over 256 subdirectories: dir/ab/cdef....art.
func (c *FileCache) path(key string) string {
	h := Hash([]byte(key))
	return filepath.Join(c.dir, h[:2], h[2:]+".art")
}

func encodeEntry(data []byte, expires time.Time) []byte {
	buf := make([]byte, entryHeaderLen, entryHeaderLen+len(data))
	copy(buf, entryMagic)
	if !expires.IsZero() {
		binary.BigEndian.PutUint64(buf[len(entryMagic):], uint64(expires.UnixNano()))
	}
	return append(buf, data...)
}

func decodeEntry(raw []byte) (data []byte, expires time.Time, ok bool) {
	if len(raw) < entryHeaderLen || !bytes.Equal(raw[:len(entryMagic)], entryMagic) {
		return nil, time.Time{}, false
	}
	if ns := binary.BigEndian.Uint64(raw[len(entryMagic):entryHeaderLen]); ns != 0 {
		expires = time.Unix(0, int64(ns))
	}
	return raw[entryHeaderLen:], expires, true
}

var _ Cache = (*FileCache)(nil)
