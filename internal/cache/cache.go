// Package cache implements the content-addressed disk result cache and
// an optional bounded in-process front cache layered ahead of it.
// Staleness is mtime-driven only; there is no content hashing of the
// source file.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/phobologic/skim/internal/skimerr"
)

// schemaVersion guards against a future incompatible on-disk format. A
// missing or mismatched version is treated as a miss, not a corrupt-cache
// error — older entries simply get recomputed and overwritten.
const schemaVersion = 1

// defaultFrontSize is the entry count of the in-process LRU layered in
// front of the disk store.
const defaultFrontSize = 256

// Entry is the on-disk (and front-cache) record for one (path, mode)
// transformation result.
type Entry struct {
	Version           int    `json:"version"`
	Path              string `json:"path"`
	Mode              string `json:"mode"`
	MTimeNS           int64  `json:"mtime"`
	Content           string `json:"content"`
	OriginalTokens    int    `json:"original_tokens"`
	TransformedTokens int    `json:"transformed_tokens"`
}

// Store is the result cache: a disk-backed JSON blob store keyed by
// SHA-256(abs_path|mtime_ns|mode), with an optional bounded LRU in front.
type Store struct {
	dir   string
	front *lru.Cache[string, Entry]
}

// Open resolves the platform cache root (via os.UserCacheDir, which
// matches ~/.cache, ~/Library/Caches, and %LOCALAPPDATA% on Linux, macOS,
// and Windows respectively), creates it with owner-only permissions on
// first use, and returns a ready Store.
func Open() (*Store, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return nil, skimerr.Wrap(skimerr.IOError, err, "resolving cache directory")
	}
	dir := filepath.Join(base, "skim")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, skimerr.Wrap(skimerr.IOError, err, "creating cache directory")
	}
	_ = os.Chmod(dir, 0o700)

	front, err := lru.New[string, Entry](defaultFrontSize)
	if err != nil {
		return nil, skimerr.Wrap(skimerr.IOError, err, "allocating front cache")
	}
	return &Store{dir: dir, front: front}, nil
}

func key(absPath string, mtimeNS int64, mode string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%d|%s", absPath, mtimeNS, mode)))
	return hex.EncodeToString(sum[:])
}

func (s *Store) valueFile(k string) string {
	return filepath.Join(s.dir, k+".json")
}

// Get looks up the cache entry for path at the given mode. It always
// re-validates mtime against the file's current state, even on a front
// cache hit — the front cache never changes staleness semantics, it only
// skips the disk read.
func (s *Store) Get(path, mode string) (Entry, bool) {
	abs, mtimeNS, ok := s.statKey(path)
	if !ok {
		return Entry{}, false
	}
	k := key(abs, mtimeNS, mode)

	if e, ok := s.front.Get(k); ok {
		if e.MTimeNS == mtimeNS && e.Mode == mode {
			return e, true
		}
		s.front.Remove(k)
	}

	data, err := os.ReadFile(s.valueFile(k))
	if err != nil {
		return Entry{}, false
	}
	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		// Malformed JSON degrades to a miss; the caller recomputes
		// and the next Put overwrites the corrupt file.
		return Entry{}, false
	}
	if e.Version != schemaVersion || e.MTimeNS != mtimeNS || e.Mode != mode {
		_ = os.Remove(s.valueFile(k))
		return Entry{}, false
	}

	s.front.Add(k, e)
	return e, true
}

// Put writes an entry for path at the given mode, atomically (temp file
// + rename) and with owner-only file permissions on Unix. It also
// populates the front cache.
func (s *Store) Put(path, mode, content string, originalTokens, transformedTokens int) error {
	abs, mtimeNS, ok := s.statKey(path)
	if !ok {
		return skimerr.Newf(skimerr.IOError, "cannot stat %q for cache write", path)
	}
	k := key(abs, mtimeNS, mode)

	e := Entry{
		Version:           schemaVersion,
		Path:              abs,
		Mode:              mode,
		MTimeNS:           mtimeNS,
		Content:           content,
		OriginalTokens:    originalTokens,
		TransformedTokens: transformedTokens,
	}

	data, err := json.Marshal(e)
	if err != nil {
		return skimerr.Wrap(skimerr.IOError, err, "encoding cache entry")
	}

	tmp, err := os.CreateTemp(s.dir, "tmp-*")
	if err != nil {
		return skimerr.Wrap(skimerr.IOError, err, "creating temp cache file")
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return skimerr.Wrap(skimerr.IOError, err, "writing temp cache file")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return skimerr.Wrap(skimerr.IOError, err, "closing temp cache file")
	}
	if err := os.Chmod(tmpPath, 0o600); err != nil {
		os.Remove(tmpPath)
		return skimerr.Wrap(skimerr.IOError, err, "setting cache file permissions")
	}
	if err := os.Rename(tmpPath, s.valueFile(k)); err != nil {
		os.Remove(tmpPath)
		return skimerr.Wrap(skimerr.IOError, err, "renaming cache file into place")
	}

	s.front.Add(k, e)
	return nil
}

// Clear deletes and recreates the cache directory, discarding the front
// cache in the process.
func (s *Store) Clear() error {
	if err := os.RemoveAll(s.dir); err != nil {
		return skimerr.Wrap(skimerr.IOError, err, "removing cache directory")
	}
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return skimerr.Wrap(skimerr.IOError, err, "recreating cache directory")
	}
	s.front.Purge()
	return nil
}

func (s *Store) statKey(path string) (absPath string, mtimeNS int64, ok bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", 0, false
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", 0, false
	}
	return abs, info.ModTime().UnixNano(), true
}
