package audiodedupe

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FingerprintIndex maps acoustic fingerprints to the file paths that
// produced them. Only the forward map is persisted; the reverse map is
// derived on load and kept in sync by Record and Prune so that cache-hit
// lookups are a single map access.
type FingerprintIndex struct {
	path    string
	forward map[string][]string
	reverse map[string]string
}

// NewFingerprintIndex creates an empty index persisted at path
func NewFingerprintIndex(path string) *FingerprintIndex {
	return &FingerprintIndex{
		path:    path,
		forward: make(map[string][]string),
		reverse: make(map[string]string),
	}
}

// Path returns the cache file location
func (ix *FingerprintIndex) Path() string {
	return ix.path
}

// Len returns the number of fingerprint groups
func (ix *FingerprintIndex) Len() int {
	return len(ix.forward)
}

// Files returns the total number of indexed file paths
func (ix *FingerprintIndex) Files() int {
	return len(ix.reverse)
}

// Lookup returns the fingerprint recorded for path, if any
func (ix *FingerprintIndex) Lookup(path string) (string, bool) {
	fingerprint, ok := ix.reverse[path]
	return fingerprint, ok
}

// Record associates path with fingerprint. The path is appended to the
// fingerprint's group only when absent, so recording the same pair twice
// leaves the index unchanged. A path re-recorded under a new fingerprint
// moves groups; it never appears in two.
func (ix *FingerprintIndex) Record(path, fingerprint string) {
	if prev, ok := ix.reverse[path]; ok {
		if prev == fingerprint {
			return
		}
		ix.forward[prev] = removePath(ix.forward[prev], path)
		if len(ix.forward[prev]) == 0 {
			delete(ix.forward, prev)
		}
	}
	ix.forward[fingerprint] = append(ix.forward[fingerprint], path)
	ix.reverse[path] = fingerprint
}

// Prune drops every path that is no longer a regular file on disk and
// deletes groups left empty. Member lists are rebuilt as filtered copies,
// never edited while being walked. Returns the number of paths removed.
func (ix *FingerprintIndex) Prune() int {
	defer VerboseEnter()()

	removed := 0
	for fingerprint, files := range ix.forward {
		kept := make([]string, 0, len(files))
		for _, file := range files {
			if isRegularFile(file) {
				kept = append(kept, file)
				continue
			}
			delete(ix.reverse, file)
			removed++
			logger.Debug().Str("path", file).Msg("pruning vanished file")
		}
		if len(kept) == 0 {
			delete(ix.forward, fingerprint)
			continue
		}
		ix.forward[fingerprint] = kept
	}

	if removed > 0 {
		VerboseLog(1, "pruned %d stale cache entries", removed)
	}
	return removed
}

// Load reads the persisted cache and rebuilds the reverse mapping. A missing
// file yields an empty index; a corrupt or unreadable one is discarded so
// the next save starts clean. No failure of Load is fatal. Returns true when
// a cache file was actually loaded.
func (ix *FingerprintIndex) Load() bool {
	defer VerboseEnter()()

	ix.forward = make(map[string][]string)
	ix.reverse = make(map[string]string)

	data, err := os.ReadFile(ix.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn().Err(err).Str("cache", ix.path).Msg("unreadable cache file, starting empty")
			ix.discard()
		}
		return false
	}

	forward := make(map[string][]string)
	if err := json.Unmarshal(data, &forward); err != nil {
		logger.Warn().Err(err).Str("cache", ix.path).Msg("corrupt cache file, starting empty")
		ix.discard()
		return false
	}

	ix.forward = forward
	ix.rebuildReverse()
	VerboseLog(2, "loaded cache %s: %d fingerprints, %d files", ix.path, ix.Len(), ix.Files())
	return true
}

// Save writes the forward map wholesale as indented JSON. The data goes to a
// pid-stamped temp file in the cache directory and is renamed into place, so
// a concurrent reader never observes a partial cache. Any failure is a hard
// error.
func (ix *FingerprintIndex) Save() error {
	defer VerboseEnter()()

	data, err := json.MarshalIndent(ix.forward, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode cache: %w", err)
	}

	dir := filepath.Dir(ix.path)
	if err := os.MkdirAll(dir, cacheDirMode); err != nil {
		return fmt.Errorf("failed to create cache directory %s: %w", dir, err)
	}

	tmpPath := fmt.Sprintf("%s.tmp-%d", ix.path, os.Getpid())
	if err := os.WriteFile(tmpPath, data, cacheFileMode); err != nil {
		return fmt.Errorf("failed to write temporary cache file: %w", err)
	}
	if err := os.Rename(tmpPath, ix.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace cache file %s: %w", ix.path, err)
	}

	VerboseLog(2, "saved cache %s: %d fingerprints, %d files", ix.path, ix.Len(), ix.Files())
	return nil
}

// Reset clears the in-memory maps and deletes the cache file
func (ix *FingerprintIndex) Reset() error {
	ix.forward = make(map[string][]string)
	ix.reverse = make(map[string]string)
	if err := os.Remove(ix.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove cache file %s: %w", ix.path, err)
	}
	return nil
}

// ForEach calls fn for every (fingerprint, files) pair until fn returns false
func (ix *FingerprintIndex) ForEach(fn func(fingerprint string, files []string) bool) {
	for fingerprint, files := range ix.forward {
		if !fn(fingerprint, files) {
			return
		}
	}
}

// rebuildReverse derives the path lookup table from the forward map. A
// hand-edited cache can list one path under two fingerprints; the first
// occurrence wins and later ones are dropped from their groups so that a
// path belongs to at most one group.
func (ix *FingerprintIndex) rebuildReverse() {
	ix.reverse = make(map[string]string, len(ix.forward))
	for fingerprint, files := range ix.forward {
		kept := make([]string, 0, len(files))
		for _, file := range files {
			if _, seen := ix.reverse[file]; seen {
				logger.Debug().Str("path", file).Msg("dropping duplicate cache entry")
				continue
			}
			ix.reverse[file] = fingerprint
			kept = append(kept, file)
		}
		if len(kept) == 0 {
			delete(ix.forward, fingerprint)
			continue
		}
		ix.forward[fingerprint] = kept
	}
}

// discard removes the cache file so a damaged one is not reloaded next run
func (ix *FingerprintIndex) discard() {
	if err := os.Remove(ix.path); err != nil && !os.IsNotExist(err) {
		logger.Warn().Err(err).Str("cache", ix.path).Msg("failed to remove cache file")
	}
}

// removePath returns files without path, preserving order
func removePath(files []string, path string) []string {
	kept := make([]string, 0, len(files))
	for _, file := range files {
		if file != path {
			kept = append(kept, file)
		}
	}
	return kept
}

// isRegularFile reports whether path exists and is a regular file, matching
// the walker's candidate test
func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
