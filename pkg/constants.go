package audiodedupe

import (
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// Cache file constants
const (
	CacheFileName = "audiodedupe_cache.json"
	cacheFileMode = 0644
	cacheDirMode  = 0755
)

// Scan constants
const (
	DefaultFilesFilter = `(?i)^.*\.(mp3|ogg|wav)$`
)

// Fingerprint provider constants
const (
	DefaultFingerprintCmd     = "fpcalc"
	DefaultFingerprintTimeout = 10 * time.Second
)

// DefaultFingerprintCmdArgs returns the default arguments passed to the
// fingerprint command before the file path
func DefaultFingerprintCmdArgs() []string {
	return []string{"-json"}
}

// Output format constants
const (
	OutputHuman = "human"
	OutputJSON  = "json"
)

// DefaultCacheDir returns the per-user cache directory for audiodedupe
func DefaultCacheDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		return ".audiodedupe"
	}
	return filepath.Join(base, "audiodedupe")
}

// DefaultWorkers returns the default number of concurrent fingerprint workers
func DefaultWorkers() int {
	return runtime.NumCPU()
}
