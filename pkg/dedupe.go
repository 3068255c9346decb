package audiodedupe

import (
	"path/filepath"
	"time"
)

// Options configures a Deduper. Zero-valued fields fall back to the
// defaults the audiodedupe command ships with, so the boolean knobs are
// phrased to make the zero value the default behaviour.
type Options struct {
	DisableCache bool   // turn off both cache loading and cache saving
	ResetCache   bool   // delete any existing cache file before starting
	CacheDir     string // directory holding the cache file
	FilesFilter  string // regular expression selecting candidate file names

	FingerprintCmd        string        // external fingerprint command
	FingerprintCmdArgs    []string      // arguments placed before the file path
	FingerprintCmdTimeout time.Duration // per-invocation deadline

	Workers  int  // concurrent fingerprint invocations
	Progress bool // draw a progress bar on stderr while fingerprinting
	ShowTags bool // decorate the human report with artist/title metadata

	// Provider replaces the external command with a custom implementation.
	// When nil a CommandProvider is built from the fields above.
	Provider Provider
}

// DefaultOptions returns the options the audiodedupe command starts from
func DefaultOptions() Options {
	return Options{
		CacheDir:              DefaultCacheDir(),
		FilesFilter:           DefaultFilesFilter,
		FingerprintCmd:        DefaultFingerprintCmd,
		FingerprintCmdArgs:    DefaultFingerprintCmdArgs(),
		FingerprintCmdTimeout: DefaultFingerprintTimeout,
		Workers:               DefaultWorkers(),
	}
}

// Deduper scans directory trees for audio files, fingerprints them through
// the configured provider, and tracks which files share a fingerprint.
type Deduper struct {
	opts     Options
	walker   *Walker
	index    *FingerprintIndex
	provider Provider
}

// New creates a Deduper. A filter pattern that does not compile or a
// fingerprint command that cannot be found are configuration errors and
// fail construction; cache problems never do.
func New(opts Options) (*Deduper, error) {
	defer VerboseEnter()()

	if opts.CacheDir == "" {
		opts.CacheDir = DefaultCacheDir()
	}
	if opts.FilesFilter == "" {
		opts.FilesFilter = DefaultFilesFilter
	}
	if opts.Workers < 1 {
		opts.Workers = DefaultWorkers()
	}

	walker, err := NewWalker(opts.FilesFilter)
	if err != nil {
		return nil, err
	}

	provider := opts.Provider
	if provider == nil {
		command := NewCommandProvider(opts.FingerprintCmd, opts.FingerprintCmdArgs, opts.FingerprintCmdTimeout)
		if err := command.Check(); err != nil {
			return nil, err
		}
		provider = command
	}

	d := &Deduper{
		opts:     opts,
		walker:   walker,
		index:    NewFingerprintIndex(filepath.Join(opts.CacheDir, CacheFileName)),
		provider: provider,
	}

	if opts.ResetCache {
		if err := d.index.Reset(); err != nil {
			logger.Warn().Err(err).Msg("failed to reset cache")
		} else {
			VerboseLog(1, "cache reset: %s", d.index.Path())
		}
	} else if !opts.DisableCache {
		d.index.Load()
	}

	return d, nil
}

// Index returns the underlying fingerprint index
func (d *Deduper) Index() *FingerprintIndex {
	return d.index
}

// CacheEnabled reports whether the cache file is loaded and saved
func (d *Deduper) CacheEnabled() bool {
	return !d.opts.DisableCache
}

// Stats returns the number of fingerprint groups and indexed files
func (d *Deduper) Stats() (int, int) {
	return d.index.Len(), d.index.Files()
}

// Prune drops index entries whose files vanished from disk, then persists
// the index when caching is enabled. Safe to call repeatedly; a second call
// on an unchanged tree removes nothing.
func (d *Deduper) Prune() (int, error) {
	defer VerboseEnter()()

	removed := d.index.Prune()
	if !d.opts.DisableCache {
		if err := d.index.Save(); err != nil {
			return removed, err
		}
	}
	return removed, nil
}
