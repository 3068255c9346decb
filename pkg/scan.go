package audiodedupe

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// scanResult carries one worker's outcome to the merge loop
type scanResult struct {
	path        string
	fingerprint string
	ok          bool
}

// ScanStats summarises one scan pass
type ScanStats struct {
	Candidates    int // files matching the filter beneath the root
	CacheHits     int // candidates skipped because they were already indexed
	Fingerprinted int // candidates fingerprinted this pass
	Failed        int // candidates whose fingerprint attempt failed
}

// Scan walks dir, fingerprints the candidates not yet in the index, and
// merges the results. Workers only compute; the merge loop is the sole
// mutator of the index, so index state needs no locking. When caching is
// enabled the index is saved at the end of the pass and a save failure
// fails the pass.
func (d *Deduper) Scan(ctx context.Context, dir string) (*ScanStats, error) {
	defer VerboseEnter()()

	stats := &ScanStats{}

	// Split candidates into cache hits and pending work up front, so the
	// provider is never invoked for an already-indexed path.
	var pending []string
	for path := range d.walker.Walk(dir) {
		stats.Candidates++
		if _, ok := d.index.Lookup(path); ok {
			stats.CacheHits++
			if IsDebugEnabled("scan") {
				VerboseLog(3, "scan: cache hit for %s", path)
			}
			continue
		}
		pending = append(pending, path)
	}

	VerboseLog(1, "scanning %s: %d candidates, %d cached, %d to fingerprint",
		dir, stats.Candidates, stats.CacheHits, len(pending))

	if len(pending) > 0 {
		d.fingerprintAll(ctx, pending, stats)
	}

	if !d.opts.DisableCache {
		if err := d.index.Save(); err != nil {
			return stats, fmt.Errorf("scan of %s failed: %w", dir, err)
		}
	}

	return stats, nil
}

// fingerprintAll dispatches pending paths to a bounded worker pool and
// merges the results into the index
func (d *Deduper) fingerprintAll(ctx context.Context, pending []string, stats *ScanStats) {
	workers := d.opts.Workers
	if workers > len(pending) {
		workers = len(pending)
	}

	jobs := make(chan string, len(pending))
	results := make(chan scanResult, len(pending))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				fingerprint, err := d.provider.Fingerprint(ctx, path)
				if err != nil {
					logger.Warn().Err(err).Str("path", path).Msg("fingerprint failed")
					results <- scanResult{path: path}
					continue
				}
				results <- scanResult{path: path, fingerprint: fingerprint, ok: true}
			}
		}()
	}

	for _, path := range pending {
		jobs <- path
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	progress, bar := d.newScanBar(len(pending))

	// Sole mutator of the index. Completion order does not matter because
	// Record is idempotent.
	for res := range results {
		if bar != nil {
			bar.Increment()
		}
		if !res.ok {
			stats.Failed++
			continue
		}
		d.index.Record(res.path, res.fingerprint)
		stats.Fingerprinted++
	}

	if progress != nil {
		progress.Wait()
	}
}

// newScanBar builds the stderr progress bar for a batch of pending files.
// Returns nils when progress display is off.
func (d *Deduper) newScanBar(total int) (*mpb.Progress, *mpb.Bar) {
	if !d.opts.Progress {
		return nil, nil
	}

	progress := mpb.New(mpb.WithWidth(64), mpb.WithOutput(os.Stderr))
	bar := progress.AddBar(int64(total),
		mpb.PrependDecorators(
			decor.Name("fingerprinting "),
			decor.CountersNoUnit("%d / %d"),
		),
		mpb.AppendDecorators(decor.Percentage()),
	)
	return progress, bar
}
