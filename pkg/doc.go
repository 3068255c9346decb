// Package audiodedupe finds duplicate audio files by acoustic fingerprint
// rather than by file name or byte equality. Fingerprints come from an
// external command (fpcalc by default) and are cached in a single JSON file
// so that repeat scans never re-fingerprint a known path.
//
// # Core API
//
// The main entry point is Deduper, which ties together the directory
// walker, the fingerprint provider, and the cache:
//
//	d, err := audiodedupe.New(audiodedupe.DefaultOptions())
//	if err != nil {
//		log.Fatal(err)
//	}
//
// # Basic Operations
//
// Scan a directory tree, fingerprinting files not seen before:
//
//	stats, err := d.Scan(context.Background(), "/music")
//
// Drop cache entries whose files vanished from disk:
//
//	removed, err := d.Prune()
//
// Find duplicate groups:
//
//	for _, group := range d.FindDuplicates() {
//		fmt.Printf("%s: %v\n", group.Fingerprint, group.Files)
//	}
//
// # Configuration
//
// Enable debug output:
//
//	audiodedupe.SetDebugFlags("scan,provider")
//	audiodedupe.SetVerboseLevel(2)
//
// # Note on Internal API
//
// External consumers should primarily use:
//   - Deduper, Options, and the Provider interface
//   - Result types: ScanStats, DuplicateGroup
//   - Configuration functions: SetDebugFlags, SetVerboseLevel
//
// The FingerprintIndex type is exposed for inspection but its maps are
// owned by the Deduper that created it.
package audiodedupe
