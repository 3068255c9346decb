package audiodedupe

import (
	"os"
	"sort"
)

// DuplicateGroup represents a group of files sharing one acoustic fingerprint
type DuplicateGroup struct {
	Fingerprint string   `json:"fingerprint"`
	Files       []string `json:"files"`
	Count       int      `json:"count"`
}

// WastedBytes returns the bytes consumed by redundant copies: every group
// member beyond the first counts its on-disk size. Files that cannot be
// stat'd count zero.
func (g *DuplicateGroup) WastedBytes() int64 {
	var wasted int64
	for i, file := range g.Files {
		if i == 0 {
			continue
		}
		if info, err := os.Stat(file); err == nil {
			wasted += info.Size()
		}
	}
	return wasted
}

// FindDuplicates returns the groups holding more than one file. It is a
// pure derivation over the in-memory index: no provider calls, no mutation.
// Run Prune first when vanished files should not count as duplicates.
// Groups come back sorted by fingerprint with member order preserved, so
// output is stable for a given index state.
func (d *Deduper) FindDuplicates() []DuplicateGroup {
	defer VerboseEnter()()

	var result []DuplicateGroup
	d.index.ForEach(func(fingerprint string, files []string) bool {
		if len(files) > 1 {
			result = append(result, DuplicateGroup{
				Fingerprint: fingerprint,
				Files:       append([]string(nil), files...),
				Count:       len(files),
			})
		}
		return true // Continue iteration
	})

	sort.Slice(result, func(i, j int) bool {
		return result[i].Fingerprint < result[j].Fingerprint
	})

	return result
}
