package audiodedupe

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dhowden/tag"
	"github.com/dustin/go-humanize"
)

// WriteReport derives the duplicate groups and writes them to w in the
// requested format, OutputHuman or OutputJSON
func (d *Deduper) WriteReport(w io.Writer, format string) error {
	defer VerboseEnter()()

	groups := d.FindDuplicates()

	switch strings.ToLower(format) {
	case OutputJSON:
		if groups == nil {
			// Encode an empty array, not null
			groups = []DuplicateGroup{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(groups)
	case OutputHuman, "":
		return d.writeHumanReport(w, groups)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// writeHumanReport prints the classic report: a summary line, then one
// numbered block of member paths per duplicate group
func (d *Deduper) writeHumanReport(w io.Writer, groups []DuplicateGroup) error {
	if _, err := fmt.Fprintf(w, "Found %d duplicated songs\n", len(groups)); err != nil {
		return err
	}

	var wasted int64
	for i, group := range groups {
		fmt.Fprintf(w, "#%d:\n", i+1)
		for _, file := range group.Files {
			if d.opts.ShowTags {
				if artist, title, ok := readTags(file); ok {
					fmt.Fprintf(w, "%s (%s - %s)\n", file, artist, title)
					continue
				}
			}
			fmt.Fprintf(w, "%s\n", file)
		}
		wasted += group.WastedBytes()
	}

	if wasted > 0 {
		fmt.Fprintf(w, "Potential savings: %s\n", humanize.IBytes(uint64(wasted)))
	}
	return nil
}

// readTags pulls artist and title metadata from an audio file. Formats the
// tag reader does not understand (wav among them) simply report no tags.
func readTags(path string) (artist, title string, ok bool) {
	f, err := os.Open(path)
	if err != nil {
		return "", "", false
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return "", "", false
	}

	artist = m.Artist()
	title = m.Title()
	if artist == "" && title == "" {
		return "", "", false
	}
	if artist == "" {
		artist = "unknown"
	}
	if title == "" {
		title = "unknown"
	}
	return artist, title, true
}
