package audiodedupe

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeID3v1File writes a fake audio file carrying a trailing ID3v1 tag
// block, enough for the tag reader to report artist and title
func writeID3v1File(t *testing.T, path, artist, title string) {
	t.Helper()

	tagBlock := make([]byte, 128)
	copy(tagBlock[0:3], "TAG")
	copy(tagBlock[3:33], title)
	copy(tagBlock[33:63], artist)

	data := append([]byte("audio payload"), tagBlock...)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write tagged file %s: %v", path, err)
	}
}

func TestWriteReport_Human(t *testing.T) {
	musicDir := t.TempDir()
	writeTestFiles(t, musicDir, map[string]string{
		"a.mp3": "one!",
		"b.mp3": "two!",
	})
	pathA := filepath.Join(musicDir, "a.mp3")
	pathB := filepath.Join(musicDir, "b.mp3")

	d := newDupesDeduper(t)
	d.Index().Record(pathA, "X")
	d.Index().Record(pathB, "X")

	var buf bytes.Buffer
	if err := d.WriteReport(&buf, OutputHuman); err != nil {
		t.Fatalf("WriteReport failed: %v", err)
	}

	expected := strings.Join([]string{
		"Found 1 duplicated songs",
		"#1:",
		pathA,
		pathB,
		"Potential savings: 4 B",
		"",
	}, "\n")
	if got := buf.String(); got != expected {
		t.Errorf("Expected report:\n%s\ngot:\n%s", expected, got)
	}
}

func TestWriteReport_HumanNoDuplicates(t *testing.T) {
	d := newDupesDeduper(t)
	d.Index().Record("/music/only.mp3", "X")

	var buf bytes.Buffer
	if err := d.WriteReport(&buf, OutputHuman); err != nil {
		t.Fatalf("WriteReport failed: %v", err)
	}

	// No groups, no savings line
	if got := buf.String(); got != "Found 0 duplicated songs\n" {
		t.Errorf("Expected only the summary line, got:\n%s", got)
	}
}

func TestWriteReport_HumanDefaultsFormat(t *testing.T) {
	d := newDupesDeduper(t)

	var buf bytes.Buffer
	if err := d.WriteReport(&buf, ""); err != nil {
		t.Fatalf("WriteReport failed for the empty format: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "Found 0 duplicated songs") {
		t.Errorf("Expected the human report by default, got:\n%s", buf.String())
	}
}

func TestWriteReport_ShowTags(t *testing.T) {
	musicDir := t.TempDir()
	tagged := filepath.Join(musicDir, "tagged.mp3")
	bare := filepath.Join(musicDir, "bare.mp3")
	writeID3v1File(t, tagged, "The Artist", "The Title")
	writeTestFiles(t, musicDir, map[string]string{"bare.mp3": "no tags here"})

	opts := DefaultOptions()
	opts.CacheDir = t.TempDir()
	opts.ShowTags = true
	opts.Provider = ProviderFunc(func(ctx context.Context, path string) (string, error) {
		return "fp", nil
	})
	d, err := New(opts)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	d.Index().Record(tagged, "X")
	d.Index().Record(bare, "X")

	var buf bytes.Buffer
	if err := d.WriteReport(&buf, OutputHuman); err != nil {
		t.Fatalf("WriteReport failed: %v", err)
	}

	got := buf.String()
	if !strings.Contains(got, tagged+" (The Artist - The Title)") {
		t.Errorf("Expected tag decoration for %s, got:\n%s", tagged, got)
	}

	// A file without readable tags stays a plain path
	if !strings.Contains(got, bare+"\n") || strings.Contains(got, bare+" (") {
		t.Errorf("Expected no tag decoration for %s, got:\n%s", bare, got)
	}
}

func TestWriteReport_JSON(t *testing.T) {
	d := newDupesDeduper(t)
	d.Index().Record("/music/a.mp3", "X")
	d.Index().Record("/music/b.mp3", "X")
	d.Index().Record("/music/c.wav", "Y")

	var buf bytes.Buffer
	if err := d.WriteReport(&buf, OutputJSON); err != nil {
		t.Fatalf("WriteReport failed: %v", err)
	}

	var groups []DuplicateGroup
	if err := json.Unmarshal(buf.Bytes(), &groups); err != nil {
		t.Fatalf("Report is not valid JSON: %v", err)
	}
	if len(groups) != 1 {
		t.Fatalf("Expected 1 duplicate group, got %d", len(groups))
	}
	if groups[0].Fingerprint != "X" || groups[0].Count != 2 {
		t.Errorf("Expected group X with 2 members, got %s with %d", groups[0].Fingerprint, groups[0].Count)
	}
	if len(groups[0].Files) != 2 {
		t.Errorf("Expected 2 files in the group, got %d", len(groups[0].Files))
	}
}

func TestWriteReport_JSONEmptyIndex(t *testing.T) {
	d := newDupesDeduper(t)

	var buf bytes.Buffer
	if err := d.WriteReport(&buf, OutputJSON); err != nil {
		t.Fatalf("WriteReport failed: %v", err)
	}

	// An empty index still yields a JSON array
	if got := strings.TrimSpace(buf.String()); got != "[]" {
		t.Errorf("Expected an empty JSON array, got: %s", got)
	}
}

func TestWriteReport_FormatCaseInsensitive(t *testing.T) {
	d := newDupesDeduper(t)

	var buf bytes.Buffer
	if err := d.WriteReport(&buf, "JSON"); err != nil {
		t.Errorf("Expected 'JSON' to be accepted: %v", err)
	}
}

func TestWriteReport_UnsupportedFormat(t *testing.T) {
	d := newDupesDeduper(t)

	var buf bytes.Buffer
	err := d.WriteReport(&buf, "yaml")
	if err == nil {
		t.Fatal("Expected an error for an unsupported format")
	}
	if !strings.Contains(err.Error(), "unsupported output format") {
		t.Errorf("Expected an unsupported format error, got: %v", err)
	}
}
