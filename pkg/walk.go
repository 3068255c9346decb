package audiodedupe

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
)

// Walker streams audio file candidates found beneath a root directory.
// Only regular files whose base name matches the filter are emitted, so
// directory layout never affects candidate selection.
type Walker struct {
	filter *regexp.Regexp
}

// NewWalker compiles pattern into a walker
func NewWalker(pattern string) (*Walker, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid files filter %q: %w", pattern, err)
	}
	return &Walker{filter: re}, nil
}

// Match reports whether a file name passes the walker's filter
func (w *Walker) Match(name string) bool {
	return w.filter.MatchString(name)
}

// Walk streams the absolute paths of matching regular files beneath root.
// A nonexistent or unreadable root produces zero results; unreadable
// subtrees are skipped and traversal continues. Every call starts a fresh
// stream, closed once traversal finishes.
func (w *Walker) Walk(root string) <-chan string {
	defer VerboseEnter()()

	out := make(chan string, 64)

	go func() {
		defer close(out)

		absRoot, err := filepath.Abs(root)
		if err != nil {
			logger.Warn().Err(err).Str("dir", root).Msg("cannot resolve scan root")
			return
		}

		err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				logger.Debug().Err(err).Str("path", path).Msg("skipping unreadable path")
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}
			if !w.filter.MatchString(d.Name()) {
				return nil
			}
			out <- path
			return nil
		})
		if err != nil {
			logger.Debug().Err(err).Str("dir", absRoot).Msg("walk ended early")
		}
	}()

	return out
}
