// Package fragment parses single song sources written for the LaTeX songs
// package.
package fragment

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	sberrors "github.com/provide-io/songbook/go/songbook/pkg/songbook/errors"
)

var (
	titleMarker    = regexp.MustCompile(`\\beginsong\{([^}]*)\}`)
	categoryMarker = regexp.MustCompile(`\\category\{([^}]*)\}`)
	numberMarker   = regexp.MustCompile(`\\songnumber\{([^}]*)\}`)
)

// Fragment is one parsed song. It is never modified after Parse returns and
// is shared by pointer between the category index and the final ordering.
type Fragment struct {
	Title      string
	Categories []string
	Position   *int // Optional: forced 0-based slot in the songbook
	Body       string
	Source     string
}

// HasPosition reports whether the song forces its own slot.
func (f *Fragment) HasPosition() bool {
	return f.Position != nil
}

// Parse extracts the metadata of a song from its text. The source is only
// used as the fallback title and for diagnostics.
func Parse(source, text string) (*Fragment, error) {
	f := &Fragment{
		Body:   text,
		Source: source,
	}

	if m := titleMarker.FindStringSubmatch(text); m != nil {
		f.Title = strings.TrimSpace(m[1])
	}
	if f.Title == "" {
		f.Title = filepath.Base(source)
	}

	for _, m := range categoryMarker.FindAllStringSubmatch(text, -1) {
		if tag := strings.TrimSpace(m[1]); tag != "" {
			f.Categories = append(f.Categories, tag)
		}
	}

	if all := numberMarker.FindAllStringSubmatch(text, -1); len(all) > 0 {
		raw := strings.TrimSpace(all[len(all)-1][1])
		if raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				return nil, &sberrors.InvalidPositionError{Source: source, Value: raw}
			}
			f.Position = &n
		}
	}

	return f, nil
}

// Load reads and parses the song at path.
func Load(path string) (*Fragment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &sberrors.SourceNotFoundError{Path: path, Err: err}
		}
		return nil, err
	}
	return Parse(path, string(data))
}
