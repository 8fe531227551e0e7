package build

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	sberrors "github.com/provide-io/songbook/go/songbook/pkg/songbook/errors"
)

// ParseSongList returns the song file names listed in text, one per line.
// Blank lines and lines starting with '#' are skipped.
func ParseSongList(text string) []string {
	var names []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	return names
}

// ReadSongList reads and parses the song list at path.
func ReadSongList(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &sberrors.SourceNotFoundError{Path: path, Err: err}
		}
		return nil, err
	}
	return ParseSongList(string(data)), nil
}
