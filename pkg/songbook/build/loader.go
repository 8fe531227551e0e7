package build

import (
	"context"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"github.com/provide-io/songbook/go/songbook/pkg/songbook/fragment"
)

// LoadSongs reads and parses every listed song from dir. Files are read in
// parallel, at most concurrency at a time; the result keeps the list order.
func LoadSongs(ctx context.Context, dir string, names []string, concurrency int, logger hclog.Logger) ([]*fragment.Fragment, error) {
	if concurrency < 1 {
		concurrency = 1
	}
	songs := make([]*fragment.Fragment, len(names))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(concurrency)
	for i, name := range names {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			song, err := fragment.Load(filepath.Join(dir, name))
			if err != nil {
				return err
			}
			logger.Trace("📄 Parsed song", "file", name, "title", song.Title,
				"categories", song.Categories, "forced", song.HasPosition())
			songs[i] = song
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	logger.Debug("✅ Songs loaded", "count", len(songs), "dir", dir)
	return songs, nil
}
