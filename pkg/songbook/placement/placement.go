// Package placement decides the final order of the songs in a songbook.
//
// Songs that force a number through \songnumber occupy exactly that 0-based
// slot. All other songs fill the remaining slots in title order (or in song
// list order when sorting is disabled).
package placement

import (
	"fmt"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	sberrors "github.com/provide-io/songbook/go/songbook/pkg/songbook/errors"
	"github.com/provide-io/songbook/go/songbook/pkg/songbook/fragment"
)

// DefaultLocale is the collation locale used for titles when none is given.
const DefaultLocale = "da"

// Comparer orders two titles. *collate.Collator satisfies it.
type Comparer interface {
	CompareString(a, b string) int
}

// Options controls how songs without a forced number are ordered.
type Options struct {
	// Alphabetize sorts free songs by title; otherwise song list order is kept.
	Alphabetize bool
	// Collator compares titles. Nil means a case-insensitive collator for
	// DefaultLocale.
	Collator Comparer
}

// NewCollator returns a case-insensitive title collator for a BCP 47 locale.
func NewCollator(locale string) (*collate.Collator, error) {
	if locale == "" {
		locale = DefaultLocale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("invalid collation locale %q: %w", locale, err)
	}
	return collate.New(tag, collate.IgnoreCase), nil
}

// Order returns every song exactly once in its final position.
//
// It fails with a *errors.UnresolvedPlacementError when a forced number lies
// outside [0, len(songs)-1] and with a *errors.ConflictingPositionError when
// two songs force the same number.
func Order(songs []*fragment.Fragment, opts Options) ([]*fragment.Fragment, error) {
	total := len(songs)

	var forced, free []*fragment.Fragment
	for _, song := range songs {
		if !song.HasPosition() {
			free = append(free, song)
			continue
		}
		if p := *song.Position; p < 0 || p >= total {
			return nil, &sberrors.UnresolvedPlacementError{
				Title:    song.Title,
				Source:   song.Source,
				Position: p,
				Size:     total,
			}
		}
		forced = append(forced, song)
	}

	sort.SliceStable(forced, func(i, j int) bool {
		return *forced[i].Position < *forced[j].Position
	})
	for i := 1; i < len(forced); i++ {
		if *forced[i].Position == *forced[i-1].Position {
			return nil, &sberrors.ConflictingPositionError{
				First:    forced[i-1].Title,
				Second:   forced[i].Title,
				Position: *forced[i].Position,
			}
		}
	}

	if opts.Alphabetize {
		cmp := opts.Collator
		if cmp == nil {
			c, err := NewCollator(DefaultLocale)
			if err != nil {
				return nil, err
			}
			cmp = c
		}
		sort.SliceStable(free, func(i, j int) bool {
			return cmp.CompareString(free[i].Title, free[j].Title) < 0
		})
	}

	ordered := make([]*fragment.Fragment, 0, total)
	var last *fragment.Fragment
	for i := 0; i < total; i++ {
		if len(forced) > 0 {
			next := forced[0]
			switch p := *next.Position; {
			case p < i:
				other := ""
				if last != nil {
					other = last.Title
				}
				return nil, &sberrors.ConflictingPositionError{First: other, Second: next.Title, Position: p}
			case p == i:
				ordered = append(ordered, next)
				forced = forced[1:]
				last = next
				continue
			}
		}
		if len(free) == 0 {
			return nil, unresolved(forced, total)
		}
		last = free[0]
		ordered = append(ordered, last)
		free = free[1:]
	}

	if len(forced) > 0 || len(free) > 0 {
		return nil, unresolved(append(forced, free...), total)
	}
	return ordered, nil
}

func unresolved(pending []*fragment.Fragment, total int) error {
	if len(pending) == 0 {
		return &sberrors.UnresolvedPlacementError{Position: -1, Size: total}
	}
	song := pending[0]
	pos := -1
	if song.HasPosition() {
		pos = *song.Position
	}
	return &sberrors.UnresolvedPlacementError{
		Title:    song.Title,
		Source:   song.Source,
		Position: pos,
		Size:     total,
	}
}
