// Package errors defines the failure conditions a songbook build can end in.
//
// Every condition has a sentinel for errors.Is and, where the caller needs
// context to print a diagnostic, a typed error for errors.As that unwraps to
// the sentinel.
package errors

import (
	"errors"
	"fmt"
)

var (
	// Source errors 📄
	ErrSourceNotFound  = errors.New("❌ source not found")
	ErrInvalidPosition = errors.New("❌ invalid song number")

	// Placement errors 📚
	ErrConflictingPosition = errors.New("❌ conflicting song position")
	ErrUnresolvedPlacement = errors.New("❌ unresolved song placement")

	// Palette errors 🎨
	ErrInvalidColorSpec = errors.New("❌ invalid color spec")

	// Build errors 🛠️
	ErrTemplateModified = errors.New("❌ templates have been modified")
	ErrCompileFailed    = errors.New("❌ document compilation failed")
	ErrBuildLocked      = errors.New("❌ work directory is locked by another build")
)

// SourceNotFoundError names a song list entry or template file that is missing.
type SourceNotFoundError struct {
	Path string
	Err  error
}

func (e *SourceNotFoundError) Error() string {
	return fmt.Sprintf("could not find the file '%s'", e.Path)
}

func (e *SourceNotFoundError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrSourceNotFound}
	}
	return []error{ErrSourceNotFound, e.Err}
}

// InvalidPositionError is returned when a \songnumber value is not a
// non-negative integer.
type InvalidPositionError struct {
	Source string
	Value  string
}

func (e *InvalidPositionError) Error() string {
	return fmt.Sprintf("song %s has invalid song number %q", e.Source, e.Value)
}

func (e *InvalidPositionError) Unwrap() error { return ErrInvalidPosition }

// ConflictingPositionError names the two songs that demand the same slot, or
// a slot that has already been filled.
type ConflictingPositionError struct {
	First    string
	Second   string
	Position int
}

func (e *ConflictingPositionError) Error() string {
	return fmt.Sprintf("songs %q and %q both try to force number %d", e.First, e.Second, e.Position)
}

func (e *ConflictingPositionError) Unwrap() error { return ErrConflictingPosition }

// UnresolvedPlacementError is returned when a song cannot be given a slot,
// usually because its forced number is beyond the size of the songbook.
type UnresolvedPlacementError struct {
	Title    string
	Source   string
	Position int
	Size     int
}

func (e *UnresolvedPlacementError) Error() string {
	if e.Position < 0 {
		return fmt.Sprintf("song %q (%s) could not be placed in a songbook of %d songs", e.Title, e.Source, e.Size)
	}
	return fmt.Sprintf("song %q (%s) forces number %d but the songbook only has slots 0-%d",
		e.Title, e.Source, e.Position, e.Size-1)
}

func (e *UnresolvedPlacementError) Unwrap() error { return ErrUnresolvedPlacement }

// InvalidColorSpecError names the role and the spec string that could not be
// parsed.
type InvalidColorSpecError struct {
	Role string
	Spec string
	Err  error
}

func (e *InvalidColorSpecError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid %s color %q: %v", e.Role, e.Spec, e.Err)
	}
	return fmt.Sprintf("invalid %s color %q", e.Role, e.Spec)
}

func (e *InvalidColorSpecError) Unwrap() error { return ErrInvalidColorSpec }
