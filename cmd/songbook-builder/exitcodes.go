package main

import (
	"errors"

	sberrors "github.com/provide-io/songbook/go/songbook/pkg/songbook/errors"
)

// Exit codes
const (
	ExitPanic          = 101
	ExitSourceError    = 102
	ExitPlacementError = 103
	ExitTemplateError  = 104
	ExitInvalidArgs    = 105
	ExitCompileError   = 106
	ExitLocked         = 107
	ExitFailure        = 1
)

func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, sberrors.ErrSourceNotFound), errors.Is(err, sberrors.ErrInvalidPosition):
		return ExitSourceError
	case errors.Is(err, sberrors.ErrConflictingPosition), errors.Is(err, sberrors.ErrUnresolvedPlacement):
		return ExitPlacementError
	case errors.Is(err, sberrors.ErrTemplateModified):
		return ExitTemplateError
	case errors.Is(err, sberrors.ErrInvalidColorSpec):
		return ExitInvalidArgs
	case errors.Is(err, sberrors.ErrCompileFailed):
		return ExitCompileError
	case errors.Is(err, sberrors.ErrBuildLocked):
		return ExitLocked
	default:
		return ExitFailure
	}
}
