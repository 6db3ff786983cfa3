package release

import (
	"errors"
	"fmt"
	"strings"
)

// Common release resolution errors
var (
	// ErrRepositoryNotFound indicates the owner/name pair does not resolve
	// to a visible repository (missing, or private without a token).
	ErrRepositoryNotFound = errors.New("repository not found")

	// ErrNoReleaseFound indicates the repository exists but has no
	// published release matching the resolution mode.
	ErrNoReleaseFound = errors.New("no published release found")
)

// NoMatchError indicates the asset pattern matched zero assets.
type NoMatchError struct {
	Pattern   string
	Available []string
}

func (e *NoMatchError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("no asset matches pattern %q (release has no assets)", e.Pattern)
	}
	return fmt.Sprintf("no asset matches pattern %q (assets: %s)",
		e.Pattern, strings.Join(e.Available, ", "))
}

// AmbiguousMatchError indicates the asset pattern matched more than one
// asset and no tie-break was requested. Matches are sorted lexicographically.
type AmbiguousMatchError struct {
	Pattern string
	Matches []string
}

func (e *AmbiguousMatchError) Error() string {
	return fmt.Sprintf("pattern %q matches %d assets (%s); narrow the pattern or use --first",
		e.Pattern, len(e.Matches), strings.Join(e.Matches, ", "))
}
