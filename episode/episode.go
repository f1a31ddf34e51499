// Package episode defines the Episode entity and the naming rules that make downloads resumable across runs.
//
// An episode has two names derived from the link found on the catalog page:
// the canonical full name (last path component of the link) and the legacy
// short name (full name up to its first '-'). Both are pure byte-level string
// functions so identical links produce identical names in every process.
package episode

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrEmptyName is returned when a link has no final path component to name the episode after.
var ErrEmptyName = errors.New("episode link has no name component")

// Episode represents one piece of content listed in the catalog.
type Episode struct {
	// BaseURL is the catalog root location shared by all episodes.
	BaseURL string `json:"base_url"`
	// RelativeURL is the link extracted from the catalog page.
	RelativeURL string `json:"relative_url"`
	// FullName is the canonical identifier.
	FullName string `json:"full_name"`
	// ShortName is the legacy identifier.
	ShortName string `json:"short_name"`
	// Extension of the assembled artifact, without a leading dot.
	Extension string `json:"extension"`

	// Upload is set by the orchestrator when the assembled artifact must be published.
	Upload bool `json:"-"`
}

// New builds an Episode from the catalog root and a link found on the catalog page.
func New(baseURL, relativeURL, extension string) (*Episode, error) {
	full := FullName(relativeURL)
	if full == "" {
		return nil, fmt.Errorf("%w: %q", ErrEmptyName, relativeURL)
	}

	return &Episode{
		BaseURL:     baseURL,
		RelativeURL: relativeURL,
		FullName:    full,
		ShortName:   ShortName(full),
		Extension:   strings.TrimPrefix(extension, "."),
	}, nil
}

// FullName returns the last '/'-separated component of a link.
func FullName(relativeURL string) string {
	return relativeURL[strings.LastIndexByte(relativeURL, '/')+1:]
}

// ShortName returns fullName up to, excluding, its first '-', or fullName itself when it has none.
func ShortName(fullName string) string {
	if i := strings.IndexByte(fullName, '-'); i >= 0 {
		return fullName[:i]
	}
	return fullName
}

// Join appends a path component to a location, inserting a '/' only when base does not already end with one.
func Join(base, addition string) string {
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + addition
}

// String returns the operator-facing description of the episode.
func (e *Episode) String() string {
	return "Episode: " + e.FullName
}

// PageURL is the location of the episode's own page.
func (e *Episode) PageURL() string {
	return Join(e.BaseURL, e.FullName)
}

// Filename returns name with the artifact extension appended.
func (e *Episode) Filename(name string) string {
	if e.Extension == "" {
		return name
	}
	return name + "." + e.Extension
}

// OutputPath is the canonical artifact location under outputRoot.
func (e *Episode) OutputPath(outputRoot string) string {
	return filepath.Join(outputRoot, e.Filename(e.FullName))
}

// LegacyOutputPath is where an artifact produced under the short naming scheme lives.
func (e *Episode) LegacyOutputPath(outputRoot string) string {
	return filepath.Join(outputRoot, e.Filename(e.ShortName))
}

// SegmentsDir is the per-episode segment directory under segmentsRoot.
func (e *Episode) SegmentsDir(segmentsRoot string) string {
	return filepath.Join(segmentsRoot, e.ShortName)
}
