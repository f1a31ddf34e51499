// Package playlist derives an episode's segment source and reads its ordered segment manifest.
package playlist

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/episodl/episodl/catalog"
	"github.com/episodl/episodl/episode"
	"github.com/episodl/episodl/log"
	"github.com/episodl/episodl/markup"
	"github.com/episodl/episodl/network"
)

var (
	// ErrManifestTooShort is the expired-session symptom seen at the episode level.
	ErrManifestTooShort = fmt.Errorf("manifest too short, probably the session has expired: %w", catalog.ErrSessionExpired)

	// ErrNoMediaSource is returned when the episode page embeds no media element with a source.
	ErrNoMediaSource = fmt.Errorf("no media source on episode page: %w", catalog.ErrSessionExpired)
)

const commentMarker = '#'

// Manifest is the ordered list of segment filenames of one episode.
// Order defines concatenation order.
type Manifest struct {
	// Base is the location segment filenames are relative to.
	Base     string
	Segments []string
}

// Len returns the number of segments.
func (m *Manifest) Len() int {
	return len(m.Segments)
}

// URL returns the location of a segment.
func (m *Manifest) URL(segment string) string {
	return episode.Join(m.Base, segment)
}

// Resolver locates and validates manifests.
type Resolver struct {
	Client *network.Client
	// ManifestName is joined to the segment source location, e.g. "1080p.m3u8".
	ManifestName string
	// MinSegments is the sanity threshold below which a manifest is rejected.
	MinSegments int
}

// Resolve follows episode page → media source → manifest and parses it.
// A manifest shorter than MinSegments yields ErrManifestTooShort and no Manifest.
func (r *Resolver) Resolve(ctx context.Context, ep *episode.Episode) (*Manifest, error) {
	page, err := r.Client.Text(ctx, ep.PageURL())
	if err != nil {
		return nil, fmt.Errorf("fetch episode page: %w", err)
	}

	base, err := SourceBase(page)
	if err != nil {
		return nil, err
	}

	text, err := r.Client.Text(ctx, episode.Join(base, r.ManifestName))
	if err != nil {
		return nil, fmt.Errorf("fetch manifest: %w", err)
	}

	m := &Manifest{Base: base, Segments: ParseManifest(text)}
	log.WithFields(log.Fields{"episode": ep.FullName, "segments": m.Len()}).Info("manifest resolved")

	if m.Len() < r.MinSegments {
		return nil, fmt.Errorf("%w (%d segments, need %d)", ErrManifestTooShort, m.Len(), r.MinSegments)
	}
	return m, nil
}

// SourceBase finds the first media element's primary source and strips its final path component.
func SourceBase(page string) (string, error) {
	root, err := markup.ParseString(page)
	if err != nil {
		return "", err
	}

	video, ok := root.First("video").Get()
	if !ok {
		return "", ErrNoMediaSource
	}
	source, ok := video.First("source").Get()
	if !ok {
		return "", ErrNoMediaSource
	}
	src, ok := source.Attr("src").Get()
	if !ok || src == "" {
		return "", ErrNoMediaSource
	}

	if i := strings.LastIndexByte(src, '/'); i >= 0 {
		return src[:i], nil
	}
	return src, nil
}

// ParseManifest returns the segment filenames of newline-delimited manifest text,
// skipping blank lines and comment lines. Lines may be of any length.
func ParseManifest(text string) []string {
	var segments []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" || line[0] == commentMarker {
			continue
		}
		segments = append(segments, line)
	}
	return segments
}

// IsSessionSymptom reports whether err points at an expired session rather than a transport or disk failure.
func IsSessionSymptom(err error) bool {
	return errors.Is(err, catalog.ErrSessionExpired)
}
