// Package catalog resolves the listing page into the ordered set of episodes.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/episodl/episodl/episode"
	"github.com/episodl/episodl/log"
	"github.com/episodl/episodl/markup"
	"github.com/episodl/episodl/network"
)

// ErrSessionExpired signals that the page content does not look like an authenticated catalog.
var ErrSessionExpired = errors.New("session expired or invalid, check your cookies")

const (
	headingTag = "h3"
	linkTag    = "a"
	hrefAttr   = "href"
)

// Resolver fetches and parses the catalog page.
type Resolver struct {
	Client    *network.Client
	URL       string
	Extension string
}

// Resolve returns every listed episode in page order, newest first.
func (r *Resolver) Resolve(ctx context.Context) ([]*episode.Episode, error) {
	page, err := r.Client.Text(ctx, r.URL)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}

	episodes, err := Parse(page, r.URL, r.Extension)
	if err != nil {
		return nil, err
	}

	log.Infof("catalog %s lists %d episodes", r.URL, len(episodes))
	return episodes, nil
}

// Parse extracts one episode per heading. A heading without a link fails the
// whole page: mixed content means the session is no longer trusted.
func Parse(page, baseURL, extension string) ([]*episode.Episode, error) {
	root, err := markup.ParseString(page)
	if err != nil {
		return nil, err
	}

	headings := root.All(headingTag)
	episodes := make([]*episode.Episode, 0, len(headings))

	for i, heading := range headings {
		link, ok := heading.First(linkTag).Get()
		if !ok {
			return nil, fmt.Errorf("%w: heading %d %q has no link", ErrSessionExpired, i, heading.Text())
		}

		href, ok := link.Attr(hrefAttr).Get()
		if !ok {
			return nil, fmt.Errorf("%w: heading %d link has no target", ErrSessionExpired, i)
		}

		ep, err := episode.New(baseURL, href, extension)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSessionExpired, err)
		}
		episodes = append(episodes, ep)
	}

	if len(episodes) == 0 {
		return nil, fmt.Errorf("%w: no episodes listed", ErrSessionExpired)
	}
	return episodes, nil
}
