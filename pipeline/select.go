package pipeline

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/episodl/episodl/episode"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
)

// ErrNoMatch is returned when no episode matches the requested identifier.
var ErrNoMatch = errors.New("no episode matches")

// Mode selects which catalog episodes a run processes.
type Mode int

const (
	// All processes every episode in catalog order.
	All Mode = iota
	// Latest processes only the first catalog entry.
	Latest
	// ByID processes the first episode whose full name contains the token.
	ByID
)

func (m Mode) String() string {
	switch m {
	case Latest:
		return "latest"
	case ByID:
		return "by-identifier"
	default:
		return "all"
	}
}

// Selection describes what a run processes.
type Selection struct {
	Mode Mode
	// Token is matched against full names in ByID mode.
	Token string
	// Upload publishes every selected episode once assembled.
	Upload bool
}

// Select applies the selection to the catalog, in catalog order, and sets upload flags.
func Select(episodes []*episode.Episode, sel Selection) ([]*episode.Episode, error) {
	var selected []*episode.Episode

	switch sel.Mode {
	case Latest:
		selected = lo.Slice(episodes, 0, 1)
	case ByID:
		match, ok := lo.Find(episodes, func(ep *episode.Episode) bool {
			return strings.Contains(ep.FullName, sel.Token)
		})
		if !ok {
			return nil, noMatch(episodes, sel.Token)
		}
		selected = []*episode.Episode{match}
	default:
		selected = episodes
	}

	for _, ep := range selected {
		ep.Upload = sel.Upload
	}
	return selected, nil
}

// noMatch builds ErrNoMatch with the closest names as a suggestion.
func noMatch(episodes []*episode.Episode, token string) error {
	names := lo.Map(episodes, func(ep *episode.Episode, _ int) string { return ep.FullName })

	ranks := fuzzy.RankFindFold(token, names)
	if len(ranks) == 0 {
		return fmt.Errorf("%w %q", ErrNoMatch, token)
	}

	sort.Sort(ranks)
	return fmt.Errorf("%w %q, did you mean %s?", ErrNoMatch, token, ranks[0].Target)
}
