// Package reconcile detects episodes whose artifact already exists, under either naming scheme.
package reconcile

import (
	"fmt"

	"github.com/episodl/episodl/episode"
	"github.com/episodl/episodl/filesystem"
	"github.com/episodl/episodl/log"
)

// Outcome is the completion state of an episode.
type Outcome int

const (
	// Missing means no artifact exists and the episode must be downloaded.
	Missing Outcome = iota
	// Done means the canonical artifact already exists.
	Done
	// Renamed means a legacy artifact was moved to the canonical name.
	Renamed
)

func (o Outcome) String() string {
	switch o {
	case Done:
		return "done"
	case Renamed:
		return "renamed"
	default:
		return "missing"
	}
}

// Complete reports whether no further work is needed.
func (o Outcome) Complete() bool {
	return o != Missing
}

// Reconciler inspects the output directory. It never touches the network.
type Reconciler struct {
	OutputRoot string
}

// Reconcile checks the canonical artifact first, then the legacy one, which is renamed in place.
func (r *Reconciler) Reconcile(ep *episode.Episode) (Outcome, error) {
	fs := filesystem.API()

	canonical := ep.OutputPath(r.OutputRoot)
	exists, err := fs.Exists(canonical)
	if err != nil {
		return Missing, err
	}
	if exists {
		return Done, nil
	}

	legacy := ep.LegacyOutputPath(r.OutputRoot)
	if legacy == canonical {
		return Missing, nil
	}

	exists, err = fs.Exists(legacy)
	if err != nil {
		return Missing, err
	}
	if !exists {
		return Missing, nil
	}

	if err := fs.Rename(legacy, canonical); err != nil {
		return Missing, fmt.Errorf("rename legacy artifact: %w", err)
	}

	log.WithFields(log.Fields{"from": legacy, "to": canonical}).Info("legacy artifact renamed")
	return Renamed, nil
}
