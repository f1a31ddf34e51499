package pipeline

// Config is the explicit configuration a Pipeline runs with.
type Config struct {
	// CatalogURL is the listing page; episode pages live beneath it.
	CatalogURL string
	// SegmentsRoot holds one segment directory per episode, keyed by short name.
	SegmentsRoot string
	// OutputRoot holds assembled artifacts, keyed by full name.
	OutputRoot string
	// ManifestName is joined to each episode's segment source location.
	ManifestName string
	// MinSegments is the sanity threshold below which a manifest signals an expired session.
	MinSegments int
	// Extension of assembled artifacts.
	Extension string
	// Workers bounds concurrent segment downloads within one episode.
	Workers int
	// Lock takes a per-episode advisory lock under LocksDir.
	Lock     bool
	LocksDir string
	// History records completed episodes.
	History bool
}
