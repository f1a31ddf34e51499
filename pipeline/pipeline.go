// Package pipeline sequences catalog resolution and the per-episode download pipeline.
//
// Per episode: reconcile existing output, then on a miss resolve the playlist,
// fetch segments, assemble and optionally publish. A failing episode is
// reported and the run moves on; only a catalog failure ends the run early.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/episodl/episodl/assemble"
	"github.com/episodl/episodl/catalog"
	"github.com/episodl/episodl/episode"
	"github.com/episodl/episodl/history"
	"github.com/episodl/episodl/icon"
	"github.com/episodl/episodl/lock"
	"github.com/episodl/episodl/log"
	"github.com/episodl/episodl/network"
	"github.com/episodl/episodl/playlist"
	"github.com/episodl/episodl/publish"
	"github.com/episodl/episodl/reconcile"
	"github.com/episodl/episodl/segment"
	"github.com/episodl/episodl/util"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Status is the outcome of processing one episode.
type Status int

const (
	// Failed covers network, filesystem and lock failures.
	Failed Status = iota
	// Aborted means the manifest or page looked like an expired session.
	Aborted
	// AlreadyDone means the canonical artifact existed.
	AlreadyDone
	// Renamed means a legacy artifact was moved to the canonical name.
	Renamed
	// Downloaded means the artifact was assembled in this run.
	Downloaded
)

func (s Status) String() string {
	switch s {
	case Aborted:
		return "aborted"
	case AlreadyDone:
		return "already downloaded"
	case Renamed:
		return "renamed"
	case Downloaded:
		return "downloaded"
	default:
		return "failed"
	}
}

// Result is what happened to one episode.
type Result struct {
	Episode *episode.Episode
	Status  Status
	// Artifact is set for Downloaded episodes.
	Artifact assemble.Artifact
	// Uploaded is set when the artifact was published.
	Uploaded bool
	// Err holds the failure, including a publish failure of an otherwise downloaded episode.
	Err error
}

// Report summarizes a run.
type Report struct {
	RunID   string
	Results []Result
}

// Failed returns the results that carry an error.
func (r *Report) Failed() []Result {
	var failed []Result
	for _, res := range r.Results {
		if res.Err != nil {
			failed = append(failed, res)
		}
	}
	return failed
}

// Err joins every per-episode error, or returns nil when all succeeded.
func (r *Report) Err() error {
	failed := r.Failed()
	if len(failed) == 0 {
		return nil
	}

	errs := make([]error, len(failed))
	for i, res := range failed {
		errs[i] = fmt.Errorf("%s: %w", res.Episode.FullName, res.Err)
	}
	return fmt.Errorf("%s failed: %w", util.Quantify(len(failed), "episode", "episodes"), errors.Join(errs...))
}

// Pipeline runs the download pipeline for catalog episodes.
type Pipeline struct {
	Config    Config
	Publisher publish.Publisher

	catalog    *catalog.Resolver
	playlists  *playlist.Resolver
	segments   *segment.Fetcher
	assembler  *assemble.Assembler
	reconciler *reconcile.Reconciler

	mu    sync.Mutex
	out   io.Writer
	log   *logrus.Entry
	runID string
}

// New wires the pipeline stages. Progress lines are written to out, which may be nil.
// When out is set, every request made through client is announced on it.
func New(cfg Config, client *network.Client, publisher publish.Publisher, out io.Writer) *Pipeline {
	if publisher == nil {
		publisher = publish.Nop{}
	}

	p := &Pipeline{
		Config:    cfg,
		Publisher: publisher,
		out:       out,
		log:       log.WithFields(log.Fields{}),

		catalog: &catalog.Resolver{
			Client:    client,
			URL:       cfg.CatalogURL,
			Extension: cfg.Extension,
		},
		playlists: &playlist.Resolver{
			Client:       client,
			ManifestName: cfg.ManifestName,
			MinSegments:  cfg.MinSegments,
		},
		segments: &segment.Fetcher{
			Client:  client,
			Root:    cfg.SegmentsRoot,
			Workers: cfg.Workers,
		},
		assembler: &assemble.Assembler{
			SegmentsRoot: cfg.SegmentsRoot,
			OutputRoot:   cfg.OutputRoot,
		},
		reconciler: &reconcile.Reconciler{
			OutputRoot: cfg.OutputRoot,
		},
	}

	p.segments.OnSegment = func(name string) {
		p.log.WithField("segment", name).Debug("segment stored")
	}

	if out != nil {
		client.OnRequest = func(url string) {
			p.say(icon.Download, "downloading %s", url)
		}
	}
	return p
}

// say writes one progress line. Safe for concurrent use.
func (p *Pipeline) say(i icon.Icon, format string, args ...any) {
	if p.out == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if prefix := icon.Get(i); prefix != "" {
		_, _ = fmt.Fprint(p.out, prefix, " ")
	}
	_, _ = fmt.Fprintf(p.out, format+"\n", args...)
}

// Episodes resolves the catalog. Any failure here means the session cannot be trusted.
func (p *Pipeline) Episodes(ctx context.Context) ([]*episode.Episode, error) {
	return p.catalog.Resolve(ctx)
}

// Run resolves the catalog, selects episodes and processes them one after another.
// A catalog failure is returned as the error with an empty report; per-episode
// failures are collected in the report and joined by Report.Err.
func (p *Pipeline) Run(ctx context.Context, sel Selection) (*Report, error) {
	p.runID = uuid.NewString()
	p.log = log.WithFields(log.Fields{"run": p.runID})
	report := &Report{RunID: p.runID}
	p.log.WithField("mode", sel.Mode.String()).Info("run started")

	episodes, err := p.Episodes(ctx)
	if err != nil {
		p.say(icon.Fail, "Error parsing episodes, check your cookies")
		return report, err
	}

	selected, err := Select(episodes, sel)
	if err != nil {
		return report, err
	}

	switch sel.Mode {
	case Latest:
		p.say(icon.Episode, "Downloading last episode only")
	case ByID:
		p.say(icon.Episode, "Downloading episode %s", sel.Token)
	}

	for _, ep := range selected {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		report.Results = append(report.Results, p.Process(ctx, ep))
	}

	p.log.WithField("episodes", len(report.Results)).Info("run finished")
	return report, nil
}

// Process runs the per-episode pipeline.
func (p *Pipeline) Process(ctx context.Context, ep *episode.Episode) Result {
	res := Result{Episode: ep}
	entry := p.log.WithField("episode", ep.FullName)

	p.say(icon.Episode, "Downloading %s", ep)

	if p.Config.Lock {
		l, err := lock.Acquire(p.Config.LocksDir, ep.ShortName)
		if err != nil {
			return p.fail(entry, res, Failed, err)
		}
		defer util.Ignore(l.Release)
	}

	outcome, err := p.reconciler.Reconcile(ep)
	if err != nil {
		return p.fail(entry, res, Failed, err)
	}
	switch outcome {
	case reconcile.Renamed:
		p.say(icon.Rename, "renaming %s to %s", ep.Filename(ep.ShortName), ep.Filename(ep.FullName))
		res.Status = Renamed
		return res
	case reconcile.Done:
		p.say(icon.Skip, "%s is already downloaded", ep.FullName)
		res.Status = AlreadyDone
		return res
	}

	manifest, err := p.playlists.Resolve(ctx, ep)
	if err != nil {
		if playlist.IsSessionSymptom(err) {
			p.say(icon.Fail, "skipping %s, probably cookie has expired", ep.FullName)
			return p.fail(entry, res, Aborted, err)
		}
		return p.fail(entry, res, Failed, err)
	}
	p.say(icon.Progress, "# of segments: %d", manifest.Len())

	fetched, err := p.segments.Fetch(ctx, ep, manifest)
	if err != nil {
		return p.fail(entry, res, Failed, err)
	}
	if fetched.Skipped {
		p.say(icon.Skip, "skipping already downloaded segments")
	}

	artifact, err := p.assembler.Assemble(ep, manifest)
	if err != nil {
		return p.fail(entry, res, Failed, err)
	}
	res.Status = Downloaded
	res.Artifact = artifact
	p.say(icon.Success, "%s assembled (%s)", artifact.Path, humanize.Bytes(uint64(artifact.Size)))

	if ep.Upload {
		p.say(icon.Upload, "uploading %s", artifact.Path)
		if err := p.Publisher.Publish(ctx, artifact.Path); err != nil {
			p.say(icon.Fail, "upload failed, %s is kept locally: %v", artifact.Path, err)
			entry.WithError(err).Error("publish failed")
			res.Err = err
		} else {
			res.Uploaded = true
		}
	}

	p.record(entry, res, manifest.Len())
	return res
}

func (p *Pipeline) fail(entry *logrus.Entry, res Result, status Status, err error) Result {
	entry.WithError(err).WithField("status", status.String()).Error("episode not completed")
	if status == Failed {
		p.say(icon.Fail, "%s: %v", res.Episode.FullName, err)
	}
	res.Status = status
	res.Err = err
	return res
}

func (p *Pipeline) record(entry *logrus.Entry, res Result, segments int) {
	if !p.Config.History {
		return
	}

	err := history.Save(&history.Record{
		FullName:  res.Episode.FullName,
		ShortName: res.Episode.ShortName,
		Path:      res.Artifact.Path,
		Size:      res.Artifact.Size,
		Segments:  segments,
		Uploaded:  res.Uploaded,
		RunID:     p.runID,
	})
	if err != nil {
		entry.WithError(err).Warn("history not saved")
	}
}
