// Package segment downloads the media segments of an episode into its local segment directory.
package segment

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/episodl/episodl/episode"
	"github.com/episodl/episodl/filesystem"
	"github.com/episodl/episodl/log"
	"github.com/episodl/episodl/network"
	"github.com/episodl/episodl/playlist"
	"github.com/samber/lo"
)

// Result describes what a Fetch did.
type Result struct {
	// Dir is the episode's segment directory.
	Dir string
	// Skipped is set when the directory already held enough files and nothing was requested.
	Skipped bool
	// Downloaded is the number of segments fetched.
	Downloaded int
	// Bytes is the total size of fetched segments.
	Bytes int64
}

// Fetcher downloads missing segments.
type Fetcher struct {
	Client *network.Client
	// Root holds one directory per episode, named after its short name.
	Root string
	// Workers bounds concurrent segment downloads; values below 1 mean one.
	Workers int

	// OnSegment, when set, is called after each segment lands on disk. It may be called concurrently.
	OnSegment func(name string)
}

// Count returns the number of finished files in dir. Leftover partial downloads are not counted.
func Count(dir string) (int, error) {
	entries, err := filesystem.API().ReadDir(dir)
	if err != nil {
		return 0, err
	}
	return lo.CountBy(entries, func(e os.FileInfo) bool {
		return !network.IsPartial(e.Name())
	}), nil
}

// Fetch ensures every manifest segment is present in the episode's segment directory.
//
// When the directory already holds at least as many files as the manifest lists,
// the segments are considered complete and no request is made. Names and contents
// are not checked. Leftover partial downloads (".part" files from an interrupted
// run) do not count as files, so an interrupted directory is never taken for a
// complete one. Otherwise every segment is downloaded again, overwriting files of
// the same name.
func (f *Fetcher) Fetch(ctx context.Context, ep *episode.Episode, m *playlist.Manifest) (Result, error) {
	dir := ep.SegmentsDir(f.Root)
	res := Result{Dir: dir}

	if err := filesystem.API().MkdirAll(dir, os.ModePerm); err != nil {
		return res, fmt.Errorf("create segment directory: %w", err)
	}

	present, err := Count(dir)
	if err != nil {
		return res, fmt.Errorf("list segment directory: %w", err)
	}

	if present >= m.Len() {
		log.WithFields(log.Fields{"episode": ep.FullName, "present": present, "manifest": m.Len()}).Info("segments already downloaded")
		res.Skipped = true
		return res, nil
	}

	return f.download(ctx, ep, m, res)
}

// download fans manifest entries out to a bounded pool of workers.
// The first failure cancels the remaining downloads.
func (f *Fetcher) download(ctx context.Context, ep *episode.Episode, m *playlist.Manifest, res Result) (Result, error) {
	workers := f.Workers
	if workers < 1 {
		workers = 1
	}
	workers = lo.Min([]int{workers, m.Len()})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		mu       sync.Mutex
		firstErr error
		wg       sync.WaitGroup
	)

	jobs := make(chan string)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for name := range jobs {
				n, err := f.Client.Download(ctx, m.URL(name), filepath.Join(res.Dir, name))

				mu.Lock()
				if err != nil {
					if firstErr == nil {
						firstErr = fmt.Errorf("segment %s: %w", name, err)
						cancel()
					}
				} else {
					res.Downloaded++
					res.Bytes += n
				}
				mu.Unlock()

				if err == nil && f.OnSegment != nil {
					f.OnSegment(name)
				}
			}
		}()
	}

feed:
	for _, name := range m.Segments {
		select {
		case jobs <- name:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr == nil && ctx.Err() != nil {
		firstErr = ctx.Err()
	}

	log.WithFields(log.Fields{"episode": ep.FullName, "downloaded": res.Downloaded, "bytes": res.Bytes}).Info("segments fetched")
	return res, firstErr
}
