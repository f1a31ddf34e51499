// Package assemble concatenates downloaded segments into an episode's output artifact.
package assemble

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/episodl/episodl/episode"
	"github.com/episodl/episodl/filesystem"
	"github.com/episodl/episodl/log"
	"github.com/episodl/episodl/playlist"
	"github.com/episodl/episodl/util"
)

// Artifact is an assembled episode on disk.
type Artifact struct {
	Path string
	Size int64
}

// Assembler joins segment files byte for byte.
type Assembler struct {
	// SegmentsRoot holds the per-episode segment directories.
	SegmentsRoot string
	// OutputRoot receives the assembled artifacts.
	OutputRoot string
}

// Assemble writes the episode's canonical artifact from its segments in manifest order.
// The directory listing order is never consulted. The artifact appears only once complete.
func (a *Assembler) Assemble(ep *episode.Episode, m *playlist.Manifest) (Artifact, error) {
	fs := filesystem.API()

	if err := fs.MkdirAll(a.OutputRoot, os.ModePerm); err != nil {
		return Artifact{}, fmt.Errorf("create output directory: %w", err)
	}

	dst := ep.OutputPath(a.OutputRoot)
	tmp, err := fs.TempFile(a.OutputRoot, "."+filepath.Base(dst)+".tmp-*")
	if err != nil {
		return Artifact{}, fmt.Errorf("create artifact: %w", err)
	}
	tmpName := tmp.Name()

	size, err := concat(tmp, ep.SegmentsDir(a.SegmentsRoot), m.Segments)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = fs.Remove(tmpName)
		return Artifact{}, err
	}

	if err := fs.Rename(tmpName, dst); err != nil {
		_ = fs.Remove(tmpName)
		return Artifact{}, fmt.Errorf("move artifact into place: %w", err)
	}

	log.WithFields(log.Fields{"episode": ep.FullName, "path": dst, "bytes": size}).Info("artifact assembled")
	return Artifact{Path: dst, Size: size}, nil
}

func concat(w io.Writer, dir string, segments []string) (int64, error) {
	var total int64
	for _, name := range segments {
		n, err := appendFile(w, filepath.Join(dir, name))
		if err != nil {
			return total, fmt.Errorf("append segment %s: %w", name, err)
		}
		total += n
	}
	return total, nil
}

func appendFile(w io.Writer, path string) (int64, error) {
	f, err := filesystem.API().Open(path)
	if err != nil {
		return 0, err
	}
	defer util.Ignore(f.Close)

	return io.Copy(w, f)
}
