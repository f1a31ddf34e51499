// Package history records completed downloads so they can be listed later.
//
// The history is informational only: whether an episode needs work is always
// decided from the output directory, never from this file.
package history

import (
	"sort"
	"time"

	"github.com/episodl/episodl/filesystem"
	"github.com/episodl/episodl/where"
	"github.com/metafates/gache"
	"github.com/samber/lo"
)

// Record describes one completed episode.
type Record struct {
	FullName    string    `json:"full_name"`
	ShortName   string    `json:"short_name"`
	Path        string    `json:"path"`
	Size        int64     `json:"size"`
	Segments    int       `json:"segments"`
	Uploaded    bool      `json:"uploaded"`
	RunID       string    `json:"run_id"`
	CompletedAt time.Time `json:"completed_at"`
}

// cacher provides a disk-backed registry of records keyed by full name.
var cacher = gache.New[map[string]*Record](
	&gache.Options{
		Path:       where.History(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// Get returns every record.
func Get() (map[string]*Record, error) {
	cached, expired, err := cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*Record), nil
	}
	return cached, nil
}

// List returns every record, most recently completed first.
func List() ([]*Record, error) {
	saved, err := Get()
	if err != nil {
		return nil, err
	}

	records := lo.Values(saved)
	sort.Slice(records, func(i, j int) bool {
		if records[i].CompletedAt.Equal(records[j].CompletedAt) {
			return records[i].FullName < records[j].FullName
		}
		return records[i].CompletedAt.After(records[j].CompletedAt)
	})
	return records, nil
}

// Save stores a record, replacing any previous one for the same episode.
// An upload recorded earlier is kept when the new record has none.
func Save(record *Record) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	if existing, ok := saved[record.FullName]; ok && existing.Uploaded {
		record.Uploaded = true
	}
	if record.CompletedAt.IsZero() {
		record.CompletedAt = time.Now()
	}

	saved[record.FullName] = record
	return cacher.Set(saved)
}

// Remove deletes the record of an episode.
func Remove(fullName string) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	delete(saved, fullName)
	return cacher.Set(saved)
}
