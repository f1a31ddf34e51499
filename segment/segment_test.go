package segment

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/episodl/episodl/episode"
	"github.com/episodl/episodl/filesystem"
	"github.com/episodl/episodl/network"
	"github.com/episodl/episodl/playlist"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func names(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("seg%03d.ts", i)
	}
	return out
}

func TestFetch(t *testing.T) {
	Convey("Given a segment server and an episode", t, func() {
		filesystem.SetMemMapFs()

		var requests int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&requests, 1)
			if strings.HasSuffix(r.URL.Path, "broken.ts") {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			_, _ = w.Write([]byte("data:" + filepath.Base(r.URL.Path)))
		}))
		defer srv.Close()

		ep, err := episode.New("https://example.com/episodes/", "/episodes/S01E042-view-models", "m2ts")
		So(err, ShouldBeNil)

		m := &playlist.Manifest{Base: srv.URL + "/hls/42", Segments: names(25)}
		f := &Fetcher{Client: network.New(network.Options{}), Root: "/content"}
		dir := "/content/S01E042"

		Convey("Missing segments are downloaded into the short-name directory", func() {
			res, err := f.Fetch(context.Background(), ep, m)
			So(err, ShouldBeNil)
			So(res.Skipped, ShouldBeFalse)
			So(res.Downloaded, ShouldEqual, 25)
			So(res.Dir, ShouldEqual, dir)
			So(atomic.LoadInt32(&requests), ShouldEqual, 25)
			So(string(lo.Must(filesystem.API().ReadFile(filepath.Join(dir, "seg007.ts")))), ShouldEqual, "data:seg007.ts")
			So(lo.Must(Count(dir)), ShouldEqual, 25)
		})

		Convey("A directory holding at least as many files is skipped without requests", func() {
			So(filesystem.API().MkdirAll(dir, 0o755), ShouldBeNil)
			for i := 0; i < 26; i++ {
				So(filesystem.API().WriteFile(filepath.Join(dir, fmt.Sprintf("stale%d", i)), []byte("x"), 0o644), ShouldBeNil)
			}

			res, err := f.Fetch(context.Background(), ep, m)
			So(err, ShouldBeNil)
			So(res.Skipped, ShouldBeTrue)
			So(atomic.LoadInt32(&requests), ShouldEqual, 0)
		})

		Convey("A partly filled directory is downloaded in full", func() {
			So(filesystem.API().MkdirAll(dir, 0o755), ShouldBeNil)
			So(filesystem.API().WriteFile(filepath.Join(dir, "seg000.ts"), []byte("old"), 0o644), ShouldBeNil)

			res, err := f.Fetch(context.Background(), ep, m)
			So(err, ShouldBeNil)
			So(res.Downloaded, ShouldEqual, 25)
			So(string(lo.Must(filesystem.API().ReadFile(filepath.Join(dir, "seg000.ts")))), ShouldEqual, "data:seg000.ts")
		})

		Convey("Partial downloads are not counted", func() {
			So(filesystem.API().MkdirAll(dir, 0o755), ShouldBeNil)
			So(filesystem.API().WriteFile(filepath.Join(dir, "seg000.ts.part"), []byte("x"), 0o644), ShouldBeNil)
			So(lo.Must(Count(dir)), ShouldEqual, 0)
		})

		Convey("A directory of interrupted downloads is not skipped", func() {
			So(filesystem.API().MkdirAll(dir, 0o755), ShouldBeNil)
			for _, name := range names(25) {
				So(filesystem.API().WriteFile(filepath.Join(dir, name+".part"), []byte("x"), 0o644), ShouldBeNil)
			}

			res, err := f.Fetch(context.Background(), ep, m)
			So(err, ShouldBeNil)
			So(res.Skipped, ShouldBeFalse)
			So(res.Downloaded, ShouldEqual, 25)
			So(atomic.LoadInt32(&requests), ShouldEqual, 25)
		})

		Convey("A worker pool fetches the same segments", func() {
			f.Workers = 4
			var landed int32
			f.OnSegment = func(string) { atomic.AddInt32(&landed, 1) }

			res, err := f.Fetch(context.Background(), ep, m)
			So(err, ShouldBeNil)
			So(res.Downloaded, ShouldEqual, 25)
			So(atomic.LoadInt32(&landed), ShouldEqual, 25)
			So(lo.Must(Count(dir)), ShouldEqual, 25)
		})

		Convey("A failing segment fails the fetch", func() {
			m.Segments = append(names(3), "broken.ts")
			_, err := f.Fetch(context.Background(), ep, m)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "broken.ts")
			So(lo.Must(filesystem.API().Exists(filepath.Join(dir, "broken.ts"))), ShouldBeFalse)
		})
	})
}
