package assemble

import (
	"path/filepath"
	"testing"

	"github.com/episodl/episodl/episode"
	"github.com/episodl/episodl/filesystem"
	"github.com/episodl/episodl/playlist"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestAssemble(t *testing.T) {
	Convey("Given downloaded segments", t, func() {
		filesystem.SetMemMapFs()
		fs := filesystem.API()

		ep, err := episode.New("https://example.com/episodes/", "/episodes/S01E042-view-models", "m2ts")
		So(err, ShouldBeNil)

		dir := ep.SegmentsDir("/content")
		So(fs.MkdirAll(dir, 0o755), ShouldBeNil)

		// Created in reverse so creation order disagrees with both name and manifest order.
		for _, name := range []string{"c.ts", "b.ts", "a.ts"} {
			So(fs.WriteFile(filepath.Join(dir, name), []byte(name[:1]+name[:1]), 0o644), ShouldBeNil)
		}

		a := &Assembler{SegmentsRoot: "/content", OutputRoot: "/videos"}

		Convey("Output follows manifest order", func() {
			art, err := a.Assemble(ep, &playlist.Manifest{Segments: []string{"a.ts", "b.ts", "c.ts"}})
			So(err, ShouldBeNil)
			So(art.Path, ShouldEqual, "/videos/S01E042-view-models.m2ts")
			So(art.Size, ShouldEqual, 6)
			So(string(lo.Must(fs.ReadFile(art.Path))), ShouldEqual, "aabbcc")
		})

		Convey("A manifest order different from names is honored", func() {
			art, err := a.Assemble(ep, &playlist.Manifest{Segments: []string{"c.ts", "a.ts", "b.ts"}})
			So(err, ShouldBeNil)
			So(string(lo.Must(fs.ReadFile(art.Path))), ShouldEqual, "ccaabb")
		})

		Convey("A missing segment leaves no artifact behind", func() {
			_, err := a.Assemble(ep, &playlist.Manifest{Segments: []string{"a.ts", "z.ts"}})
			So(err, ShouldNotBeNil)
			So(lo.Must(fs.Exists("/videos/S01E042-view-models.m2ts")), ShouldBeFalse)

			entries := lo.Must(fs.ReadDir("/videos"))
			So(entries, ShouldBeEmpty)
		})
	})
}
