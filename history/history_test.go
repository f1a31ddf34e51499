package history

import (
	"testing"
	"time"

	"github.com/episodl/episodl/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestHistory(t *testing.T) {
	Convey("Given a completed episode", t, func() {
		record := &Record{
			FullName:    "S01E042-view-models",
			ShortName:   "S01E042",
			Path:        "/videos/S01E042-view-models.m2ts",
			Size:        1024,
			Segments:    25,
			Uploaded:    true,
			CompletedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		}

		Convey("When saving it", func() {
			So(Save(record), ShouldBeNil)

			Convey("Then it can be read back", func() {
				saved, err := Get()
				So(err, ShouldBeNil)
				So(saved["S01E042-view-models"].Size, ShouldEqual, 1024)
			})

			Convey("And a later record without upload keeps the earlier upload", func() {
				So(Save(&Record{FullName: "S01E042-view-models", CompletedAt: time.Now()}), ShouldBeNil)
				saved, err := Get()
				So(err, ShouldBeNil)
				So(saved["S01E042-view-models"].Uploaded, ShouldBeTrue)
			})

			Convey("And listing is newest first", func() {
				So(Save(&Record{FullName: "S01E043-next", CompletedAt: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)}), ShouldBeNil)
				records, err := List()
				So(err, ShouldBeNil)
				So(len(records), ShouldBeGreaterThanOrEqualTo, 2)
				So(records[0].FullName, ShouldNotEqual, "S01E042-view-models")
			})

			Convey("And it can be removed", func() {
				So(Remove("S01E042-view-models"), ShouldBeNil)
				saved, err := Get()
				So(err, ShouldBeNil)
				_, ok := saved["S01E042-view-models"]
				So(ok, ShouldBeFalse)
			})
		})
	})
}
