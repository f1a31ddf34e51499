package where

import (
	"path/filepath"
	"testing"

	"github.com/episodl/episodl/filesystem"
	"github.com/episodl/episodl/key"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	// Use in-memory filesystem for tests to avoid creating real directories
	filesystem.SetMemMapFs()
}

func TestPaths(t *testing.T) {
	Convey("Path functions", t, func() {
		Convey("Config()", func() {
			path := Config()
			So(path, ShouldNotBeEmpty)
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("Logs()", func() {
			path := Logs()
			So(path, ShouldNotBeEmpty)
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("Working directory paths", func() {
			viper.Set(key.DownloadSegmentsDir, "content")
			viper.Set(key.DownloadOutputDir, "/srv/videos")

			So(filepath.IsAbs(Segments()), ShouldBeTrue)
			So(filepath.Base(Segments()), ShouldEqual, "content")
			So(Output(), ShouldEqual, "/srv/videos")
		})
	})
}
