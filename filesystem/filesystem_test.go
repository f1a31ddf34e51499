package filesystem

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/afero"
)

func TestApi(t *testing.T) {
	Convey("Filesystem API", t, func() {
		Convey("Should default to OsFs", func() {
			SetOsFs()
			fs := API()
			So(fs, ShouldNotBeNil)
			So(fs.Name(), ShouldEqual, "OsFs")
		})

		Convey("Should switch to MemMapFs", func() {
			SetMemMapFs()
			fs := API()
			So(fs, ShouldNotBeNil)
			So(fs.Name(), ShouldEqual, "MemMapFS")
		})

		Convey("Should accept a custom backend", func() {
			SetFs(afero.NewReadOnlyFs(afero.NewMemMapFs()))
			So(API().Name(), ShouldEqual, "ReadOnlyFilter")
			SetMemMapFs()
		})

		Convey("GacheFs writes through the active backend", func() {
			SetMemMapFs()
			var g GacheFs
			So(g.MkdirAll("/a/b", 0o755), ShouldBeNil)
			So(exists(API().DirExists("/a/b")), ShouldBeTrue)
		})
	})
}

func exists(ok bool, err error) bool {
	So(err, ShouldBeNil)
	return ok
}
