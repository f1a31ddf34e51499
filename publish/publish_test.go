package publish

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/episodl/episodl/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestNewS3(t *testing.T) {
	Convey("Given no bucket", t, func() {
		_, err := NewS3(Options{Region: "us-east-1"})
		So(errors.Is(err, ErrNotConfigured), ShouldBeTrue)
	})

	Convey("Given a bucket and folder", t, func() {
		s, err := NewS3(Options{Bucket: "media", Folder: "SwiftTalk", Region: "us-east-1", AccessKeyID: "id", SecretAccessKey: "secret"})
		So(err, ShouldBeNil)
		So(s.Key("/videos/S01E042-view-models.m2ts"), ShouldEqual, "SwiftTalk/S01E042-view-models.m2ts")
	})
}

func TestPublish(t *testing.T) {
	Convey("Given an S3-compatible endpoint", t, func() {
		var (
			mu     sync.Mutex
			method string
			path   string
			body   string
		)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			b, _ := io.ReadAll(r.Body)
			mu.Lock()
			method, path, body = r.Method, r.URL.Path, string(b)
			mu.Unlock()
			w.Header().Set("ETag", `"etag"`)
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		So(filesystem.API().WriteFile("/videos/ep.m2ts", []byte("video-bytes"), 0o644), ShouldBeNil)

		s, err := NewS3(Options{
			Bucket:          "media",
			Folder:          "SwiftTalk",
			Region:          "us-east-1",
			Endpoint:        srv.URL,
			AccessKeyID:     "id",
			SecretAccessKey: "secret",
		})
		So(err, ShouldBeNil)

		Convey("The artifact is put under the folder", func() {
			So(s.Publish(context.Background(), "/videos/ep.m2ts"), ShouldBeNil)

			mu.Lock()
			defer mu.Unlock()
			So(method, ShouldEqual, http.MethodPut)
			So(path, ShouldEqual, "/media/SwiftTalk/ep.m2ts")
			So(body, ShouldEqual, "video-bytes")
		})

		Convey("A missing artifact fails before any request", func() {
			err := s.Publish(context.Background(), "/videos/absent.m2ts")
			So(err, ShouldNotBeNil)
			mu.Lock()
			defer mu.Unlock()
			So(method, ShouldBeEmpty)
		})
	})

	Convey("Nop accepts everything", t, func() {
		So(Nop{}.Publish(context.Background(), "/anything"), ShouldBeNil)
	})
}
