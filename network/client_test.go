package network

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/episodl/episodl/constant"
	"github.com/episodl/episodl/filesystem"
	"github.com/episodl/episodl/session"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestClient(t *testing.T) {
	Convey("Given a server that expects the session cookie", t, func() {
		var hits int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&hits, 1)
			c, err := r.Cookie("_session")
			if err != nil || c.Value != "abc" {
				w.WriteHeader(http.StatusForbidden)
				return
			}
			if r.UserAgent() != constant.UserAgent {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			_, _ = w.Write([]byte("payload"))
		}))
		defer srv.Close()

		client := New(Options{Cookies: session.Cookies{"_session": "abc"}})

		var seen []string
		client.OnRequest = func(url string) { seen = append(seen, url) }

		Convey("Text returns the body", func() {
			body, err := client.Text(context.Background(), srv.URL+"/page")
			So(err, ShouldBeNil)
			So(body, ShouldEqual, "payload")
			So(seen, ShouldResemble, []string{srv.URL + "/page"})
		})

		Convey("Download writes the body to disk", func() {
			So(filesystem.API().MkdirAll("/seg", 0o755), ShouldBeNil)
			n, err := client.Download(context.Background(), srv.URL+"/a.ts", "/seg/a.ts")
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 7)
			So(string(lo.Must(filesystem.API().ReadFile("/seg/a.ts"))), ShouldEqual, "payload")
			So(lo.Must(filesystem.API().Exists("/seg/a.ts.part")), ShouldBeFalse)
		})

		Convey("Missing cookies surface as a status error", func() {
			anonymous := New(Options{})
			_, err := anonymous.Text(context.Background(), srv.URL)
			So(errors.Is(err, ErrStatus), ShouldBeTrue)

			var status *StatusError
			So(errors.As(err, &status), ShouldBeTrue)
			So(status.Code, ShouldEqual, http.StatusForbidden)
			So(atomic.LoadInt32(&hits), ShouldEqual, 1)
		})
	})
}

func TestRetries(t *testing.T) {
	Convey("Given a server failing transiently", t, func() {
		var hits int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&hits, 1) < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = w.Write([]byte("ok"))
		}))
		defer srv.Close()

		Convey("Enough retries recover", func() {
			client := New(Options{Retries: 3, Backoff: time.Millisecond})
			body, err := client.Text(context.Background(), srv.URL)
			So(err, ShouldBeNil)
			So(body, ShouldEqual, "ok")
			So(atomic.LoadInt32(&hits), ShouldEqual, 3)
		})

		Convey("Too few retries surface the last status", func() {
			client := New(Options{Retries: 1, Backoff: time.Millisecond})
			_, err := client.Text(context.Background(), srv.URL)
			So(errors.Is(err, ErrStatus), ShouldBeTrue)
			So(atomic.LoadInt32(&hits), ShouldEqual, 2)
		})
	})

	Convey("Given a permanent client error", t, func() {
		var hits int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&hits, 1)
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		client := New(Options{Retries: 3, Backoff: time.Millisecond})
		_, err := client.Text(context.Background(), srv.URL)
		So(errors.Is(err, ErrStatus), ShouldBeTrue)
		So(atomic.LoadInt32(&hits), ShouldEqual, 1)
	})
}

func TestIsPartial(t *testing.T) {
	Convey("IsPartial", t, func() {
		So(IsPartial("a.ts.part"), ShouldBeTrue)
		So(IsPartial("a.ts"), ShouldBeFalse)
	})
}
