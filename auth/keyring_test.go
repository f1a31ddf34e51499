package auth

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/zalando/go-keyring"
)

func init() {
	keyring.MockInit()
}

func TestCredentials(t *testing.T) {
	Convey("Given an empty keyring", t, func() {
		So(DeleteCredentials(), ShouldBeNil)

		_, _, err := Credentials()
		So(errors.Is(err, ErrNoCredentials), ShouldBeTrue)

		Convey("Stored credentials can be read back and removed", func() {
			So(SetCredentials("AKID", "s3cr3t"), ShouldBeNil)

			id, secret, err := Credentials()
			So(err, ShouldBeNil)
			So(id, ShouldEqual, "AKID")
			So(secret, ShouldEqual, "s3cr3t")

			So(DeleteCredentials(), ShouldBeNil)
			_, _, err = Credentials()
			So(errors.Is(err, ErrNoCredentials), ShouldBeTrue)
		})
	})
}
