package uuid

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestNew(t *testing.T) {
	Convey("Generated run ids are well formed and unique", t, func() {
		first, err := New()
		So(err, ShouldBeNil)
		So(first, ShouldHaveLength, 36)
		So(first[8:9], ShouldEqual, "-")
		So(first[23:24], ShouldEqual, "-")

		second, err := New()
		So(err, ShouldBeNil)
		So(second, ShouldNotEqual, first)
	})
}
