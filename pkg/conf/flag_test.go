package conf

import (
	"os"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestEnvFlag(t *testing.T) {
	Convey("While using Flag struct, it should construct proper environment var name", t, func() {
		So(NewStringFlag("test_name", "", "").envName(), ShouldEqual, "OPENRAM_TEST_NAME")
	})
}

func TestFlags(t *testing.T) {
	Convey("While using Conf flags", t, func() {
		Convey("When some custom String Flag is defined", func() {
			customFlag := NewStringFlag("custom_string_arg", "help", "default")
			customFlag.clear()
			defer customFlag.clear()

			Convey("Without parse it should be default", func() {
				So(customFlag.Value(), ShouldEqual, "default")
			})

			Convey("When we define custom environment variable we should have custom value after parse", func() {
				os.Setenv(customFlag.envName(), "customContent")

				err := ParseEnv()
				So(err, ShouldBeNil)
				So(customFlag.Value(), ShouldEqual, "customContent")
			})
		})

		Convey("When some custom Float Flag is defined", func() {
			customFlag := NewFloatFlag("custom_float_arg", "help", 2.5)
			customFlag.clear()
			defer customFlag.clear()

			Convey("Without parse it should be default", func() {
				So(customFlag.Value(), ShouldEqual, 2.5)
			})

			Convey("When we define custom environment variable we should have custom value after parse", func() {
				os.Setenv(customFlag.envName(), "0.125")

				err := ParseEnv()
				So(err, ShouldBeNil)
				So(customFlag.Value(), ShouldEqual, 0.125)
			})
		})

		Convey("When some custom Bool Flag is defined", func() {
			customFlag := NewBoolFlag("custom_bool_arg", "help", false)
			customFlag.clear()
			defer customFlag.clear()

			Convey("Without parse it should be default", func() {
				So(customFlag.Value(), ShouldEqual, false)
			})

			Convey("When we define custom environment variable we should have custom value after parse", func() {
				os.Setenv(customFlag.envName(), "true")

				err := ParseEnv()
				So(err, ShouldBeNil)
				So(customFlag.Value(), ShouldEqual, true)
			})
		})

		Convey("When some custom Float List Flag is defined", func() {
			customFlag := NewFloatListFlag("custom_float_list_arg", "help", 0.05, 0.1)
			customFlag.clear()
			defer customFlag.clear()

			Convey("Without parse it should be default", func() {
				So(customFlag.Value(), ShouldResemble, []float64{0.05, 0.1})
			})

			Convey("When we define custom environment variable we should have custom values after parse", func() {
				os.Setenv(customFlag.envName(), "1,2.5,4")

				err := ParseEnv()
				So(err, ShouldBeNil)
				So(customFlag.Value(), ShouldResemble, []float64{1, 2.5, 4})
			})

			Convey("When the environment variable holds a malformed list", func() {
				os.Setenv(customFlag.envName(), "0.1,0.2x")

				err := ParseEnv()
				So(err, ShouldBeNil)

				Convey("Validate surfaces the parse error", func() {
					So(customFlag.Validate(), ShouldNotBeNil)
				})

				Convey("Value falls back to the defaults", func() {
					So(customFlag.Value(), ShouldResemble, []float64{0.05, 0.1})
				})
			})
		})
	})
}
