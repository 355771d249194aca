package executor

import (
	"bufio"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	. "github.com/smartystreets/goconvey/convey"
)

// TestLocal tests the execution of process on local machine.
func TestLocal(t *testing.T) {
	log.SetLevel(log.ErrorLevel)

	Convey("While using Local Executor", t, func() {
		l := NewLocal(t.TempDir())

		Convey("When command `echo output` is executed", func() {
			taskHandle, err := l.Execute("echo output")
			So(err, ShouldBeNil)
			defer taskHandle.EraseOutput()
			defer taskHandle.Clean()

			Convey("Wait should block until the task terminates", func() {
				terminated := taskHandle.Wait(5 * time.Second)
				So(terminated, ShouldBeTrue)
				So(taskHandle.Status(), ShouldEqual, TERMINATED)

				Convey("Exit code should be zero", func() {
					exitCode, err := taskHandle.ExitCode()
					So(err, ShouldBeNil)
					So(exitCode, ShouldEqual, 0)
				})

				Convey("The command stdout needs to match 'output'", func() {
					file, err := taskHandle.StdoutFile()
					So(err, ShouldBeNil)

					scanner := bufio.NewScanner(file)
					So(scanner.Scan(), ShouldBeTrue)
					So(scanner.Text(), ShouldEqual, "output")
				})
			})
		})

		Convey("When command which does not exist is executed", func() {
			taskHandle, err := l.Execute("commandThatDoesNotExists")
			So(err, ShouldBeNil)
			defer taskHandle.EraseOutput()
			defer taskHandle.Clean()

			taskHandle.Wait(5 * time.Second)

			Convey("Exit code should not be zero", func() {
				exitCode, err := taskHandle.ExitCode()
				So(err, ShouldBeNil)
				So(exitCode, ShouldNotEqual, 0)
			})
		})

		Convey("When we ask for exit code of a still running task", func() {
			taskHandle, err := l.Execute("sleep 5")
			So(err, ShouldBeNil)
			defer taskHandle.EraseOutput()
			defer taskHandle.Clean()
			defer taskHandle.Stop()

			Convey("An error should be returned", func() {
				_, err := taskHandle.ExitCode()
				So(err, ShouldNotBeNil)
			})
		})
	})
}
