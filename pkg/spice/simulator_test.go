package spice

import (
	"os"
	"path"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/mock"

	"github.com/ishikabhosale/OpenRAM/pkg/executor/mocks"
)

func successfulHandle() *mocks.TaskHandle {
	handle := new(mocks.TaskHandle)
	handle.On("Wait", time.Duration(0)).Return(true)
	handle.On("ExitCode").Return(0, nil)
	handle.On("Clean").Return(nil)
	handle.On("EraseOutput").Return(nil)
	return handle
}

func TestSimulator(t *testing.T) {
	Convey("With a simulator over a mocked executor", t, func() {
		workDir := t.TempDir()
		mockedExecutor := new(mocks.Executor)
		simulator := New(mockedExecutor, Config{
			Executable: "ngspice",
			WorkingDir: workDir,
		})

		Convey("Run passes the batch command with the result file to the executor", func() {
			resultFile := path.Join(workDir, "timing.lis")
			So(os.WriteFile(resultFile, []byte(" delay_hl = 1.0e-10\n"), 0644), ShouldBeNil)

			handle := successfulHandle()
			expected := "ngspice -b -o " + resultFile + " " + path.Join(workDir, "stim.sp")
			mockedExecutor.On("Execute", expected).Return(handle, nil).Once()

			err := simulator.Run(path.Join(workDir, "stim.sp"))
			So(err, ShouldBeNil)
			mockedExecutor.AssertExpectations(t)
			handle.AssertExpectations(t)

			Convey("Measure reads the named result back from the file", func() {
				value, ok := simulator.Measure("timing", "delay_hl")
				So(ok, ShouldBeTrue)
				So(value, ShouldAlmostEqual, 1.0e-10)
			})

			Convey("Measure reports not-ok for measurements the run never produced", func() {
				_, ok := simulator.Measure("timing", "slew_lh")
				So(ok, ShouldBeFalse)
			})
		})

		Convey("A non-zero exit code fails the run", func() {
			handle := new(mocks.TaskHandle)
			handle.On("Wait", time.Duration(0)).Return(true)
			handle.On("ExitCode").Return(1, nil)
			handle.On("Clean").Return(nil)
			handle.On("EraseOutput").Return(nil)
			mockedExecutor.On("Execute", mock.Anything).Return(handle, nil).Once()

			err := simulator.Run("stim.sp")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "exited with code 1")
		})

		Convey("A missing result file fails the run even on a clean exit", func() {
			handle := successfulHandle()
			mockedExecutor.On("Execute", mock.Anything).Return(handle, nil).Once()

			err := simulator.Run("stim.sp")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "no result file")
		})

		Convey("Measure reports not-ok when no run has produced results yet", func() {
			_, ok := simulator.Measure("timing", "delay_hl")
			So(ok, ShouldBeFalse)
		})
	})
}
