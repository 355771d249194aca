package characterizer

import (
	"os"
	"path"
	"regexp"
	"strconv"
	"testing"

	log "github.com/sirupsen/logrus"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/mock"

	"github.com/ishikabhosale/OpenRAM/pkg/characterizer/mocks"
	"github.com/ishikabhosale/OpenRAM/pkg/tech"
)

var (
	delayHeaderPattern = regexp.MustCompile(`Delay stimulus for period of ([0-9.eE+-]+)n`)
	powerHeaderPattern = regexp.MustCompile(`Power stimulus for period of ([0-9.eE+-]+)n`)
	includePattern     = regexp.MustCompile(`\.include "([^"]+)"`)
)

// fakeSimulator mimics a circuit whose measurements succeed once the clock
// period reaches minFeasiblePeriod. It recovers the period and the included
// netlist from the stimulus file the runner actually wrote.
type fakeSimulator struct {
	// minFeasiblePeriod in ns; shorter periods yield failed measurements.
	minFeasiblePeriod float64

	// Measurement values in base simulator units (seconds, watts).
	delayHL, delayLH float64
	slewHL, slewLH   float64
	dynamicPower     float64
	fullLeakage      float64
	trimLeakage      float64

	lastPeriod  float64
	lastNetlist string
	isPowerRun  bool
	runs        int
}

func newFakeSimulator(minFeasiblePeriod float64) *fakeSimulator {
	return &fakeSimulator{
		minFeasiblePeriod: minFeasiblePeriod,
		delayHL:           0.1e-9,
		delayLH:           0.1e-9,
		slewHL:            0.02e-9,
		slewLH:            0.02e-9,
		dynamicPower:      0.42e-3,
		fullLeakage:       0.08e-3,
		trimLeakage:       0.05e-3,
	}
}

func (f *fakeSimulator) Run(stimulusPath string) error {
	content, err := os.ReadFile(stimulusPath)
	if err != nil {
		return err
	}
	f.runs++

	if match := delayHeaderPattern.FindSubmatch(content); match != nil {
		f.isPowerRun = false
		f.lastPeriod, _ = strconv.ParseFloat(string(match[1]), 64)
	} else if match := powerHeaderPattern.FindSubmatch(content); match != nil {
		f.isPowerRun = true
		f.lastPeriod, _ = strconv.ParseFloat(string(match[1]), 64)
	}

	if match := includePattern.FindSubmatch(content); match != nil {
		f.lastNetlist = string(match[1])
	}

	return nil
}

func (f *fakeSimulator) Measure(category string, measName string) (float64, bool) {
	if measName == MeasLeakagePower {
		if path.Base(f.lastNetlist) == "reduced.sp" {
			return f.trimLeakage, true
		}
		return f.fullLeakage, true
	}

	if f.lastPeriod < f.minFeasiblePeriod {
		return 0, false
	}

	switch measName {
	case MeasDelayHL:
		return f.delayHL, true
	case MeasDelayLH:
		return f.delayLH, true
	case MeasSlewHL:
		return f.slewHL, true
	case MeasSlewLH:
		return f.slewLH, true
	default:
		return f.dynamicPower, true
	}
}

// newTestCharacterizer wires a characterizer around the given simulator in
// a fresh working directory with a stub netlist.
func newTestCharacterizer(t *testing.T, sim Simulator, trimmer Trimmer, trim bool) *Characterizer {
	workDir := t.TempDir()
	netlist := path.Join(workDir, "source.sp")
	if err := os.WriteFile(netlist, []byte("* stub netlist\n.subckt sram\n.ends\n"), 0644); err != nil {
		t.Fatal(err)
	}

	params := tech.Default()
	params.FeasiblePeriod = 10.0

	char, err := New(Config{
		Name:        "sram",
		WordSize:    1,
		AddrSize:    2,
		NetlistPath: netlist,
		WorkingDir:  workDir,
		TrimNetlist: trim,
	}, Corner{Process: "TT", Voltage: 1.0, Temperature: 25}, params, sim, trimmer)
	if err != nil {
		t.Fatal(err)
	}
	return char
}

func TestCharacterize(t *testing.T) {
	log.SetLevel(log.ErrorLevel)

	Convey("With a circuit that is feasible above 0.2ns", t, func() {
		sim := newFakeSimulator(0.2)

		Convey("When trimming is enabled with a mocked trimmer", func() {
			mockedTrimmer := new(mocks.Trimmer)
			char := newTestCharacterizer(t, sim, mockedTrimmer, true)
			reduced := path.Join(char.conf.WorkingDir, "reduced.sp")
			mockedTrimmer.On("Trim", "11", 0).Return(reduced, nil).Once()

			table, err := char.Characterize("11", 0, []float64{0.05}, []float64{1.0})
			So(err, ShouldBeNil)
			mockedTrimmer.AssertExpectations(t)

			Convey("The minimum period converges to within 5% of the feasibility threshold", func() {
				So(table.MinPeriod, ShouldBeGreaterThanOrEqualTo, 0.2)
				So(table.MinPeriod, ShouldBeLessThan, 0.2*1.06)
			})

			Convey("The table has exactly one entry per sweep point per metric", func() {
				for _, list := range table.Lists() {
					So(len(list.Values), ShouldEqual, 1)
				}
			})

			Convey("Delays and slews are rescaled to ns and reported verbatim", func() {
				So(table.DelayHL[0], ShouldAlmostEqual, 0.1)
				So(table.DelayLH[0], ShouldAlmostEqual, 0.1)
				So(table.SlewHL[0], ShouldAlmostEqual, 0.02)
				So(table.SlewLH[0], ShouldAlmostEqual, 0.02)
			})

			Convey("Dynamic power is corrected with the full-circuit leakage", func() {
				// 0.42mW measured - 0.05mW trimmed leakage + 0.08mW full leakage.
				So(table.Read0Power[0], ShouldAlmostEqual, 0.45)
				So(table.Write1Power[0], ShouldAlmostEqual, 0.45)
			})

			Convey("The scalar leakage figure is the full-circuit one", func() {
				So(table.LeakagePower, ShouldAlmostEqual, 0.08)
			})
		})

		Convey("When trimming is disabled the leakage correction cancels out", func() {
			char := newTestCharacterizer(t, sim, nil, false)

			table, err := char.Characterize("11", 0, []float64{0.05}, []float64{1.0})
			So(err, ShouldBeNil)
			So(table.Read0Power[0], ShouldAlmostEqual, 0.42)
		})

		Convey("A multi-point sweep yields one aligned entry per pair", func() {
			char := newTestCharacterizer(t, sim, nil, false)

			table, err := char.Characterize("11", 0, []float64{0.05, 0.1}, []float64{1.0, 2.0, 4.0})
			So(err, ShouldBeNil)
			for _, list := range table.Lists() {
				So(len(list.Values), ShouldEqual, 6)
			}
		})
	})

	Convey("With a malformed probe address", t, func() {
		mockedSimulator := new(mocks.Simulator)

		Convey("Characterization fails before anything reaches simulation", func() {
			char := newTestCharacterizer(t, mockedSimulator, nil, false)

			_, err := char.Characterize("10x1", 0, []float64{0.05}, []float64{1.0})
			So(err, ShouldNotBeNil)

			_, err = char.Characterize("1", 0, []float64{0.05}, []float64{1.0})
			So(err, ShouldNotBeNil)

			mockedSimulator.AssertNotCalled(t, "Run", mock.Anything)
		})

		Convey("An out-of-range probe bit is rejected as well", func() {
			char := newTestCharacterizer(t, mockedSimulator, nil, false)

			_, err := char.Characterize("11", 3, []float64{0.05}, []float64{1.0})
			So(err, ShouldNotBeNil)
			mockedSimulator.AssertNotCalled(t, "Run", mock.Anything)
		})
	})

	Convey("With empty sweep sets", t, func() {
		char := newTestCharacterizer(t, new(mocks.Simulator), nil, false)

		_, err := char.Characterize("11", 0, nil, []float64{1.0})
		So(err, ShouldNotBeNil)
	})
}

func TestPowerCorrection(t *testing.T) {
	Convey("The leakage substitution is linear in its three inputs", t, func() {
		So(correctPower(0.42, 0.05, 0.08), ShouldAlmostEqual, 0.45)
		So(correctPower(0.42, 0.08, 0.05), ShouldAlmostEqual, 0.39)
		So(correctPower(0, 0, 0), ShouldAlmostEqual, 0)

		Convey("A negative corrected figure is reported as-is", func() {
			So(correctPower(0.01, 0.05, 0.01), ShouldAlmostEqual, -0.03)
		})
	})
}

func TestAnalyticalEstimate(t *testing.T) {
	Convey("When estimating from the closed-form model", t, func() {
		char := newTestCharacterizer(t, new(mocks.Simulator), nil, false)
		model := LinearModel{
			IntrinsicDelayPS: 200,
			LoadFactor:       10,
			SlewFactor:       100,
			DynamicNW:        5e5,
			LeakageNW:        2e3,
		}

		table := char.AnalyticalEstimate(model, []float64{0.05}, []float64{1.0, 2.0})

		Convey("Delays are converted from ps to ns per sweep point", func() {
			So(len(table.DelayLH), ShouldEqual, 2)
			// 200 + 10*1.0 + 100*0.05 = 215ps.
			So(table.DelayLH[0], ShouldAlmostEqual, 0.215)
			So(table.DelayHL[0], ShouldAlmostEqual, 0.215)
			So(table.DelayLH[1], ShouldAlmostEqual, 0.225)
		})

		Convey("Power is converted from nW to mW", func() {
			So(table.LeakagePower, ShouldAlmostEqual, 0.002)
			So(table.Read0Power[0], ShouldAlmostEqual, 0.5)
		})

		Convey("The minimum period is not estimated", func() {
			So(table.MinPeriod, ShouldEqual, 0)
		})
	})
}
