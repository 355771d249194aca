package characterizer

import (
	"bytes"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/ishikabhosale/OpenRAM/pkg/spice"
)

func testEmitter(wordSize int, addrSize int) *StimulusEmitter {
	opts := spice.Options{
		Vdd:         1.0,
		VddName:     "vdd",
		GndName:     "gnd",
		Temperature: 25,
		ModelFile:   "models/nom/models.sp",
	}
	return NewStimulusEmitter(opts, "sram", wordSize, addrSize)
}

func TestWriteDelayStimulus(t *testing.T) {
	Convey("When emitting a delay stimulus", t, func() {
		seq, err := BuildTestCycles("11", 2, 2, 2.0)
		So(err, ShouldBeNil)

		buffer := &bytes.Buffer{}
		testEmitter(2, 2).WriteDelayStimulus(buffer, "reduced.sp", seq, 1, 2.0, 1.5, 0.05)
		deck := buffer.String()

		Convey("The header records period, load and slew", func() {
			So(deck, ShouldContainSubstring, "Delay stimulus for period of 2n load=1.5fF slew=0.05ns")
		})

		Convey("The netlist is included and the SRAM instantiated", func() {
			So(deck, ShouldContainSubstring, ".include \"reduced.sp\"")
			So(deck, ShouldContainSubstring, "Xsram A[0] A[1] DIN[0] DIN[1] DOUT[0] DOUT[1] CSb WEb OEb clk vdd gnd sram")
		})

		Convey("Every output pin carries the capacitive load", func() {
			So(deck, ShouldContainSubstring, "CD0 DOUT[0] 0 1.5f")
			So(deck, ShouldContainSubstring, "CD1 DOUT[1] 0 1.5f")
		})

		Convey("One PWL source exists per address, data and control pin", func() {
			So(strings.Count(deck, " 0 PWL ("), ShouldEqual, 2+2+3)
			So(deck, ShouldContainSubstring, "VA[0] A[0] 0 PWL (")
			So(deck, ShouldContainSubstring, "VCSb CSb 0 PWL (")
		})

		Convey("The clock is periodic and offset by one period", func() {
			So(deck, ShouldContainSubstring, "Vclk clk 0 PULSE (0 1 2n 0.05n 0.05n")
		})

		Convey("Delay measures trigger on the clock at half supply", func() {
			So(deck, ShouldContainSubstring, ".meas tran delay_hl TRIG v(clk) VAL=0.5 RISE=1 TD=8n TARG v(DOUT[1]) VAL=0.5 FALL=1 TD=8n")
			So(deck, ShouldContainSubstring, ".meas tran delay_lh TRIG v(clk) VAL=0.5 RISE=1 TD=18n TARG v(DOUT[1]) VAL=0.5 RISE=1 TD=18n")
		})

		Convey("Slew measures use the 10%/90% supply crossings on the output", func() {
			So(deck, ShouldContainSubstring, ".meas tran slew_hl TRIG v(DOUT[1]) VAL=0.9 FALL=1 TD=8n TARG v(DOUT[1]) VAL=0.1 FALL=1 TD=8n")
			So(deck, ShouldContainSubstring, ".meas tran slew_lh TRIG v(DOUT[1]) VAL=0.1 RISE=1 TD=18n TARG v(DOUT[1]) VAL=0.9 RISE=1 TD=18n")
		})

		Convey("Each power window spans exactly one period of its cycle", func() {
			So(deck, ShouldContainSubstring, "write0_power avg par('-1*v(vdd)*i(Vvdd)') from=4n to=6n")
			So(deck, ShouldContainSubstring, "read0_power avg par('-1*v(vdd)*i(Vvdd)') from=8n to=10n")
			So(deck, ShouldContainSubstring, "write1_power avg par('-1*v(vdd)*i(Vvdd)') from=12n to=14n")
			So(deck, ShouldContainSubstring, "read1_power avg par('-1*v(vdd)*i(Vvdd)') from=18n to=20n")
		})

		Convey("The transient runs until the end of the trailing cycle", func() {
			So(deck, ShouldContainSubstring, ".TRAN 5p 22n")
			So(deck, ShouldContainSubstring, ".end")
		})
	})
}

func TestWritePowerStimulus(t *testing.T) {
	Convey("When emitting a leakage stimulus", t, func() {
		buffer := &bytes.Buffer{}
		testEmitter(1, 2).WritePowerStimulus(buffer, "sram.sp", 4.0, 1.0)
		deck := buffer.String()

		Convey("All inputs are held constant and the controls are inactive", func() {
			So(deck, ShouldContainSubstring, "VDIN[0] DIN[0] 0 DC 0")
			So(deck, ShouldContainSubstring, "VA[0] A[0] 0 DC 0")
			So(deck, ShouldContainSubstring, "VA[1] A[1] 0 DC 0")
			So(deck, ShouldContainSubstring, "VCSb CSb 0 DC 1")
			So(deck, ShouldContainSubstring, "VWEb WEb 0 DC 1")
			So(deck, ShouldContainSubstring, "VOEb OEb 0 DC 1")
			So(deck, ShouldContainSubstring, "Vclk clk 0 DC 0")
			So(deck, ShouldNotContainSubstring, "PWL")
		})

		Convey("The leakage window skips the first settling period", func() {
			So(deck, ShouldContainSubstring, "leakage_power avg par('-1*v(vdd)*i(Vvdd)') from=4n to=8n")
		})

		Convey("The transient runs for exactly two periods", func() {
			So(deck, ShouldContainSubstring, ".TRAN 5p 8n")
		})
	})
}
