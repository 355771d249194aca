// Package spice contains the collaborators around the external circuit
// simulator: stimulus file writing, simulator invocation, measurement
// result parsing and netlist trimming.
package spice

import (
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"
)

// timeGridPlaces is the number of decimal places (in ns) computed time
// points are emitted with, a 0.1ps grid. Raw float arithmetic would
// otherwise leak artifacts like 3.9499999999999997 into the deck.
const timeGridPlaces = 4

// ns formats a time in ns snapped onto the emission grid.
func ns(value float64) string {
	rounded, _ := decimal.NewFromFloat(value).Round(timeGridPlaces).Float64()
	return strconv.FormatFloat(rounded, 'g', -1, 64)
}

// Options carry the electrical environment a stimulus is written for.
type Options struct {
	// Vdd is the supply voltage in volts.
	Vdd float64
	// VddName and GndName are the names of the supply nets.
	VddName string
	GndName string
	// Temperature in degrees Celsius.
	Temperature float64
	// ModelFile is the device model include for the simulated process variant.
	ModelFile string
}

// Writer emits simulator directives for one stimulus file.
// The textual syntax targets ngspice/hspice compatible decks; the semantic
// content (signals, timings, measurement windows) is the actual contract.
type Writer struct {
	w    io.Writer
	opts Options
}

// NewWriter returns a stimulus writer emitting to w.
func NewWriter(w io.Writer, opts Options) *Writer {
	return &Writer{w: w, opts: opts}
}

// Comment writes a single comment line.
func (s *Writer) Comment(comment string) {
	fmt.Fprintf(s.w, "* %s\n", comment)
}

// Include writes an include statement for the given netlist file.
func (s *Writer) Include(path string) {
	fmt.Fprintf(s.w, ".include \"%s\"\n", path)
}

// Supply writes the global power supply sources.
func (s *Writer) Supply() {
	fmt.Fprintf(s.w, "V%s %s 0 %g\n", s.opts.VddName, s.opts.VddName, s.opts.Vdd)
	fmt.Fprintf(s.w, "V%s %s 0 0\n", s.opts.GndName, s.opts.GndName)
}

// InstSRAM writes the SRAM instantiation with one pin per address bit,
// data-in bit and data-out bit plus control signals, clock and supplies.
func (s *Writer) InstSRAM(addrBits int, dataBits int, sramName string) {
	fmt.Fprint(s.w, "Xsram ")
	for i := 0; i < addrBits; i++ {
		fmt.Fprintf(s.w, "A[%d] ", i)
	}
	for i := 0; i < dataBits; i++ {
		fmt.Fprintf(s.w, "DIN[%d] ", i)
	}
	for i := 0; i < dataBits; i++ {
		fmt.Fprintf(s.w, "DOUT[%d] ", i)
	}
	fmt.Fprintf(s.w, "CSb WEb OEb clk %s %s %s\n", s.opts.VddName, s.opts.GndName, sramName)
}

// CapLoad writes a capacitive load on the given node, value in fF.
func (s *Writer) CapLoad(name string, node string, femtofarads float64) {
	fmt.Fprintf(s.w, "C%s %s 0 %gf\n", name, node, femtofarads)
}

// GenPulse writes a periodic pulse source, times in ns.
// The pulse is high for half the period minus the transition times.
func (s *Writer) GenPulse(sigName string, v1 float64, v2 float64, offset float64, period float64, tRise float64, tFall float64) {
	highTime := 0.5*period - 0.5*(tRise+tFall)
	fmt.Fprintf(s.w, "V%s %s 0 PULSE (%g %g %sn %sn %sn %sn %sn)\n",
		sigName, sigName, v1, v2, ns(offset), ns(tRise), ns(tFall), ns(highTime), ns(period))
}

// GenPWL writes a piecewise linear source for the given per-cycle logic
// values. Each transition is advanced by the setup fraction of the period
// relative to the clock edge and ramped over the slew time. Times in ns.
func (s *Writer) GenPWL(sigName string, cycleTimes []float64, values []int, period float64, slew float64, setup float64) {
	fmt.Fprintf(s.w, "V%s %s 0 PWL (0n %gv", sigName, sigName, s.level(values[0]))
	for i := 1; i < len(values); i++ {
		if values[i] == values[i-1] {
			continue
		}
		t := cycleTimes[i] - setup*period
		fmt.Fprintf(s.w, " %sn %gv %sn %gv",
			ns(t-0.5*slew), s.level(values[i-1]),
			ns(t+0.5*slew), s.level(values[i]))
	}
	fmt.Fprint(s.w, ")\n")
}

// GenConstant writes a DC source holding the signal at a fixed voltage.
func (s *Writer) GenConstant(sigName string, voltage float64) {
	fmt.Fprintf(s.w, "V%s %s 0 DC %g\n", sigName, sigName, voltage)
}

// GenMeasDelay writes a delay measurement between two threshold crossings.
// Trigger and target each specify the observed signal, threshold voltage,
// edge direction (RISE or FALL) and measurement window start in ns.
func (s *Writer) GenMeasDelay(measName string, trigName string, targName string, trigVal float64, targVal float64, trigDir string, targDir string, trigTD float64, targTD float64) {
	fmt.Fprintf(s.w, ".meas tran %s TRIG v(%s) VAL=%g %s=1 TD=%sn TARG v(%s) VAL=%g %s=1 TD=%sn\n",
		measName, trigName, trigVal, trigDir, ns(trigTD), targName, targVal, targDir, ns(targTD))
}

// GenMeasPower writes an average power measurement over [tInitial, tFinal] ns.
func (s *Writer) GenMeasPower(measName string, tInitial float64, tFinal float64) {
	fmt.Fprintf(s.w, ".meas tran %s avg par('-1*v(%s)*i(V%s)') from=%sn to=%sn\n",
		measName, s.opts.VddName, s.opts.VddName, ns(tInitial), ns(tFinal))
}

// WriteControl finishes the deck: transient analysis until endTime ns,
// simulation temperature and device models.
func (s *Writer) WriteControl(endTime float64) {
	fmt.Fprintf(s.w, ".TRAN 5p %sn\n", ns(endTime))
	fmt.Fprintf(s.w, ".TEMP %g\n", s.opts.Temperature)
	fmt.Fprint(s.w, ".OPTIONS POST=1 PROBE\n")
	if s.opts.ModelFile != "" {
		s.Include(s.opts.ModelFile)
	}
	fmt.Fprint(s.w, ".end\n")
}

func (s *Writer) level(logic int) float64 {
	if logic == 0 {
		return 0
	}
	return s.opts.Vdd
}
