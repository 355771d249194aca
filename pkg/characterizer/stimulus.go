package characterizer

import (
	"fmt"
	"io"

	"github.com/ishikabhosale/OpenRAM/pkg/spice"
)

// Measurement names requested from the simulator.
const (
	MeasDelayHL      = "delay_hl"
	MeasDelayLH      = "delay_lh"
	MeasSlewHL       = "slew_hl"
	MeasSlewLH       = "slew_lh"
	MeasRead0Power   = "read0_power"
	MeasRead1Power   = "read1_power"
	MeasWrite0Power  = "write0_power"
	MeasWrite1Power  = "write1_power"
	MeasLeakagePower = "leakage_power"
)

// measurementCategory is the result-file category all measurements land in.
const measurementCategory = "timing"

// pwlSetup is the fraction of a period input transitions are advanced
// relative to the clock edge.
const pwlSetup = 0.05

// StimulusEmitter converts a cycle sequence plus load/slew/corner parameters
// into simulator directives with the measurement statements for delay, slew
// and power windows.
type StimulusEmitter struct {
	opts     spice.Options
	sramName string
	wordSize int
	addrSize int
}

// NewStimulusEmitter is a constructor for StimulusEmitter.
func NewStimulusEmitter(opts spice.Options, sramName string, wordSize int, addrSize int) *StimulusEmitter {
	return &StimulusEmitter{
		opts:     opts,
		sramName: sramName,
		wordSize: wordSize,
		addrSize: addrSize,
	}
}

// writeCommonStimulus emits the supplies, the SRAM instantiation and the
// output loads shared by delay and power decks.
func (e *StimulusEmitter) writeCommonStimulus(stim *spice.Writer, netlist string, load float64) {
	stim.Include(netlist)

	stim.Comment("Global Power Supplies")
	stim.Supply()

	stim.Comment("Instantiation of the SRAM")
	stim.InstSRAM(e.addrSize, e.wordSize, e.sramName)

	stim.Comment("SRAM output loads")
	for i := 0; i < e.wordSize; i++ {
		stim.CapLoad(fmt.Sprintf("D%d", i), fmt.Sprintf("DOUT[%d]", i), load)
	}
}

// WriteDelayStimulus emits the full delay/power characterization deck for
// one probe point at the given clock period, output load (fF) and input
// slew (ns).
func (e *StimulusEmitter) WriteDelayStimulus(w io.Writer, netlist string, seq *CycleSequence, probeBit int, period float64, load float64, slew float64) {
	stim := spice.NewWriter(w, e.opts)
	stim.Comment(fmt.Sprintf("Delay stimulus for period of %gn load=%gfF slew=%gns", period, load, slew))

	e.writeCommonStimulus(stim, netlist, load)

	times := seq.Times()

	stim.Comment("Generation of data and address signals")
	for i := 0; i < e.wordSize; i++ {
		stim.GenPWL(fmt.Sprintf("DIN[%d]", i), times, seq.DataBit(i), period, slew, pwlSetup)
	}
	for i := 0; i < e.addrSize; i++ {
		stim.GenPWL(fmt.Sprintf("A[%d]", i), times, seq.AddrBit(i), period, slew, pwlSetup)
	}

	stim.Comment("Generation of control signals")
	csb, web, oeb := seq.ControlValues()
	stim.GenPWL("CSb", times, csb, period, slew, pwlSetup)
	stim.GenPWL("WEb", times, web, period, slew, pwlSetup)
	stim.GenPWL("OEb", times, oeb, period, slew, pwlSetup)

	// The clock is offset by one period so its first active edge aligns
	// with cycle 1, the idle cycle 0 having no positive edge.
	stim.Comment("Generation of global clock signal")
	stim.GenPulse("clk", 0, e.opts.Vdd, period, period, slew, slew)

	e.writeDelayMeasures(stim, seq, probeBit, times, period)

	// Run until the end of the last cycle.
	stim.WriteControl(times[len(times)-1] + period)
}

func (e *StimulusEmitter) writeDelayMeasures(stim *spice.Writer, seq *CycleSequence, probeBit int, times []float64, period float64) {
	stim.Comment("Measure statements for delay and power")
	for _, comment := range seq.Comments() {
		stim.Comment(comment)
	}

	trigName := "clk"
	targName := fmt.Sprintf("DOUT[%d]", probeBit)
	halfVdd := 0.5 * e.opts.Vdd

	// Delays reference the clock edge of the corresponding read cycle,
	// both thresholds at half supply.
	stim.GenMeasDelay(MeasDelayHL, trigName, targName, halfVdd, halfVdd,
		"RISE", "FALL", times[seq.Read0], times[seq.Read0])
	stim.GenMeasDelay(MeasDelayLH, trigName, targName, halfVdd, halfVdd,
		"RISE", "RISE", times[seq.Read1], times[seq.Read1])

	// Slews are measured between the 10%/90% supply crossings of the output.
	stim.GenMeasDelay(MeasSlewHL, targName, targName, 0.9*e.opts.Vdd, 0.1*e.opts.Vdd,
		"FALL", "FALL", times[seq.Read0], times[seq.Read0])
	stim.GenMeasDelay(MeasSlewLH, targName, targName, 0.1*e.opts.Vdd, 0.9*e.opts.Vdd,
		"RISE", "RISE", times[seq.Read1], times[seq.Read1])

	// One power integration window per measured cycle, spanning exactly
	// one period from the cycle's start.
	stim.GenMeasPower(MeasWrite0Power, times[seq.Write0], times[seq.Write0]+period)
	stim.GenMeasPower(MeasWrite1Power, times[seq.Write1], times[seq.Write1]+period)
	stim.GenMeasPower(MeasRead0Power, times[seq.Read0], times[seq.Read0]+period)
	stim.GenMeasPower(MeasRead1Power, times[seq.Read1], times[seq.Read1]+period)
}

// WritePowerStimulus emits the leakage measurement deck: every input held
// at a fixed level, controls inactive, clock low. The first period settles
// the circuit; leakage is measured over the second period only.
func (e *StimulusEmitter) WritePowerStimulus(w io.Writer, netlist string, period float64, load float64) {
	stim := spice.NewWriter(w, e.opts)
	stim.Comment(fmt.Sprintf("Power stimulus for period of %gn", period))

	e.writeCommonStimulus(stim, netlist, load)

	stim.Comment("Generation of data and address signals")
	for i := 0; i < e.wordSize; i++ {
		stim.GenConstant(fmt.Sprintf("DIN[%d]", i), 0)
	}
	for i := 0; i < e.addrSize; i++ {
		stim.GenConstant(fmt.Sprintf("A[%d]", i), 0)
	}

	stim.Comment("Generation of control signals")
	stim.GenConstant("CSb", e.opts.Vdd)
	stim.GenConstant("WEb", e.opts.Vdd)
	stim.GenConstant("OEb", e.opts.Vdd)

	stim.Comment("Generation of global clock signal")
	stim.GenConstant("clk", 0)

	stim.Comment("Measure statements for idle leakage power")
	stim.GenMeasPower(MeasLeakagePower, period, 2*period)

	stim.WriteControl(2 * period)
}
