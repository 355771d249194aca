package characterizer

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// OpKind is the operation performed during one clock cycle.
type OpKind int

const (
	// OpIdle deselects the SRAM for one cycle.
	OpIdle OpKind = iota
	// OpRead reads the addressed word.
	OpRead
	// OpWrite writes the data word at the addressed location.
	OpWrite
)

func (o OpKind) String() string {
	switch o {
	case OpIdle:
		return "idle"
	case OpRead:
		return "read"
	case OpWrite:
		return "write"
	}
	return "unknown"
}

// Cycle is one clock period's worth of stimulus. Cycles are immutable once
// the sequence is built.
type Cycle struct {
	// Comment labels the cycle in the stimulus file.
	Comment string
	// Time is the absolute start time of the cycle in ns.
	Time float64
	// Op is the operation performed this cycle.
	Op OpKind
	// Addr and Data hold one logic value per address/data bit.
	Addr []int
	Data []int
	// Active-low control levels: chip select, write enable, output enable.
	CSb int
	WEb int
	OEb int
}

// CycleSequence is the ordered test program plus the indices of the cycles
// used for the power and delay measurement windows.
type CycleSequence struct {
	Cycles []Cycle

	// Measurement window cycle indices.
	Write0 int
	Write1 int
	Read0  int
	Read1  int
	Idle   int

	wordSize int
	addrSize int
	period   float64
}

// Times returns the start time of every cycle in ns.
func (s *CycleSequence) Times() []float64 {
	times := make([]float64, len(s.Cycles))
	for i, cycle := range s.Cycles {
		times[i] = cycle.Time
	}
	return times
}

// AddrBit returns the per-cycle stream of logic values on one address pin.
func (s *CycleSequence) AddrBit(bit int) []int {
	values := make([]int, len(s.Cycles))
	for i, cycle := range s.Cycles {
		values[i] = cycle.Addr[bit]
	}
	return values
}

// DataBit returns the per-cycle stream of logic values on one data pin.
func (s *CycleSequence) DataBit(bit int) []int {
	values := make([]int, len(s.Cycles))
	for i, cycle := range s.Cycles {
		values[i] = cycle.Data[bit]
	}
	return values
}

// ControlValues returns the per-cycle streams of the csb, web and oeb levels.
func (s *CycleSequence) ControlValues() (csb []int, web []int, oeb []int) {
	for _, cycle := range s.Cycles {
		csb = append(csb, cycle.CSb)
		web = append(web, cycle.WEb)
		oeb = append(oeb, cycle.OEb)
	}
	return csb, web, oeb
}

// Comments returns the stimulus comment label for every cycle.
func (s *CycleSequence) Comments() []string {
	comments := make([]string, len(s.Cycles))
	for i, cycle := range s.Cycles {
		comments[i] = fmt.Sprintf("Cycle %2d\t%5.2fns:\t%s", i, cycle.Time, cycle.Comment)
	}
	return comments
}

// cycleBuilder accumulates cycles and returns an immutable sequence.
// A fresh builder is used for every stimulus generation so no state is
// shared between simulations. The first validation failure is sticky and
// surfaces from build().
type cycleBuilder struct {
	wordSize int
	addrSize int
	period   float64

	t      float64
	cycles []Cycle
	err    error
}

func newCycleBuilder(wordSize int, addrSize int, period float64) *cycleBuilder {
	return &cycleBuilder{
		wordSize: wordSize,
		addrSize: addrSize,
		period:   period,
	}
}

// decodeBits decomposes a binary string into one logic value per bit.
// The stimulus format requires one waveform per physical pin.
func decodeBits(bits string, width int, what string) ([]int, error) {
	if len(bits) != width {
		return nil, errors.Errorf("%s %q does not have %d bits", what, bits, width)
	}

	values := make([]int, width)
	for i, c := range bits {
		switch c {
		case '0':
			values[i] = 0
		case '1':
			values[i] = 1
		default:
			return nil, errors.Errorf("non-binary %s string %q", what, bits)
		}
	}
	return values, nil
}

// invertAddress returns the bit-complement of a binary address string.
func invertAddress(address string) (string, error) {
	var inverse strings.Builder
	for _, c := range address {
		switch c {
		case '0':
			inverse.WriteByte('1')
		case '1':
			inverse.WriteByte('0')
		default:
			return "", errors.Errorf("non-binary address string %q", address)
		}
	}
	return inverse.String(), nil
}

func (b *cycleBuilder) add(comment string, op OpKind, address string, data string, csb, web, oeb int) {
	if b.err != nil {
		return
	}

	addrValues, err := decodeBits(address, b.addrSize, "address")
	if err != nil {
		b.err = err
		return
	}
	dataValues, err := decodeBits(data, b.wordSize, "data")
	if err != nil {
		b.err = err
		return
	}

	b.cycles = append(b.cycles, Cycle{
		Comment: comment,
		Time:    b.t,
		Op:      op,
		Addr:    addrValues,
		Data:    dataValues,
		CSb:     csb,
		WEb:     web,
		OEb:     oeb,
	})
	b.t += b.period
}

// addIdle adds a deselected cycle: all control signals inactive high.
func (b *cycleBuilder) addIdle(comment string, address string, data string) {
	b.add(comment, OpIdle, address, data, 1, 1, 1)
}

func (b *cycleBuilder) addRead(comment string, address string, data string) {
	b.add(comment, OpRead, address, data, 0, 1, 0)
}

func (b *cycleBuilder) addWrite(comment string, address string, data string) {
	b.add(comment, OpWrite, address, data, 0, 0, 1)
}

func (b *cycleBuilder) lastIndex() int {
	return len(b.cycles) - 1
}

// BuildTestCycles builds the canonical test program stressing both output
// transition directions at the probed address:
// a deterministic idle start, a write 0 / read 0 pair producing a
// high-to-low output transition, and a write 1 / read 1 pair producing a
// low-to-high transition, with reads of the complement address in between
// to precondition the output capacitance. Times are multiples of period.
func BuildTestCycles(probeAddress string, wordSize int, addrSize int, period float64) (*CycleSequence, error) {
	inverseAddress, err := invertAddress(probeAddress)
	if err != nil {
		return nil, err
	}
	if len(probeAddress) != addrSize {
		return nil, errors.Errorf("probe address %q does not have %d bits", probeAddress, addrSize)
	}

	dataOnes := strings.Repeat("1", wordSize)
	dataZeros := strings.Repeat("0", wordSize)

	b := newCycleBuilder(wordSize, addrSize, period)
	seq := &CycleSequence{
		wordSize: wordSize,
		addrSize: addrSize,
		period:   period,
	}

	b.addIdle("Idle cycle (no positive clock edge)", inverseAddress, dataZeros)

	b.addWrite("W data 1 at inverse address", inverseAddress, dataOnes)

	b.addWrite("W data 0 at probe address to write value", probeAddress, dataZeros)
	seq.Write0 = b.lastIndex()

	// Forces the output high so the next read has a H->L transition.
	b.addRead("R data 1 at inverse address to set DOUT caps", inverseAddress, dataZeros)

	b.addRead("R data 0 at probe address to check W0 worked", probeAddress, dataZeros)
	seq.Read0 = b.lastIndex()

	b.addIdle("Idle cycle (if read takes >1 cycle)", inverseAddress, dataZeros)
	seq.Idle = b.lastIndex()

	b.addWrite("W data 1 at probe address to write value", probeAddress, dataOnes)
	seq.Write1 = b.lastIndex()

	b.addWrite("W data 0 at inverse address to clear DIN caps", inverseAddress, dataZeros)

	// Forces the output low so the next read has a L->H transition.
	b.addRead("R data 0 at inverse address to clear DOUT caps", inverseAddress, dataZeros)

	b.addRead("R data 1 at probe address to check W1 worked", probeAddress, dataZeros)
	seq.Read1 = b.lastIndex()

	b.addIdle("Idle cycle (to let measurements close)", probeAddress, dataZeros)

	if b.err != nil {
		return nil, b.err
	}

	seq.Cycles = b.cycles
	return seq, nil
}
