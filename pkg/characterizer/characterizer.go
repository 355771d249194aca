// Package characterizer measures the delay and power of a generated SRAM
// at a given address and data bit by driving an external circuit simulator.
//
// In general a characterization performs the following actions:
//  1. Trim the netlist to remove logic irrelevant to the probe point.
//  2. Find a feasible clock period using max load/slew on the trimmed netlist.
//  3. Binary search the minimum period whose delay stays within tolerance
//     of the feasible delay.
//  4. Measure the leakage of the trimmed and the whole (untrimmed) netlist.
//  5. Subtract the trimmed leakage and add the untrimmed leakage to every
//     dynamic power figure.
//
// Netlist trimming can be disabled in the Config, but simulations on the
// full netlist are very slow.
package characterizer

import (
	"path"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/ishikabhosale/OpenRAM/pkg/spice"
	"github.com/ishikabhosale/OpenRAM/pkg/tech"
	"github.com/ishikabhosale/OpenRAM/pkg/utils/fs"
)

// Config describes the circuit under characterization and the run
// environment. It is threaded into the orchestrator at construction;
// independent runs with distinct working directories may proceed in
// parallel.
type Config struct {
	// Name of the SRAM circuit instance.
	Name string
	// WordSize is the data bus width in bits.
	WordSize int
	// AddrSize is the address bus width in bits.
	AddrSize int
	// NetlistPath is the full (untrimmed) netlist of the circuit.
	NetlistPath string
	// WorkingDir holds the transient stimulus, netlist and result files.
	// Only one simulation may be in flight against it at a time.
	WorkingDir string
	// TrimNetlist enables netlist reduction for the probe point.
	TrimNetlist bool
}

// Characterizer drives the full probe across all requested load/slew
// corners and assembles the characterization table.
type Characterizer struct {
	conf    Config
	corner  Corner
	tech    tech.Params
	runner  *simulationRunner
	trimmer Trimmer

	// Simulation state for the current run.
	probeAddress string
	probeBit     int
	period       float64
	load         float64
	slew         float64
	trimNetlist  string
	fullNetlist  string
}

// New is a constructor for Characterizer. The trimmer may be nil when
// Config.TrimNetlist is false.
func New(config Config, corner Corner, params tech.Params, sim Simulator, trimmer Trimmer) (*Characterizer, error) {
	if config.WordSize <= 0 || config.AddrSize <= 0 {
		return nil, errors.Errorf("invalid SRAM geometry: word size %d, address size %d",
			config.WordSize, config.AddrSize)
	}
	if config.TrimNetlist && trimmer == nil {
		return nil, errors.New("netlist trimming enabled but no trimmer supplied")
	}

	modelFile, err := params.ModelFile(corner.Process)
	if err != nil {
		return nil, err
	}

	opts := spice.Options{
		Vdd:         corner.Voltage,
		VddName:     params.VddName,
		GndName:     params.GndName,
		Temperature: corner.Temperature,
		ModelFile:   modelFile,
	}
	emitter := NewStimulusEmitter(opts, config.Name, config.WordSize, config.AddrSize)

	return &Characterizer{
		conf:    config,
		corner:  corner,
		tech:    params,
		runner:  newSimulationRunner(sim, emitter, config.WorkingDir),
		trimmer: trimmer,
	}, nil
}

// checkProbe validates the probe point before anything reaches a simulation.
func (c *Characterizer) checkProbe(probeAddress string, probeBit int) error {
	if _, err := decodeBits(probeAddress, c.conf.AddrSize, "probe address"); err != nil {
		return err
	}
	if probeBit < 0 || probeBit >= c.conf.WordSize {
		return errors.Errorf("probe bit %d out of range for word size %d", probeBit, c.conf.WordSize)
	}
	return nil
}

// SetProbe selects the probe point and prepares the trimmed and full
// netlists for it. It is called by Characterize but can be used separately
// to drive the lower level simulations directly.
func (c *Characterizer) SetProbe(probeAddress string, probeBit int) error {
	if err := c.checkProbe(probeAddress, probeBit); err != nil {
		return err
	}
	c.probeAddress = probeAddress
	c.probeBit = probeBit

	return c.prepareNetlists()
}

// prepareNetlists copies the full netlist into the working directory and
// produces the reduced netlist when trimming is enabled. With trimming
// disabled the full copy serves both purposes, functionally identical but
// far slower to simulate.
func (c *Characterizer) prepareNetlists() error {
	c.fullNetlist = path.Join(c.conf.WorkingDir, "sram.sp")
	if err := fs.CopyFile(c.conf.NetlistPath, c.fullNetlist); err != nil {
		return errors.Wrap(err, "could not stage full netlist")
	}

	if !c.conf.TrimNetlist {
		c.trimNetlist = c.fullNetlist
		return nil
	}

	trimmed, err := c.trimmer.Trim(c.probeAddress, c.probeBit)
	if err != nil {
		return errors.Wrapf(err, "netlist trimming failed for address %s bit %d",
			c.probeAddress, c.probeBit)
	}
	c.trimNetlist = trimmed
	return nil
}

// runDelay rebuilds the cycle sequence for the current period and runs one
// delay simulation on the trimmed netlist. The sequence and stimulus are
// reconstructed fresh for every invocation; nothing is cached across runs.
func (c *Characterizer) runDelay() (map[string]float64, bool, error) {
	seq, err := BuildTestCycles(c.probeAddress, c.conf.WordSize, c.conf.AddrSize, c.period)
	if err != nil {
		return nil, false, err
	}

	return c.runner.runDelaySimulation(c.trimNetlist, seq, c.probeBit, c.period, c.load, c.slew)
}

// Characterize measures delay, slew and power for every (slew, load) pair
// in the sweep and returns the finished characterization table.
// Any simulation that was expected to succeed and does not is fatal: no
// partial table is ever returned.
func (c *Characterizer) Characterize(probeAddress string, probeBit int, slews []float64, loads []float64) (*Table, error) {
	if len(slews) == 0 || len(loads) == 0 {
		return nil, errors.New("empty slew or load sweep")
	}

	if err := c.SetProbe(probeAddress, probeBit); err != nil {
		return nil, err
	}

	// The searches run at the worst case of the sweep so the resulting
	// period is valid for every lighter load/slew combination.
	c.load = maxOf(loads)
	c.slew = maxOf(slews)

	feasibleDelayLH, feasibleDelayHL, err := c.findFeasiblePeriod()
	if err != nil {
		return nil, err
	}
	if feasibleDelayLH <= 0 || feasibleDelayHL <= 0 {
		return nil, errors.Errorf("negative or zero feasible delay: lh=%gns hl=%gns",
			feasibleDelayLH, feasibleDelayHL)
	}

	minPeriod, err := c.findMinPeriod(feasibleDelayLH, feasibleDelayHL)
	if err != nil {
		return nil, err
	}
	log.Infof("Min Period: %gns with a delay of %g / %g", minPeriod, feasibleDelayLH, feasibleDelayHL)

	c.period = minPeriod
	fullLeakage, trimLeakage, err := c.measureLeakage()
	if err != nil {
		return nil, err
	}

	table := NewTable(minPeriod, fullLeakage)

	for _, slew := range slews {
		for _, load := range loads {
			c.load, c.slew = load, slew
			results, ok, err := c.runDelay()
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, errors.Errorf(
					"simulation failed at characterized period %gns with slew=%g load=%g",
					minPeriod, slew, load)
			}

			table.AppendDelays(results)
			for _, meas := range powerMeasures {
				table.AppendPower(meas, correctPower(results[meas], trimLeakage, fullLeakage))
			}
		}
	}

	return table, nil
}

// measureLeakage measures idle leakage twice, on the full and on the
// trimmed circuit model. Both figures are needed to correct the dynamic
// power measured on the trimmed model.
func (c *Characterizer) measureLeakage() (fullLeakage float64, trimLeakage float64, err error) {
	fullLeakage, err = c.runner.runLeakageSimulation(c.fullNetlist, c.period, c.load)
	if err != nil {
		return 0, 0, err
	}

	trimLeakage, err = c.runner.runLeakageSimulation(c.trimNetlist, c.period, c.load)
	if err != nil {
		return 0, 0, err
	}

	return fullLeakage, trimLeakage, nil
}

// correctPower substitutes the unrepresentative trimmed-model leakage with
// the full-circuit leakage in a dynamic power figure measured on the
// trimmed model. A negative corrected figure indicates the trimmed model
// leaks more than the dynamic measurement contains; it is reported as-is
// with a warning so the caller can inspect the failing corner.
func correctPower(measured float64, trimLeakage float64, fullLeakage float64) float64 {
	corrected := measured - trimLeakage + fullLeakage
	if corrected < 0 {
		log.Warnf("Corrected power is negative (%gmW = %g - %g + %g)",
			corrected, measured, trimLeakage, fullLeakage)
	}
	return corrected
}

func maxOf(values []float64) float64 {
	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}
