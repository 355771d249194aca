package characterizer

import (
	"os"
	"path"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Simulator is the contract with the external circuit simulator.
// Run blocks until the simulation of the given stimulus file completed;
// Measure returns a named measurement of the last run in base simulator
// units (seconds, watts), or false when the measurement failed.
type Simulator interface {
	Run(stimulusPath string) error
	Measure(category string, measName string) (float64, bool)
}

// Trimmer is the contract with the netlist reduction collaborator.
// It produces a netlist semantically equivalent to the full circuit for
// signals relevant to the probed output.
type Trimmer interface {
	Trim(probeAddress string, probeBit int) (string, error)
}

// Unit rescale factors from base simulator units to engineering units.
const (
	secondsToNS = 1e9
	wattsToMW   = 1e3
)

// delayMeasures are the four time-domain measurements every delay
// simulation must produce.
var delayMeasures = []string{MeasDelayHL, MeasDelayLH, MeasSlewHL, MeasSlewLH}

var powerMeasures = []string{MeasRead0Power, MeasRead1Power, MeasWrite0Power, MeasWrite1Power}

// simulationRunner owns the transient stimulus file state for exactly one
// simulation invocation at a time and normalizes raw measurements.
type simulationRunner struct {
	sim     Simulator
	emitter *StimulusEmitter
	workDir string
}

func newSimulationRunner(sim Simulator, emitter *StimulusEmitter, workDir string) *simulationRunner {
	return &simulationRunner{
		sim:     sim,
		emitter: emitter,
		workDir: workDir,
	}
}

func (r *simulationRunner) stimulusPath() string {
	return path.Join(r.workDir, "stim.sp")
}

func (r *simulationRunner) writeStimulus(write func(file *os.File)) error {
	file, err := os.Create(r.stimulusPath())
	if err != nil {
		return errors.Wrapf(err, "could not create stimulus file %q", r.stimulusPath())
	}
	defer file.Close()

	write(file)
	return nil
}

// runDelaySimulation simulates one full test cycle program and returns the
// delay, slew and power measurements rescaled to ns and mW.
// The boolean is false when any measurement is missing or implausible;
// the caller (a period search) decides the retry policy.
// A simulator invocation failure is returned as an error since it is not
// recoverable by adjusting the period.
func (r *simulationRunner) runDelaySimulation(netlist string, seq *CycleSequence, probeBit int, period float64, load float64, slew float64) (map[string]float64, bool, error) {
	err := r.writeStimulus(func(file *os.File) {
		r.emitter.WriteDelayStimulus(file, netlist, seq, probeBit, period, load, slew)
	})
	if err != nil {
		return nil, false, err
	}

	if err := r.sim.Run(r.stimulusPath()); err != nil {
		return nil, false, errors.Wrap(err, "delay simulation failed")
	}

	results := map[string]float64{}
	for _, meas := range delayMeasures {
		raw, ok := r.sim.Measure(measurementCategory, meas)
		if !ok {
			log.Debugf("Failed simulation: period %g load %g slew %g: measurement %s invalid",
				period, load, slew, meas)
			return nil, false, nil
		}
		results[meas] = raw * secondsToNS
	}

	// A delay or slew longer than the period itself is nonsensical and
	// treated the same as a failed measurement.
	for _, meas := range delayMeasures {
		if results[meas] > period {
			log.Debugf("Unsuccessful simulation: period %g load %g slew %g: %s=%gns exceeds period",
				period, load, slew, meas, results[meas])
			return nil, false, nil
		}
	}

	for _, meas := range powerMeasures {
		raw, ok := r.sim.Measure(measurementCategory, meas)
		if !ok {
			log.Debugf("Failed simulation: period %g load %g slew %g: measurement %s invalid",
				period, load, slew, meas)
			return nil, false, nil
		}
		results[meas] = raw * wattsToMW
	}

	log.Debugf("Successful simulation: period %g load %g slew %g: delay_hl=%gns delay_lh=%gns slew_hl=%gns slew_lh=%gns",
		period, load, slew,
		results[MeasDelayHL], results[MeasDelayLH], results[MeasSlewHL], results[MeasSlewLH])

	return results, true, nil
}

// runLeakageSimulation simulates the disabled SRAM and returns the idle
// leakage power in mW. A failed leakage measurement is a collaborator
// failure and therefore fatal.
func (r *simulationRunner) runLeakageSimulation(netlist string, period float64, load float64) (float64, error) {
	err := r.writeStimulus(func(file *os.File) {
		r.emitter.WritePowerStimulus(file, netlist, period, load)
	})
	if err != nil {
		return 0, err
	}

	if err := r.sim.Run(r.stimulusPath()); err != nil {
		return 0, errors.Wrap(err, "leakage simulation failed")
	}

	raw, ok := r.sim.Measure(measurementCategory, MeasLeakagePower)
	if !ok {
		return 0, errors.Errorf("could not measure leakage power on netlist %q", netlist)
	}

	return raw * wattsToMW, nil
}
