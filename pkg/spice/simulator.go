package spice

import (
	"fmt"
	"os"
	"path"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/ishikabhosale/OpenRAM/pkg/conf"
	"github.com/ishikabhosale/OpenRAM/pkg/executor"
)

// SimulatorPathFlag points at the external analog simulator binary.
var SimulatorPathFlag = conf.NewStringFlag("simulator_path", "Path to the circuit simulator binary", "ngspice")

// Config is the configuration of one simulator instance.
type Config struct {
	// Executable of the simulator binary.
	Executable string
	// WorkingDir is the directory holding the stimulus and result files.
	// Only one simulation may be in flight against it at a time.
	WorkingDir string
}

// DefaultConfig returns a Config with values from flags.
func DefaultConfig(workingDir string) Config {
	return Config{
		Executable: SimulatorPathFlag.Value(),
		WorkingDir: workingDir,
	}
}

// Simulator invokes the external simulator through an executor and exposes
// the measurements of the last completed run. Runs are synchronous and
// idempotent for a given stimulus file.
type Simulator struct {
	exec executor.Executor
	conf Config
}

// New is a constructor for Simulator.
func New(exec executor.Executor, config Config) *Simulator {
	return &Simulator{
		exec: exec,
		conf: config,
	}
}

func (s *Simulator) buildCommand(stimulusPath string) string {
	return fmt.Sprintf("%s -b -o %s %s",
		s.conf.Executable,
		s.resultFile("timing"),
		stimulusPath)
}

func (s *Simulator) resultFile(category string) string {
	return path.Join(s.conf.WorkingDir, category+".lis")
}

// Run executes the simulator against the given stimulus file and blocks
// until it completes. The measurement results are retrieved afterwards
// with Measure.
func (s *Simulator) Run(stimulusPath string) error {
	command := s.buildCommand(stimulusPath)
	log.Debug("Running simulation: ", command)

	taskHandle, err := s.exec.Execute(command)
	if err != nil {
		return errors.Wrapf(err, "executing simulator command %q failed", command)
	}
	defer taskHandle.EraseOutput()
	defer taskHandle.Clean()

	taskHandle.Wait(0)

	exitCode, err := taskHandle.ExitCode()
	if err != nil {
		return errors.Wrap(err, "could not obtain simulator exit code")
	}
	if exitCode != 0 {
		return errors.Errorf("simulator exited with code %d for stimulus %q", exitCode, stimulusPath)
	}

	if _, err := os.Stat(s.resultFile("timing")); err != nil {
		return errors.Wrapf(err, "simulator produced no result file for stimulus %q", stimulusPath)
	}

	return nil
}

// Measure returns the named measurement of the last run in base simulator
// units (seconds, watts). The boolean is false when the measurement failed
// or never triggered.
func (s *Simulator) Measure(category string, measName string) (float64, bool) {
	file, err := os.Open(s.resultFile(category))
	if err != nil {
		log.Debugf("Cannot open result file for category %q: %v", category, err)
		return 0, false
	}
	defer file.Close()

	return ParseMeasurement(file, measName)
}
