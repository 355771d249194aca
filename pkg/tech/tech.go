// Package tech exposes the process technology parameters the characterizer
// reads. The characterizer only consumes these values; maintaining the
// parameter database for a given PDK is out of its scope.
package tech

import (
	"github.com/pkg/errors"
)

// Params holds the simulation-relevant subset of a technology description.
type Params struct {
	// FeasiblePeriod is the nominal clock period in ns used to seed the
	// feasible period search.
	FeasiblePeriod float64
	// NominalVdd is the nominal supply voltage in volts.
	NominalVdd float64
	// SupplyNames are the names of the power and ground nets.
	VddName string
	GndName string
	// ModelFiles maps a process variant (e.g. "TT", "SS", "FF") to the
	// device model include file used by the simulator.
	ModelFiles map[string]string
}

// Default returns parameters for the default freepdk45-like setup.
func Default() Params {
	return Params{
		FeasiblePeriod: 10.0,
		NominalVdd:     1.0,
		VddName:        "vdd",
		GndName:        "gnd",
		ModelFiles: map[string]string{
			"TT": "models/nom/models.sp",
			"SS": "models/slow/models.sp",
			"FF": "models/fast/models.sp",
		},
	}
}

// ModelFile returns the device model include file for a process variant.
func (p Params) ModelFile(process string) (string, error) {
	file, ok := p.ModelFiles[process]
	if !ok {
		return "", errors.Errorf("unknown process variant %q", process)
	}
	return file, nil
}
