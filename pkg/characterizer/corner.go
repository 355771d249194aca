package characterizer

import "fmt"

// Corner is the process/voltage/temperature combination a characterization
// run is simulated under. It is immutable for the duration of a run and
// selects the simulator model parameters.
type Corner struct {
	// Process variant, e.g. "TT", "SS", "FF".
	Process string
	// Voltage is the supply voltage in volts.
	Voltage float64
	// Temperature in degrees Celsius.
	Temperature float64
}

func (c Corner) String() string {
	return fmt.Sprintf("%s/%gV/%gC", c.Process, c.Voltage, c.Temperature)
}
