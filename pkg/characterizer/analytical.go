package characterizer

import (
	log "github.com/sirupsen/logrus"
)

// AnalyticalModel is a closed-form delay/power model of the circuit, used
// when simulation-based characterization is disabled.
type AnalyticalModel interface {
	// Delay returns the critical path delay and output slew in ps for the
	// given input slew (ns) and output load (fF).
	Delay(slew float64, load float64) (delayPS float64, slewPS float64)
	// Power returns the dynamic and leakage power in nW at the given
	// corner and output load.
	Power(process string, vdd float64, temperature float64, load float64) (dynamicNW float64, leakageNW float64)
}

// AnalyticalEstimate bypasses simulation entirely and fills the table from
// the closed-form model. Delays do not distinguish transition directions
// and min_period is reported as zero; the estimate is a coarse stand-in
// for a simulated characterization, not a replacement.
func (c *Characterizer) AnalyticalEstimate(model AnalyticalModel, slews []float64, loads []float64) *Table {
	table := &Table{}

	for _, slew := range slews {
		for _, load := range loads {
			c.load, c.slew = load, slew
			delayPS, slewPS := model.Delay(slew, load)
			// Convert from ps to ns.
			table.DelayLH = append(table.DelayLH, delayPS/1e3)
			table.DelayHL = append(table.DelayHL, delayPS/1e3)
			table.SlewLH = append(table.SlewLH, slewPS/1e3)
			table.SlewHL = append(table.SlewHL, slewPS/1e3)
		}
	}

	dynamicNW, leakageNW := model.Power(c.corner.Process, c.corner.Voltage, c.corner.Temperature, c.load)
	// Convert from nW to mW.
	dynamic := dynamicNW / 1e6
	leakage := leakageNW / 1e6
	log.Infof("Dynamic Power: %g mW", dynamic)
	log.Infof("Leakage Power: %g mW", leakage)

	table.LeakagePower = leakage
	for range table.DelayLH {
		table.Read0Power = append(table.Read0Power, dynamic)
		table.Read1Power = append(table.Read1Power, dynamic)
		table.Write0Power = append(table.Write0Power, dynamic)
		table.Write1Power = append(table.Write1Power, dynamic)
	}

	return table
}

// LinearModel is a first-order analytical model: delay grows linearly in
// output load and input slew. It is sufficient for sanity estimates when
// no simulator is available.
type LinearModel struct {
	// IntrinsicDelayPS is the unloaded critical path delay.
	IntrinsicDelayPS float64
	// LoadFactor adds delay per fF of output load, in ps/fF.
	LoadFactor float64
	// SlewFactor adds delay per ns of input slew, in ps/ns.
	SlewFactor float64
	// DynamicNW and LeakageNW are the nominal power figures at Vdd.
	DynamicNW float64
	LeakageNW float64
}

// Delay implements AnalyticalModel.
func (m LinearModel) Delay(slew float64, load float64) (float64, float64) {
	delay := m.IntrinsicDelayPS + m.LoadFactor*load + m.SlewFactor*slew
	// Output slew tracks the delay to first order.
	return delay, 0.4 * delay
}

// Power implements AnalyticalModel. Dynamic power scales with the square
// of the supply voltage relative to nominal.
func (m LinearModel) Power(process string, vdd float64, temperature float64, load float64) (float64, float64) {
	return m.DynamicNW * vdd * vdd, m.LeakageNW
}
