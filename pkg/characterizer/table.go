package characterizer

import (
	"bytes"
	"fmt"

	"github.com/shopspring/decimal"
)

// timeGridPlaces is the number of decimal places (in ns) reported times are
// rounded to, i.e. a 1ps grid.
const timeGridPlaces = 3

// Table is the characterization lookup table: min_period and leakage_power
// are scalars, every other metric is an ordered list aligned with the
// slew-outer/load-inner sweep order. It is built incrementally by the
// orchestrator and never mutated after being returned.
type Table struct {
	MinPeriod    float64
	LeakagePower float64

	DelayLH []float64
	DelayHL []float64
	SlewLH  []float64
	SlewHL  []float64

	Read0Power  []float64
	Read1Power  []float64
	Write0Power []float64
	Write1Power []float64
}

// NewTable returns a table with the scalar metrics filled in. The reported
// minimum period is snapped onto the time grid.
func NewTable(minPeriod float64, leakagePower float64) *Table {
	return &Table{
		MinPeriod:    roundTime(minPeriod),
		LeakagePower: leakagePower,
	}
}

// roundTime snaps a time in ns onto the reporting grid.
func roundTime(value float64) float64 {
	rounded, _ := decimal.NewFromFloat(value).Round(timeGridPlaces).Float64()
	return rounded
}

// AppendDelays appends the delay and slew figures of one sweep point.
func (t *Table) AppendDelays(results map[string]float64) {
	t.DelayLH = append(t.DelayLH, results[MeasDelayLH])
	t.DelayHL = append(t.DelayHL, results[MeasDelayHL])
	t.SlewLH = append(t.SlewLH, results[MeasSlewLH])
	t.SlewHL = append(t.SlewHL, results[MeasSlewHL])
}

// AppendPower appends one corrected power figure for the named metric.
func (t *Table) AppendPower(measName string, value float64) {
	switch measName {
	case MeasRead0Power:
		t.Read0Power = append(t.Read0Power, value)
	case MeasRead1Power:
		t.Read1Power = append(t.Read1Power, value)
	case MeasWrite0Power:
		t.Write0Power = append(t.Write0Power, value)
	case MeasWrite1Power:
		t.Write1Power = append(t.Write1Power, value)
	}
}

// Lists returns every per-sweep-point metric by name, in a stable order.
func (t *Table) Lists() []struct {
	Name   string
	Values []float64
} {
	return []struct {
		Name   string
		Values []float64
	}{
		{MeasDelayLH, t.DelayLH},
		{MeasDelayHL, t.DelayHL},
		{MeasSlewLH, t.SlewLH},
		{MeasSlewHL, t.SlewHL},
		{MeasRead0Power, t.Read0Power},
		{MeasRead1Power, t.Read1Power},
		{MeasWrite0Power, t.Write0Power},
		{MeasWrite1Power, t.Write1Power},
	}
}

// Render returns a human readable summary of the table.
func (t *Table) Render() string {
	buffer := &bytes.Buffer{}
	fmt.Fprintf(buffer, "%-14s %g ns\n", "min_period", t.MinPeriod)
	fmt.Fprintf(buffer, "%-14s %g mW\n", MeasLeakagePower, t.LeakagePower)
	for _, list := range t.Lists() {
		fmt.Fprintf(buffer, "%-14s", list.Name)
		for _, value := range list.Values {
			fmt.Fprintf(buffer, " %.4f", value)
		}
		fmt.Fprint(buffer, "\n")
	}
	return buffer.String()
}

// Map flattens the table into string key/value pairs for the metadata store.
func (t *Table) Map() map[string]string {
	flat := map[string]string{
		"min_period":     fmt.Sprintf("%g", t.MinPeriod),
		MeasLeakagePower: fmt.Sprintf("%g", t.LeakagePower),
	}
	for _, list := range t.Lists() {
		values := ""
		for i, value := range list.Values {
			if i > 0 {
				values += ","
			}
			values += fmt.Sprintf("%g", value)
		}
		flat[list.Name] = values
	}
	return flat
}
