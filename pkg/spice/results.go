package spice

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// measurementPattern matches `name = value` lines the simulator prints for
// every .meas directive. Values are in base simulator units.
var measurementPattern = regexp.MustCompile(`^\s*([a-zA-Z0-9_]+)\s*=\s*(\S+)`)

// ParseMeasurement scans simulator output for the named measurement.
// It returns the parsed value and true, or 0 and false when the measurement
// is missing, non-numeric or an explicit failure marker: the caller decides
// whether that is fatal.
func ParseMeasurement(output io.Reader, measName string) (float64, bool) {
	scanner := bufio.NewScanner(output)
	for scanner.Scan() {
		match := measurementPattern.FindStringSubmatch(scanner.Text())
		if match == nil {
			continue
		}
		if !strings.EqualFold(match[1], measName) {
			continue
		}

		value, err := strconv.ParseFloat(strings.TrimRight(match[2], ","), 64)
		if err != nil {
			// Simulator reported "failed" or garbage for this measurement.
			return 0, false
		}
		return value, true
	}

	return 0, false
}
