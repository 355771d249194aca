package characterizer

import (
	"math"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// errorTolerance is the relative tolerance used both for delay degradation
// checks and for bound convergence of the minimum period search.
const errorTolerance = 0.05

// Retry budgets converting a hung search into a fatal error.
const (
	feasibleSearchBudget  = 8
	minPeriodSearchBudget = 25
)

// relativeCompare reports whether a and b are within the given relative
// tolerance of each other. The comparison is symmetric in a and b.
func relativeCompare(a float64, b float64, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance*math.Max(math.Abs(a), math.Abs(b))
}

// boundedSearch runs step until it reports done, failing after budget
// attempts. Both period searches share this shape: simulate, validate,
// adjust a bound, check termination.
func boundedSearch(name string, budget int, step func(attempt int) (done bool, err error)) error {
	for attempt := 1; attempt <= budget; attempt++ {
		done, err := step(attempt)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
	return errors.Errorf("%s timed out after %d attempts", name, budget)
}

// findFeasiblePeriod finds any clock period long enough that the circuit
// produces valid delay/slew measurements, doubling the period from the
// technology-supplied nominal seed until a simulation succeeds. It returns
// the reference delays of the feasible period and leaves that period as
// current state.
func (c *Characterizer) findFeasiblePeriod() (feasibleDelayLH float64, feasibleDelayHL float64, err error) {
	feasiblePeriod := c.tech.FeasiblePeriod

	err = boundedSearch("feasible period search", feasibleSearchBudget, func(attempt int) (bool, error) {
		log.Infof("Trying feasible period: %gns", feasiblePeriod)
		c.period = feasiblePeriod

		results, ok, err := c.runDelay()
		if err != nil {
			return false, err
		}
		if !ok {
			feasiblePeriod = 2 * feasiblePeriod
			return false, nil
		}

		feasibleDelayLH = results[MeasDelayLH]
		feasibleDelayHL = results[MeasDelayHL]
		log.Infof("Found feasible_period: %gns feasible_delay %.4fns/%.4fns slew %.4fns/%.4fns",
			feasiblePeriod,
			feasibleDelayLH, feasibleDelayHL,
			results[MeasSlewLH], results[MeasSlewHL])

		c.period = feasiblePeriod
		return true, nil
	})
	if err != nil {
		return 0, 0, errors.Wrapf(err, "could not find a feasible period (last tried %gns)", feasiblePeriod)
	}

	return feasibleDelayLH, feasibleDelayHL, nil
}

// findMinPeriod binary searches [0, feasible period] for the smallest
// period whose delays stay within the relative tolerance of the feasible
// reference delays. The upper bound is feasible at every loop entry, so
// returning it on convergence always yields a known-good period.
func (c *Characterizer) findMinPeriod(feasibleDelayLH float64, feasibleDelayHL float64) (float64, error) {
	upperBound := c.period
	lowerBound := 0.0

	err := boundedSearch("minimum period search", minPeriodSearchBudget, func(attempt int) (bool, error) {
		targetPeriod := 0.5 * (upperBound + lowerBound)
		c.period = targetPeriod
		log.Infof("MinPeriod Search: %gns (ub: %g lb: %g)", targetPeriod, upperBound, lowerBound)

		ok, err := c.tryPeriod(feasibleDelayLH, feasibleDelayHL)
		if err != nil {
			return false, err
		}
		if ok {
			upperBound = targetPeriod
		} else {
			lowerBound = targetPeriod
		}

		return relativeCompare(upperBound, lowerBound, errorTolerance), nil
	})
	if err != nil {
		return 0, errors.Wrapf(err, "could not converge on minimum period (ub: %gns lb: %gns)",
			upperBound, lowerBound)
	}

	return upperBound, nil
}

// tryPeriod simulates the current period and checks that all measurements
// are valid and that both delays are still within tolerance of the
// feasible reference delays.
// Slew degradation does not gate convergence; slews are only bounds-checked
// against the period inside the delay simulation.
func (c *Characterizer) tryPeriod(feasibleDelayLH float64, feasibleDelayHL float64) (bool, error) {
	results, ok, err := c.runDelay()
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	if !relativeCompare(results[MeasDelayLH], feasibleDelayLH, errorTolerance) {
		log.Debugf("Delay degraded %g vs %g", results[MeasDelayLH], feasibleDelayLH)
		return false, nil
	}
	if !relativeCompare(results[MeasDelayHL], feasibleDelayHL, errorTolerance) {
		log.Debugf("Delay degraded %g vs %g", results[MeasDelayHL], feasibleDelayHL)
		return false, nil
	}

	log.Debugf("Successful period %g, delay_hl=%gns delay_lh=%gns",
		c.period, results[MeasDelayHL], results[MeasDelayLH])
	return true, nil
}
