package conf

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const listDelimiter = ","

// parseFloatList resolves a flag parameter which consists of float64 items
// delimited by `listDelimiter`, e.g. "0.05,0.1,0.2".
func parseFloatList(value string) ([]float64, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}

	items := []float64{}
	for _, item := range strings.Split(value, listDelimiter) {
		parsed, err := strconv.ParseFloat(strings.TrimSpace(item), 64)
		if err != nil {
			return nil, errors.Errorf("cannot parse %q as float list item", item)
		}
		items = append(items, parsed)
	}
	return items, nil
}

func formatFloatList(items []float64) string {
	formatted := []string{}
	for _, item := range items {
		formatted = append(formatted, strconv.FormatFloat(item, 'g', -1, 64))
	}
	return strings.Join(formatted, listDelimiter)
}

// FloatListFlag represents flag with a list of float64 values.
// It is backed by a string flag so repeated parsing does not accumulate
// values; the list is resolved on every Value() call.
type FloatListFlag struct {
	*StringFlag
	defaultList []float64
}

// NewFloatListFlag is a constructor of FloatListFlag struct.
func NewFloatListFlag(flagName string, description string, defaultValue ...float64) *FloatListFlag {
	duplicatedFlag := definedFlags[flagName]
	if duplicatedFlag != nil {
		flagDef, ok := duplicatedFlag.(*FloatListFlag)
		if !ok {
			panic("Flag was redefined but with different type. Unify the type.")
		}

		return flagDef
	}

	defaults := formatFloatList(defaultValue)
	flagDef := &FloatListFlag{
		StringFlag: &StringFlag{
			cliAndEnvFlag: newCliAndEnvFlag(flagName, description, defaults),
			defaultValue:  defaults,
		},
		defaultList: defaultValue,
	}

	flagDef.value = flagDef.String()
	definedFlags[flagName] = flagDef
	isEnvParsed = false
	return flagDef
}

// Value returns the parsed list of this flag. Malformed items fall back to
// the default list; use Validate to surface the parse error instead.
func (f *FloatListFlag) Value() []float64 {
	items, err := parseFloatList(f.StringFlag.Value())
	if err != nil || len(items) == 0 {
		return f.defaultList
	}

	return items
}

// Validate returns an error when the current raw value cannot be parsed as
// a float list.
func (f *FloatListFlag) Validate() error {
	_, err := parseFloatList(f.StringFlag.Value())
	return err
}
