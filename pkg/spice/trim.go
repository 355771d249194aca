package spice

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// bitcellPattern matches bitcell array instance lines `Xbit_r{row}_c{col} ...`.
var bitcellPattern = regexp.MustCompile(`(?i)^x(\S*bit)_r(\d+)_c(\d+)\b`)

// ArrayGeometry describes the bitcell array of the characterized SRAM.
type ArrayGeometry struct {
	Banks    int
	Rows     int
	Columns  int
	WordSize int
}

// validate rejects geometries the row/column arithmetic cannot handle.
func (g ArrayGeometry) validate() error {
	if g.Banks <= 0 || g.Rows <= 0 || g.Columns <= 0 || g.WordSize <= 0 {
		return errors.Errorf("invalid array geometry: banks=%d rows=%d columns=%d word size=%d",
			g.Banks, g.Rows, g.Columns, g.WordSize)
	}
	if g.Columns%g.WordSize != 0 {
		return errors.Errorf("column count %d is not a multiple of word size %d",
			g.Columns, g.WordSize)
	}
	return nil
}

// NetlistTrimmer reduces a full SRAM netlist to the subset of bitcells
// relevant to one probed address/bit. Cells sharing neither the probed
// row nor a probed column are removed; they only add simulation time
// while their wordline/bitline loading is irrelevant to the probed output.
type NetlistTrimmer struct {
	sourcePath string
	outputPath string
	geometry   ArrayGeometry
}

// NewNetlistTrimmer is a constructor for NetlistTrimmer. The reduced
// netlist is written to outputPath on every Trim call.
func NewNetlistTrimmer(sourcePath string, outputPath string, geometry ArrayGeometry) *NetlistTrimmer {
	return &NetlistTrimmer{
		sourcePath: sourcePath,
		outputPath: outputPath,
		geometry:   geometry,
	}
}

// Trim writes the reduced netlist for the given probe point and returns its path.
func (t *NetlistTrimmer) Trim(probeAddress string, probeBit int) (string, error) {
	if err := t.geometry.validate(); err != nil {
		return "", err
	}

	address, err := strconv.ParseInt(probeAddress, 2, 64)
	if err != nil {
		return "", errors.Wrapf(err, "probe address %q is not a binary string", probeAddress)
	}

	wordsPerRow := t.geometry.Columns / t.geometry.WordSize
	row := int(address) / wordsPerRow % t.geometry.Rows
	column := int(address)%wordsPerRow + probeBit*wordsPerRow

	in, err := os.Open(t.sourcePath)
	if err != nil {
		return "", errors.Wrapf(err, "could not open netlist %q", t.sourcePath)
	}
	defer in.Close()

	out, err := os.Create(t.outputPath)
	if err != nil {
		return "", errors.Wrapf(err, "could not create reduced netlist %q", t.outputPath)
	}
	defer out.Close()

	fmt.Fprintf(out, "* Reduced netlist for address %s bit %d (row %d col %d)\n",
		probeAddress, probeBit, row, column)

	kept, removed := 0, 0
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := scanner.Text()
		if t.removable(line, row, column) {
			removed++
			continue
		}
		kept++
		fmt.Fprintln(out, line)
	}
	if err := scanner.Err(); err != nil {
		return "", errors.Wrapf(err, "could not read netlist %q", t.sourcePath)
	}

	log.Debugf("Trimmed netlist for row %d col %d: kept %d lines, removed %d bitcells",
		row, column, kept, removed)

	return t.outputPath, nil
}

// removable reports whether the line instantiates a bitcell outside both
// the probed row and the probed column.
func (t *NetlistTrimmer) removable(line string, row int, column int) bool {
	match := bitcellPattern.FindStringSubmatch(strings.TrimSpace(line))
	if match == nil {
		return false
	}

	cellRow, err := strconv.Atoi(match[2])
	if err != nil {
		return false
	}
	cellColumn, err := strconv.Atoi(match[3])
	if err != nil {
		return false
	}

	return cellRow != row && cellColumn != column
}
