package main

import (
	"fmt"
	"os"
	"path"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/ishikabhosale/OpenRAM/pkg/characterizer"
	"github.com/ishikabhosale/OpenRAM/pkg/conf"
	"github.com/ishikabhosale/OpenRAM/pkg/executor"
	"github.com/ishikabhosale/OpenRAM/pkg/metadata"
	"github.com/ishikabhosale/OpenRAM/pkg/spice"
	"github.com/ishikabhosale/OpenRAM/pkg/tech"
	"github.com/ishikabhosale/OpenRAM/pkg/utils/errutil"
	"github.com/ishikabhosale/OpenRAM/pkg/utils/uuid"
)

var (
	netlistFlag  = conf.NewFileFlag("netlist", "Path to the full SRAM netlist", "sram.sp")
	sramNameFlag = conf.NewStringFlag("sram_name", "Name of the SRAM circuit instance", "sram")

	wordSizeFlag = conf.NewIntFlag("word_size", "Data bus width in bits", 1)
	addrSizeFlag = conf.NewIntFlag("addr_size", "Address bus width in bits", 4)
	rowsFlag     = conf.NewIntFlag("rows", "Number of bitcell array rows", 16)
	columnsFlag  = conf.NewIntFlag("columns", "Number of bitcell array columns", 1)
	banksFlag    = conf.NewIntFlag("banks", "Number of banks", 1)

	probeAddressFlag = conf.NewStringFlag("probe_address", "Binary probe address", "1111")
	probeBitFlag     = conf.NewIntFlag("probe_bit", "Probed data bit index", 0)

	slewsFlag = conf.NewFloatListFlag("slews", "Input slew sweep in ns", 0.05)
	loadsFlag = conf.NewFloatListFlag("loads", "Output load sweep in fF", 1.0)

	processFlag     = conf.NewStringFlag("process", "Process variant: TT, SS or FF", "TT")
	voltageFlag     = conf.NewFloatFlag("voltage", "Supply voltage in volts", 1.0)
	temperatureFlag = conf.NewFloatFlag("temperature", "Temperature in degrees Celsius", 25)

	workDirFlag = conf.NewStringFlag("workdir", "Working directory for stimulus and result files; empty means a fresh temp directory", "")
	trimFlag    = conf.NewBoolFlag("trim_netlist", "Reduce the netlist to the probed cells before delay simulation", true)

	analyticalFlag = conf.NewBoolFlag("analytical", "Skip simulation and report the closed-form model estimate", false)

	storeMetadataFlag = conf.NewBoolFlag("store_metadata", "Store run flags and the finished table in Cassandra", false)
)

const appHelp = `Characterizes the timing and power of a generated SRAM netlist by driving
an external circuit simulator: finds the minimum feasible clock period for
the probed address/bit and sweeps the requested slew/load corners into a
characterization table.`

func workingDirectory(runID string) string {
	if workDirFlag.Value() != "" {
		return workDirFlag.Value()
	}

	dir := path.Join(os.TempDir(), "characterize-"+runID)
	errutil.CheckWithContext(os.MkdirAll(dir, 0755), "creating working directory")
	return dir
}

// environMetadata collects the OPENRAM_* environment overrides of this run.
func environMetadata() metadata.Map {
	environ := metadata.Map{}
	for _, entry := range os.Environ() {
		if !strings.HasPrefix(entry, "OPENRAM_") {
			continue
		}
		if name, value, ok := strings.Cut(entry, "="); ok {
			environ[name] = value
		}
	}
	return environ
}

func main() {
	conf.SetAppName("characterize")
	conf.SetHelp(appHelp)
	errutil.CheckWithContext(conf.ParseFlags(), "parsing configuration")
	errutil.CheckWithContext(slewsFlag.Validate(), "parsing slews flag")
	errutil.CheckWithContext(loadsFlag.Validate(), "parsing loads flag")
	log.SetLevel(conf.LogLevel())

	runID, err := uuid.New()
	errutil.CheckWithContext(err, "generating run id")
	workDir := workingDirectory(runID)
	log.Infof("Characterization run %s in %s", runID, workDir)

	config := characterizer.Config{
		Name:        sramNameFlag.Value(),
		WordSize:    wordSizeFlag.Value(),
		AddrSize:    addrSizeFlag.Value(),
		NetlistPath: netlistFlag.Value(),
		WorkingDir:  workDir,
		TrimNetlist: trimFlag.Value(),
	}
	corner := characterizer.Corner{
		Process:     processFlag.Value(),
		Voltage:     voltageFlag.Value(),
		Temperature: temperatureFlag.Value(),
	}

	local := executor.NewLocal(workDir)
	simulator := spice.New(local, spice.DefaultConfig(workDir))
	trimmer := spice.NewNetlistTrimmer(
		netlistFlag.Value(),
		path.Join(workDir, "reduced.sp"),
		spice.ArrayGeometry{
			Banks:    banksFlag.Value(),
			Rows:     rowsFlag.Value(),
			Columns:  columnsFlag.Value(),
			WordSize: wordSizeFlag.Value(),
		})

	char, err := characterizer.New(config, corner, tech.Default(), simulator, trimmer)
	errutil.CheckWithContext(err, "configuring characterizer")

	var table *characterizer.Table
	if analyticalFlag.Value() {
		model := characterizer.LinearModel{
			IntrinsicDelayPS: 200,
			LoadFactor:       15,
			SlewFactor:       100,
			DynamicNW:        5e5,
			LeakageNW:        1e3,
		}
		table = char.AnalyticalEstimate(model, slewsFlag.Value(), loadsFlag.Value())
	} else {
		table, err = char.Characterize(
			probeAddressFlag.Value(),
			probeBitFlag.Value(),
			slewsFlag.Value(),
			loadsFlag.Value())
		errutil.CheckWithContext(err, "characterization")
	}

	fmt.Print(table.Render())

	if storeMetadataFlag.Value() {
		store := metadata.New(runID, metadata.ConfigFromFlags())
		errutil.CheckWithContext(store.Connect(), "connecting to metadata store")
		defer store.Close()

		errutil.CheckWithContext(store.Store(metadata.KindFlags, metadata.Map{
			"netlist":       netlistFlag.Value(),
			"probe_address": probeAddressFlag.Value(),
			"probe_bit":     fmt.Sprintf("%d", probeBitFlag.Value()),
			"process":       processFlag.Value(),
			"voltage":       fmt.Sprintf("%g", voltageFlag.Value()),
			"temperature":   fmt.Sprintf("%g", temperatureFlag.Value()),
		}), "storing run flags")
		errutil.CheckWithContext(store.Store(metadata.KindEnviron, environMetadata()), "storing environment")
		errutil.CheckWithContext(store.Store(metadata.KindTable, metadata.Map(table.Map())), "storing table")
	}
}
