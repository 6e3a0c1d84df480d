// nandvm CLI - decode circuit bytecode, inspect it, and simulate circuits.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/chazu/nandvm/bytecode"
	"github.com/chazu/nandvm/circuit"
	"github.com/chazu/nandvm/image"
	"github.com/chazu/nandvm/library"
	"github.com/chazu/nandvm/sim"
	"github.com/chazu/nandvm/wire"
	"github.com/chazu/nandvm/workbench"
)

var log = commonlog.GetLogger("nandvm")

// program is one named bytecode stream queued for decoding.
type program struct {
	name string
	data []byte
}

func main() {
	verbose := flag.Bool("v", false, "Verbose output")
	noLibrary := flag.Bool("no-library", false, "Start from a bare table (NAND primitive only)")
	disasm := flag.Bool("disasm", false, "Disassemble every loaded program")
	truth := flag.Int("truth", -1, "Print the truth table of the given circuit id")
	bench := flag.String("bench", "", "Run the checks of the workbench in the given directory")
	imageIn := flag.String("image-in", "", "Load the circuit table from a CBOR image instead of bytecode")
	imageOut := flag.String("image-out", "", "Write a CBOR image of the circuit table to this file")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: nandvm [options] [program.nbc ...]\n\n")
		fmt.Fprintf(os.Stderr, "Loads the standard gate library, decodes the given bytecode programs into\n")
		fmt.Fprintf(os.Stderr, "the circuit table, and runs the requested actions.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  nandvm -truth 5                 # Truth table of XOR\n")
		fmt.Fprintf(os.Stderr, "  nandvm alu.nbc -disasm          # Decode alu.nbc and list everything\n")
		fmt.Fprintf(os.Stderr, "  nandvm -bench ./testdata        # Run ./testdata/workbench.toml\n")
		fmt.Fprintf(os.Stderr, "  nandvm -image-out table.cbz     # Snapshot the table\n")
	}
	flag.Parse()

	verbosity := 0
	if *verbose {
		verbosity = 1
	}
	commonlog.Configure(verbosity, nil)

	var bn *workbench.Workbench
	if *bench != "" {
		var err error
		bn, err = workbench.Load(*bench)
		if err != nil {
			fail("load workbench: %v", err)
		}
	}

	table, programs := buildTable(*imageIn, *noLibrary, flag.Args(), bn)

	if *disasm {
		for _, p := range programs {
			fmt.Printf("; === %s ===\n%s\n", p.name, bytecode.Disassemble(p.data))
		}
	}

	if *imageOut != "" {
		writeImage(table, *imageOut)
	}

	if *truth >= 0 {
		printTruthTable(table, *truth)
	}

	if bn != nil {
		if failed := runChecks(table, bn); failed > 0 {
			os.Exit(1)
		}
	}
}

// buildTable assembles and freezes the circuit table from an image or from
// bytecode programs, and returns the programs it decoded.
func buildTable(imageIn string, noLibrary bool, args []string, bn *workbench.Workbench) (*circuit.Table, []program) {
	if imageIn != "" {
		data, err := os.ReadFile(imageIn)
		if err != nil {
			fail("read image: %v", err)
		}
		im, err := image.Unmarshal(data)
		if err != nil {
			fail("%v", err)
		}
		table, err := im.Table()
		if err != nil {
			fail("%v", err)
		}
		log.Infof("loaded %d circuits from image %s", len(table.IDs()), imageIn)
		return table, nil
	}

	var programs []program
	if !noLibrary {
		names := []string{"not", "and", "or", "nor", "xor", "half-adder", "full-adder", "adder4"}
		for i, data := range library.Programs() {
			programs = append(programs, program{name: names[i], data: data})
		}
	}
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			fail("read program: %v", err)
		}
		programs = append(programs, program{name: path, data: data})
	}
	if bn != nil {
		for _, p := range bn.Programs {
			data, err := bn.Bytes(p)
			if err != nil {
				fail("workbench: %v", err)
			}
			programs = append(programs, program{name: p.Name, data: data})
		}
	}

	table := circuit.NewTable()
	dec := bytecode.NewDecoder(table)
	for _, p := range programs {
		if err := dec.DecodeBytes(p.data); err != nil {
			fail("decode %s: %v", p.name, err)
		}
		log.Infof("decoded %s (%d bytes)", p.name, len(p.data))
	}
	table.Freeze()
	return table, programs
}

func writeImage(table *circuit.Table, path string) {
	im, err := image.Snapshot(table)
	if err != nil {
		fail("%v", err)
	}
	data, err := image.Marshal(im)
	if err != nil {
		fail("%v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		fail("write image: %v", err)
	}
	log.Infof("wrote %d circuits to %s (%d bytes)", len(im.Circuits), path, len(data))
}

// printTruthTable sweeps every defined input combination of one circuit.
func printTruthTable(table *circuit.Table, id int) {
	c, err := table.Lookup(id)
	if err != nil {
		fail("%v", err)
	}
	s, err := sim.New(table)
	if err != nil {
		fail("%v", err)
	}

	fmt.Printf("circuit %d: %d in, %d out\n", id, c.NumInputs, c.NumOutputs)
	inputs := make([]wire.State, c.NumInputs)
	for v := 0; v < 1<<c.NumInputs; v++ {
		for i := range inputs {
			inputs[i] = wire.FromBool(v>>(c.NumInputs-1-i)&1 == 1)
		}
		out, err := s.Run(id, inputs)
		if err != nil {
			fmt.Printf("%s -> %v\n", wire.FormatStates(inputs), err)
			continue
		}
		fmt.Printf("%s -> %s\n", wire.FormatStates(inputs), wire.FormatStates(out))
	}
}

// runChecks executes the workbench checks and returns how many failed.
func runChecks(table *circuit.Table, bn *workbench.Workbench) int {
	s, err := sim.New(table)
	if err != nil {
		fail("%v", err)
	}

	failed := 0
	for i, check := range bn.Checks {
		inputs, err := wire.ParseStates(check.Inputs)
		if err != nil {
			fail("check %d: %v", i, err)
		}
		want, err := wire.ParseStates(check.Outputs)
		if err != nil {
			fail("check %d: %v", i, err)
		}
		out, err := s.Run(check.Circuit, inputs)
		if err != nil {
			fmt.Printf("FAIL  circuit %d %s: %v\n", check.Circuit, check.Inputs, err)
			failed++
			continue
		}
		if wire.FormatStates(out) != wire.FormatStates(want) {
			fmt.Printf("FAIL  circuit %d %s -> %s, want %s\n",
				check.Circuit, check.Inputs, wire.FormatStates(out), wire.FormatStates(want))
			failed++
			continue
		}
		fmt.Printf("ok    circuit %d %s -> %s\n", check.Circuit, check.Inputs, wire.FormatStates(out))
	}
	if failed > 0 {
		fmt.Printf("%d of %d checks failed\n", failed, len(bn.Checks))
	} else {
		fmt.Printf("all %d checks passed\n", len(bn.Checks))
	}
	return failed
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "nandvm: "+format+"\n", args...)
	os.Exit(1)
}
