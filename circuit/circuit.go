// Package circuit defines the circuit data model and the fixed-capacity
// registry mapping small integer ids to circuit definitions.
//
// Every capacity is a small compile-time bound: the system trades
// generality for fully predictable memory. Exceeding a bound is an explicit
// error, never a silent truncation.
package circuit

import "fmt"

const (
	// MaxCircuits is the number of circuit ids a table can hold.
	MaxCircuits = 32

	// MaxModules is the number of module applications one definition may list.
	MaxModules = 32

	// MaxWires is the number of wire slots in one evaluation frame.
	MaxWires = 32

	// MaxDepth is the number of nesting levels an evaluation may use.
	MaxDepth = 8
)

// NandID is the id of the NAND primitive, seeded into every table.
const NandID = 0

// Module is one application of a previously defined circuit inside another
// circuit's definition. Wiring maps the target's external wires onto slots
// of the enclosing circuit's frame: the target's inputs first, then its
// outputs.
type Module struct {
	Target int
	Wiring []int
}

// Circuit is one reusable gate definition. For a compound circuit, Modules
// lists the sub-circuit applications in definition order. Input and output
// arity is inferred by the decoder; inputs occupy frame slots
// 0..NumInputs-1 and outputs the NumOutputs slots after them.
type Circuit struct {
	NumInputs  int
	NumOutputs int
	Modules    []Module

	// Primitive marks the seeded NAND entry, which is evaluated directly
	// instead of through its module list.
	Primitive bool
}

// Nand returns the NAND primitive definition: two inputs, one output,
// no module list.
func Nand() *Circuit {
	return &Circuit{NumInputs: 2, NumOutputs: 1, Primitive: true}
}

// Validate checks the structural invariants of a circuit definition.
func Validate(c *Circuit) error {
	if c == nil {
		return fmt.Errorf("circuit: nil definition")
	}
	if c.Primitive {
		if c.NumInputs != 2 || c.NumOutputs != 1 || len(c.Modules) != 0 {
			return fmt.Errorf("circuit: malformed primitive definition")
		}
		return nil
	}
	if c.NumInputs <= 0 || c.NumInputs >= MaxWires {
		return fmt.Errorf("circuit: input count %d out of range (0,%d)", c.NumInputs, MaxWires)
	}
	if c.NumOutputs <= 0 || c.NumOutputs >= MaxWires {
		return fmt.Errorf("circuit: output count %d out of range (0,%d)", c.NumOutputs, MaxWires)
	}
	if c.NumInputs+c.NumOutputs > MaxWires {
		return fmt.Errorf("circuit: %d external wires exceed frame width %d", c.NumInputs+c.NumOutputs, MaxWires)
	}
	if len(c.Modules) == 0 {
		return fmt.Errorf("circuit: no modules")
	}
	if len(c.Modules) > MaxModules {
		return fmt.Errorf("circuit: %d modules exceed bound %d", len(c.Modules), MaxModules)
	}
	for i, m := range c.Modules {
		if m.Target < 0 || m.Target >= MaxCircuits {
			return fmt.Errorf("circuit: module %d target id %d out of range [0,%d)", i, m.Target, MaxCircuits)
		}
		if len(m.Wiring) == 0 || len(m.Wiring) > MaxWires {
			return fmt.Errorf("circuit: module %d has %d wiring slots", i, len(m.Wiring))
		}
		for j, slot := range m.Wiring {
			if slot < 0 || slot >= MaxWires {
				return fmt.Errorf("circuit: module %d wiring slot %d is %d, out of range [0,%d)", i, j, slot, MaxWires)
			}
		}
	}
	return nil
}
