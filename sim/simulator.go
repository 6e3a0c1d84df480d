// Package sim evaluates circuits against concrete inputs.
//
// Evaluation is a synchronous fixed-point loop: every module of a compound
// circuit goes onto a ring, and modules whose inputs have not yet resolved
// are retried on a later pass instead of being tracked through an explicit
// dependency graph. Termination is guaranteed for acyclic dataflow because
// each pass that makes progress strictly shrinks the pending set.
package sim

import (
	"errors"
	"fmt"

	"github.com/chazu/nandvm/circuit"
	"github.com/chazu/nandvm/wire"
)

// ErrUnresolved is returned when a full pass over a circuit's pending
// modules makes no progress: the inputs are insufficiently resolved or the
// definition contains a genuine cycle.
var ErrUnresolved = errors.New("sim: circuit unresolvable")

// Stats counts work done by the most recent Run.
type Stats struct {
	// Retries is the number of extra passes some ring needed beyond its
	// first, summed over the whole evaluation tree.
	Retries int

	// NandEvals is the number of primitive evaluations performed,
	// including not-ready attempts.
	NandEvals int
}

// Simulator evaluates circuits from a frozen table. It owns the wire-frame
// stack, so a simulator is single-caller state: only one Run may be active
// at a time, and Run is not reentrant.
type Simulator struct {
	table *circuit.Table
	stack *wire.Stack
	stats Stats
}

// New returns a simulator over t. The table must already be frozen:
// decoding and evaluation are distinct phases.
func New(t *circuit.Table) (*Simulator, error) {
	if !t.Frozen() {
		return nil, fmt.Errorf("sim: table must be frozen before evaluation")
	}
	return &Simulator{
		table: t,
		stack: wire.NewStack(circuit.MaxDepth, circuit.MaxWires),
	}, nil
}

// Stats returns the counters of the most recent Run.
func (s *Simulator) Stats() Stats {
	return s.stats
}

// Run evaluates the circuit under id against the given input vector and
// returns its output vector. inputs must have exactly the circuit's input
// count; undefined inputs are legal and propagate as Undefined. If the
// outputs cannot all be resolved the run fails with ErrUnresolved rather
// than returning a partial vector.
func (s *Simulator) Run(id int, inputs []wire.State) ([]wire.State, error) {
	c, err := s.table.Lookup(id)
	if err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}
	if len(inputs) != c.NumInputs {
		return nil, fmt.Errorf("sim: circuit %d takes %d inputs, got %d", id, c.NumInputs, len(inputs))
	}

	s.stats = Stats{}
	frame, err := s.stack.Frame(0)
	if err != nil {
		return nil, err
	}
	frame.Reset()
	copy(frame, inputs)

	ready, err := s.simulate(c, 0)
	if err != nil {
		return nil, err
	}
	if !ready {
		return nil, fmt.Errorf("circuit %d: %w", id, ErrUnresolved)
	}

	out := make([]wire.State, c.NumOutputs)
	for i := range out {
		v := frame[c.NumInputs+i]
		if !v.Defined() {
			return nil, fmt.Errorf("circuit %d output %d undefined: %w", id, i, ErrUnresolved)
		}
		out[i] = v
	}
	return out, nil
}

// simulate evaluates c against the frame at depth, which holds c's wires:
// inputs in the leading slots, outputs after them, internal wires wherever
// the definition put them. It returns whether the circuit resolved; false
// is the not-ready signal the enclosing scheduler retries on, not an error.
func (s *Simulator) simulate(c *circuit.Circuit, depth int) (bool, error) {
	frame, err := s.stack.Frame(depth)
	if err != nil {
		return false, err
	}
	if c.Primitive {
		return s.nand(frame), nil
	}

	ring := NewRing(circuit.MaxModules)
	for _, m := range c.Modules {
		if err := ring.Push(m); err != nil {
			return false, err
		}
	}

	initial := ring.Size()
	remaining := initial
	for {
		m, err := ring.Pop()
		if err != nil {
			return false, err
		}
		sub, err := s.table.Lookup(m.Target)
		if err != nil {
			return false, fmt.Errorf("sim: %w", err)
		}

		// Open the child frame one level down and hand the module its
		// inputs from the current frame.
		child, err := s.stack.Frame(depth + 1)
		if err != nil {
			return false, err
		}
		child.Reset()
		for i := 0; i < sub.NumInputs; i++ {
			child[i] = frame[m.Wiring[i]]
		}

		ready, err := s.simulate(sub, depth+1)
		if err != nil {
			return false, err
		}
		if ready {
			for i := 0; i < sub.NumOutputs; i++ {
				frame[m.Wiring[sub.NumInputs+i]] = child[sub.NumInputs+i]
			}
		} else {
			// Not ready yet; defer to a later pass. The module's output
			// slots in this frame stay untouched.
			if err := ring.Push(m); err != nil {
				return false, err
			}
		}

		remaining--
		if remaining > 0 {
			continue
		}
		// A full pass over the pending set has completed.
		switch {
		case ring.Size() == initial:
			// No module resolved: stalled.
			return false, nil
		case ring.Size() == 0:
			return true, nil
		default:
			initial = ring.Size()
			remaining = initial
			s.stats.Retries++
		}
	}
}

// nand evaluates the primitive on a frame laid out as slots 0 and 1 in,
// slot 2 out. With either input undefined the output stays undefined and
// the gate reports not ready.
func (s *Simulator) nand(f wire.Frame) bool {
	s.stats.NandEvals++
	a, b := f[0], f[1]
	if !a.Defined() || !b.Defined() {
		f[2] = wire.Undefined
		return false
	}
	if a == wire.On && b == wire.On {
		f[2] = wire.Off
	} else {
		f[2] = wire.On
	}
	return true
}
