package sim

import (
	"errors"
	"fmt"

	"github.com/chazu/nandvm/circuit"
)

// ErrRingFull is returned when a push would exceed the ring's capacity.
var ErrRingFull = errors.New("sim: ring full")

// ErrRingEmpty is returned when popping an empty ring.
var ErrRingEmpty = errors.New("sim: ring empty")

// Ring is a fixed-capacity FIFO of module applications pending evaluation.
// The scheduler drains it from the head and re-enqueues not-yet-ready
// modules at the tail; there is no dependency graph, only retry order.
//
// Invariants: 0 <= size <= capacity and both indices stay inside
// [0, capacity). A push beyond capacity is rejected, never overwritten.
type Ring struct {
	modules []circuit.Module
	size    int
	begin   int
	end     int
}

// NewRing returns an empty ring holding at most capacity modules.
func NewRing(capacity int) *Ring {
	if capacity <= 0 {
		panic(fmt.Sprintf("sim: ring capacity %d", capacity))
	}
	return &Ring{modules: make([]circuit.Module, capacity)}
}

// Cap returns the ring's capacity.
func (r *Ring) Cap() int {
	return len(r.modules)
}

// Size returns the number of modules currently pending.
func (r *Ring) Size() int {
	return r.size
}

// Push enqueues a module at the tail.
func (r *Ring) Push(m circuit.Module) error {
	if r.size == len(r.modules) {
		return fmt.Errorf("%w: capacity %d", ErrRingFull, len(r.modules))
	}
	r.modules[r.end] = m
	r.end = (r.end + 1) % len(r.modules)
	r.size++
	return nil
}

// Pop dequeues the module at the head.
func (r *Ring) Pop() (circuit.Module, error) {
	if r.size == 0 {
		return circuit.Module{}, ErrRingEmpty
	}
	m := r.modules[r.begin]
	r.begin = (r.begin + 1) % len(r.modules)
	r.size--
	return m, nil
}
