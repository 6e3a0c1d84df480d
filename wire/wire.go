// Package wire models tri-state logic signals and the fixed-depth stack of
// wire frames used during circuit evaluation.
//
// A wire carries one of three states: Undefined (no value has propagated to
// it yet), Off, or On. Undefined is the zero value, so a freshly reset frame
// reads as entirely undefined.
package wire

import (
	"errors"
	"fmt"
	"strings"
)

// State is the value carried by a single wire.
type State uint8

const (
	// Undefined means no value has been driven onto the wire.
	Undefined State = iota

	// Off is logic low.
	Off

	// On is logic high.
	On
)

// String returns the single-character display form: '?', '0' or '1'.
func (s State) String() string {
	switch s {
	case Undefined:
		return "?"
	case Off:
		return "0"
	case On:
		return "1"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// Defined reports whether the wire carries a concrete boolean.
func (s State) Defined() bool {
	return s == Off || s == On
}

// FromBool converts a boolean to a wire state.
func FromBool(b bool) State {
	if b {
		return On
	}
	return Off
}

// Bool returns the boolean value of the wire. ok is false for Undefined.
func (s State) Bool() (value, ok bool) {
	switch s {
	case Off:
		return false, true
	case On:
		return true, true
	default:
		return false, false
	}
}

// ParseStates parses a wire vector, one character per slot:
// '0' = Off, '1' = On, '?' = Undefined.
func ParseStates(s string) ([]State, error) {
	out := make([]State, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '0':
			out[i] = Off
		case '1':
			out[i] = On
		case '?':
			out[i] = Undefined
		default:
			return nil, fmt.Errorf("wire: invalid state character %q at position %d", s[i], i)
		}
	}
	return out, nil
}

// FormatStates renders a wire vector in the same form ParseStates accepts.
func FormatStates(v []State) string {
	var sb strings.Builder
	for _, s := range v {
		sb.WriteString(s.String())
	}
	return sb.String()
}

// Frame is one level of wire storage: a fixed-width set of wire slots
// belonging to a single circuit evaluation.
type Frame []State

// Reset drives every slot back to Undefined.
func (f Frame) Reset() {
	for i := range f {
		f[i] = Undefined
	}
}

// ErrDepthExceeded is returned when an evaluation needs more nesting levels
// than the stack was sized for.
var ErrDepthExceeded = errors.New("wire: frame depth exceeded")

// Stack is a pre-sized arena of wire frames indexed by nesting depth.
// Frame n holds the wires of the circuit evaluated at depth n; its callee
// at depth n+1 gets the next frame. The arena is allocated once and reused
// across runs.
type Stack struct {
	frames []Frame
}

// NewStack allocates a stack of depth frames, each width wires wide.
func NewStack(depth, width int) *Stack {
	frames := make([]Frame, depth)
	for i := range frames {
		frames[i] = make(Frame, width)
	}
	return &Stack{frames: frames}
}

// Depth returns the number of nesting levels the stack can hold.
func (s *Stack) Depth() int {
	return len(s.frames)
}

// Frame returns the frame at the given nesting depth. Asking for a depth
// beyond the arena is a resource-exhaustion error, not a panic.
func (s *Stack) Frame(depth int) (Frame, error) {
	if depth < 0 || depth >= len(s.frames) {
		return nil, fmt.Errorf("wire: frame depth %d out of range [0,%d): %w", depth, len(s.frames), ErrDepthExceeded)
	}
	return s.frames[depth], nil
}
