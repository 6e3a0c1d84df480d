package bytecode

import (
	"bytes"
	"fmt"
	"io"

	"github.com/chazu/nandvm/circuit"
)

// DecodeError is a fatal decode failure. Malformed bytecode is an input
// error, not a runtime condition: the whole decode aborts and no partial
// definition is committed.
type DecodeError struct {
	Offset int    // bytes consumed when the failure was detected
	State  string // state machine state at failure
	Msg    string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("bytecode: %s at byte %d in state %s", e.Msg, e.Offset, e.State)
}

// decodeState enumerates the decoder's state machine. Each state has one
// total transition function handling every possible next byte, including
// end of stream.
type decodeState uint8

const (
	stateBegin decodeState = iota
	stateStartDefine
	stateDefineIter
	stateStartApply
	stateReadArgs
	stateAddModule
	stateEndDef
	stateHalt
)

func (s decodeState) String() string {
	switch s {
	case stateBegin:
		return "Begin"
	case stateStartDefine:
		return "StartDefine"
	case stateDefineIter:
		return "DefineIter"
	case stateStartApply:
		return "StartApply"
	case stateReadArgs:
		return "ReadArgs"
	case stateAddModule:
		return "AddModule"
	case stateEndDef:
		return "EndDef"
	case stateHalt:
		return "Halt"
	default:
		return fmt.Sprintf("decodeState(%d)", uint8(s))
	}
}

// wireRole classifies a frame slot while a definition is being decoded.
type wireRole uint8

const (
	roleNone wireRole = iota
	roleInput
	roleOutput
	roleInternal
)

// Decoder turns definition streams into entries of a circuit table. One
// decoder may decode any number of streams against the same table; each
// successful definition is visible to later APPLY markers, so circuits can
// build on one another across streams.
type Decoder struct {
	table *circuit.Table

	r     *reader
	state decodeState
	b     byte // last consumed operation byte

	// candidate definition being decoded
	id    int
	cand  *circuit.Circuit
	roles [circuit.MaxWires]wireRole

	// pending APPLY
	target int
	numIn  int
	numOut int
	args   []int
}

// NewDecoder returns a decoder committing into t.
func NewDecoder(t *circuit.Table) *Decoder {
	return &Decoder{table: t}
}

// Decode consumes src to exhaustion, committing every definition it closes.
// Any failure aborts the whole decode.
func (d *Decoder) Decode(src io.Reader) error {
	if d.table.Frozen() {
		return fmt.Errorf("bytecode: cannot decode into a frozen table")
	}
	d.r = newReader(src)
	d.state = stateBegin
	d.cand = nil

	for d.state != stateHalt {
		var err error
		switch d.state {
		case stateBegin:
			err = d.stepBegin()
		case stateStartDefine:
			err = d.stepStartDefine()
		case stateDefineIter:
			err = d.stepDefineIter()
		case stateStartApply:
			err = d.stepStartApply()
		case stateReadArgs:
			err = d.stepReadArgs()
		case stateAddModule:
			err = d.stepAddModule()
		case stateEndDef:
			err = d.stepEndDef()
		default:
			err = d.failf("decoder in unknown state")
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// DecodeBytes decodes a complete in-memory stream.
func (d *Decoder) DecodeBytes(data []byte) error {
	return d.Decode(bytes.NewReader(data))
}

func (d *Decoder) failf(format string, args ...any) error {
	return &DecodeError{
		Offset: d.r.tell(),
		State:  d.state.String(),
		Msg:    fmt.Sprintf(format, args...),
	}
}

// endOfStream distinguishes a real source failure from plain exhaustion.
func (d *Decoder) endOfStream(context string) error {
	if d.r.err != nil && d.r.err != io.EOF {
		return d.failf("%s: read failed: %v", context, d.r.err)
	}
	return d.failf("%s", context)
}

// stepBegin handles the top level between definitions. End of stream here
// is the successful halt condition.
func (d *Decoder) stepBegin() error {
	b, ok := d.r.next()
	if !ok {
		if d.r.err != nil && d.r.err != io.EOF {
			return d.endOfStream("stream failed between definitions")
		}
		d.state = stateHalt
		return nil
	}
	switch {
	case isOperation(b) && isBoundary(b):
		d.b = b
		d.state = stateStartDefine
		return nil
	case isOperation(b):
		return d.failf("APPLY of circuit %d outside a definition", operand(b))
	default:
		return d.failf("literal %d outside a definition", literal(b))
	}
}

// stepStartDefine opens a definition for the id carried by the boundary.
func (d *Decoder) stepStartDefine() error {
	id := operand(d.b)
	if d.table.Defined(id) {
		return d.failf("circuit %d already defined", id)
	}
	d.id = id
	d.cand = &circuit.Circuit{}
	d.roles = [circuit.MaxWires]wireRole{}
	d.state = stateDefineIter
	return nil
}

// stepDefineIter dispatches on the next operation byte inside a definition.
func (d *Decoder) stepDefineIter() error {
	b, ok := d.r.next()
	if !ok {
		return d.endOfStream(fmt.Sprintf("stream ended inside definition of circuit %d", d.id))
	}
	d.b = b
	switch {
	case isOperation(b) && isBoundary(b):
		d.state = stateEndDef
		return nil
	case isOperation(b):
		d.state = stateStartApply
		return nil
	default:
		return d.failf("literal %d without a pending APPLY", literal(b))
	}
}

// stepStartApply records the target of a new module application. Forward
// references are illegal: the target must already be defined, which also
// rules out self-application.
func (d *Decoder) stepStartApply() error {
	target := operand(d.b)
	if !d.table.Defined(target) {
		return d.failf("APPLY of undefined circuit %d", target)
	}
	c, err := d.table.Lookup(target)
	if err != nil {
		return d.failf("APPLY of circuit %d: %v", target, err)
	}
	d.target = target
	d.numIn = c.NumInputs
	d.numOut = c.NumOutputs
	d.args = d.args[:0]
	d.state = stateReadArgs
	return nil
}

// stepReadArgs consumes one literal operand of the pending APPLY and feeds
// it to the arity inference.
func (d *Decoder) stepReadArgs() error {
	b, ok := d.r.peek()
	if !ok {
		return d.endOfStream(fmt.Sprintf("stream ended with %d of %d arguments for circuit %d", len(d.args), d.numIn+d.numOut, d.target))
	}
	if isOperation(b) {
		return d.failf("APPLY of circuit %d has %d arguments, want %d", d.target, len(d.args), d.numIn+d.numOut)
	}
	d.r.next()
	slot := literal(b)
	if slot >= circuit.MaxWires {
		return d.failf("wire slot %d out of range [0,%d)", slot, circuit.MaxWires)
	}

	if len(d.args) < d.numIn {
		d.classifyInput(slot)
	} else {
		d.classifyOutput(slot)
	}
	d.args = append(d.args, slot)

	if len(d.args) == d.numIn+d.numOut {
		d.state = stateAddModule
	}
	return nil
}

// classifyInput updates the inferred arity for a slot consumed as a module
// input. A slot produced by an earlier module in this definition is not an
// external input of the circuit being defined; it is an internal wire, so
// it drops out of the inferred output count.
func (d *Decoder) classifyInput(slot int) {
	switch d.roles[slot] {
	case roleInternal:
		// Already known to be internal, nothing to learn.
	case roleOutput:
		d.roles[slot] = roleInternal
		d.cand.NumOutputs--
	case roleInput:
		// Consumed again; counted on first sight only.
	case roleNone:
		d.roles[slot] = roleInput
		d.cand.NumInputs++
	}
}

// classifyOutput is the symmetric rule for a slot driven as a module
// output: a slot previously consumed as an input becomes internal and drops
// out of the inferred input count.
func (d *Decoder) classifyOutput(slot int) {
	switch d.roles[slot] {
	case roleInternal:
		// Already known to be internal.
	case roleInput:
		d.roles[slot] = roleInternal
		d.cand.NumInputs--
	case roleOutput:
		// Driven again; counted on first sight only.
	case roleNone:
		d.roles[slot] = roleOutput
		d.cand.NumOutputs++
	}
}

// stepAddModule appends the completed module to the candidate definition.
func (d *Decoder) stepAddModule() error {
	if len(d.cand.Modules) == circuit.MaxModules {
		return d.failf("circuit %d exceeds %d modules", d.id, circuit.MaxModules)
	}
	d.cand.Modules = append(d.cand.Modules, circuit.Module{
		Target: d.target,
		Wiring: append([]int(nil), d.args...),
	})
	d.state = stateDefineIter
	return nil
}

// stepEndDef validates the finished candidate and commits it.
func (d *Decoder) stepEndDef() error {
	if got := operand(d.b); got != d.id {
		return d.failf("definition of circuit %d closed by boundary for circuit %d", d.id, got)
	}
	if err := d.checkSlots(); err != nil {
		return err
	}
	if err := d.table.Define(d.id, d.cand); err != nil {
		return d.failf("circuit %d rejected: %v", d.id, err)
	}
	d.cand = nil
	d.state = stateBegin
	return nil
}

// checkSlots enforces the frame layout contract implied by the inference:
// the inferred inputs must occupy slots 0..NumInputs-1 and the inferred
// outputs the NumOutputs slots after them.
func (d *Decoder) checkSlots() error {
	nIn, nOut := d.cand.NumInputs, d.cand.NumOutputs
	if nIn <= 0 {
		return d.failf("circuit %d has no inputs", d.id)
	}
	if nOut <= 0 {
		return d.failf("circuit %d has no outputs", d.id)
	}
	if nIn+nOut > circuit.MaxWires {
		return d.failf("circuit %d has %d external wires, frame width is %d", d.id, nIn+nOut, circuit.MaxWires)
	}
	for slot := 0; slot < nIn; slot++ {
		if d.roles[slot] != roleInput {
			return d.failf("circuit %d inputs are not consecutive from slot 0", d.id)
		}
	}
	for slot := nIn; slot < nIn+nOut; slot++ {
		if d.roles[slot] != roleOutput {
			return d.failf("circuit %d outputs are not consecutive after its inputs", d.id)
		}
	}
	return nil
}
