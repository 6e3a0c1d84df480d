// Package image serializes a frozen circuit table to a compact,
// deterministic CBOR snapshot. An image round trip re-validates every
// definition through the table's own Define path, so a tampered image is
// rejected the same way malformed bytecode is.
package image

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/chazu/nandvm/circuit"
)

// Version is the current image format version.
const Version = 1

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("image: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Module is one module application of a serialized circuit.
type Module struct {
	Target int   `cbor:"1,keyasint"`
	Wiring []int `cbor:"2,keyasint"`
}

// Circuit is one serialized circuit definition. The seeded NAND primitive
// is never serialized; every table already contains it.
type Circuit struct {
	ID      int      `cbor:"1,keyasint"`
	Inputs  int      `cbor:"2,keyasint"`
	Outputs int      `cbor:"3,keyasint"`
	Modules []Module `cbor:"4,keyasint"`
}

// Image is a snapshot of a frozen circuit table.
type Image struct {
	Version  int       `cbor:"1,keyasint"`
	Circuits []Circuit `cbor:"2,keyasint,omitempty"`
}

// Snapshot captures a frozen table. Snapshotting an unfrozen table is an
// error: images are only taken of tables that can no longer change.
func Snapshot(t *circuit.Table) (*Image, error) {
	if !t.Frozen() {
		return nil, fmt.Errorf("image: table must be frozen before snapshot")
	}
	im := &Image{Version: Version}
	for _, id := range t.IDs() {
		c, err := t.Lookup(id)
		if err != nil {
			return nil, err
		}
		if c.Primitive {
			continue
		}
		sc := Circuit{
			ID:      id,
			Inputs:  c.NumInputs,
			Outputs: c.NumOutputs,
			Modules: make([]Module, len(c.Modules)),
		}
		for i, m := range c.Modules {
			sc.Modules[i] = Module{
				Target: m.Target,
				Wiring: append([]int(nil), m.Wiring...),
			}
		}
		im.Circuits = append(im.Circuits, sc)
	}
	return im, nil
}

// Table rebuilds a frozen circuit table from the image. Every definition
// goes back through Define, so structural invariants are re-checked.
func (im *Image) Table() (*circuit.Table, error) {
	t := circuit.NewTable()
	for _, sc := range im.Circuits {
		c := &circuit.Circuit{
			NumInputs:  sc.Inputs,
			NumOutputs: sc.Outputs,
			Modules:    make([]circuit.Module, len(sc.Modules)),
		}
		for i, m := range sc.Modules {
			c.Modules[i] = circuit.Module{
				Target: m.Target,
				Wiring: append([]int(nil), m.Wiring...),
			}
		}
		if err := t.Define(sc.ID, c); err != nil {
			return nil, fmt.Errorf("image: circuit %d: %w", sc.ID, err)
		}
	}
	t.Freeze()
	return t, nil
}

// Marshal serializes an image to canonical CBOR bytes.
func Marshal(im *Image) ([]byte, error) {
	return cborEncMode.Marshal(im)
}

// Unmarshal deserializes an image and checks its format version.
func Unmarshal(data []byte) (*Image, error) {
	var im Image
	if err := cbor.Unmarshal(data, &im); err != nil {
		return nil, fmt.Errorf("image: unmarshal: %w", err)
	}
	if im.Version > Version {
		return nil, fmt.Errorf("image: version %d is newer than supported version %d", im.Version, Version)
	}
	return &im, nil
}
