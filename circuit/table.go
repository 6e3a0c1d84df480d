package circuit

import "fmt"

// Table is the registry of circuit definitions, keyed by id. A table starts
// with the NAND primitive at id 0 and is populated by the bytecode decoder;
// once frozen it is immutable and safe to evaluate against.
//
// A table is single-writer state: decoding must complete (and Freeze must be
// called) before any evaluation begins.
type Table struct {
	circuits [MaxCircuits]*Circuit
	frozen   bool
}

// NewTable returns a table holding only the NAND primitive.
func NewTable() *Table {
	t := &Table{}
	t.circuits[NandID] = Nand()
	return t
}

// Defined reports whether id currently holds a valid circuit.
func (t *Table) Defined(id int) bool {
	return id >= 0 && id < MaxCircuits && t.circuits[id] != nil
}

// Define commits a circuit under the given id. It fails on a frozen table,
// an out-of-range or already-occupied id, or an invalid definition; on
// failure the table is unchanged.
func (t *Table) Define(id int, c *Circuit) error {
	if t.frozen {
		return fmt.Errorf("circuit: table is frozen")
	}
	if id < 0 || id >= MaxCircuits {
		return fmt.Errorf("circuit: id %d out of range [0,%d)", id, MaxCircuits)
	}
	if t.circuits[id] != nil {
		return fmt.Errorf("circuit: id %d already defined", id)
	}
	if err := Validate(c); err != nil {
		return err
	}
	t.circuits[id] = c
	return nil
}

// Lookup returns the circuit defined under id.
func (t *Table) Lookup(id int) (*Circuit, error) {
	if id < 0 || id >= MaxCircuits {
		return nil, fmt.Errorf("circuit: id %d out of range [0,%d)", id, MaxCircuits)
	}
	c := t.circuits[id]
	if c == nil {
		return nil, fmt.Errorf("circuit: id %d not defined", id)
	}
	return c, nil
}

// Freeze makes the table immutable. Defining after Freeze is an error.
func (t *Table) Freeze() {
	t.frozen = true
}

// Frozen reports whether the table has been frozen.
func (t *Table) Frozen() bool {
	return t.frozen
}

// IDs returns the defined circuit ids in ascending order, the NAND
// primitive included.
func (t *Table) IDs() []int {
	var ids []int
	for id, c := range t.circuits {
		if c != nil {
			ids = append(ids, id)
		}
	}
	return ids
}
