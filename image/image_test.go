package image

import (
	"testing"

	"github.com/chazu/nandvm/circuit"
	"github.com/chazu/nandvm/library"
	"github.com/chazu/nandvm/sim"
	"github.com/chazu/nandvm/wire"
)

// A round trip through Snapshot/Marshal/Unmarshal/Table must yield a table
// that simulates identically to the original. Comparing behavior, not
// bytes: the rebuilt table goes through Define and may not share structure.
func TestRoundTrip(t *testing.T) {
	tbl, err := library.NewTable()
	if err != nil {
		t.Fatalf("library.NewTable: %v", err)
	}

	im, err := Snapshot(tbl)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	data, err := Marshal(im)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	back, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	rebuilt, err := back.Table()
	if err != nil {
		t.Fatalf("Table: %v", err)
	}

	if got, want := len(rebuilt.IDs()), len(tbl.IDs()); got != want {
		t.Fatalf("rebuilt table has %d circuits, want %d", got, want)
	}

	s1, err := sim.New(tbl)
	if err != nil {
		t.Fatalf("sim.New(original): %v", err)
	}
	s2, err := sim.New(rebuilt)
	if err != nil {
		t.Fatalf("sim.New(rebuilt): %v", err)
	}
	for _, id := range []int{library.NotID, library.XorID, library.FullAdderID} {
		c, err := tbl.Lookup(id)
		if err != nil {
			t.Fatalf("Lookup(%d): %v", id, err)
		}
		inputs := make([]wire.State, c.NumInputs)
		for v := 0; v < 1<<c.NumInputs; v++ {
			for i := range inputs {
				inputs[i] = wire.FromBool(v>>(c.NumInputs-1-i)&1 == 1)
			}
			want, err := s1.Run(id, inputs)
			if err != nil {
				t.Fatalf("original Run(%d, %s): %v", id, wire.FormatStates(inputs), err)
			}
			got, err := s2.Run(id, inputs)
			if err != nil {
				t.Fatalf("rebuilt Run(%d, %s): %v", id, wire.FormatStates(inputs), err)
			}
			if wire.FormatStates(got) != wire.FormatStates(want) {
				t.Errorf("circuit %d(%s): rebuilt %s, original %s",
					id, wire.FormatStates(inputs), wire.FormatStates(got), wire.FormatStates(want))
			}
		}
	}
}

func TestSnapshotSkipsPrimitive(t *testing.T) {
	tbl, err := library.NewTable()
	if err != nil {
		t.Fatalf("library.NewTable: %v", err)
	}
	im, err := Snapshot(tbl)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	for _, c := range im.Circuits {
		if c.ID == circuit.NandID {
			t.Fatal("snapshot contains the NAND primitive")
		}
	}
	if got, want := len(im.Circuits), len(tbl.IDs())-1; got != want {
		t.Errorf("snapshot has %d circuits, want %d", got, want)
	}
}

func TestSnapshotRequiresFrozenTable(t *testing.T) {
	if _, err := Snapshot(circuit.NewTable()); err == nil {
		t.Error("Snapshot accepted an unfrozen table")
	}
}

func TestUnmarshalRejectsNewerVersion(t *testing.T) {
	data, err := Marshal(&Image{Version: Version + 1})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if _, err := Unmarshal(data); err == nil {
		t.Error("newer image version accepted")
	}
}

func TestUnmarshalRejectsGarbage(t *testing.T) {
	if _, err := Unmarshal([]byte{0xFF, 0xFF, 0xFF}); err == nil {
		t.Error("garbage bytes accepted")
	}
}

// A tampered image must be caught when rebuilding the table, not silently
// accepted into a broken definition.
func TestTableRejectsTamperedImage(t *testing.T) {
	im := &Image{
		Version: Version,
		Circuits: []Circuit{{
			ID:      1,
			Inputs:  1,
			Outputs: 1,
			Modules: []Module{{Target: 0, Wiring: []int{0, 0, circuit.MaxWires}}},
		}},
	}
	if _, err := im.Table(); err == nil {
		t.Error("out-of-range wiring accepted")
	}
}

func TestMarshalIsDeterministic(t *testing.T) {
	tbl, err := library.NewTable()
	if err != nil {
		t.Fatalf("library.NewTable: %v", err)
	}
	im, err := Snapshot(tbl)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	a, err := Marshal(im)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	b, err := Marshal(im)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(a) != string(b) {
		t.Error("two marshals of the same image differ")
	}
}
