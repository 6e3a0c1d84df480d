package library

import (
	"errors"
	"testing"

	"github.com/chazu/nandvm/circuit"
	"github.com/chazu/nandvm/sim"
	"github.com/chazu/nandvm/wire"
)

func newSim(t *testing.T) *sim.Simulator {
	t.Helper()
	tbl, err := NewTable()
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	s, err := sim.New(tbl)
	if err != nil {
		t.Fatalf("sim.New: %v", err)
	}
	return s
}

func run(t *testing.T, s *sim.Simulator, id int, inputs string) string {
	t.Helper()
	in, err := wire.ParseStates(inputs)
	if err != nil {
		t.Fatalf("ParseStates(%q): %v", inputs, err)
	}
	out, err := s.Run(id, in)
	if err != nil {
		t.Fatalf("Run(%d, %s): %v", id, inputs, err)
	}
	return wire.FormatStates(out)
}

func TestGateTruthTables(t *testing.T) {
	s := newSim(t)

	cases := []struct {
		name string
		id   int
		rows map[string]string
	}{
		{"not", NotID, map[string]string{"0": "1", "1": "0"}},
		{"and", AndID, map[string]string{"00": "0", "01": "0", "10": "0", "11": "1"}},
		{"or", OrID, map[string]string{"00": "0", "01": "1", "10": "1", "11": "1"}},
		{"nor", NorID, map[string]string{"00": "1", "01": "0", "10": "0", "11": "0"}},
		{"xor", XorID, map[string]string{"00": "0", "01": "1", "10": "1", "11": "0"}},
	}
	for _, tc := range cases {
		for in, want := range tc.rows {
			if got := run(t, s, tc.id, in); got != want {
				t.Errorf("%s(%s) = %s, want %s", tc.name, in, got, want)
			}
		}
	}
}

// Half adder outputs are [carry, sum].
func TestHalfAdder(t *testing.T) {
	s := newSim(t)

	rows := map[string]string{"00": "00", "01": "01", "10": "01", "11": "10"}
	for in, want := range rows {
		if got := run(t, s, HalfAdderID, in); got != want {
			t.Errorf("half-adder(%s) = %s, want %s", in, got, want)
		}
	}
}

// Full adder inputs are [a, b, cin], outputs [carry, sum].
func TestFullAdder(t *testing.T) {
	s := newSim(t)

	for v := 0; v < 8; v++ {
		a, b, cin := v>>2&1, v>>1&1, v&1
		sum := a + b + cin
		in := string([]byte{'0' + byte(a), '0' + byte(b), '0' + byte(cin)})
		want := string([]byte{'0' + byte(sum>>1), '0' + byte(sum&1)})
		if got := run(t, s, FullAdderID, in); got != want {
			t.Errorf("full-adder(%s) = %s, want %s", in, got, want)
		}
	}
}

// bits4 renders the low four bits of v most significant first.
func bits4(v int) string {
	b := make([]byte, 4)
	for i := 0; i < 4; i++ {
		b[i] = '0' + byte(v>>(3-i)&1)
	}
	return string(b)
}

// The 4-bit ripple adder, swept over its whole input space. Inputs are
// [a3..a0, b3..b0, cin], outputs [cout, s3..s0].
func TestAdder4Sweep(t *testing.T) {
	s := newSim(t)

	for a := 0; a < 16; a++ {
		for b := 0; b < 16; b++ {
			for cin := 0; cin < 2; cin++ {
				in := bits4(a) + bits4(b) + string('0'+byte(cin))
				total := a + b + cin
				want := string('0'+byte(total>>4&1)) + bits4(total)
				if got := run(t, s, Adder4ID, in); got != want {
					t.Fatalf("adder4(%d+%d+%d) = %s, want %s", a, b, cin, got, want)
				}
			}
		}
	}
}

// The stages are wired carry-forward, so with each carry-in ready before
// its stage is scheduled the whole adder settles on the first pass.
func TestAdder4SettlesInOnePass(t *testing.T) {
	s := newSim(t)

	if got := run(t, s, Adder4ID, "111111111"); got != "11111" {
		t.Fatalf("adder4(15+15+1) = %s, want 11111", got)
	}
	if got := s.Stats().Retries; got != 0 {
		t.Errorf("Retries = %d, want 0", got)
	}
}

func TestAdder4UndefinedInput(t *testing.T) {
	s := newSim(t)

	in, err := wire.ParseStates("00?0" + "0000" + "0")
	if err != nil {
		t.Fatalf("ParseStates: %v", err)
	}
	if _, err := s.Run(Adder4ID, in); !errors.Is(err, sim.ErrUnresolved) {
		t.Errorf("Run error = %v, want ErrUnresolved", err)
	}
}

func TestLoadDefinesAllIDs(t *testing.T) {
	tbl, err := NewTable()
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	for id := circuit.NandID; id <= Adder4ID; id++ {
		if !tbl.Defined(id) {
			t.Errorf("circuit %d not defined", id)
		}
	}
	if !tbl.Frozen() {
		t.Error("table not frozen")
	}
}

func TestLoadRejectsOccupiedTable(t *testing.T) {
	tbl := circuit.NewTable()
	if err := Load(tbl); err != nil {
		t.Fatalf("first Load: %v", err)
	}
	if err := Load(tbl); err == nil {
		t.Error("second Load succeeded")
	}
}
