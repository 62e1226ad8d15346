//
// weyl_test.go
//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package synth

import (
	"math"
	"math/rand"
	"testing"

	"github.com/markkurossi/qcc/gate"
)

// checkChamber verifies the canonical coordinate ordering.
func checkChamber(t *testing.T, w Weyl) {
	t.Helper()
	const eps = 1e-9
	a, b, c := w.A, w.B, w.C
	if a > math.Pi/4+eps || a < b-eps || b < math.Abs(c)-eps {
		t.Errorf("coordinates outside chamber: %v %v %v", a, b, c)
	}
	if a > math.Pi/4-eps && c < -eps {
		t.Errorf("negative c on the a=pi/4 boundary: %v %v %v", a, b, c)
	}
}

// checkLocal verifies that a 4x4 matrix is a tensor product of
// single-qubit unitaries.
func checkLocal(t *testing.T, m *gate.Matrix) {
	t.Helper()
	g, a, b := m.KronFactor()
	if !a.Kron(b).Scale(g).Equal(m, 1e-8) {
		t.Errorf("local factor is not a tensor product:\n%s", m)
	}
}

func TestDecomposeWeylRandom(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for round := 0; round < 200; round++ {
		u := randomUnitary(rnd, 4)
		w, err := DecomposeWeyl(u)
		if err != nil {
			t.Fatalf("round %d: %s", round, err)
		}
		checkChamber(t, w)
		checkLocal(t, w.K1)
		checkLocal(t, w.K2)
		if !w.Matrix().Equal(u, 1e-8) {
			t.Errorf("round %d: reconstruction diverged", round)
		}
	}
}

func TestDecomposeWeylKnown(t *testing.T) {
	tests := []struct {
		name   string
		u      *gate.Matrix
		coords [3]float64
	}{
		{"identity", gate.Identity(4), [3]float64{0, 0, 0}},
		{"cx", gate.MatrixCX(), [3]float64{math.Pi / 4, 0, 0}},
		{"cz", gate.MatrixCZ(), [3]float64{math.Pi / 4, 0, 0}},
		{"swap", gate.MatrixSwap(),
			[3]float64{math.Pi / 4, math.Pi / 4, math.Pi / 4}},
		{"local", gate.MatrixH().Kron(gate.MatrixS()),
			[3]float64{0, 0, 0}},
	}
	for _, test := range tests {
		w, err := DecomposeWeyl(test.u)
		if err != nil {
			t.Fatalf("%s: %s", test.name, err)
		}
		for i, c := range w.Coords() {
			if math.Abs(c-test.coords[i]) > 1e-9 {
				t.Errorf("%s: coords %v, expected %v",
					test.name, w.Coords(), test.coords)
				break
			}
		}
		if !w.Matrix().Equal(test.u, 1e-9) {
			t.Errorf("%s: reconstruction diverged", test.name)
		}
	}
}

func TestDecomposeWeylCan(t *testing.T) {
	// Canonical gates round-trip to their own coordinates.
	coords := [][3]float64{
		{0.3, 0.2, 0.1},
		{0.3, 0.2, -0.1},
		{math.Pi / 4, 0.5, 0.25},
		{0.6, 0.6, 0.6},
	}
	for idx, c := range coords {
		u := Can(c[0], c[1], c[2])
		w, err := DecomposeWeyl(u)
		if err != nil {
			t.Fatalf("test %d: %s", idx, err)
		}
		checkChamber(t, w)
		for i := range c {
			if math.Abs(w.Coords()[i]-c[i]) > 1e-9 {
				t.Errorf("test %d: coords %v, expected %v",
					idx, w.Coords(), c)
				break
			}
		}
		if !w.Matrix().Equal(u, 1e-9) {
			t.Errorf("test %d: reconstruction diverged", idx)
		}
	}
}

func TestDecomposeWeylLocalEquivalence(t *testing.T) {
	// Dressing with local gates leaves the coordinates fixed.
	rnd := rand.New(rand.NewSource(5))
	base := Can(0.5, 0.3, 0.1)
	for round := 0; round < 20; round++ {
		l := randomUnitary(rnd, 2).Kron(randomUnitary(rnd, 2))
		r := randomUnitary(rnd, 2).Kron(randomUnitary(rnd, 2))
		u := gate.MulAll(l, base, r)
		w, err := DecomposeWeyl(u)
		if err != nil {
			t.Fatalf("round %d: %s", round, err)
		}
		want := [3]float64{0.5, 0.3, 0.1}
		for i, c := range w.Coords() {
			if math.Abs(c-want[i]) > 1e-8 {
				t.Errorf("round %d: coords %v", round, w.Coords())
				break
			}
		}
	}
}

func TestDecomposeWeylRejects(t *testing.T) {
	if _, err := DecomposeWeyl(gate.Identity(2)); err == nil {
		t.Errorf("2x2 input accepted")
	}
	bad := gate.Identity(4)
	bad.Set(0, 1, 0.5)
	if _, err := DecomposeWeyl(bad); err == nil {
		t.Errorf("non-unitary input accepted")
	}
}
