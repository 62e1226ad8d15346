//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package synth

import (
	"math"
	"math/cmplx"

	"github.com/markkurossi/qcc/gate"
	"github.com/pkg/errors"
)

// Weyl is the Cartan (KAK) decomposition of a 2-qubit unitary:
//
//	U = Phase * K1 * Can(A, B, C) * K2
//
// where K1, K2 are tensor products of single-qubit unitaries and
// Can(a,b,c) = exp(i(a XX + b YY + c ZZ)). The coordinates are
// canonical: pi/4 >= A >= B >= |C|, with C >= 0 when A = pi/4.
type Weyl struct {
	Phase complex128
	K1    *gate.Matrix
	A     float64
	B     float64
	C     float64
	K2    *gate.Matrix
}

// Coords returns the canonical coordinates as an array.
func (w Weyl) Coords() [3]float64 {
	return [3]float64{w.A, w.B, w.C}
}

// Matrix rebuilds the 2-qubit unitary from the decomposition.
func (w Weyl) Matrix() *gate.Matrix {
	return gate.MulAll(w.K1, Can(w.A, w.B, w.C), w.K2).Scale(w.Phase)
}

// magicBasis returns the magic basis transform: XX, YY and ZZ are all
// diagonal in this basis.
func magicBasis() *gate.Matrix {
	s := complex(1/math.Sqrt2, 0)
	return gate.NewMatrix4(
		s, 0, 0, 1i*s,
		0, 1i*s, s, 0,
		0, 1i*s, -s, 0,
		s, 0, 0, -1i*s)
}

func pauliKrons() [3]*gate.Matrix {
	x, y, z := gate.MatrixX(), gate.MatrixY(), gate.MatrixZ()
	return [3]*gate.Matrix{x.Kron(x), y.Kron(y), z.Kron(z)}
}

// Can returns the canonical entangling gate exp(i(a XX + b YY + c ZZ)).
func Can(a, b, c float64) *gate.Matrix {
	mb := magicBasis()
	pk := pauliKrons()
	g := pk[0].Scale(complex(a, 0))
	for i, v := range []float64{b, c} {
		s := pk[i+1].Scale(complex(v, 0))
		for k := range g.Data {
			g.Data[k] += s.Data[k]
		}
	}
	// Diagonal in the magic basis.
	gm := gate.MulAll(mb.Dagger(), g, mb)
	d := gate.NewMatrix(4)
	for i := 0; i < 4; i++ {
		d.Set(i, i, cmplx.Exp(complex(0, real(gm.At(i, i)))))
	}
	return gate.MulAll(mb, d, mb.Dagger())
}

// DecomposeWeyl computes the canonical Cartan decomposition of a
// 2-qubit unitary.
func DecomposeWeyl(u *gate.Matrix) (Weyl, error) {
	var w Weyl
	if u.N != 4 {
		return w, errors.Wrapf(ErrSingularDecomposition,
			"%dx%d matrix", u.N, u.N)
	}
	if !u.IsUnitary(UnitaryTolerance) {
		return w, errors.WithStack(ErrSingularDecomposition)
	}
	w = weylRaw(u)
	w = canonicalize(w)
	return w, nil
}

// weylRaw decomposes into raw, non-canonical coordinates.
func weylRaw(u *gate.Matrix) Weyl {
	mb := magicBasis()

	// Normalize the determinant to land in SU(4) up to a phase we
	// track explicitly.
	g0 := cmplx.Exp(complex(0, cmplx.Phase(u.Det())/4))
	up := u.Scale(1 / g0)

	um := gate.MulAll(mb.Dagger(), up, mb)
	m2 := um.Transpose().Mul(um)

	var re, im [4][4]float64
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			re[i][j] = real(m2.At(i, j))
			im[i][j] = imag(m2.At(i, j))
		}
	}
	p := simDiag(re, im)

	pc := gate.NewMatrix(4)
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			pc.Set(i, j, complex(p[i][j], 0))
		}
	}
	// Force det(P) = +1 so P is in SO(4).
	if real(pc.Det()) < 0 {
		for i := 0; i < 4; i++ {
			pc.Set(i, 0, -pc.At(i, 0))
		}
	}

	d := gate.MulAll(pc.Transpose(), m2, pc)
	var theta [4]float64
	for i := 0; i < 4; i++ {
		theta[i] = cmplx.Phase(d.At(i, i)) / 2
	}
	// Pick phase branches with sum(theta) = 0 mod 2*pi.
	var sum float64
	for _, t := range theta {
		sum += t
	}
	if k := int(math.Round(sum / math.Pi)); k%2 != 0 {
		if theta[0] < 0 {
			theta[0] += math.Pi
		} else {
			theta[0] -= math.Pi
		}
	}

	lamInv := gate.NewMatrix(4)
	for i := 0; i < 4; i++ {
		lamInv.Set(i, i, cmplx.Exp(complex(0, -theta[i])))
	}
	o1 := gate.MulAll(um, pc, lamInv)
	o2 := pc.Transpose()

	// theta_j = signs_j . (a,b,c) + phi with the magic-basis sign
	// pattern of XX, YY, ZZ.
	a := (theta[0] + theta[1] - theta[2] - theta[3]) / 4
	b := (-theta[0] + theta[1] - theta[2] + theta[3]) / 4
	c := (theta[0] - theta[1] - theta[2] + theta[3]) / 4
	phi := (theta[0] + theta[1] + theta[2] + theta[3]) / 4

	return Weyl{
		Phase: g0 * cmplx.Exp(complex(0, phi)),
		K1:    gate.MulAll(mb, o1, mb.Dagger()),
		A:     a,
		B:     b,
		C:     c,
		K2:    gate.MulAll(mb, o2, mb.Dagger()),
	}
}

// canonicalize folds the raw coordinates into the Weyl chamber,
// absorbing the moves into the local factors.
func canonicalize(w Weyl) Weyl {
	const eps = 1e-12
	cc := [3]float64{w.A, w.B, w.C}
	pk := pauliKrons()

	id2 := gate.MatrixI()
	flips := map[[2]int]*gate.Matrix{
		{0, 1}: gate.MatrixZ().Kron(id2),
		{1, 2}: gate.MatrixX().Kron(id2),
		{0, 2}: gate.MatrixY().Kron(id2),
	}
	swaps := map[[2]int]*gate.Matrix{
		{0, 1}: gate.MatrixS().Kron(gate.MatrixS()),
		{0, 2}: gate.MatrixH().Kron(gate.MatrixH()),
		{1, 2}: gate.MatrixRX(math.Pi / 2).Kron(gate.MatrixRX(math.Pi / 2)),
	}

	// Each move rewrites Can(cur) = Fl * Can(next) * Fr.
	type move struct {
		fl, fr *gate.Matrix
	}
	var moves []move
	id4 := gate.Identity(4)
	mv := func(fl, fr *gate.Matrix) {
		moves = append(moves, move{fl, fr})
	}
	shift := func(i, s int) {
		cc[i] += float64(s) * math.Pi / 2
		if s > 0 {
			mv(pk[i].Scale(-1i), id4)
		} else {
			mv(pk[i].Scale(1i), id4)
		}
	}
	negate := func(i, j int) {
		f := flips[[2]int{min(i, j), max(i, j)}]
		cc[i], cc[j] = -cc[i], -cc[j]
		mv(f, f)
	}
	swap := func(i, j int) {
		f := swaps[[2]int{min(i, j), max(i, j)}]
		cc[i], cc[j] = cc[j], cc[i]
		mv(f.Dagger(), f)
	}

	for i := 0; i < 3; i++ {
		for cc[i] > math.Pi/4+eps {
			shift(i, -1)
		}
		for cc[i] <= -math.Pi/4+eps {
			shift(i, 1)
		}
	}
	// Sort by descending absolute value.
	if math.Abs(cc[0]) < math.Abs(cc[1]) {
		swap(0, 1)
	}
	if math.Abs(cc[1]) < math.Abs(cc[2]) {
		swap(1, 2)
	}
	if math.Abs(cc[0]) < math.Abs(cc[1]) {
		swap(0, 1)
	}
	// Signs: only the smallest coordinate may stay negative.
	if cc[0] < -eps {
		negate(0, 2)
	}
	if cc[1] < -eps {
		negate(1, 2)
	}
	// On the a = pi/4 boundary c can be made non-negative.
	if cc[2] < -eps && cc[0] > math.Pi/4-eps {
		negate(0, 2)
		shift(0, 1)
	}

	ltot, rtot := gate.Identity(4), gate.Identity(4)
	for _, m := range moves {
		ltot = ltot.Mul(m.fl)
		rtot = m.fr.Mul(rtot)
	}
	return Weyl{
		Phase: w.Phase,
		K1:    w.K1.Mul(ltot),
		A:     cc[0],
		B:     cc[1],
		C:     cc[2],
		K2:    rtot.Mul(w.K2),
	}
}
