//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package synth

import (
	"math"
	"sort"
)

// jacobiEigen diagonalizes a real symmetric 4x4 matrix with cyclic
// Jacobi rotations: A = P diag(w) P^T with P orthogonal.
func jacobiEigen(a [4][4]float64) (w [4]float64, p [4][4]float64) {
	for i := 0; i < 4; i++ {
		p[i][i] = 1
	}
	for iter := 0; iter < 100; iter++ {
		// Largest off-diagonal element.
		var pi, qi int = 0, 1
		var max float64
		for i := 0; i < 4; i++ {
			for j := i + 1; j < 4; j++ {
				if math.Abs(a[i][j]) > max {
					max = math.Abs(a[i][j])
					pi, qi = i, j
				}
			}
		}
		if max < 1e-15 {
			break
		}
		theta := 0.5 * math.Atan2(2*a[pi][qi], a[pi][pi]-a[qi][qi])
		c, s := math.Cos(theta), math.Sin(theta)
		for k := 0; k < 4; k++ {
			akp, akq := a[k][pi], a[k][qi]
			a[k][pi] = c*akp + s*akq
			a[k][qi] = -s*akp + c*akq
		}
		for k := 0; k < 4; k++ {
			apk, aqk := a[pi][k], a[qi][k]
			a[pi][k] = c*apk + s*aqk
			a[qi][k] = -s*apk + c*aqk
		}
		for k := 0; k < 4; k++ {
			pkp, pkq := p[k][pi], p[k][qi]
			p[k][pi] = c*pkp + s*pkq
			p[k][qi] = -s*pkp + c*pkq
		}
	}
	for i := 0; i < 4; i++ {
		w[i] = a[i][i]
	}
	return
}

// simDiag finds an orthogonal P simultaneously diagonalizing two
// commuting real symmetric 4x4 matrices. Degenerate eigenvalues of
// the first matrix are re-diagonalized within their eigenspace using
// the second.
func simDiag(a, b [4][4]float64) [4][4]float64 {
	w, p := jacobiEigen(a)

	// Sort eigenvalues ascending, permute columns of P.
	idx := []int{0, 1, 2, 3}
	sort.Slice(idx, func(i, j int) bool { return w[idx[i]] < w[idx[j]] })
	var ps [4][4]float64
	var ws [4]float64
	for j := 0; j < 4; j++ {
		ws[j] = w[idx[j]]
		for i := 0; i < 4; i++ {
			ps[i][j] = p[i][idx[j]]
		}
	}

	// Cluster equal eigenvalues, re-diagonalize b inside clusters.
	start := 0
	for i := 1; i <= 4; i++ {
		if i < 4 && math.Abs(ws[i]-ws[start]) <= 1e-8 {
			continue
		}
		g := i - start
		if g > 1 {
			rediagonalize(&ps, b, start, g)
		}
		start = i
	}
	return ps
}

func rediagonalize(p *[4][4]float64, b [4][4]float64, start, g int) {
	// bg = Q^T b Q for the cluster's columns Q.
	var bq [4][4]float64
	for i := 0; i < 4; i++ {
		for j := 0; j < g; j++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += b[i][k] * p[k][start+j]
			}
			bq[i][j] = sum
		}
	}
	var bg [4][4]float64
	for i := 0; i < g; i++ {
		for j := 0; j < g; j++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += p[k][start+i] * bq[k][j]
			}
			bg[i][j] = sum
		}
	}
	// Pad to 4x4 identity so the solver leaves extra dims alone.
	for i := g; i < 4; i++ {
		bg[i][i] = 1
	}
	_, r := jacobiEigen(bg)

	var qr [4][4]float64
	for i := 0; i < 4; i++ {
		for j := 0; j < g; j++ {
			var sum float64
			for k := 0; k < g; k++ {
				sum += p[i][start+k] * r[k][j]
			}
			qr[i][j] = sum
		}
	}
	for i := 0; i < 4; i++ {
		for j := 0; j < g; j++ {
			p[i][start+j] = qr[i][j]
		}
	}
}
