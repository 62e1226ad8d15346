//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package gate

import (
	"fmt"
	"math/cmplx"
	"strings"
)

// Matrix is a dense square complex matrix. The dimension is always a
// power of two: 2^k for a k-qubit operator.
type Matrix struct {
	N    int
	Data []complex128
}

// NewMatrix creates a zero n x n matrix.
func NewMatrix(n int) *Matrix {
	return &Matrix{
		N:    n,
		Data: make([]complex128, n*n),
	}
}

// Identity creates the n x n identity matrix.
func Identity(n int) *Matrix {
	m := NewMatrix(n)
	for i := 0; i < n; i++ {
		m.Data[i*n+i] = 1
	}
	return m
}

// NewMatrix2 creates a 2x2 matrix from its elements in row order.
func NewMatrix2(a, b, c, d complex128) *Matrix {
	return &Matrix{
		N:    2,
		Data: []complex128{a, b, c, d},
	}
}

// NewMatrix4 creates a 4x4 matrix from its elements in row order.
func NewMatrix4(elements ...complex128) *Matrix {
	if len(elements) != 16 {
		panic("gate: NewMatrix4 needs 16 elements")
	}
	data := make([]complex128, 16)
	copy(data, elements)
	return &Matrix{
		N:    4,
		Data: data,
	}
}

// At returns the element at row i, column j.
func (m *Matrix) At(i, j int) complex128 {
	return m.Data[i*m.N+j]
}

// Set sets the element at row i, column j.
func (m *Matrix) Set(i, j int, v complex128) {
	m.Data[i*m.N+j] = v
}

// Clone returns a copy of the matrix.
func (m *Matrix) Clone() *Matrix {
	c := NewMatrix(m.N)
	copy(c.Data, m.Data)
	return c
}

// Mul returns the matrix product m*o.
func (m *Matrix) Mul(o *Matrix) *Matrix {
	if m.N != o.N {
		panic("gate: matrix dimension mismatch")
	}
	n := m.N
	r := NewMatrix(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			var sum complex128
			for k := 0; k < n; k++ {
				sum += m.Data[i*n+k] * o.Data[k*n+j]
			}
			r.Data[i*n+j] = sum
		}
	}
	return r
}

// MulAll returns the product of the matrices in argument order.
func MulAll(ms ...*Matrix) *Matrix {
	r := ms[0]
	for _, m := range ms[1:] {
		r = r.Mul(m)
	}
	return r
}

// Dagger returns the conjugate transpose of the matrix.
func (m *Matrix) Dagger() *Matrix {
	n := m.N
	r := NewMatrix(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			r.Data[i*n+j] = cmplx.Conj(m.Data[j*n+i])
		}
	}
	return r
}

// Transpose returns the transpose of the matrix.
func (m *Matrix) Transpose() *Matrix {
	n := m.N
	r := NewMatrix(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			r.Data[i*n+j] = m.Data[j*n+i]
		}
	}
	return r
}

// Scale returns the matrix scaled by the complex factor c.
func (m *Matrix) Scale(c complex128) *Matrix {
	r := NewMatrix(m.N)
	for i, v := range m.Data {
		r.Data[i] = c * v
	}
	return r
}

// Kron returns the Kronecker product m (x) o.
func (m *Matrix) Kron(o *Matrix) *Matrix {
	n, p := m.N, o.N
	r := NewMatrix(n * p)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			for k := 0; k < p; k++ {
				for l := 0; l < p; l++ {
					r.Data[(i*p+k)*n*p+(j*p+l)] = m.Data[i*n+j] * o.Data[k*p+l]
				}
			}
		}
	}
	return r
}

// Det returns the determinant. Supported for 2x2 and 4x4 matrices.
func (m *Matrix) Det() complex128 {
	switch m.N {
	case 2:
		return m.Data[0]*m.Data[3] - m.Data[1]*m.Data[2]
	case 4:
		var sum complex128
		sign := complex128(1)
		for j := 0; j < 4; j++ {
			sum += sign * m.Data[j] * m.minor3(j)
			sign = -sign
		}
		return sum
	default:
		panic(fmt.Sprintf("gate: determinant of %dx%d matrix", m.N, m.N))
	}
}

func (m *Matrix) minor3(col int) complex128 {
	var e [9]complex128
	idx := 0
	for i := 1; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if j == col {
				continue
			}
			e[idx] = m.At(i, j)
			idx++
		}
	}
	return e[0]*(e[4]*e[8]-e[5]*e[7]) -
		e[1]*(e[3]*e[8]-e[5]*e[6]) +
		e[2]*(e[3]*e[7]-e[4]*e[6])
}

// Dist returns the largest element-wise absolute difference between
// the matrices.
func (m *Matrix) Dist(o *Matrix) float64 {
	var max float64
	for i, v := range m.Data {
		d := cmplx.Abs(v - o.Data[i])
		if d > max {
			max = d
		}
	}
	return max
}

// Equal tests if the matrices are element-wise equal within the
// tolerance.
func (m *Matrix) Equal(o *Matrix, tol float64) bool {
	if m.N != o.N {
		return false
	}
	return m.Dist(o) <= tol
}

// EqualUpToPhase tests if the matrices differ only by a global phase
// factor within the tolerance.
func (m *Matrix) EqualUpToPhase(o *Matrix, tol float64) bool {
	if m.N != o.N {
		return false
	}
	// Align phases at the largest element of o.
	var best float64
	var bi int
	for i, v := range o.Data {
		if cmplx.Abs(v) > best {
			best = cmplx.Abs(v)
			bi = i
		}
	}
	if best < tol {
		return m.Dist(o) <= tol
	}
	phase := m.Data[bi] / o.Data[bi]
	if cmplx.Abs(phase) < tol {
		return m.Dist(o) <= tol
	}
	phase /= complex(cmplx.Abs(phase), 0)
	return m.Dist(o.Scale(phase)) <= tol
}

// IsUnitary tests if the matrix is unitary within the tolerance.
func (m *Matrix) IsUnitary(tol float64) bool {
	return m.Mul(m.Dagger()).Equal(Identity(m.N), tol)
}

func (m *Matrix) String() string {
	var sb strings.Builder
	for i := 0; i < m.N; i++ {
		for j := 0; j < m.N; j++ {
			if j > 0 {
				sb.WriteRune(' ')
			}
			v := m.At(i, j)
			fmt.Fprintf(&sb, "%7.4f%+7.4fi", real(v), imag(v))
		}
		sb.WriteRune('\n')
	}
	return sb.String()
}

// Expand embeds the k-qubit matrix m into an n-qubit register where
// the operator's qubit i occupies register position pos[i]. Position 0
// is the most significant index bit.
func (m *Matrix) Expand(pos []int, n int) *Matrix {
	dim := 1 << n
	k := len(pos)
	r := NewMatrix(dim)
	for row := 0; row < dim; row++ {
		// Bits of the operator qubits within row; the rest pass
		// through.
		var mrow int
		for b := 0; b < k; b++ {
			bit := (row >> (n - 1 - pos[b])) & 1
			mrow = mrow<<1 | bit
		}
		for mcol := 0; mcol < 1<<k; mcol++ {
			v := m.Data[mrow*(1<<k)+mcol]
			if v == 0 {
				continue
			}
			col := row
			for b := 0; b < k; b++ {
				bit := (mcol >> (k - 1 - b)) & 1
				shift := n - 1 - pos[b]
				col = col&^(1<<shift) | bit<<shift
			}
			r.Data[row*dim+col] = v
		}
	}
	return r
}

// KronFactor splits a 4x4 tensor product w = g * (A (x) B) into the
// phase g and determinant-normalized 2x2 factors A and B. The input
// must be an exact tensor product.
func (w *Matrix) KronFactor() (complex128, *Matrix, *Matrix) {
	// Pivot at the largest element.
	var best float64
	var bi, bj int
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if cmplx.Abs(w.At(i, j)) > best {
				best = cmplx.Abs(w.At(i, j))
				bi, bj = i, j
			}
		}
	}
	k0, i0 := bi>>1, bi&1
	l0, j0 := bj>>1, bj&1

	b := NewMatrix(2)
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			b.Set(i, j, w.At(2*k0+i, 2*l0+j))
		}
	}
	b = b.Scale(1 / cmplx.Sqrt(b.Det()))

	a := NewMatrix(2)
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			a.Set(i, j, w.At(2*i+i0, 2*j+j0)/b.At(i0, j0))
		}
	}
	a = a.Scale(1 / cmplx.Sqrt(a.Det()))

	g := w.At(bi, bj) / (a.At(k0, l0) * b.At(i0, j0))
	return g, a, b
}

// Trace returns the trace of the matrix.
func (m *Matrix) Trace() complex128 {
	var sum complex128
	for i := 0; i < m.N; i++ {
		sum += m.At(i, i)
	}
	return sum
}
