package sym

import (
	"fmt"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Matrix is a dense rows x cols matrix of expressions, stored row-major.
type Matrix struct {
	rows, cols int
	data       []Expr
}

// NewMatrix creates a matrix from row-major data. A nil data slice yields a
// matrix of constant zeros. It panics with ErrShape on non-positive
// dimensions or a data length that does not match, like mat.NewDense.
func NewMatrix(rows, cols int, data []Expr) *Matrix {
	if rows <= 0 || cols <= 0 {
		panic(ErrShape)
	}

	if data == nil {
		data = make([]Expr, rows*cols)
		for i := range data {
			data[i] = zero
		}
	}

	if len(data) != rows*cols {
		panic(ErrShape)
	}

	return &Matrix{rows: rows, cols: cols, data: data}
}

// NewSymbol creates a rows x cols matrix of fresh leaves. A 1x1 matrix holds
// a single leaf called name; otherwise leaves are named name_0, name_1, ...
// in column-major order.
func NewSymbol(name string, rows, cols int) *Matrix {
	m := NewMatrix(rows, cols, nil)

	if rows == 1 && cols == 1 {
		m.data[0] = NewLeaf(name)

		return m
	}

	k := 0
	for j := 0; j < cols; j++ {
		for i := 0; i < rows; i++ {
			m.data[i*cols+j] = NewLeaf(name + "_" + strconv.Itoa(k))
			k++
		}
	}

	return m
}

// FromDense lifts a numeric matrix into constant expressions.
func FromDense(a mat.Matrix) *Matrix {
	r, c := a.Dims()
	m := NewMatrix(r, c, nil)

	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			m.data[i*c+j] = Const(a.At(i, j))
		}
	}

	return m
}

// Dims returns the number of rows and columns.
func (m *Matrix) Dims() (r, c int) { return m.rows, m.cols }

// At returns the element at row i, column j.
func (m *Matrix) At(i, j int) Expr {
	m.check(i, j)

	return m.data[i*m.cols+j]
}

// Set replaces the element at row i, column j.
func (m *Matrix) Set(i, j int, e Expr) {
	m.check(i, j)
	m.data[i*m.cols+j] = e
}

// Elements returns every element in column-major order.
func (m *Matrix) Elements() []Expr {
	out := make([]Expr, 0, len(m.data))

	for j := 0; j < m.cols; j++ {
		for i := 0; i < m.rows; i++ {
			out = append(out, m.data[i*m.cols+j])
		}
	}

	return out
}

// Symbols returns the leaf elements of m in column-major order. Non-leaf
// elements are skipped.
func (m *Matrix) Symbols() []*Symbol {
	out := []*Symbol{}

	for _, e := range m.Elements() {
		if s, ok := e.(*Symbol); ok {
			out = append(out, s)
		}
	}

	return out
}

// DependsOn reports whether any element of m depends on any leaf of arg.
func (m *Matrix) DependsOn(arg *Matrix) bool {
	for _, s := range arg.Symbols() {
		for _, e := range m.data {
			if DependsOn(e, s) {
				return true
			}
		}
	}

	return false
}

// Equal reports whether m and o have the same shape and structurally
// identical elements.
func (m *Matrix) Equal(o *Matrix) bool {
	if m.rows != o.rows || m.cols != o.cols {
		return false
	}

	for i := range m.data {
		if !Equal(m.data[i], o.data[i]) {
			return false
		}
	}

	return true
}

// Eval substitutes env into every element. Shared sub-graphs across elements
// are evaluated once.
func (m *Matrix) Eval(env Env) (*mat.Dense, error) {
	ev := newEvaluator(env)
	out := mat.NewDense(m.rows, m.cols, nil)

	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			v, err := ev.eval(m.data[i*m.cols+j])
			if err != nil {
				return nil, fmt.Errorf("element (%d,%d): %w", i, j, err)
			}

			out.Set(i, j, v)
		}
	}

	return out, nil
}

func (m *Matrix) String() string {
	var b strings.Builder

	b.WriteString("[")

	for i := 0; i < m.rows; i++ {
		if i > 0 {
			b.WriteString(",\n ")
		}

		b.WriteString("[")

		for j := 0; j < m.cols; j++ {
			if j > 0 {
				b.WriteString(", ")
			}

			b.WriteString(m.data[i*m.cols+j].String())
		}

		b.WriteString("]")
	}

	b.WriteString("]")

	return b.String()
}

func (m *Matrix) check(i, j int) {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		panic(fmt.Errorf("%w: index (%d,%d) out of range for %dx%d", ErrShape, i, j, m.rows, m.cols))
	}
}
