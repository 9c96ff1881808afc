// Package dataset provides dimension-labelled numeric arrays as delivered by
// geometry file loaders (flat vertex lists, index lists, assignment tables).
package dataset

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/detshape/offgeom/pkg/units"
)

// Raw is an array exactly as a file loader produced it: arbitrary dimension
// labels, row-major data, and either float or integer storage (never both).
type Raw struct {
	Dims   []string
	Shape  []int
	Floats []float64 // nil for integer arrays
	Ints   []int64   // nil for float arrays
	Unit   units.Unit
}

// NDim returns the number of dimensions.
func (r Raw) NDim() int {
	return len(r.Shape)
}

// Len returns the length of the given axis.
func (r Raw) Len(axis int) int {
	return r.Shape[axis]
}

// Validate checks that dims, shape and storage are mutually consistent.
func (r Raw) Validate() error {
	if len(r.Dims) != len(r.Shape) {
		return fmt.Errorf("raw array: %d dims but %d shape entries", len(r.Dims), len(r.Shape))
	}
	if (r.Floats == nil) == (r.Ints == nil) {
		return fmt.Errorf("raw array: exactly one of float or integer storage must be set")
	}
	n := 1
	for _, s := range r.Shape {
		if s < 0 {
			return fmt.Errorf("raw array: negative axis length %d", s)
		}
		n *= s
	}
	if got := r.dataLen(); got != n {
		return fmt.Errorf("raw array: shape %v implies %d elements, storage has %d", r.Shape, n, got)
	}
	return nil
}

func (r Raw) dataLen() int {
	if r.Floats != nil {
		return len(r.Floats)
	}
	return len(r.Ints)
}

// IntArray is a 1-D labelled integer array.
type IntArray struct {
	Dim    string
	Values []int64
	Unit   units.Unit
}

// Len returns the number of elements.
func (a IntArray) Len() int {
	return len(a.Values)
}

// IntTable is a 2-D labelled integer array stored row-major.
type IntTable struct {
	Dims   [2]string
	Cols   int
	Values []int64
	Unit   units.Unit
}

// Rows returns the number of rows.
func (t IntTable) Rows() int {
	if t.Cols == 0 {
		return 0
	}
	return len(t.Values) / t.Cols
}

// At returns the element at row r, column c.
func (t IntTable) At(r, c int) int64 {
	return t.Values[r*t.Cols+c]
}

// Column returns a freshly allocated copy of column c.
func (t IntTable) Column(c int) []int64 {
	out := make([]int64, t.Rows())
	for r := range out {
		out[r] = t.At(r, c)
	}
	return out
}

// Vectors is a 1-D labelled array of 3-component vectors, the folded form of
// an (N, 3) float array.
type Vectors struct {
	Dim    string
	Values []mgl64.Vec3
	Unit   units.Unit
}

// Len returns the number of vectors.
func (v Vectors) Len() int {
	return len(v.Values)
}
