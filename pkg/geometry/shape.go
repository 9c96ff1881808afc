package geometry

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/detshape/offgeom/pkg/dataset"
	"github.com/detshape/offgeom/pkg/units"
)

// Triangle is a single triangulated face, in winding order.
type Triangle [3]mgl64.Vec3

// Shape is the binned result of a conversion: a flat arena of triangles plus
// per-bin offsets. Without a detector assignment the shape is scalar-rank
// (one bin holding every face); with one it is 1-D over the detector_number
// coordinate, one bin per distinct detector id in ascending order.
type Shape struct {
	tris            []Triangle
	offsets         []int // len = Len()+1
	detectorNumbers []int64
	unit            units.Unit
}

// Scalar reports whether the shape is scalar-rank (no detector assignment).
func (s *Shape) Scalar() bool {
	return s.detectorNumbers == nil
}

// Len returns the number of bins: the distinct detector count, or 1 for a
// scalar shape.
func (s *Shape) Len() int {
	return len(s.offsets) - 1
}

// DetectorNumbers returns the sorted unique detector ids aligned with the
// bins, or nil for a scalar shape. The slice is owned by the shape and must
// not be modified.
func (s *Shape) DetectorNumbers() []int64 {
	return s.detectorNumbers
}

// Bin returns the triangles of bin i. The slice aliases the shape's arena
// and must not be modified.
func (s *Shape) Bin(i int) []Triangle {
	return s.tris[s.offsets[i]:s.offsets[i+1]]
}

// BinSize returns the number of faces in bin i.
func (s *Shape) BinSize(i int) int {
	return s.offsets[i+1] - s.offsets[i]
}

// BinSizes returns the face count of every bin.
func (s *Shape) BinSizes() []int {
	sizes := make([]int, s.Len())
	for i := range sizes {
		sizes[i] = s.BinSize(i)
	}
	return sizes
}

// BinFor returns the triangles assigned to the given detector id, or false
// if the shape is scalar or the id has no faces.
func (s *Shape) BinFor(detectorID int64) ([]Triangle, bool) {
	n := len(s.detectorNumbers)
	i := sort.Search(n, func(i int) bool { return s.detectorNumbers[i] >= detectorID })
	if i == n || s.detectorNumbers[i] != detectorID {
		return nil, false
	}
	return s.Bin(i), true
}

// NumFaces returns the total face count across all bins.
func (s *Shape) NumFaces() int {
	return len(s.tris)
}

// Unit returns the length unit carried over from the vertex data.
func (s *Shape) Unit() units.Unit {
	return s.unit
}

// Bounds returns the axis-aligned bounding box of all triangles. For an
// empty shape both corners are zero.
func (s *Shape) Bounds() (min, max mgl64.Vec3) {
	if len(s.tris) == 0 {
		return mgl64.Vec3{}, mgl64.Vec3{}
	}
	min = mgl64.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	max = mgl64.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, tri := range s.tris {
		for _, v := range tri {
			for k := 0; k < 3; k++ {
				if v[k] < min[k] {
					min[k] = v[k]
				}
				if v[k] > max[k] {
					max[k] = v[k]
				}
			}
		}
	}
	return min, max
}

// OffToShape converts OFF-layout mesh fields into a Shape. Each face
// contributes one triangle built from the first three entries of its
// winding-order run; faces with more vertices are truncated, not
// triangulated. With detectorFaces nil the result is scalar-rank; otherwise
// it is 1-D over the sorted unique detector ids, faces grouped per id in
// detectorFaces row order.
//
// Inputs are never mutated and the result shares no storage with them. Any
// malformed shape or out-of-range index aborts the whole conversion with an
// error wrapping ErrShape or ErrIndex.
func OffToShape(vertices dataset.Vectors, windingOrder, faces dataset.IntArray, detectorFaces *dataset.IntTable) (*Shape, error) {
	triangles, err := buildTriangles(vertices, windingOrder, faces)
	if err != nil {
		return nil, err
	}

	if detectorFaces == nil {
		return &Shape{
			tris:    triangles,
			offsets: []int{0, len(triangles)},
			unit:    vertices.Unit,
		}, nil
	}
	return groupByDetector(triangles, *detectorFaces, vertices.Unit)
}

// buildTriangles materializes one triangle per face, independent of any
// detector assignment.
func buildTriangles(vertices dataset.Vectors, windingOrder, faces dataset.IntArray) ([]Triangle, error) {
	numFaces := faces.Len()
	numWinding := int64(windingOrder.Len())

	triangles := make([]Triangle, numFaces)
	for i := 0; i < numFaces; i++ {
		start := faces.Values[i]
		end := numWinding
		if i+1 < numFaces {
			end = faces.Values[i+1]
		}
		if start < 0 || start > end || end > numWinding {
			return nil, fmt.Errorf("%w: face %d spans winding order [%d, %d) of %d", ErrIndex, i, start, end, numWinding)
		}
		if end-start < 3 {
			return nil, fmt.Errorf("%w: face %d has %d vertices, need at least 3", ErrShape, i, end-start)
		}
		// First three winding entries only; larger polygons are truncated.
		for k := 0; k < 3; k++ {
			vi := windingOrder.Values[start+int64(k)]
			if vi < 0 || vi >= int64(vertices.Len()) {
				return nil, fmt.Errorf("%w: face %d references vertex %d of %d", ErrIndex, i, vi, vertices.Len())
			}
			triangles[i][k] = vertices.Values[vi]
		}
	}
	return triangles, nil
}

// groupByDetector gathers triangles into one bin per distinct detector id,
// ascending by id, stable in detectorFaces row order within a bin.
func groupByDetector(triangles []Triangle, detectorFaces dataset.IntTable, unit units.Unit) (*Shape, error) {
	if detectorFaces.Cols < 2 {
		return nil, fmt.Errorf("%w: detector_faces must have at least 2 columns, got %d", ErrShape, detectorFaces.Cols)
	}

	rows := detectorFaces.Rows()
	ids := detectorFaces.Column(1)

	unique := append([]int64(nil), ids...)
	sort.Slice(unique, func(i, j int) bool { return unique[i] < unique[j] })
	unique = dedupSorted(unique)

	// Counting pass: faces per bin, then prefix sums into offsets.
	counts := make([]int, len(unique))
	bins := make([]int, rows)
	for r := 0; r < rows; r++ {
		bins[r] = sort.Search(len(unique), func(i int) bool { return unique[i] >= ids[r] })
		counts[bins[r]]++
	}
	offsets := make([]int, len(unique)+1)
	for i, c := range counts {
		offsets[i+1] = offsets[i] + c
	}

	// Fill pass in row order, keeping bins stable.
	arena := make([]Triangle, rows)
	next := append([]int(nil), offsets[:len(unique)]...)
	for r := 0; r < rows; r++ {
		face := detectorFaces.At(r, 0)
		if face < 0 || face >= int64(len(triangles)) {
			return nil, fmt.Errorf("%w: detector_faces row %d references face %d of %d", ErrIndex, r, face, len(triangles))
		}
		arena[next[bins[r]]] = triangles[face]
		next[bins[r]]++
	}

	return &Shape{
		tris:            arena,
		offsets:         offsets,
		detectorNumbers: unique,
		unit:            unit,
	}, nil
}

// dedupSorted collapses consecutive duplicates in a sorted slice, in place.
func dedupSorted(s []int64) []int64 {
	if len(s) == 0 {
		return s
	}
	out := s[:1]
	for _, v := range s[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}
