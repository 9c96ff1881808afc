package geometry

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/detshape/offgeom/pkg/dataset"
)

// Canonical field names as supplied by the file loader.
const (
	FieldVertices      = "vertices"
	FieldWindingOrder  = "winding_order"
	FieldFaces         = "faces"
	FieldDetectorFaces = "detector_faces"
)

// Canonical dimension labels after normalization.
const (
	DimVertex       = "vertex"
	DimWindingOrder = "winding_order"
	DimFace         = "face"
	DimDetectorFace = "detector_face"

	// Internal label for the two-entry inner axis of detector_faces
	// (column 0 = face index, column 1 = detector id).
	dimDetectorFaceColumn = "dummy"
)

// Fields holds the normalized, canonically labelled arrays consumed by
// OffToShape.
type Fields struct {
	Vertices      dataset.Vectors
	WindingOrder  dataset.IntArray
	Faces         dataset.IntArray
	DetectorFaces *dataset.IntTable // nil when no detector assignment exists
}

// LoadFields re-labels the raw arrays delivered by a file loader to their
// canonical dimension names and folds the vertex array into 3-component
// vectors. Units are preserved: vertices keep their length unit, index
// arrays stay unitless. Index bounds are not checked here; that is
// OffToShape's job.
func LoadFields(raw map[string]dataset.Raw) (Fields, error) {
	var f Fields

	vertices, ok := raw[FieldVertices]
	if !ok {
		return f, fmt.Errorf("%w: %s", ErrMissingField, FieldVertices)
	}
	v, err := foldVertices(vertices)
	if err != nil {
		return f, err
	}
	f.Vertices = v

	f.WindingOrder, err = loadIndexArray(raw, FieldWindingOrder, DimWindingOrder)
	if err != nil {
		return f, err
	}

	f.Faces, err = loadIndexArray(raw, FieldFaces, DimFace)
	if err != nil {
		return f, err
	}

	if det, ok := raw[FieldDetectorFaces]; ok {
		table, err := foldDetectorFaces(det)
		if err != nil {
			return f, err
		}
		f.DetectorFaces = &table
	}

	return f, nil
}

// foldVertices reinterprets an (N, 3) float array as N 3-component vectors
// on the canonical vertex dimension.
func foldVertices(raw dataset.Raw) (dataset.Vectors, error) {
	if err := raw.Validate(); err != nil {
		return dataset.Vectors{}, fmt.Errorf("%w: %s: %v", ErrShape, FieldVertices, err)
	}
	if raw.NDim() != 2 {
		return dataset.Vectors{}, fmt.Errorf("%w: vertices must be 2-D, got %d-D", ErrShape, raw.NDim())
	}
	if raw.Len(1) != 3 {
		return dataset.Vectors{}, fmt.Errorf("%w: vertices inner axis must have length 3, got %d", ErrShape, raw.Len(1))
	}
	if raw.Floats == nil {
		return dataset.Vectors{}, fmt.Errorf("%w: vertices must hold real values", ErrShape)
	}

	values := make([]mgl64.Vec3, raw.Len(0))
	for i := range values {
		values[i] = mgl64.Vec3{raw.Floats[3*i], raw.Floats[3*i+1], raw.Floats[3*i+2]}
	}
	return dataset.Vectors{Dim: DimVertex, Values: values, Unit: raw.Unit}, nil
}

// loadIndexArray re-labels a mandatory 1-D integer array to the given
// canonical dimension.
func loadIndexArray(raw map[string]dataset.Raw, field, dim string) (dataset.IntArray, error) {
	r, ok := raw[field]
	if !ok {
		return dataset.IntArray{}, fmt.Errorf("%w: %s", ErrMissingField, field)
	}
	if err := r.Validate(); err != nil {
		return dataset.IntArray{}, fmt.Errorf("%w: %s: %v", ErrShape, field, err)
	}
	if r.NDim() != 1 {
		return dataset.IntArray{}, fmt.Errorf("%w: %s must be 1-D, got %d-D", ErrShape, field, r.NDim())
	}
	if r.Ints == nil {
		return dataset.IntArray{}, fmt.Errorf("%w: %s must hold integers", ErrShape, field)
	}
	values := make([]int64, len(r.Ints))
	copy(values, r.Ints)
	return dataset.IntArray{Dim: dim, Values: values, Unit: r.Unit}, nil
}

// foldDetectorFaces re-labels the (M, >=2) detector assignment table.
func foldDetectorFaces(raw dataset.Raw) (dataset.IntTable, error) {
	if err := raw.Validate(); err != nil {
		return dataset.IntTable{}, fmt.Errorf("%w: %s: %v", ErrShape, FieldDetectorFaces, err)
	}
	if raw.NDim() != 2 {
		return dataset.IntTable{}, fmt.Errorf("%w: detector_faces must be 2-D, got %d-D", ErrShape, raw.NDim())
	}
	if raw.Len(1) < 2 {
		return dataset.IntTable{}, fmt.Errorf("%w: detector_faces inner axis must have length >= 2, got %d", ErrShape, raw.Len(1))
	}
	if raw.Ints == nil {
		return dataset.IntTable{}, fmt.Errorf("%w: detector_faces must hold integers", ErrShape)
	}
	values := make([]int64, len(raw.Ints))
	copy(values, raw.Ints)
	return dataset.IntTable{
		Dims:   [2]string{DimDetectorFace, dimDetectorFaceColumn},
		Cols:   raw.Len(1),
		Values: values,
		Unit:   raw.Unit,
	}, nil
}
