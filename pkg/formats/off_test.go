package formats

import (
	"errors"
	"testing"

	"github.com/detshape/offgeom/pkg/geometry"
	"github.com/detshape/offgeom/pkg/units"
)

const cubeOFF = `OFF
# a unit cube
8 6 12
0 0 0
1 0 0
1 1 0
0 1 0
0 0 1
1 0 1
1 1 1
0 1 1
4 0 1 2 3
4 4 7 6 5
4 0 4 5 1
4 1 5 6 2
4 2 6 7 3
4 3 7 4 0
`

func TestParseOFF_Cube(t *testing.T) {
	raw, err := ParseOFF([]byte(cubeOFF), units.Metre)
	if err != nil {
		t.Fatalf("ParseOFF: %v", err)
	}

	vertices := raw[geometry.FieldVertices]
	if vertices.Shape[0] != 8 || vertices.Shape[1] != 3 {
		t.Errorf("vertices shape = %v, want [8 3]", vertices.Shape)
	}
	if vertices.Unit != units.Metre {
		t.Errorf("vertices unit = %v, want m", vertices.Unit)
	}

	winding := raw[geometry.FieldWindingOrder]
	if len(winding.Ints) != 24 {
		t.Errorf("winding order length = %d, want 24", len(winding.Ints))
	}
	if winding.Unit != units.None {
		t.Errorf("winding order unit = %v, want none", winding.Unit)
	}

	faces := raw[geometry.FieldFaces]
	wantOffsets := []int64{0, 4, 8, 12, 16, 20}
	if len(faces.Ints) != len(wantOffsets) {
		t.Fatalf("face offsets = %v, want %v", faces.Ints, wantOffsets)
	}
	for i, want := range wantOffsets {
		if faces.Ints[i] != want {
			t.Errorf("face offset %d = %d, want %d", i, faces.Ints[i], want)
		}
	}
}

func TestParseOFF_PipelineToShape(t *testing.T) {
	raw, err := ParseOFF([]byte(cubeOFF), units.Millimetre)
	if err != nil {
		t.Fatalf("ParseOFF: %v", err)
	}
	fields, err := geometry.LoadFields(raw)
	if err != nil {
		t.Fatalf("LoadFields: %v", err)
	}
	shape, err := geometry.OffToShape(fields.Vertices, fields.WindingOrder, fields.Faces, fields.DetectorFaces)
	if err != nil {
		t.Fatalf("OffToShape: %v", err)
	}

	if !shape.Scalar() {
		t.Error("cube without detectors should be scalar-rank")
	}
	if got := shape.NumFaces(); got != 6 {
		t.Errorf("NumFaces() = %d, want 6", got)
	}
	if got := shape.Unit(); got != units.Millimetre {
		t.Errorf("unit = %v, want mm", got)
	}
}

func TestParseOFF_FaceColorsIgnored(t *testing.T) {
	data := `OFF
3 1 0
0 0 0
1 0 0
0 1 0
3 0 1 2 255 0 0
`
	raw, err := ParseOFF([]byte(data), units.Metre)
	if err != nil {
		t.Fatalf("ParseOFF: %v", err)
	}
	if got := len(raw[geometry.FieldWindingOrder].Ints); got != 3 {
		t.Errorf("winding order length = %d, want 3", got)
	}
}

func TestParseOFF_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr error
	}{
		{
			name:    "empty data",
			data:    "",
			wantErr: ErrTruncatedOFFData,
		},
		{
			name:    "invalid magic",
			data:    "PLY\n3 1 0\n",
			wantErr: ErrInvalidOFFMagic,
		},
		{
			name:    "missing counts",
			data:    "OFF\n",
			wantErr: ErrTruncatedOFFData,
		},
		{
			name:    "malformed counts",
			data:    "OFF\nthree 1 0\n",
			wantErr: ErrMalformedOFFLine,
		},
		{
			name:    "truncated vertices",
			data:    "OFF\n3 1 0\n0 0 0\n",
			wantErr: ErrTruncatedOFFData,
		},
		{
			name:    "malformed vertex",
			data:    "OFF\n1 0 0\n0 zero 0\n",
			wantErr: ErrMalformedOFFLine,
		},
		{
			name:    "face with too few indices",
			data:    "OFF\n3 1 0\n0 0 0\n1 0 0\n0 1 0\n3 0 1\n",
			wantErr: ErrMalformedOFFLine,
		},
		{
			name:    "missing faces",
			data:    "OFF\n3 1 0\n0 0 0\n1 0 0\n0 1 0\n",
			wantErr: ErrTruncatedOFFData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseOFF([]byte(tt.data), units.Metre)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ParseOFF error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseDetectorFaces(t *testing.T) {
	data := `# face assignments
face_index,detector_id
0,3
1,1
2,3
`
	raw, err := ParseDetectorFaces([]byte(data))
	if err != nil {
		t.Fatalf("ParseDetectorFaces: %v", err)
	}
	if raw.Shape[0] != 3 || raw.Shape[1] != 2 {
		t.Fatalf("shape = %v, want [3 2]", raw.Shape)
	}
	want := []int64{0, 3, 1, 1, 2, 3}
	for i, w := range want {
		if raw.Ints[i] != w {
			t.Errorf("value %d = %d, want %d", i, raw.Ints[i], w)
		}
	}
}

func TestParseDetectorFaces_Malformed(t *testing.T) {
	_, err := ParseDetectorFaces([]byte("0,1,2\n"))
	if !errors.Is(err, ErrMalformedOFFLine) {
		t.Errorf("error = %v, want %v", err, ErrMalformedOFFLine)
	}
	_, err = ParseDetectorFaces([]byte("0,x\n"))
	if !errors.Is(err, ErrMalformedOFFLine) {
		t.Errorf("error = %v, want %v", err, ErrMalformedOFFLine)
	}
}
