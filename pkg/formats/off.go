// Package formats provides parsers for mesh geometry file formats.
// OFF (Object File Format) parser for polyhedral meshes.
package formats

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/detshape/offgeom/pkg/dataset"
	"github.com/detshape/offgeom/pkg/geometry"
	"github.com/detshape/offgeom/pkg/units"
)

// OFF format errors.
var (
	ErrInvalidOFFMagic  = errors.New("invalid OFF magic: expected 'OFF'")
	ErrTruncatedOFFData = errors.New("truncated OFF data")
	ErrMalformedOFFLine = errors.New("malformed OFF line")
)

// ParseOFF parses ASCII OFF data into raw labelled arrays shaped like the
// output of a hierarchical-file loader, keyed by the canonical field names.
// The result feeds directly into geometry.LoadFields. OFF files carry no
// unit, so the caller supplies the length unit of the vertex coordinates.
//
// Faces keep their full vertex count in the winding order; reducing larger
// polygons to triangles is the shape builder's documented policy.
func ParseOFF(data []byte, unit units.Unit) (map[string]dataset.Raw, error) {
	sc := newLineScanner(data)

	magic, err := sc.next()
	if err != nil {
		return nil, err
	}
	if magic != "OFF" {
		return nil, ErrInvalidOFFMagic
	}

	counts, err := sc.next()
	if err != nil {
		return nil, err
	}
	numVertices, numFaces, err := parseCounts(counts)
	if err != nil {
		return nil, err
	}

	vertices := make([]float64, 0, 3*numVertices)
	for i := 0; i < numVertices; i++ {
		line, err := sc.next()
		if err != nil {
			return nil, err
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			return nil, fmt.Errorf("%w: vertex %d: %q", ErrMalformedOFFLine, i, line)
		}
		for k := 0; k < 3; k++ {
			v, err := strconv.ParseFloat(fields[k], 64)
			if err != nil {
				return nil, fmt.Errorf("%w: vertex %d: %q", ErrMalformedOFFLine, i, line)
			}
			vertices = append(vertices, v)
		}
	}

	windingOrder := make([]int64, 0, 3*numFaces)
	faceOffsets := make([]int64, 0, numFaces)
	for i := 0; i < numFaces; i++ {
		line, err := sc.next()
		if err != nil {
			return nil, err
		}
		fields := strings.Fields(line)
		if len(fields) < 1 {
			return nil, fmt.Errorf("%w: face %d: %q", ErrMalformedOFFLine, i, line)
		}
		n, err := strconv.Atoi(fields[0])
		if err != nil || n < 1 || len(fields) < 1+n {
			return nil, fmt.Errorf("%w: face %d: %q", ErrMalformedOFFLine, i, line)
		}
		faceOffsets = append(faceOffsets, int64(len(windingOrder)))
		// Fields beyond the vertex indices are per-face color; ignored.
		for k := 1; k <= n; k++ {
			idx, err := strconv.ParseInt(fields[k], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: face %d: %q", ErrMalformedOFFLine, i, line)
			}
			windingOrder = append(windingOrder, idx)
		}
	}

	return map[string]dataset.Raw{
		geometry.FieldVertices: {
			Dims:   []string{"_", "comp"},
			Shape:  []int{numVertices, 3},
			Floats: vertices,
			Unit:   unit,
		},
		geometry.FieldWindingOrder: {
			Dims:  []string{"_"},
			Shape: []int{len(windingOrder)},
			Ints:  windingOrder,
		},
		geometry.FieldFaces: {
			Dims:  []string{"_"},
			Shape: []int{len(faceOffsets)},
			Ints:  faceOffsets,
		},
	}, nil
}

// ParseOFFFile parses an OFF file from disk.
func ParseOFFFile(path string, unit units.Unit) (map[string]dataset.Raw, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading OFF file: %w", err)
	}
	return ParseOFF(data, unit)
}

// ParseDetectorFaces parses a two-column "face_index,detector_id" CSV into
// the raw detector_faces array. Blank lines and '#' comments are skipped; a
// "face_index,detector_id" header line is tolerated.
func ParseDetectorFaces(data []byte) (dataset.Raw, error) {
	values := []int64{}
	sc := newLineScanner(data)
	for row := 0; ; row++ {
		line, err := sc.next()
		if errors.Is(err, ErrTruncatedOFFData) {
			break
		}
		fields := strings.Split(line, ",")
		if len(fields) != 2 {
			return dataset.Raw{}, fmt.Errorf("%w: detector row %d: %q", ErrMalformedOFFLine, row, line)
		}
		if row == 0 && strings.EqualFold(strings.TrimSpace(fields[0]), "face_index") {
			continue
		}
		for _, f := range fields {
			v, err := strconv.ParseInt(strings.TrimSpace(f), 10, 64)
			if err != nil {
				return dataset.Raw{}, fmt.Errorf("%w: detector row %d: %q", ErrMalformedOFFLine, row, line)
			}
			values = append(values, v)
		}
	}
	return dataset.Raw{
		Dims:  []string{"_", "ignored"},
		Shape: []int{len(values) / 2, 2},
		Ints:  values,
	}, nil
}

// ParseDetectorFacesFile parses a detector assignment CSV from disk.
func ParseDetectorFacesFile(path string) (dataset.Raw, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return dataset.Raw{}, fmt.Errorf("reading detector faces file: %w", err)
	}
	return ParseDetectorFaces(data)
}

// lineScanner yields non-empty, non-comment lines.
type lineScanner struct {
	sc *bufio.Scanner
}

func newLineScanner(data []byte) *lineScanner {
	return &lineScanner{sc: bufio.NewScanner(bytes.NewReader(data))}
}

// next returns the next significant line, or ErrTruncatedOFFData at EOF.
func (l *lineScanner) next() (string, error) {
	for l.sc.Scan() {
		line := l.sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line != "" {
			return line, nil
		}
	}
	return "", ErrTruncatedOFFData
}

// parseCounts reads the "NVertices NFaces NEdges" header line. The edge
// count is traditionally unused and may be absent.
func parseCounts(line string) (numVertices, numFaces int, err error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return 0, 0, fmt.Errorf("%w: counts line %q", ErrMalformedOFFLine, line)
	}
	numVertices, err = strconv.Atoi(fields[0])
	if err != nil || numVertices < 0 {
		return 0, 0, fmt.Errorf("%w: counts line %q", ErrMalformedOFFLine, line)
	}
	numFaces, err = strconv.Atoi(fields[1])
	if err != nil || numFaces < 0 {
		return 0, 0, fmt.Errorf("%w: counts line %q", ErrMalformedOFFLine, line)
	}
	return numVertices, numFaces, nil
}
