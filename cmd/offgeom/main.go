// offgeom is a CLI utility for converting OFF polyhedral meshes into
// detector shapes and inspecting or previewing the result.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"go.uber.org/zap"

	"github.com/detshape/offgeom/internal/config"
	"github.com/detshape/offgeom/internal/logger"
	"github.com/detshape/offgeom/internal/render"
	"github.com/detshape/offgeom/pkg/formats"
	"github.com/detshape/offgeom/pkg/geometry"
	"github.com/detshape/offgeom/pkg/units"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "shape":
		cmdShape(args)
	case "render":
		cmdRender(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`offgeom - OFF mesh to detector shape utility

Usage:
  offgeom <command> [options]

Commands:
  info <file.off>                    Show mesh and shape information
  shape <file.off>                   Convert and print the binned shape
  render <file.off> -o <out.webp>    Render a shape preview image

Common options:
  -config <path>       Explicit config file
  -unit <u>            Vertex length unit (m, mm, cm, um, angstrom)
  -detectors <csv>     face_index,detector_id assignment file
  -log-level <lvl>     Log level: debug, info, warn, error
  -log-file <path>     Rotating log file

Examples:
  offgeom info detector_housing.off
  offgeom shape panel.off -detectors panel_detectors.csv
  offgeom render panel.off -detectors panel_detectors.csv -o panel.webp`)
}

// commonFlags holds flags shared by every subcommand.
type commonFlags struct {
	config    *string
	unit      *string
	detectors *string
	logLevel  *string
	logFile   *string
}

func addCommonFlags(fs *flag.FlagSet) *commonFlags {
	return &commonFlags{
		config:    fs.String("config", "", "Path to config file"),
		unit:      fs.String("unit", "", "Vertex length unit (overrides config)"),
		detectors: fs.String("detectors", "", "Detector assignment CSV file"),
		logLevel:  fs.String("log-level", "", "Log level (overrides config)"),
		logFile:   fs.String("log-file", "", "Log file path (overrides config)"),
	}
}

// setup loads the config, builds the logger and converts the mesh named by
// the flag set's first positional argument.
func setup(fs *flag.FlagSet, cf *commonFlags, usage string) (*geometry.Shape, *config.Config, *zap.Logger) {
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(1)
	}

	cfg, err := config.Load(*cf.config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	opts := logger.DefaultOptions()
	opts.Level = cfg.Logging.Level
	opts.File = cfg.Logging.LogFile
	if *cf.logLevel != "" {
		opts.Level = *cf.logLevel
	}
	if *cf.logFile != "" {
		opts.File = *cf.logFile
	}
	log := logger.New(opts)

	unitName := cfg.Input.Unit
	if *cf.unit != "" {
		unitName = *cf.unit
	}
	unit, err := units.Parse(unitName)
	if err != nil {
		log.Fatal("invalid unit", zap.Error(err))
	}

	path := fs.Arg(0)
	shape, err := loadShape(path, unit, *cf.detectors, log)
	if err != nil {
		log.Fatal("conversion failed", zap.String("file", path), zap.Error(err))
	}
	return shape, cfg, log
}

// loadShape runs the full pipeline: parse OFF, normalize fields, build shape.
func loadShape(path string, unit units.Unit, detectorsPath string, log *zap.Logger) (*geometry.Shape, error) {
	raw, err := formats.ParseOFFFile(path, unit)
	if err != nil {
		return nil, err
	}

	if detectorsPath != "" {
		det, err := formats.ParseDetectorFacesFile(detectorsPath)
		if err != nil {
			return nil, err
		}
		raw[geometry.FieldDetectorFaces] = det
	}

	fields, err := geometry.LoadFields(raw)
	if err != nil {
		return nil, err
	}

	log.Debug("fields loaded",
		zap.Int("vertices", fields.Vertices.Len()),
		zap.Int("faces", fields.Faces.Len()),
		zap.Bool("detectors", fields.DetectorFaces != nil))

	return geometry.OffToShape(fields.Vertices, fields.WindingOrder, fields.Faces, fields.DetectorFaces)
}

func cmdInfo(args []string) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	cf := addCommonFlags(fs)
	fs.Parse(args)

	shape, _, log := setup(fs, cf, "Usage: offgeom info <file.off> [options]")
	defer log.Sync()

	min, max := shape.Bounds()
	fmt.Printf("File:      %s\n", fs.Arg(0))
	fmt.Printf("Faces:     %d\n", shape.NumFaces())
	fmt.Printf("Unit:      %s\n", orNone(shape.Unit().String()))
	fmt.Printf("Bounds:    [%g %g %g] .. [%g %g %g]\n",
		min.X(), min.Y(), min.Z(), max.X(), max.Y(), max.Z())

	ext := max.Sub(min)
	if u := shape.Unit(); u != units.None {
		s := u.Scale()
		fmt.Printf("Extent:    %g x %g x %g m\n", ext.X()*s, ext.Y()*s, ext.Z()*s)
	} else {
		fmt.Printf("Extent:    %g x %g x %g\n", ext.X(), ext.Y(), ext.Z())
	}

	if shape.Scalar() {
		fmt.Println("Detectors: none (scalar shape)")
		return
	}
	fmt.Printf("Detectors: %d\n", shape.Len())
}

func cmdShape(args []string) {
	fs := flag.NewFlagSet("shape", flag.ExitOnError)
	cf := addCommonFlags(fs)
	fs.Parse(args)

	shape, _, log := setup(fs, cf, "Usage: offgeom shape <file.off> [options]")
	defer log.Sync()

	if shape.Scalar() {
		fmt.Printf("scalar shape, 1 bin, %d faces\n", shape.BinSize(0))
		return
	}

	fmt.Printf("1-D shape over detector_number, %d bins\n", shape.Len())
	for i, id := range shape.DetectorNumbers() {
		fmt.Printf("  detector %-8d %d faces\n", id, shape.BinSize(i))
	}
}

func cmdRender(args []string) {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	cf := addCommonFlags(fs)
	output := fs.String("o", "", "Output WebP file")
	size := fs.Int("size", 0, "Output image size in pixels (overrides config)")
	supersample := fs.Int("supersample", 0, "Oversampling factor (overrides config)")
	fs.Parse(args)

	if *output == "" {
		fmt.Fprintln(os.Stderr, "Usage: offgeom render <file.off> -o <out.webp> [options]")
		os.Exit(1)
	}

	shape, cfg, log := setup(fs, cf, "Usage: offgeom render <file.off> -o <out.webp> [options]")
	defer log.Sync()

	opts := render.DefaultOptions()
	opts.Size = cfg.Render.Size
	opts.Supersample = cfg.Render.Supersample
	if bg, err := parseHexColor(cfg.Render.Background); err != nil {
		log.Fatal("invalid background color", zap.String("value", cfg.Render.Background), zap.Error(err))
	} else {
		opts.Background = bg
	}
	if *size > 0 {
		opts.Size = *size
	}
	if *supersample > 0 {
		opts.Supersample = *supersample
	}

	img := render.Shape(shape, opts)

	if err := os.MkdirAll(filepath.Dir(*output), 0755); err != nil {
		log.Fatal("creating output directory", zap.Error(err))
	}
	f, err := os.Create(*output)
	if err != nil {
		log.Fatal("creating output file", zap.Error(err))
	}
	defer f.Close()

	if err := nativewebp.Encode(f, img, nil); err != nil {
		log.Fatal("WebP encode failed", zap.Error(err))
	}

	log.Info("preview written",
		zap.String("file", *output),
		zap.Int("size", opts.Size),
		zap.Int("bins", shape.Len()))
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

// parseHexColor parses "RRGGBB" or "RRGGBBAA" (optionally "#"-prefixed).
// An empty string means fully transparent.
func parseHexColor(s string) (color.NRGBA, error) {
	s = strings.TrimPrefix(s, "#")
	if s == "" {
		return color.NRGBA{}, nil
	}
	if len(s) != 6 && len(s) != 8 {
		return color.NRGBA{}, fmt.Errorf("hex color must have 6 or 8 digits, got %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("hex color %q: %w", s, err)
	}
	if len(s) == 6 {
		v = v<<8 | 0xff
	}
	return color.NRGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}
