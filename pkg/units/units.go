// Package units provides the physical length units attached to geometry data.
package units

import "fmt"

// Unit is a physical unit carried by a labelled array. Index arrays are
// unitless (None); vertex data carries a length unit.
type Unit int

const (
	None Unit = iota // unitless (index arrays, counts)
	Metre
	Millimetre
	Centimetre
	Micrometre
	Angstrom
)

// Parse converts a unit string as found in file metadata to a Unit.
// An empty string means unitless.
func Parse(s string) (Unit, error) {
	switch s {
	case "":
		return None, nil
	case "m":
		return Metre, nil
	case "mm":
		return Millimetre, nil
	case "cm":
		return Centimetre, nil
	case "um", "µm":
		return Micrometre, nil
	case "angstrom", "Å":
		return Angstrom, nil
	default:
		return None, fmt.Errorf("unknown unit %q", s)
	}
}

// String returns the conventional unit symbol.
func (u Unit) String() string {
	switch u {
	case None:
		return ""
	case Metre:
		return "m"
	case Millimetre:
		return "mm"
	case Centimetre:
		return "cm"
	case Micrometre:
		return "um"
	case Angstrom:
		return "angstrom"
	default:
		return fmt.Sprintf("Unknown(%d)", int(u))
	}
}

// Scale returns the factor converting a value in this unit to metres.
// None scales as 1.
func (u Unit) Scale() float64 {
	switch u {
	case Millimetre:
		return 1e-3
	case Centimetre:
		return 1e-2
	case Micrometre:
		return 1e-6
	case Angstrom:
		return 1e-10
	default:
		return 1
	}
}
