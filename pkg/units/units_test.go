package units

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Unit
		wantErr bool
	}{
		{"m", Metre, false},
		{"mm", Millimetre, false},
		{"cm", Centimetre, false},
		{"um", Micrometre, false},
		{"angstrom", Angstrom, false},
		{"", None, false},
		{"furlong", None, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestStringRoundTrip(t *testing.T) {
	for _, u := range []Unit{None, Metre, Millimetre, Centimetre, Micrometre, Angstrom} {
		got, err := Parse(u.String())
		if err != nil {
			t.Fatalf("Parse(%q): %v", u.String(), err)
		}
		if got != u {
			t.Errorf("round trip %v: got %v", u, got)
		}
	}
}

func TestScale(t *testing.T) {
	tests := []struct {
		unit Unit
		want float64
	}{
		{Metre, 1},
		{Millimetre, 1e-3},
		{Centimetre, 1e-2},
		{Micrometre, 1e-6},
		{Angstrom, 1e-10},
		{None, 1},
	}

	for _, tt := range tests {
		if got := tt.unit.Scale(); got != tt.want {
			t.Errorf("%v.Scale() = %g, want %g", tt.unit, got, tt.want)
		}
	}
}
