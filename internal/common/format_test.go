package common

import "testing"

func TestFormatMoney(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{2.46e12, "$2.46T"},
		{6.092e10, "$60.92B"},
		{1.5e6, "$1.50M"},
		{12500, "$12.50K"},
		{111.5, "$111.50"},
		{0, "$0.00"},
		{-3.3e10, "$-33.00B"},
	}
	for _, tc := range cases {
		if got := FormatMoney(tc.in); got != tc.want {
			t.Errorf("FormatMoney(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatPct(t *testing.T) {
	if got := FormatPct(0.035); got != "3.5%" {
		t.Errorf("FormatPct(0.035) = %q, want %q", got, "3.5%")
	}
	if got := FormatPct(-0.02); got != "-2.0%" {
		t.Errorf("FormatPct(-0.02) = %q, want %q", got, "-2.0%")
	}
}

func TestFormatSignedPct(t *testing.T) {
	if got := FormatSignedPct(12.3); got != "+12.3%" {
		t.Errorf("FormatSignedPct(12.3) = %q, want %q", got, "+12.3%")
	}
	if got := FormatSignedPct(-25.0); got != "-25.0%" {
		t.Errorf("FormatSignedPct(-25.0) = %q, want %q", got, "-25.0%")
	}
}
