package longshort

import (
	"strings"
	"testing"
)

func TestParseMoney(t *testing.T) {
	testCases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"10.50", "10.5", false},
		{"10,50", "10.5", false},
		{"1.234,56", "1234.56", false},
		{"R$ 1.234,56", "1234.56", false},
		{"-3", "-3", false},
		{"abc", "", true},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseMoney(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseMoney(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			}
			if err == nil && got.Decimal().String() != tc.want {
				t.Errorf("ParseMoney(%q) = %v, want %v", tc.in, got.Decimal(), tc.want)
			}
		})
	}
}

func TestMoney_String(t *testing.T) {
	if got := M(1234.5).String(); !strings.Contains(got, "1.234,50") {
		t.Errorf("String() = %q, want the local notation 1.234,50", got)
	}
	if got := M(0.004).SignedString(); got != "-" {
		t.Errorf("SignedString() = %q, want %q", got, "-")
	}
	if got := M(10).SignedString(); !strings.HasPrefix(got, "+") {
		t.Errorf("SignedString() = %q, want a + prefix", got)
	}
	if got := MustParseMoney("2.345").Fixed(); got != "2.35" {
		t.Errorf("Fixed() = %q, want %q", got, "2.35")
	}
}

func TestPercent_String(t *testing.T) {
	testCases := []struct {
		in          Percent
		str, signed string
	}{
		{P(8.95), "8.95%", "+8.95%"},
		{P(-3.021), "-3.02%", "-3.02%"},
		{P(0), "0.00%", "-"},
	}
	for _, tc := range testCases {
		if got := tc.in.String(); got != tc.str {
			t.Errorf("String() = %q, want %q", got, tc.str)
		}
		if got := tc.in.SignedString(); got != tc.signed {
			t.Errorf("SignedString() = %q, want %q", got, tc.signed)
		}
	}
}
