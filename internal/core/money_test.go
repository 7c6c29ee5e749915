package core

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1", true},
		{"150.00", "150", true},
		{"12,50", "12.5", true},
		{"$2.50", "2.5", true},
		{" 2.50 ", "2.5", true},
		{"0", "", false},
		{"-1", "", false},
		{"abc", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got.String() != tc.out {
				t.Fatalf("%q: expected %s, got %s (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q: expected error", tc.in)
		}
	}
}

func TestParseNonNegativeAllowsZero(t *testing.T) {
	got, err := ParseNonNegative("0")
	if err != nil || !got.IsZero() {
		t.Fatalf("expected zero, got %s err=%v", got, err)
	}
	if _, err := ParseNonNegative("-0.01"); err == nil {
		t.Fatal("expected error for negative value")
	}
}

func TestFormatUSD(t *testing.T) {
	d, _ := ParseAmount("199.999")
	if got := FormatUSD(d); got != "$200.00" {
		t.Fatalf("expected $200.00, got %s", got)
	}
}
