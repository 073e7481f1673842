package record

import "testing"

func TestResultPassed(t *testing.T) {
	cases := []struct {
		in     Result
		passed bool
		valid  bool
		str    string
	}{
		{Pass, true, true, "pass"},
		{Fail, false, true, "fail"},
		{0, false, false, "unknown(0)"},
		{3, false, false, "unknown(3)"},
	}
	for _, c := range cases {
		if got := c.in.Passed(); got != c.passed {
			t.Fatalf("Result(%d).Passed() = %v, want %v", uint32(c.in), got, c.passed)
		}
		if got := c.in.Valid(); got != c.valid {
			t.Fatalf("Result(%d).Valid() = %v, want %v", uint32(c.in), got, c.valid)
		}
		if got := c.in.String(); got != c.str {
			t.Fatalf("Result(%d).String() = %q, want %q", uint32(c.in), got, c.str)
		}
	}
}
