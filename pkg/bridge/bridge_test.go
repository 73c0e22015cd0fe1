package bridge

import "testing"

func TestSplitCommand(t *testing.T) {
	cases := []struct {
		in        string
		field     string
		value     string
		wantOK    bool
	}{
		{"heating-setpoint:21", "heating-setpoint", "21", true},
		{"away-mode:true", "away-mode", "true", true},
		{"no-colon-here", "", "", false},
		{"", "", "", false},
		{"field:value:with:colons", "field", "value:with:colons", true},
	}

	for _, tc := range cases {
		field, value, ok := splitCommand(tc.in)
		if ok != tc.wantOK || field != tc.field || value != tc.value {
			t.Errorf("splitCommand(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tc.in, field, value, ok, tc.field, tc.value, tc.wantOK)
		}
	}
}
