package utils

import "testing"

func TestTruncateForLog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		limit  int
		expect string
	}{
		{name: "non-positive limit", input: "resume text", limit: 0, expect: ""},
		{name: "fits", input: "resume", limit: 10, expect: "resume"},
		{name: "truncated", input: "resume text", limit: 6, expect: "resume..."},
		{name: "trims surrounding whitespace", input: "  spaced  ", limit: 5, expect: "space..."},
		{name: "flattens lines", input: "{\n  \"fit_score\": 80\n}", limit: 50, expect: `{ "fit_score": 80 }`},
		{name: "counts runes", input: "Jürgen Müller", limit: 6, expect: "Jürgen..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := TruncateForLog(tt.input, tt.limit); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}
