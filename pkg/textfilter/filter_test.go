package textfilter

import (
	"testing"
)

func TestLabel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "snake case",
			input:    "blood_pressure",
			expected: "Blood Pressure",
		},
		{
			name:     "kebab case",
			input:    "heart-rate",
			expected: "Heart Rate",
		},
		{
			name:     "camel case",
			input:    "ambulanceEta",
			expected: "Ambulance ETA",
		},
		{
			name:     "abbreviation stays uppercase",
			input:    "cpr_cycles",
			expected: "CPR Cycles",
		},
		{
			name:     "already readable",
			input:    "Pressure",
			expected: "Pressure",
		},
		{
			name:     "mixed separators",
			input:    "scene.background_image",
			expected: "Scene Background Image",
		},
		{
			name:     "empty",
			input:    "",
			expected: "",
		},
		{
			name:     "whitespace only",
			input:    "   ",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Label(tt.input); got != tt.expected {
				t.Errorf("Label(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		max      int
		expected string
	}{
		{
			name:     "short string unchanged",
			input:    "Street Collapse",
			max:      20,
			expected: "Street Collapse",
		},
		{
			name:     "long string cut with ellipsis",
			input:    "Multi Casualty Highway Incident",
			max:      10,
			expected: "Multi Cas…",
		},
		{
			name:     "exact length unchanged",
			input:    "Rescue",
			max:      6,
			expected: "Rescue",
		},
		{
			name:     "trailing space trimmed before ellipsis",
			input:    "Cardiac Arrest",
			max:      9,
			expected: "Cardiac…",
		},
		{
			name:     "max one",
			input:    "Rescue",
			max:      1,
			expected: "…",
		},
		{
			name:     "zero max",
			input:    "Rescue",
			max:      0,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.input, tt.max); got != tt.expected {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.max, got, tt.expected)
			}
		})
	}
}
