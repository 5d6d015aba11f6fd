package normalize

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Best of 2024", "best-of-2024"},
		{"  Comfort Rewatches  ", "comfort-rewatches"},
		{"Amélie & Friends", "amelie-friends"},
		{"Sci-Fi/Horror", "sci-fi-horror"},
		{"--Already--Slugged--", "already-slugged"},
		{"日本映画", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Slugify(tt.input); got != tt.expected {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestText(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"  Friday night  ", "Friday night"},
		{"Null\x00Byte", "NullByte"},
		{"\x00", ""},
	}

	for _, tt := range tests {
		if got := Text(tt.input); got != tt.expected {
			t.Errorf("Text(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
