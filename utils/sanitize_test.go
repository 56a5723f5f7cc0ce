package utils

import "testing"

func TestSanitizeStripsMarkup(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"たろう", "たろう"},
		{"<script>alert(1)</script>たろう", "たろう"},
		{"<b>bold</b> name", "bold name"},
		{"  spaced  ", "spaced"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Sanitize(tt.in); got != tt.want {
			t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
