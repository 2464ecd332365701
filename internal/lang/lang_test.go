package lang

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input   string
		want    Language
		wantErr bool
	}{
		{"hindi", Hindi, false},
		{"Marathi", Marathi, false},
		{" english ", English, false},
		{"tamil", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := Parse(tt.input)
		if tt.wantErr {
			if !errors.Is(err, ErrUnsupported) {
				t.Errorf("Parse(%q) error = %v, want ErrUnsupported", tt.input, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("Parse(%q) = %q, %v; want %q", tt.input, got, err, tt.want)
		}
	}
}
