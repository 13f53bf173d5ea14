package pdf

import (
	"strings"
	"testing"
)

func TestKeepAsIllustration(t *testing.T) {
	// A4 portrait in points.
	pageArea := 595.0 * 842.0

	tests := []struct {
		name   string
		width  int
		height int
		keep   bool
	}{
		{"small figure", 120, 80, true},
		{"half page diagram", 500, 400, true},
		{"full page scan", 1240, 1754, false},
		{"oversized scan", 2480, 3508, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := keepAsIllustration(tt.width, tt.height, pageArea); got != tt.keep {
				t.Errorf("keepAsIllustration(%d, %d) = %v, want %v", tt.width, tt.height, got, tt.keep)
			}
		})
	}
}

func TestKeepAsIllustrationBoundary(t *testing.T) {
	// Exactly 80% coverage is already a background scan.
	if keepAsIllustration(40, 20, 1000) {
		t.Error("coverage of exactly 0.8 must be dropped")
	}
	if !keepAsIllustration(39, 20, 1000) {
		t.Error("coverage just below 0.8 must be kept")
	}
}

func TestKeepAsIllustrationDegeneratePage(t *testing.T) {
	if keepAsIllustration(10, 10, 0) {
		t.Error("zero page area must not produce an illustration")
	}
}

func TestDataURL(t *testing.T) {
	url := dataURL("jpeg", []byte{0x01, 0x02})
	if !strings.HasPrefix(url, "data:image/jpeg;base64,") {
		t.Errorf("url = %q", url)
	}
	if !strings.HasPrefix(dataURL("", []byte("x")), "data:image/png;base64,") {
		t.Error("empty file type should default to png")
	}
}
