package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestOverlayAtPlacesContent(t *testing.T) {
	base := strings.Join([]string{"..........", "..........", ".........."}, "\n")
	got := overlayAt(base, "ab\ncd", 3, 1, 10, 3)
	lines := strings.Split(got, "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want 3", len(lines))
	}
	if lines[0] != ".........." {
		t.Fatalf("row 0 = %q, want untouched", lines[0])
	}
	if lines[1] != "...ab....." {
		t.Fatalf("row 1 = %q", lines[1])
	}
	if lines[2] != "...cd....." {
		t.Fatalf("row 2 = %q", lines[2])
	}
}

func TestOverlayCenterKeepsWidth(t *testing.T) {
	base := strings.Repeat(strings.Repeat(" ", 20)+"\n", 9) + strings.Repeat(" ", 20)
	got := overlayCenter(base, "XXXX", 20, 10)
	for i, line := range strings.Split(got, "\n") {
		if w := ansi.StringWidth(line); w != 20 {
			t.Fatalf("line %d width = %d, want 20", i, w)
		}
	}
	if !strings.Contains(got, "        XXXX        ") {
		t.Fatalf("overlay not centered:\n%s", got)
	}
}

func TestOverlayAtStyledAndShortRows(t *testing.T) {
	base := "\x1b[31mredredred\x1b[0m\nab"
	got := strings.Split(overlayAt(base, "X\nYZ", 3, 0, 15, 2), "\n")
	if plain := ansi.Strip(got[0]); plain != "redX dred      " {
		t.Fatalf("styled row = %q", plain)
	}
	if plain := ansi.Strip(got[1]); plain != "ab YZ          " {
		t.Fatalf("short row = %q", plain)
	}

	edge := overlayAt("0123456789", "WXYZ", 8, 0, 10, 1)
	if plain := ansi.Strip(edge); plain != "01234567WXYZ" {
		t.Fatalf("box past the right edge = %q", plain)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("Umbrella Health", 8); ansi.StringWidth(got) != 8 || !strings.HasSuffix(got, "…") {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("Hooli", 8); got != "Hooli" {
		t.Fatalf("truncate short = %q", got)
	}
}
