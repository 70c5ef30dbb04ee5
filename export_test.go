package loupe

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"hello", "hello"},
		{"after-spawn", "after-spawn"},
		{"frame.01", "frame.01"},
		{"has spaces", "has_spaces"},
		{"path/to/thing", "path_to_thing"},
		{"back\\slash", "back_slash"},
		{"special!@#$%", "special_____"},
		{"", "unlabeled"},
		{"   ", "unlabeled"},
		{"MixedCase123", "MixedCase123"},
	}
	for _, tt := range tests {
		got := sanitizeLabel(tt.in)
		if got != tt.want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestKindFromPath(t *testing.T) {
	tests := []struct {
		path string
		want ContentKind
	}{
		{"a.png", ContentImage},
		{"dir/b.JPG", ContentImage},
		{"noext", ContentImage},
		{"paper.pdf", ContentDocument},
		{"PAPER.PDF", ContentDocument},
		{"scan.djvu", ContentDocument},
	}
	for _, tt := range tests {
		if got := KindFromPath(tt.path); got != tt.want {
			t.Errorf("KindFromPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func fixedNow() time.Time {
	return time.Date(2024, 3, 5, 14, 30, 15, 0, time.UTC)
}

func TestExport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	x := &Exporter{Dir: dir, Now: fixedNow}

	path, err := x.Export(Content{ID: "/photos/my cat!.png"}, strings.NewReader("pixels"))
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	want := filepath.Join(dir, "20240305_143015_my_cat_.png")
	if path != want {
		t.Errorf("path = %q, want %q", path, want)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "pixels" {
		t.Errorf("content = %q, want %q", data, "pixels")
	}
}

func TestExportNoExtension(t *testing.T) {
	x := &Exporter{Dir: t.TempDir(), Now: fixedNow}
	path, err := x.Export(Content{ID: "blob"}, strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}
	if got := filepath.Base(path); got != "20240305_143015_blob" {
		t.Errorf("name = %q", got)
	}
}

func TestExportNoContent(t *testing.T) {
	x := &Exporter{Dir: t.TempDir()}
	if _, err := x.Export(Content{}, strings.NewReader("x")); err == nil {
		t.Error("expected error when nothing is displayed")
	}
}

func TestExportLeavesViewportAlone(t *testing.T) {
	c := newTestController(t)
	c.ZoomIn()
	before := c.Snapshot()
	x := &Exporter{Dir: t.TempDir(), Now: fixedNow}
	if _, err := x.Export(c.Content(), strings.NewReader("x")); err != nil {
		t.Fatal(err)
	}
	if c.Snapshot() != before {
		t.Error("export changed the viewport")
	}
}
