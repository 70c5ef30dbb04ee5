package loupe

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Exporter saves the displayed asset to a local directory. It works from the
// content identity alone and never reads or alters viewport state.
type Exporter struct {
	// Dir is the output directory, created on demand. Defaults to "downloads".
	Dir string
	// Now stamps filenames; defaults to time.Now.
	Now func() time.Time
}

// Export copies r into Dir under a sanitized, timestamped name derived from
// content's ID and returns the written path.
func (x *Exporter) Export(content Content, r io.Reader) (string, error) {
	if content.ID == "" {
		return "", errors.New("export: no content displayed")
	}
	dir := x.Dir
	if dir == "" {
		dir = "downloads"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("export: mkdir %s: %w", dir, err)
	}

	now := time.Now
	if x.Now != nil {
		now = x.Now
	}
	base := filepath.Base(content.ID)
	ext := filepath.Ext(base)
	name := now().Format("20060102_150405") + "_" + sanitizeLabel(strings.TrimSuffix(base, ext))
	if ext != "" {
		name += sanitizeLabel(ext)
	}
	path := filepath.Join(dir, name)

	if err := writeFile(path, r); err != nil {
		return "", fmt.Errorf("export: %w", err)
	}
	Logger().Info("loupe: exported", slog.String("id", content.ID), slog.String("path", path))
	return path, nil
}

func writeFile(path string, r io.Reader) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// sanitizeLabel replaces characters that are unsafe in file names with
// underscores and falls back to "unlabeled" for empty strings.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// KindFromPath guesses the content kind from a file extension. Page
// documents get their own viewer; everything else is treated as an image.
func KindFromPath(path string) ContentKind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf", ".ps", ".eps", ".xps", ".djvu":
		return ContentDocument
	}
	return ContentImage
}
