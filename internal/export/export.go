// Package export writes rendered figures to disk.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/KaramelBytes/crimeflow/internal/chart"
	"github.com/KaramelBytes/crimeflow/internal/dashboard"
)

// Manifest describes one export run; it is written next to the figures.
type Manifest struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Format    string    `json:"format"`
	Filters   Filters   `json:"filters"`
	Files     []string  `json:"files"`
}

// Filters records the filter values a view was rendered with.
type Filters struct {
	Year     int    `json:"year"`
	Offenses string `json:"offenses"`
	Streets  string `json:"streets"`
	MinCount int    `json:"min_count"`
}

// SafeWriteFile writes data to a temp file and atomically renames it into place.
func SafeWriteFile(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("atomic rename: %w", err)
	}
	return nil
}

// WriteFigure renders fig for t and writes it to path.
func WriteFigure(path string, fig chart.Figure, t chart.Target) error {
	var buf bytes.Buffer
	if err := chart.Render(&buf, fig, t); err != nil {
		return err
	}
	return SafeWriteFile(path, buf.Bytes())
}

// WriteView writes every figure of v into dir as <name><ext> plus a
// manifest.json, creating dir if needed. It returns the manifest.
func WriteView(dir string, v *dashboard.View, f dashboard.Filters, t chart.Target) (*Manifest, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir export dir: %w", err)
	}
	m := &Manifest{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Format:    string(t.Format),
		Filters: Filters{
			Year:     f.Year,
			Offenses: f.Offenses.String(),
			Streets:  f.Streets.String(),
			MinCount: f.MinCount,
		},
	}
	for _, nf := range v.Figures() {
		name := nf.Name + t.Ext()
		ft := t
		if ft.Title == "" {
			ft.Title = nf.Name
		}
		if err := WriteFigure(filepath.Join(dir, name), nf.Figure, ft); err != nil {
			return nil, fmt.Errorf("write %s: %w", name, err)
		}
		m.Files = append(m.Files, name)
	}
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}
	if err := SafeWriteFile(filepath.Join(dir, "manifest.json"), b); err != nil {
		return nil, err
	}
	return m, nil
}
