package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stattler/dataloom/internal/utils"
)

// Manifest describes one persisted table snapshot. It is written next to the
// snapshot so later stages (and humans) can see where a frame came from.
type Manifest struct {
	RunID     string    `json:"run_id"`
	Stage     string    `json:"stage"`
	Source    string    `json:"source"`
	Rows      int       `json:"rows"`
	Cols      int       `json:"cols"`
	Format    string    `json:"format"`
	CreatedAt time.Time `json:"created_at"`
}

// SaveCSV persists the table as a CSV snapshot at path and writes a manifest
// next to it.
func SaveCSV(t *Table, path, stage string) error {
	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("mkdir snapshot dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	if err := t.df.WriteCSV(f); err != nil {
		f.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}
	return writeManifest(t, path, stage, "csv")
}

// LoadCSV reads a snapshot produced by SaveCSV.
func LoadCSV(path string) (*Table, error) {
	return Load(path, LoadOptions{})
}

func writeManifest(t *Table, snapshotPath, stage, format string) error {
	m := Manifest{
		RunID:     uuid.New().String(),
		Stage:     stage,
		Source:    t.name,
		Rows:      t.NumRows(),
		Cols:      t.NumCols(),
		Format:    format,
		CreatedAt: time.Now(),
	}
	b, err := utils.PrettyJSON(m)
	if err != nil {
		return err
	}
	base := strings.TrimSuffix(snapshotPath, filepath.Ext(snapshotPath))
	return utils.SafeWriteFile(base+".manifest.json", b)
}
