package dataset

import (
	"math"
	"path/filepath"
	"testing"
)

func TestSQLiteSnapshotRoundTrip(t *testing.T) {
	tbl := loadFixture(t)
	path := filepath.Join(t.TempDir(), "imputed.sqlite")
	if err := SaveSQLite(tbl, path, "snapshot", "impute"); err != nil {
		t.Fatalf("SaveSQLite: %v", err)
	}

	back, err := LoadSQLite(path, "snapshot")
	if err != nil {
		t.Fatalf("LoadSQLite: %v", err)
	}
	if back.NumRows() != tbl.NumRows() || back.NumCols() != tbl.NumCols() {
		t.Fatalf("round trip dims = %dx%d", back.NumRows(), back.NumCols())
	}

	price, err := back.Floats("SalePrice")
	if err != nil {
		t.Fatalf("Floats: %v", err)
	}
	if price[0] != 208500 || price[4] != 250000 {
		t.Fatalf("SalePrice = %v", price)
	}

	// NULLs come back as missing.
	lot, err := back.Floats("LotFrontage")
	if err != nil {
		t.Fatalf("Floats: %v", err)
	}
	if !math.IsNaN(lot[2]) || !math.IsNaN(lot[4]) || lot[1] != 80 {
		t.Fatalf("LotFrontage = %v", lot)
	}
	miss, err := back.Missing("PoolQC")
	if err != nil {
		t.Fatalf("Missing: %v", err)
	}
	if !miss[0] || miss[3] {
		t.Fatalf("PoolQC missing mask = %v", miss)
	}
	hood, err := back.Strings("Neighborhood")
	if err != nil {
		t.Fatalf("Strings: %v", err)
	}
	if hood[1] != "Veenker" {
		t.Fatalf("Neighborhood = %v", hood)
	}

	if _, err := LoadSQLite(path, "nope"); err == nil {
		t.Fatalf("expected error for missing table")
	}
}
