package dataset

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var csvRows = []string{
	"Id,LotFrontage,Neighborhood,PoolQC,OverallQual,GrLivArea,SalePrice",
	"1,65,CollgCr,NA,7,1710,208500",
	"2,80,Veenker,NA,6,1262,181500",
	"3,NA,CollgCr,NA,7,1786,223500",
	"4,60,Crawfor,Gd,7,1717,140000",
	"5,NA,NoRidge,NA,8,2198,250000",
}

func writeFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "houses.csv")
	if err := os.WriteFile(path, []byte(strings.Join(csvRows, "\n")), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func loadFixture(t *testing.T) *Table {
	t.Helper()
	tbl, err := Load(writeFixture(t), LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return tbl
}

func TestLoadDetectsTypesAndMissing(t *testing.T) {
	tbl := loadFixture(t)

	if tbl.NumRows() != 5 || tbl.NumCols() != 7 {
		t.Fatalf("dims = %dx%d, want 5x7", tbl.NumRows(), tbl.NumCols())
	}
	if !tbl.Has("SalePrice") || tbl.Has("Bogus") {
		t.Fatalf("Has misreports columns")
	}

	want := []string{"Id", "LotFrontage", "OverallQual", "GrLivArea", "SalePrice"}
	got := tbl.NumericColumns()
	if len(got) != len(want) {
		t.Fatalf("numeric columns = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("numeric columns = %v, want %v", got, want)
		}
	}

	lot, err := tbl.Floats("LotFrontage")
	if err != nil {
		t.Fatalf("Floats: %v", err)
	}
	if lot[0] != 65 || lot[3] != 60 {
		t.Fatalf("LotFrontage values = %v", lot)
	}
	if !math.IsNaN(lot[2]) || !math.IsNaN(lot[4]) {
		t.Fatalf("NA entries not NaN: %v", lot)
	}

	miss, err := tbl.Missing("PoolQC")
	if err != nil {
		t.Fatalf("Missing: %v", err)
	}
	wantMiss := []bool{true, true, true, false, true}
	for i := range wantMiss {
		if miss[i] != wantMiss[i] {
			t.Fatalf("PoolQC missing mask = %v, want %v", miss, wantMiss)
		}
	}

	hoods, err := tbl.Strings("Neighborhood")
	if err != nil {
		t.Fatalf("Strings: %v", err)
	}
	if hoods[0] != "CollgCr" || hoods[4] != "NoRidge" {
		t.Fatalf("Neighborhood values = %v", hoods)
	}

	if _, err := tbl.Floats("Bogus"); err == nil {
		t.Fatalf("expected error for unknown column")
	}
}

func TestSelectColumnsPreservesOrder(t *testing.T) {
	tbl := loadFixture(t)
	sub, err := tbl.SelectColumns([]string{"SalePrice", "Id"})
	if err != nil {
		t.Fatalf("SelectColumns: %v", err)
	}
	names := sub.Names()
	if len(names) != 2 || names[0] != "SalePrice" || names[1] != "Id" {
		t.Fatalf("names = %v", names)
	}
	if _, err := tbl.SelectColumns([]string{"Nope"}); err == nil {
		t.Fatalf("expected error for missing column")
	}
}

func TestSelectByID(t *testing.T) {
	tbl := loadFixture(t)
	rows, err := tbl.SelectByID("Id", []int{4, 2})
	if err != nil {
		t.Fatalf("SelectByID: %v", err)
	}
	if rows.NumRows() != 2 {
		t.Fatalf("rows = %d, want 2", rows.NumRows())
	}
	area, err := rows.Floats("GrLivArea")
	if err != nil {
		t.Fatalf("Floats: %v", err)
	}
	if area[0] != 1717 || area[1] != 1262 {
		t.Fatalf("GrLivArea = %v, want [1717 1262]", area)
	}

	if _, err := tbl.SelectByID("Id", []int{99}); err == nil {
		t.Fatalf("expected error for absent id")
	}
}

func TestSelectOutlierRowsByID(t *testing.T) {
	rows := []string{
		"Id,OverallQual,GrLivArea,SalePrice",
		"523,9,2100,310000",
		"524,10,4676,184750",
		"525,6,1500,179000",
		"1299,10,5642,160000",
		"1300,7,1600,205000",
	}
	path := filepath.Join(t.TempDir(), "houses.csv")
	if err := os.WriteFile(path, []byte(strings.Join(rows, "\n")), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	tbl, err := Load(path, LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	got, err := tbl.SelectByID("Id", []int{524, 1299})
	if err != nil {
		t.Fatalf("SelectByID: %v", err)
	}
	if got.NumRows() != 2 {
		t.Fatalf("rows = %d, want exactly 2", got.NumRows())
	}
	qual, _ := got.Floats("OverallQual")
	area, _ := got.Floats("GrLivArea")
	for i := range qual {
		if qual[i] != 10 {
			t.Fatalf("OverallQual = %v, want all 10", qual)
		}
		if area[i] <= 4500 {
			t.Fatalf("GrLivArea = %v, want all above 4500", area)
		}
	}
}

func TestCSVSnapshotRoundTrip(t *testing.T) {
	tbl := loadFixture(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "snap", "imputed.csv")
	if err := SaveCSV(tbl, path, "impute"); err != nil {
		t.Fatalf("SaveCSV: %v", err)
	}

	back, err := LoadCSV(path)
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	if back.NumRows() != tbl.NumRows() || back.NumCols() != tbl.NumCols() {
		t.Fatalf("round trip dims = %dx%d", back.NumRows(), back.NumCols())
	}
	lot, err := back.Floats("LotFrontage")
	if err != nil {
		t.Fatalf("Floats: %v", err)
	}
	if lot[0] != 65 || !math.IsNaN(lot[2]) {
		t.Fatalf("round trip LotFrontage = %v", lot)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "snap", "imputed.manifest.json"))
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	var m Manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("parse manifest: %v", err)
	}
	if m.Stage != "impute" || m.Format != "csv" || m.Rows != 5 || m.Cols != 7 {
		t.Fatalf("manifest = %+v", m)
	}
	if m.RunID == "" || m.CreatedAt.IsZero() {
		t.Fatalf("manifest run metadata empty: %+v", m)
	}
}
