package dataset

import (
	"database/sql"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/stattler/dataloom/internal/utils"

	_ "modernc.org/sqlite"
)

// SaveSQLite persists the table into a SQLite file, one row per table row.
// Numeric columns get REAL affinity, everything else TEXT; missing entries
// become NULL. Any existing table of the same name is replaced.
func SaveSQLite(t *Table, path, tableName, stage string) error {
	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("mkdir snapshot dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}
	defer db.Close()

	cols := t.Names()
	numeric := make(map[string]bool, len(cols))
	for _, c := range t.NumericColumns() {
		numeric[c] = true
	}

	var defs []string
	for _, c := range cols {
		affinity := "TEXT"
		if numeric[c] {
			affinity = "REAL"
		}
		defs = append(defs, fmt.Sprintf("%q %s", c, affinity))
	}
	if _, err := db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %q", tableName)); err != nil {
		return fmt.Errorf("drop table: %w", err)
	}
	if _, err := db.Exec(fmt.Sprintf("CREATE TABLE %q (%s)", tableName, strings.Join(defs, ","))); err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	// Materialize columns once; per-row access through gota is slow.
	floatCols := make(map[string][]float64)
	textCols := make(map[string][]string)
	missCols := make(map[string][]bool)
	for _, c := range cols {
		miss, err := t.Missing(c)
		if err != nil {
			return err
		}
		missCols[c] = miss
		if numeric[c] {
			vals, err := t.Floats(c)
			if err != nil {
				return err
			}
			floatCols[c] = vals
		} else {
			vals, err := t.Strings(c)
			if err != nil {
				return err
			}
			textCols[c] = vals
		}
	}

	ph := strings.TrimRight(strings.Repeat("?,", len(cols)), ",")
	var qCols []string
	for _, c := range cols {
		qCols = append(qCols, fmt.Sprintf("%q", c))
	}
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	stmt, err := tx.Prepare(fmt.Sprintf("INSERT INTO %q (%s) VALUES (%s)", tableName, strings.Join(qCols, ","), ph))
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i := 0; i < t.NumRows(); i++ {
		args := make([]any, 0, len(cols))
		for _, c := range cols {
			if missCols[c][i] {
				args = append(args, nil)
				continue
			}
			if numeric[c] {
				args = append(args, floatCols[c][i])
			} else {
				args = append(args, textCols[c][i])
			}
		}
		if _, err := stmt.Exec(args...); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert row %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return writeManifest(t, path, stage, "sqlite")
}

// LoadSQLite reads back a snapshot written by SaveSQLite.
func LoadSQLite(path, tableName string) (*Table, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	defer db.Close()

	rows, err := db.Query(fmt.Sprintf("SELECT * FROM %q", tableName))
	if err != nil {
		return nil, fmt.Errorf("query snapshot: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}
	records := [][]string{cols}
	for rows.Next() {
		raw := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		rec := make([]string, len(cols))
		for i, v := range raw {
			rec[i] = sqliteString(v)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.NaNValues(missingTokens),
	)
	if df.Error() != nil {
		return nil, fmt.Errorf("load snapshot records: %w", df.Error())
	}
	return &Table{df: df, name: filepath.Base(path) + ":" + tableName}, nil
}

func sqliteString(v any) string {
	switch x := v.(type) {
	case nil:
		return "NaN"
	case float64:
		if math.IsNaN(x) {
			return "NaN"
		}
		return strconv.FormatFloat(x, 'g', -1, 64)
	case int64:
		return strconv.FormatInt(x, 10)
	case []byte:
		return string(x)
	case string:
		return x
	default:
		return fmt.Sprintf("%v", x)
	}
}
