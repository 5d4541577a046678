package dataset

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Sentinel strings treated as missing values on ingestion.
var missingTokens = []string{"", "NA", "NaN", "N/A", "null"}

// LoadOptions controls ingestion behavior.
type LoadOptions struct {
	// Delimiter for the file. If 0, ',' is used.
	Delimiter rune
}

// Table is an in-memory tabular dataset: rows keyed by position, columns keyed
// by name, each column typed numeric or string by gota's type detection.
type Table struct {
	df   dataframe.DataFrame
	name string
}

// Load reads a delimited file into a Table. It fails if the file is absent or
// malformed; no schema validation beyond per-column type inference.
func Load(path string, opt LoadOptions) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	delim := opt.Delimiter
	if delim == 0 {
		delim = ','
	}
	df := dataframe.ReadCSV(f,
		dataframe.WithDelimiter(delim),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.NaNValues(missingTokens),
	)
	if df.Error() != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), df.Error())
	}
	return &Table{df: df, name: filepath.Base(path)}, nil
}

// FromDataFrame wraps an existing DataFrame as a named Table.
func FromDataFrame(df dataframe.DataFrame, name string) (*Table, error) {
	if df.Error() != nil {
		return nil, fmt.Errorf("invalid frame %s: %w", name, df.Error())
	}
	return &Table{df: df, name: name}, nil
}

// DataFrame exposes the underlying frame for read-only consumers.
func (t *Table) DataFrame() dataframe.DataFrame { return t.df }

func (t *Table) Name() string    { return t.name }
func (t *Table) NumRows() int    { return t.df.Nrow() }
func (t *Table) NumCols() int    { return t.df.Ncol() }
func (t *Table) Names() []string { return t.df.Names() }

// Has reports whether the table contains the named column.
func (t *Table) Has(col string) bool {
	for _, n := range t.df.Names() {
		if n == col {
			return true
		}
	}
	return false
}

// Column returns the named column series.
func (t *Table) Column(col string) (series.Series, error) {
	if !t.Has(col) {
		return series.Series{}, fmt.Errorf("column %q not found in %s", col, t.name)
	}
	return t.df.Col(col), nil
}

// Floats returns the column as float64 values, NaN for missing entries.
func (t *Table) Floats(col string) ([]float64, error) {
	s, err := t.Column(col)
	if err != nil {
		return nil, err
	}
	return s.Float(), nil
}

// Strings returns the column's raw string records.
func (t *Table) Strings(col string) ([]string, error) {
	s, err := t.Column(col)
	if err != nil {
		return nil, err
	}
	return s.Records(), nil
}

// Missing returns a per-row mask of missing entries for the column.
func (t *Table) Missing(col string) ([]bool, error) {
	s, err := t.Column(col)
	if err != nil {
		return nil, err
	}
	return s.IsNaN(), nil
}

// NumericColumns lists columns whose detected type is Int or Float, in table
// order.
func (t *Table) NumericColumns() []string {
	names := t.df.Names()
	types := t.df.Types()
	out := make([]string, 0, len(names))
	for i, n := range names {
		if types[i] == series.Int || types[i] == series.Float {
			out = append(out, n)
		}
	}
	return out
}

// SelectColumns narrows the table to the named columns, preserving order.
func (t *Table) SelectColumns(cols []string) (*Table, error) {
	for _, c := range cols {
		if !t.Has(c) {
			return nil, fmt.Errorf("column %q not found in %s", c, t.name)
		}
	}
	sub := t.df.Select(cols)
	if sub.Error() != nil {
		return nil, fmt.Errorf("select columns: %w", sub.Error())
	}
	return &Table{df: sub, name: t.name}, nil
}

// Subset keeps only the given row positions, in the given order.
func (t *Table) Subset(rows []int) (*Table, error) {
	sub := t.df.Subset(rows)
	if sub.Error() != nil {
		return nil, fmt.Errorf("subset rows: %w", sub.Error())
	}
	return &Table{df: sub, name: t.name}, nil
}

// SelectByID returns the rows whose id column exactly matches one of ids,
// ordered as the ids argument.
func (t *Table) SelectByID(idCol string, ids []int) (*Table, error) {
	vals, err := t.Floats(idCol)
	if err != nil {
		return nil, err
	}
	var rows []int
	for _, id := range ids {
		found := -1
		for i, v := range vals {
			if v == float64(id) {
				found = i
				break
			}
		}
		if found < 0 {
			return nil, fmt.Errorf("id %d not found in column %q", id, idCol)
		}
		rows = append(rows, found)
	}
	return t.Subset(rows)
}

// WithColumn returns a table with the series added, replacing any column of
// the same name.
func (t *Table) WithColumn(s series.Series) (*Table, error) {
	mut := t.df.Mutate(s)
	if mut.Error() != nil {
		return nil, fmt.Errorf("mutate column %q: %w", s.Name, mut.Error())
	}
	return &Table{df: mut, name: t.name}, nil
}
