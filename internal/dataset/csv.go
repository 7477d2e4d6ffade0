// Package dataset turns CSV input into hclust cases. It is the
// data-preparation step in front of the clustering library: it picks the
// variables, parses values and applies the missing-value policy.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/TrevorS/hclust"
)

// Missing-value policies.
const (
	Listwise = "listwise"
	Pairwise = "pairwise"
)

// Options selects columns and the missing-value policy.
type Options struct {
	// Vars names the continuous columns. Empty means every column not named
	// by Cat or Label.
	Vars []string
	// Cat names the categorical columns.
	Cat []string
	// Label names the column used for case labels.
	Label string
	// Missing is Listwise (drop incomplete rows) or Pairwise (keep them).
	// Default: Listwise.
	Missing string
	// Delimiter defaults to ','.
	Delimiter rune
}

// Table is a loaded dataset plus the bookkeeping of the load.
type Table struct {
	Dataset *hclust.Dataset
	// Rows holds, for every case, its 1-based data row in the file.
	Rows []int
	// Dropped counts rows excluded by listwise deletion.
	Dropped int
}

// ErrNoRows is returned when the input holds no usable data rows.
var ErrNoRows = errors.New("dataset: no data rows")

// ReadFile loads path with Read.
func ReadFile(path string, opts Options) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: %w", err)
	}
	defer f.Close()
	return Read(f, opts)
}

// Read parses CSV with a header row. Empty cells, "NA" and "." are
// missing: NaN for continuous columns, a null value for categorical ones.
func Read(r io.Reader, opts Options) (*Table, error) {
	if opts.Missing == "" {
		opts.Missing = Listwise
	}
	if opts.Missing != Listwise && opts.Missing != Pairwise {
		return nil, fmt.Errorf("dataset: unknown missing-value policy %q", opts.Missing)
	}

	cr := csv.NewReader(r)
	if opts.Delimiter != 0 {
		cr.Comma = opts.Delimiter
	}
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("dataset: reading header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	contCols, catCols, labelCol, err := resolveColumns(header, opts)
	if err != nil {
		return nil, err
	}

	var (
		cont   [][]float64
		cat    [][]hclust.Value
		labels []string
		rows   []int
	)
	t := &Table{}
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("dataset: row %d: %w", line, err)
		}

		complete := true
		values := make([]float64, len(contCols))
		for k, col := range contCols {
			v, err := parseNumber(rec[col])
			if err != nil {
				return nil, fmt.Errorf("dataset: row %d column %q: %w", line, header[col], err)
			}
			if math.IsNaN(v) {
				complete = false
			}
			values[k] = v
		}
		cats := make([]hclust.Value, len(catCols))
		for k, col := range catCols {
			s := strings.TrimSpace(rec[col])
			if isMissing(s) {
				cats[k] = hclust.Null()
				complete = false
				continue
			}
			cats[k] = hclust.ParseValue(s)
			if cats[k].IsNull() {
				complete = false
			}
		}

		if !complete && opts.Missing == Listwise {
			t.Dropped++
			continue
		}
		cont = append(cont, values)
		cat = append(cat, cats)
		if labelCol >= 0 {
			labels = append(labels, rec[labelCol])
		}
		rows = append(rows, line)
	}

	if len(rows) == 0 {
		return nil, ErrNoRows
	}
	if len(contCols) == 0 {
		cont = nil
	}
	if len(catCols) == 0 {
		cat = nil
	}

	ds, err := hclust.NewDataset(cont, cat, labels)
	if err != nil {
		return nil, err
	}
	for _, col := range contCols {
		ds.ContinuousNames = append(ds.ContinuousNames, header[col])
	}
	for _, col := range catCols {
		ds.CategoricalNames = append(ds.CategoricalNames, header[col])
	}
	t.Dataset = ds
	t.Rows = rows
	return t, nil
}

func resolveColumns(header []string, opts Options) (cont, cat []int, label int, err error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[h] = i
	}
	lookup := func(name string) (int, error) {
		i, ok := index[name]
		if !ok {
			return 0, fmt.Errorf("dataset: column %q not found", name)
		}
		return i, nil
	}

	label = -1
	if opts.Label != "" {
		if label, err = lookup(opts.Label); err != nil {
			return nil, nil, -1, err
		}
	}
	for _, name := range opts.Cat {
		i, err := lookup(name)
		if err != nil {
			return nil, nil, -1, err
		}
		cat = append(cat, i)
	}
	if len(opts.Vars) > 0 {
		for _, name := range opts.Vars {
			i, err := lookup(name)
			if err != nil {
				return nil, nil, -1, err
			}
			cont = append(cont, i)
		}
	} else {
		for i := range header {
			if i != label && !slices.Contains(cat, i) {
				cont = append(cont, i)
			}
		}
	}
	if len(cont) == 0 && len(cat) == 0 {
		return nil, nil, -1, hclust.ErrNoVariables
	}
	return cont, cat, label, nil
}

func isMissing(s string) bool {
	return s == "" || s == "NA" || s == "."
}

func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if isMissing(s) {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}
