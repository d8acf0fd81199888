// Package hazus loads HAZUS-style depth-damage tables and serves their rows as
// damage curves.
package hazus

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/couchcryptid/flood-elevation-service/internal/domain"
	"github.com/tealeg/xlsx"
)

// Column names recognized in the header row, compared case-insensitively.
const (
	colID          = "dmgfnid"
	colOccupancy   = "occupancy"
	colSource      = "source"
	colDescription = "description"
)

// Entry is one depth-damage function of a table.
type Entry struct {
	ID          string
	Occupancy   string
	Source      string
	Description string
	Depths      []float64
	Damages     []float64
}

// Table indexes depth-damage functions by DmgFnId. It implements
// domain.CurveSource and is safe for concurrent reads.
type Table struct {
	entries map[string]Entry
	ids     []string
}

// Open loads a table from a .csv or .xlsx file. sheet selects the worksheet of a
// workbook; empty means the first one.
func Open(path, sheet string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open damage table: %w", err)
		}
		defer f.Close()
		return LoadCSV(f)
	case ".xlsx":
		return LoadXLSX(path, sheet)
	default:
		return nil, fmt.Errorf("unsupported damage table format %q", filepath.Ext(path))
	}
}

// LoadCSV reads a table whose first record is the header.
func LoadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read damage table csv: %w", err)
	}
	return newTable(records)
}

// LoadXLSX reads a table from a worksheet whose first row is the header.
func LoadXLSX(path, sheet string) (*Table, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open damage table workbook: %w", err)
	}

	var s *xlsx.Sheet
	if sheet == "" {
		if len(f.Sheets) == 0 {
			return nil, errors.New("damage table workbook has no sheets")
		}
		s = f.Sheets[0]
	} else {
		var ok bool
		if s, ok = f.Sheet[sheet]; !ok {
			return nil, fmt.Errorf("damage table workbook has no sheet %q", sheet)
		}
	}

	records := make([][]string, 0, len(s.Rows))
	for _, row := range s.Rows {
		if row == nil {
			continue
		}
		rec := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			if cell != nil {
				rec[j] = cell.Value
			}
		}
		records = append(records, rec)
	}
	return newTable(records)
}

func newTable(records [][]string) (*Table, error) {
	if len(records) == 0 {
		return nil, errors.New("damage table is empty")
	}
	header := records[0]
	cols := map[string]int{}
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	idCol, ok := cols[colID]
	if !ok {
		return nil, errors.New("damage table has no DmgFnId column")
	}

	t := &Table{entries: make(map[string]Entry)}
	for n, row := range records[1:] {
		id := cell(row, idCol)
		if id == "" {
			continue
		}
		if _, dup := t.entries[id]; dup {
			return nil, fmt.Errorf("damage table row %d: duplicate DmgFnId %s", n+2, id)
		}
		depths, damages, err := domain.ParseDamageRow(header, row)
		if err != nil {
			return nil, fmt.Errorf("damage table row %d (%s): %w", n+2, id, err)
		}
		t.entries[id] = Entry{
			ID:          id,
			Occupancy:   lookup(row, cols, colOccupancy),
			Source:      lookup(row, cols, colSource),
			Description: lookup(row, cols, colDescription),
			Depths:      depths,
			Damages:     damages,
		}
		t.ids = append(t.ids, id)
	}
	return t, nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func lookup(row []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok {
		return ""
	}
	return cell(row, i)
}

// Len returns the number of damage functions in the table.
func (t *Table) Len() int { return len(t.ids) }

// IDs returns the DmgFnIds in file order.
func (t *Table) IDs() []string { return append([]string(nil), t.ids...) }

// Entry returns the raw row for id.
func (t *Table) Entry(id string) (Entry, bool) {
	e, ok := t.entries[id]
	return e, ok
}

// DamageCurve builds the curve for id.
func (t *Table) DamageCurve(_ context.Context, id string) (*domain.DamageCurve, error) {
	e, ok := t.entries[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrCurveNotFound, id)
	}
	c, err := domain.NewDamageCurve(e.Depths, e.Damages)
	if err != nil {
		return nil, fmt.Errorf("damage function %s: %w", id, err)
	}
	return c, nil
}
