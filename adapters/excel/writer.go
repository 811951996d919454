package excel

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"goclean/domain/table"

	"github.com/xuri/excelize/v2"
)

// FlagColumn is the name of the optional per-row flag column in exports
const FlagColumn = "_flagged"

// WriteOptions controls table exports
type WriteOptions struct {
	// Flagged holds original row indices; when non-nil a FlagColumn is added
	Flagged map[int]bool
	// Sheet names the worksheet of Excel exports
	Sheet string
}

func header(ds *table.Dataset, opts WriteOptions) []string {
	names := ds.ColumnNames()
	if opts.Flagged != nil {
		names = append(names, FlagColumn)
	}
	return names
}

// WriteCSV writes the dataset as CSV with a header row. Nulls are empty
// fields and numbers use their shortest exact form.
func WriteCSV(w io.Writer, ds *table.Dataset, opts WriteOptions) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header(ds, opts)); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	record := make([]string, len(header(ds, opts)))
	for i := 0; i < ds.NumRows(); i++ {
		for j, cell := range ds.Row(i) {
			record[j] = cell.Text()
		}
		if opts.Flagged != nil {
			record[len(record)-1] = fmt.Sprint(opts.Flagged[ds.RowID(i)])
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// CanonicalCSV is the byte form fingerprints are computed over
func CanonicalCSV(ds *table.Dataset) []byte {
	var buf bytes.Buffer
	_ = WriteCSV(&buf, ds, WriteOptions{})
	return buf.Bytes()
}

// WriteExcel writes the dataset as an xlsx workbook. Numeric cells are
// stored as numbers.
func WriteExcel(w io.Writer, ds *table.Dataset, opts WriteOptions) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := opts.Sheet
	if sheet == "" {
		sheet = "Sheet1"
	}
	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			return fmt.Errorf("failed to name sheet: %w", err)
		}
	}

	names := header(ds, opts)
	head := make([]interface{}, len(names))
	for i, n := range names {
		head[i] = n
	}
	if err := f.SetSheetRow(sheet, "A1", &head); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i := 0; i < ds.NumRows(); i++ {
		row := make([]interface{}, len(names))
		for j, cell := range ds.Row(i) {
			switch cell.Kind() {
			case table.KindNumber:
				v, _ := cell.Float()
				row[j] = v
			case table.KindString:
				row[j] = cell.Text()
			}
		}
		if opts.Flagged != nil {
			row[len(row)-1] = opts.Flagged[ds.RowID(i)]
		}
		ref, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, ref, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
