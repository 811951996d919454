package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"goclean/domain/core"
	"goclean/domain/table"

	"github.com/xuri/excelize/v2"
)

// SupportedExtensions lists the upload formats the reader accepts
var SupportedExtensions = []string{".csv", ".xlsx", ".xls"}

// IsSupported reports whether a filename has an accepted extension
func IsSupported(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, s := range SupportedExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

// DataReader reads CSV and Excel uploads into datasets
type DataReader struct {
	config ReaderConfig
}

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader(config ReaderConfig) *DataReader {
	if config.Comma == 0 {
		config.Comma = ','
	}
	return &DataReader{config: config}
}

// ReadFile opens and reads a file from disk
func (r *DataReader) ReadFile(ctx context.Context, path string) (*table.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrUnreadableFile, err)
	}
	defer f.Close()
	return r.Read(ctx, f, filepath.Base(path))
}

// Read parses an upload; the format is chosen by the filename extension
func (r *DataReader) Read(ctx context.Context, src io.Reader, filename string) (*table.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	var rows [][]string
	var err error
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".csv":
		rows, err = r.readCSV(src)
	case ".xlsx", ".xls":
		rows, err = r.readExcel(src)
	default:
		return nil, fmt.Errorf("%w: %q (expected .csv, .xlsx or .xls)", core.ErrUnsupported, ext)
	}
	if err != nil {
		return nil, err
	}
	log.Printf("[DataReader] %s read in %.2fms (%d rows)", filename, float64(time.Since(start).Nanoseconds())/1e6, len(rows))

	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: file must have a header row and at least one data row", core.ErrEmptyDataset)
	}
	return table.FromRows(headers(rows[0]), rows[1:])
}

func (r *DataReader) readCSV(src io.Reader) ([][]string, error) {
	reader := csv.NewReader(src)
	reader.Comma = r.config.Comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrUnreadableFile, err)
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}
	return dropBlankRows(rows), nil
}

func (r *DataReader) readExcel(src io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrUnreadableFile, err)
	}
	defer f.Close()

	sheet := r.config.Sheet
	if sheet == "" {
		sheet = "Sheet1"
		if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
			sheets := f.GetSheetList()
			if len(sheets) == 0 {
				return nil, fmt.Errorf("%w: workbook has no sheets", core.ErrUnreadableFile)
			}
			sheet = sheets[0]
		}
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %v", core.ErrUnreadableFile, sheet, err)
	}
	return dropBlankRows(rows), nil
}

// headers trims names, fills blanks and disambiguates repeats as name.1,
// name.2
func headers(raw []string) []string {
	out := make([]string, len(raw))
	seen := make(map[string]int, len(raw))
	for i, h := range raw {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		base := name
		for seen[name] > 0 {
			name = fmt.Sprintf("%s.%d", base, seen[base])
			seen[base]++
		}
		seen[name]++
		out[i] = name
	}
	return out
}

func dropBlankRows(rows [][]string) [][]string {
	out := rows[:0]
	for _, row := range rows {
		blank := true
		for _, v := range row {
			if strings.TrimSpace(v) != "" {
				blank = false
				break
			}
		}
		if !blank {
			out = append(out, row)
		}
	}
	return out
}
