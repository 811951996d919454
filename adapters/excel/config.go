package excel

// ReaderConfig holds options for reading uploads
type ReaderConfig struct {
	// Sheet is the workbook sheet to read; empty selects Sheet1 when present,
	// otherwise the first sheet
	Sheet string `json:"sheet"`
	// Comma is the CSV field delimiter
	Comma rune `json:"comma"`
}

// DefaultReaderConfig returns sensible defaults for upload parsing
func DefaultReaderConfig() ReaderConfig {
	return ReaderConfig{Comma: ','}
}
