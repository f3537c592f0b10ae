package fetch

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/nesterchung/stock-decision-maker/internal/prices"
)

// WriteCSV saves a price table in the wide format the engine loads: a date
// column plus one bare-ticker column per series, date-ascending.
func WriteCSV(path string, table *prices.Table, tickers []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create prices csv: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	header := append([]string{"date"}, tickers...)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := 0; i < table.Len(); i++ {
		row := make([]string, 0, len(header))
		row = append(row, table.Date(i).Format(prices.DateLayout))
		for _, ticker := range tickers {
			value := table.Value(ticker, i)
			if math.IsNaN(value) {
				// Empty cell is the wide-CSV convention for a gap.
				row = append(row, "")
				continue
			}
			row = append(row, strconv.FormatFloat(value, 'f', -1, 64))
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush prices csv: %w", err)
	}
	return nil
}
