package degiro

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/StockwatchDev/stockwatch"
	"github.com/StockwatchDev/stockwatch/date"
)

// header maps column names to field indices for one CSV export.
type header map[string]int

func newHeader(record []string) header {
	h := make(header, len(record))
	for i, name := range record {
		h[strings.TrimSpace(name)] = i
	}
	return h
}

// get returns the trimmed field for a column, or "" when the column or
// field is absent.
func (h header) get(record []string, column string) string {
	i, ok := h[column]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// ParsePortfolioCSV parses one dated position snapshot export. Rows
// without an instrument code (the cash lines) and rows with unparsable
// numbers are skipped with a diagnostic; one bad line never aborts the
// import.
func ParsePortfolioCSV(r io.Reader, on date.Date) (stockwatch.Snapshot, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return stockwatch.Snapshot{}, fmt.Errorf("cannot read snapshot dated %s: %w", on, err)
	}
	if len(records) == 0 {
		return stockwatch.Snapshot{Date: on}, nil
	}
	h := newHeader(records[0])

	snapshot := stockwatch.Snapshot{Date: on}
	for _, record := range records[1:] {
		isin := h.get(record, colISIN)
		if isin == "" {
			// Cash and product lines carry no instrument code.
			continue
		}
		// The local value column reads like "USD 123.45": its first word
		// is the trading currency.
		currency := stockwatch.EUR
		if fields := strings.Fields(h.get(record, colLocalValue)); len(fields) > 0 {
			currency = fields[0]
		}
		quantity, err := parseDecimal(h.get(record, colQuantity))
		if err != nil {
			log.Printf("skipping %s in snapshot %s: bad quantity: %v", isin, on, err)
			continue
		}
		price, err := parseDecimal(h.get(record, colClosing))
		if err != nil {
			log.Printf("skipping %s in snapshot %s: bad closing price: %v", isin, on, err)
			continue
		}
		value, err := parseDecimal(h.get(record, colValueEUR))
		if err != nil {
			log.Printf("skipping %s in snapshot %s: bad EUR value: %v", isin, on, err)
			continue
		}
		snapshot.Rows = append(snapshot.Rows, stockwatch.SnapshotRow{
			ISIN:     isin,
			Name:     h.get(record, colProduct),
			Quantity: quantity,
			Price:    stockwatch.A(price, currency),
			Value:    stockwatch.A(value, stockwatch.EUR),
		})
	}
	return snapshot, nil
}

// LoadPortfolios reads every snapshot file in the directory, oldest
// first, dating each from its file name.
func LoadPortfolios(dir Dir) ([]stockwatch.Snapshot, error) {
	files, err := dir.PortfolioFiles()
	if err != nil {
		return nil, fmt.Errorf("cannot list snapshot files: %w", err)
	}
	var snapshots []stockwatch.Snapshot
	for _, file := range files {
		on, err := FileDate(file)
		if err != nil {
			log.Printf("skipping %s: %v", file, err)
			continue
		}
		f, err := os.Open(file)
		if err != nil {
			return nil, err
		}
		snapshot, err := ParsePortfolioCSV(f, on)
		f.Close()
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snapshot)
	}
	return snapshots, nil
}

// ParseIndexCSV parses a reference index price file with Date and Close
// columns (ISO dates, plain decimal points).
func ParseIndexCSV(r io.Reader) (stockwatch.IndexHistory, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return stockwatch.IndexHistory{}, nil
	}
	h := newHeader(records[0])

	history := make(stockwatch.IndexHistory, len(records)-1)
	for _, record := range records[1:] {
		on, err := date.Parse(h.get(record, "Date"))
		if err != nil {
			log.Printf("skipping index row: %v", err)
			continue
		}
		price, err := parseDecimal(h.get(record, "Close"))
		if err != nil {
			log.Printf("skipping index row dated %s: %v", on, err)
			continue
		}
		history[on] = price
	}
	return history, nil
}

// LoadIndexPrices reads every index file in the directory, keyed by file
// name without extension.
func LoadIndexPrices(dir Dir) (map[string]stockwatch.IndexHistory, error) {
	files, err := dir.IndexFiles()
	if err != nil {
		return nil, fmt.Errorf("cannot list index files: %w", err)
	}
	indices := make(map[string]stockwatch.IndexHistory, len(files))
	for _, file := range files {
		f, err := os.Open(file)
		if err != nil {
			return nil, err
		}
		history, err := ParseIndexCSV(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("cannot parse index file %s: %w", file, err)
		}
		name := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
		indices[name] = history
	}
	return indices, nil
}
