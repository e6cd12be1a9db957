// Package ingest reads stream rows out of spreadsheet exports.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mmynk/vesting/internal/models"
)

// Column names expected in the header row. Matching ignores case and
// surrounding whitespace.
const (
	ColumnWalletAddress = "wallet_address"
	ColumnAmount        = "amount"
	ColumnDuration      = "duration"
	ColumnCliff         = "cliff"
)

var (
	ErrNoHeader        = errors.New("csv has no header row")
	ErrMissingColumn   = errors.New("csv header is missing a required column")
	ErrDuplicateColumn = errors.New("csv header repeats a column")
)

// ReadCSV parses a CSV export into raw rows. The first record is the header;
// the cliff column is optional. Each row carries the line it started on so
// rejections can point back at the sheet. Cells are trimmed but otherwise
// left unchecked.
func ReadCSV(r io.Reader) ([]models.RawRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	columns, err := mapHeader(header)
	if err != nil {
		return nil, err
	}

	var rows []models.RawRow
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}
		if blank(record) {
			continue
		}

		line, _ := reader.FieldPos(0)
		rows = append(rows, models.RawRow{
			Line:          line,
			WalletAddress: cell(record, columns, ColumnWalletAddress),
			Amount:        cell(record, columns, ColumnAmount),
			Duration:      cell(record, columns, ColumnDuration),
			Cliff:         cell(record, columns, ColumnCliff),
		})
	}
	return rows, nil
}

func mapHeader(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if name == "" {
			continue
		}
		if _, ok := columns[name]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, name)
		}
		columns[name] = i
	}
	for _, required := range []string{ColumnWalletAddress, ColumnAmount, ColumnDuration} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, required)
		}
	}
	return columns, nil
}

// cell returns "" for short records so the validator reports the missing field.
func cell(record []string, columns map[string]int, name string) string {
	i, ok := columns[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
