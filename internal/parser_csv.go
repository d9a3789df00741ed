package internal

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// ParseCSV reads rental records from a CSV export (day_hour.csv).
// All columns are loaded as strings; typed conversion happens per row so that
// errors can name the offending row.
func ParseCSV(path string) ([]RentalRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}

	// Columns are resolved on the raw header: gota renames duplicate names
	// (cnt_x -> cnt_x_0, cnt_x_1) but keeps their positions.
	r := csv.NewReader(bytes.NewReader(data))
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}
	idx, err := findColumns(header)
	if err != nil {
		return nil, err
	}
	if _, err := r.Read(); errors.Is(err, io.EOF) {
		return []RentalRecord{}, nil
	}

	df := dataframe.ReadCSV(bytes.NewReader(data),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("reading csv: %w", df.Err)
	}

	names := df.Names()
	dates := df.Col(names[idx.date]).Records()
	counts := df.Col(names[idx.count]).Records()
	weathers := df.Col(names[idx.weather]).Records()
	instants := df.Col(names[idx.instant]).Records()

	records := make([]RentalRecord, 0, df.Nrow())
	for i := 0; i < df.Nrow(); i++ {
		// row numbers count the header as row 1
		rec, err := recordFromFields(i+2, dates[i], counts[i], weathers[i], instants[i])
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, nil
}
