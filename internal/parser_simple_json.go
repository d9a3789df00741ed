package internal

import (
	"encoding/json"
	"fmt"
	"os"
)

// SimpleJSONFormat is a minimal JSON format for importing rental records
// Example:
//
//	{
//	  "records": [
//	    {"instant": 1, "dteday": "2011-01-01", "cnt": 16, "weathersit": 1},
//	    {"instant": 2, "dteday": "2011-01-01", "cnt": 40, "weathersit": 1}
//	  ]
//	}
//
// This format is handy for fixtures and for data converted from other tools.
type SimpleJSONFormat struct {
	Records []SimpleJSONRecord `json:"records"`
}

type SimpleJSONRecord struct {
	Instant    int    `json:"instant"`
	Date       string `json:"dteday"` // YYYY-MM-DD format
	Count      int    `json:"cnt"`
	WeatherSit int    `json:"weathersit"`
}

// ParseSimpleJSON parses a JSON file in the simple JSON format
func ParseSimpleJSON(path string) ([]RentalRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	var jsonData SimpleJSONFormat
	if err := json.Unmarshal(data, &jsonData); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	records := make([]RentalRecord, 0, len(jsonData.Records))
	for _, r := range jsonData.Records {
		date, err := ParseDate(r.Date)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", r.Instant, err)
		}
		records = append(records, RentalRecord{
			Instant: r.Instant,
			Date:    date,
			Count:   r.Count,
			Weather: WeatherCode(r.WeatherSit),
		})
	}

	return records, nil
}

func init() {
	RegisterParser("simple-json", ParserFunc(ParseSimpleJSON))
}
