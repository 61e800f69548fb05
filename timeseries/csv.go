package timeseries

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Column names of the positional sunspot schema.
const (
	YearColumn  = "year"
	ValueColumn = "value"
)

// Year bounds accepted by the loader (4-digit positive years).
const (
	MinYear = 1000
	MaxYear = 9999
)

// missingTokens are cell contents treated as a missing value.
var missingTokens = []string{"", "NA", "NaN", "nan", "null"}

// Load reads a two-column annual series file: year, then activity value.
//
// The file must have exactly two columns. The first row is skipped when its
// first cell is not numeric. Original header names are discarded. Years are
// truncated to integers and must be unique; the result is ordered by date.
// All failures are returned as *DataError.
func Load(path string) (*Series, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &DataError{Path: path, Err: err}
	}
	defer file.Close()

	return load(file, path)
}

// LoadReader reads a two-column annual series from r. See Load.
func LoadReader(r io.Reader) (*Series, error) {
	return load(r, "<reader>")
}

func load(r io.Reader, path string) (*Series, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			return nil, &DataError{Path: path, Line: perr.Line, Err: perr.Err}
		}
		return nil, &DataError{Path: path, Err: err}
	}
	if len(records) == 0 {
		return nil, &DataError{Path: path, Err: ErrNoData}
	}
	if n := len(records[0]); n != 2 {
		return nil, dataErr(path, 1, "expected exactly 2 columns (year, value), got %d", n)
	}

	records[0][0] = strings.TrimPrefix(records[0][0], "\ufeff")

	// A header row has no numeric cell.
	skip := 0
	if !isNumeric(records[0][0]) && !isNumeric(records[0][1]) {
		skip = 1
	}
	rows := records[skip:]
	if len(rows) == 0 {
		return nil, &DataError{Path: path, Err: ErrNoData}
	}

	for _, row := range rows {
		for j := range row {
			row[j] = strings.TrimSpace(row[j])
		}
	}

	df := dataframe.LoadRecords(
		append([][]string{{YearColumn, ValueColumn}}, rows...),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.Float),
		dataframe.NaNValues(missingTokens),
	)
	if df.Err != nil {
		return nil, &DataError{Path: path, Err: df.Err}
	}

	years := df.Col(YearColumn).Float()
	values := df.Col(ValueColumn).Float()

	obs := make([]Observation, 0, len(rows))
	seen := make(map[int]int, len(rows))
	for i := range rows {
		line := i + 1 + skip

		if math.IsNaN(years[i]) || math.IsInf(years[i], 0) {
			return nil, dataErr(path, line, "invalid year %q", rows[i][0])
		}
		year := int(years[i])
		if year < MinYear || year > MaxYear {
			return nil, dataErr(path, line, "year %d is not a 4-digit positive year", year)
		}
		if prev, dup := seen[year]; dup {
			return nil, dataErr(path, line, "duplicate year %d (first seen on line %d)", year, prev)
		}
		seen[year] = line

		if math.IsInf(values[i], 0) || (math.IsNaN(values[i]) && !isMissing(rows[i][1])) {
			return nil, dataErr(path, line, "invalid value %q", rows[i][1])
		}

		obs = append(obs, Observation{
			Year:  year,
			Value: values[i],
			Date:  YearDate(year),
		})
	}

	return FromObservations(obs), nil
}

// LoadForecastCSV reads a forecast input file with ds (date) and y (value) columns.
// Rows with an empty y are kept as missing values.
func LoadForecastCSV(path string) (*Series, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &DataError{Path: path, Err: err}
	}
	defer file.Close()

	return loadForecast(file, path)
}

// LoadForecastReader reads ds,y data from r. See LoadForecastCSV.
func LoadForecastReader(r io.Reader) (*Series, error) {
	return loadForecast(r, "<reader>")
}

func loadForecast(r io.Reader, path string) (*Series, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, &DataError{Path: path, Err: ErrNoData}
	}
	if err != nil {
		return nil, &DataError{Path: path, Err: err}
	}

	dateIdx, valueIdx := -1, -1
	for i, h := range header {
		h = strings.TrimSpace(strings.Trim(strings.TrimPrefix(h, "\ufeff"), "\""))
		switch h {
		case "ds", "date", "Date":
			if dateIdx == -1 {
				dateIdx = i
			}
		case "y", "value", "Value":
			if valueIdx == -1 {
				valueIdx = i
			}
		}
	}
	if dateIdx == -1 || valueIdx == -1 {
		return nil, dataErr(path, 1, "header must contain ds and y columns, got %v", header)
	}

	var obs []Observation
	seen := make(map[time.Time]int)
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, &DataError{Path: path, Line: line, Err: err}
		}

		ts, err := parseDate(strings.TrimSpace(record[dateIdx]))
		if err != nil {
			return nil, &DataError{Path: path, Line: line, Err: err}
		}
		if prev, dup := seen[ts]; dup {
			return nil, dataErr(path, line, "duplicate date %s (first seen on line %d)", ts.Format(time.DateOnly), prev)
		}
		seen[ts] = line

		valStr := strings.TrimSpace(record[valueIdx])
		val := math.NaN()
		if !isMissing(valStr) {
			val, err = strconv.ParseFloat(valStr, 64)
			if err != nil || math.IsInf(val, 0) || math.IsNaN(val) {
				return nil, dataErr(path, line, "invalid value %q", valStr)
			}
		}

		obs = append(obs, Observation{Year: ts.Year(), Value: val, Date: ts})
	}

	if len(obs) == 0 {
		return nil, &DataError{Path: path, Err: ErrNoData}
	}

	return FromObservations(obs), nil
}

// SaveForecastCSV writes the series in ds,y form. Missing values are written as empty cells.
func SaveForecastCSV(series *Series, w io.Writer) error {
	writer := bufio.NewWriter(w)

	if _, err := writer.WriteString("ds,y\n"); err != nil {
		return err
	}
	for i, v := range series.Values {
		writer.WriteString(series.Timestamps[i].Format(time.DateOnly))
		writer.WriteString(",")
		if !math.IsNaN(v) {
			writer.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
		}
		if _, err := writer.WriteString("\n"); err != nil {
			return err
		}
	}

	return writer.Flush()
}

// SaveForecastFile writes the series in ds,y form to filename.
func SaveForecastFile(series *Series, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}

	if err := SaveForecastCSV(series, file); err != nil {
		file.Close()
		return fmt.Errorf("write %s: %w", filename, err)
	}
	return file.Close()
}

var dateFormats = []string{
	time.DateOnly,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"2006",
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateFormats {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

func isNumeric(s string) bool {
	_, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return err == nil
}

func isMissing(s string) bool {
	for _, tok := range missingTokens {
		if s == tok {
			return true
		}
	}
	return false
}
