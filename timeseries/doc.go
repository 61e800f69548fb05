// Package timeseries provides annual time series data structures and loaders.
//
// A Series holds one observation per calendar year, dated January 1 (UTC),
// in ascending order. Missing values are NaN.
//
// # Loading
//
// Load a two-column year/value file (header optional, names ignored):
//
//	s, err := timeseries.Load("data/sunspots.csv")
//	var derr *timeseries.DataError
//	if errors.As(err, &derr) {
//	    log.Fatal(derr)
//	}
//
// Duplicate years are rejected. Years are truncated to integers, so a year
// column written as 1700.0 loads as 1700.
//
// Load forecast input in ds,y form, and write it back:
//
//	s, err := timeseries.LoadForecastCSV("data/sunspots_for_prophet.csv")
//	err = timeseries.SaveForecastFile(s, "out.csv")
//
// # Filtering
//
// Restrict to an inclusive year range. The result is a new Series; an empty
// range yields an empty Series rather than an error:
//
//	modern := s.Between(1900, 2000)
//	if modern.Empty() {
//	    // nothing to draw
//	}
//
// # Accessors
//
//	obs := s.At(0)          // Observation{Year, Value, Date}
//	years := s.Years()      // []float64 for plotting/fitting
//	valid := s.Valid()      // non-missing values
//	clean := s.Dropna()     // Series without missing values
package timeseries
