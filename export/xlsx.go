// Package export writes forecast results to Excel workbooks.
package export

import (
	"fmt"
	"io"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/sartorproj/sunspots/forecast"
)

// Sheet names of the forecast workbook.
const (
	ForecastSheet = "Forecast"
	ResidualSheet = "Residuals"
	SettingsSheet = "Settings"

	defaultSheet = "Sheet1"
	dateLayout   = "2006-01-02"
)

var forecastHeader = []any{"ds", "y", "yhat", "yhat_lower", "yhat_upper", "trend", "sunspot_cycle", "residual"}

// Workbook builds an in-memory workbook with one row per forecast point, the
// residual summary and the model settings.
func Workbook(res *forecast.Result) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(defaultSheet, ForecastSheet); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeForecast(f, res); err != nil {
		f.Close()
		return nil, fmt.Errorf("write %s sheet: %w", ForecastSheet, err)
	}
	if err := writeResiduals(f, res); err != nil {
		f.Close()
		return nil, fmt.Errorf("write %s sheet: %w", ResidualSheet, err)
	}
	if err := writeSettings(f, res.Config); err != nil {
		f.Close()
		return nil, fmt.Errorf("write %s sheet: %w", SettingsSheet, err)
	}
	return f, nil
}

// Write encodes the forecast workbook to w.
func Write(res *forecast.Result, w io.Writer) error {
	f, err := Workbook(res)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteTo(w)
	return err
}

// Save writes the forecast workbook to filename.
func Save(res *forecast.Result, filename string) error {
	f, err := Workbook(res)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(filename)
}

func writeForecast(f *excelize.File, res *forecast.Result) error {
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(ForecastSheet, "A1", &forecastHeader); err != nil {
		return err
	}
	if err := f.SetRowStyle(ForecastSheet, 1, 1, bold); err != nil {
		return err
	}

	for i, p := range res.Points {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			p.Date.Format(dateLayout),
			cellValue(p.Actual),
			p.Predicted,
			p.Lower,
			p.Upper,
			p.Trend,
			p.Seasonal,
			cellValue(p.Residual),
		}
		if err := f.SetSheetRow(ForecastSheet, cell, &row); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(ForecastSheet, "A", "A", 12); err != nil {
		return err
	}
	return f.SetPanes(ForecastSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func writeResiduals(f *excelize.File, res *forecast.Result) error {
	if _, err := f.NewSheet(ResidualSheet); err != nil {
		return err
	}
	s := res.Residuals
	rows := [][]any{
		{"statistic", "residual"},
		{"count", s.Count},
		{"mean", cellValue(s.Mean)},
		{"std", cellValue(s.Std)},
		{"min", cellValue(s.Min)},
		{"25%", cellValue(s.Q25)},
		{"50%", cellValue(s.Median)},
		{"75%", cellValue(s.Q75)},
		{"max", cellValue(s.Max)},
	}
	if lb := res.LjungBox; lb != nil {
		rows = append(rows,
			[]any{"ljung_box_q", lb.Statistic},
			[]any{"ljung_box_lags", lb.Lags},
			[]any{"ljung_box_p", lb.PValue},
		)
	}
	if acf := res.ACF; acf != nil {
		rows = append(rows,
			[]any{"acf_bound", acf.Bound},
			[]any{"acf_significant_lags", fmt.Sprint(acf.Significant())},
		)
	}
	return setRows(f, ResidualSheet, rows)
}

func writeSettings(f *excelize.File, cfg forecast.Config) error {
	if _, err := f.NewSheet(SettingsSheet); err != nil {
		return err
	}
	return setRows(f, SettingsSheet, [][]any{
		{"setting", "value"},
		{"period", cfg.Period},
		{"fourier_order", cfg.FourierOrder},
		{"horizon", cfg.Horizon},
		{"interval_width", cfg.IntervalWidth},
		{"yearly_seasonality", cfg.YearlySeasonality},
	})
}

func setRows(f *excelize.File, sheet string, rows [][]any) error {
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return err
		}
	}
	return nil
}

// cellValue leaves NaN cells empty.
func cellValue(v float64) any {
	if math.IsNaN(v) {
		return nil
	}
	return v
}
