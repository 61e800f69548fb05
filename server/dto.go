package server

import (
	"math"

	"github.com/sartorproj/sunspots/chart"
	"github.com/sartorproj/sunspots/forecast"
	"github.com/sartorproj/sunspots/stats"
	"github.com/sartorproj/sunspots/timeseries"
)

// JSON cannot carry NaN, so undefined numbers are encoded as null.
func num(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

type describeResponse struct {
	Count  int      `json:"count"`
	Mean   *float64 `json:"mean"`
	Std    *float64 `json:"std"`
	Min    *float64 `json:"min"`
	Q25    *float64 `json:"q25"`
	Median *float64 `json:"median"`
	Q75    *float64 `json:"q75"`
	Max    *float64 `json:"max"`
}

func newDescribeResponse(s stats.Summary) describeResponse {
	return describeResponse{
		Count:  s.Count,
		Mean:   num(s.Mean),
		Std:    num(s.Std),
		Min:    num(s.Min),
		Q25:    num(s.Q25),
		Median: num(s.Median),
		Q75:    num(s.Q75),
		Max:    num(s.Max),
	}
}

type panelResponse struct {
	Kind  string `json:"kind"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

type boxResponse struct {
	N        int       `json:"n"`
	Min      float64   `json:"min"`
	Q1       float64   `json:"q1"`
	Median   float64   `json:"median"`
	Q3       float64   `json:"q3"`
	Max      float64   `json:"max"`
	Outliers []float64 `json:"outliers"`
}

type trendResponse struct {
	Degree   int     `json:"degree"`
	SlopeEnd float64 `json:"slope_at_end"`
}

type summaryResponse struct {
	Path      string           `json:"path"`
	FirstYear int              `json:"first_year"`
	LastYear  int              `json:"last_year"`
	Params    chart.Params     `json:"params"`
	Count     int              `json:"count"`
	Missing   int              `json:"missing"`
	Values    describeResponse `json:"values"`
	Panels    []panelResponse  `json:"panels"`
	Box       *boxResponse     `json:"box"`
	Trend     *trendResponse   `json:"trend"`
}

func newSummaryResponse(path string, full, filtered *timeseries.Series, p chart.Params, fig *chart.Figure) summaryResponse {
	first, last, _ := full.YearRange()
	resp := summaryResponse{
		Path:      path,
		FirstYear: first,
		LastYear:  last,
		Params:    p,
		Count:     filtered.Len(),
		Missing:   filtered.CountMissing(),
		Values:    newDescribeResponse(stats.Describe(filtered.Values)),
	}

	for _, panel := range fig.Panels {
		pr := panelResponse{Kind: panel.Kind, OK: panel.Err == nil}
		if panel.Err != nil {
			pr.Error = panel.Err.Error()
		}
		resp.Panels = append(resp.Panels, pr)
	}

	if box, err := stats.Box(filtered); err == nil {
		resp.Box = &boxResponse{
			N:        box.N,
			Min:      box.Min,
			Q1:       box.Q1,
			Median:   box.Median,
			Q3:       box.Q3,
			Max:      box.Max,
			Outliers: append([]float64{}, box.Outliers...),
		}
	}
	if fit, err := stats.FitTrend(filtered, p.TrendDegree); err == nil {
		resp.Trend = &trendResponse{
			Degree:   fit.Degree,
			SlopeEnd: fit.Slope(fit.Years[len(fit.Years)-1]),
		}
	}
	return resp
}

type pointResponse struct {
	Date      string   `json:"ds"`
	Actual    *float64 `json:"y"`
	Predicted float64  `json:"yhat"`
	Lower     float64  `json:"yhat_lower"`
	Upper     float64  `json:"yhat_upper"`
	Trend     float64  `json:"trend"`
	Seasonal  float64  `json:"sunspot_cycle"`
	Residual  *float64 `json:"residual"`
}

type forecastResponse struct {
	Config    forecast.Config       `json:"config"`
	History   int                   `json:"history"`
	Points    []pointResponse       `json:"points"`
	Residuals describeResponse      `json:"residuals"`
	LjungBox  *stats.LjungBoxResult `json:"ljung_box"`
	ACF       *acfResponse          `json:"residual_acf"`
}

type acfResponse struct {
	Values      []float64 `json:"values"`
	Bound       float64   `json:"bound"`
	Significant []int     `json:"significant_lags"`
}

func newForecastResponse(res *forecast.Result) forecastResponse {
	resp := forecastResponse{
		Config:    res.Config,
		History:   res.History,
		Points:    make([]pointResponse, len(res.Points)),
		Residuals: newDescribeResponse(res.Residuals),
		LjungBox:  res.LjungBox,
	}
	if res.ACF != nil {
		resp.ACF = &acfResponse{
			Values:      res.ACF.Values,
			Bound:       res.ACF.Bound,
			Significant: res.ACF.Significant(),
		}
	}
	for i, p := range res.Points {
		resp.Points[i] = pointResponse{
			Date:      p.Date.Format("2006-01-02"),
			Actual:    num(p.Actual),
			Predicted: p.Predicted,
			Lower:     p.Lower,
			Upper:     p.Upper,
			Trend:     p.Trend,
			Seasonal:  p.Seasonal,
			Residual:  num(p.Residual),
		}
	}
	return resp
}

type errorResponse struct {
	Error string `json:"error"`
}
