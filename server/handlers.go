package server

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"gonum.org/v1/plot/vg"

	"github.com/sartorproj/sunspots/chart"
	"github.com/sartorproj/sunspots/forecast"
	"github.com/sartorproj/sunspots/timeseries"
)

// Figure sizes. The dashboard matches a 15x12 inch 2x2 grid; forecast
// panels are stacked at 5 inches each.
const (
	dashboardWidth  = 15 * vg.Inch
	dashboardHeight = 12 * vg.Inch
	forecastWidth   = 14 * vg.Inch
	forecastPanel   = 5 * vg.Inch
)

var contentTypes = map[string]string{
	chart.FormatPNG: "image/png",
	chart.FormatSVG: "image/svg+xml",
}

func (s *Server) loadSeries() (*timeseries.Series, error) {
	return s.series.Get(s.cfg.Data.Path)
}

func (s *Server) forecastSeries() (*timeseries.Series, error) {
	if path := s.cfg.Data.ForecastPath; path != "" {
		return s.dated.Get(path)
	}
	return s.loadSeries()
}

// params returns the configured dashboard parameters overridden by the
// request query.
func (s *Server) params(r *http.Request, series *timeseries.Series) (chart.Params, error) {
	p := s.cfg.Dashboard.Params(series)
	q := r.URL.Query()

	ints := []struct {
		key string
		dst *int
	}{
		{"year_from", &p.YearFrom},
		{"year_to", &p.YearTo},
		{"bins", &p.Bins},
		{"trend_degree", &p.TrendDegree},
		{"smooth", &p.Smooth},
	}
	for _, f := range ints {
		v := q.Get(f.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return p, fmt.Errorf("parameter %s: %w", f.key, err)
		}
		*f.dst = n
	}

	floats := []struct {
		key string
		dst *float64
	}{
		{"point_size", &p.PointSize},
		{"point_alpha", &p.PointAlpha},
	}
	for _, f := range floats {
		v := q.Get(f.key)
		if v == "" {
			continue
		}
		x, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return p, fmt.Errorf("parameter %s: %w", f.key, err)
		}
		*f.dst = x
	}

	return p, p.Validate()
}

func paramsQuery(p chart.Params) string {
	q := url.Values{}
	q.Set("year_from", strconv.Itoa(p.YearFrom))
	q.Set("year_to", strconv.Itoa(p.YearTo))
	q.Set("bins", strconv.Itoa(p.Bins))
	q.Set("trend_degree", strconv.Itoa(p.TrendDegree))
	q.Set("point_size", strconv.FormatFloat(p.PointSize, 'g', -1, 64))
	q.Set("point_alpha", strconv.FormatFloat(p.PointAlpha, 'g', -1, 64))
	if p.Smooth > 0 {
		q.Set("smooth", strconv.Itoa(p.Smooth))
	}
	return q.Encode()
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	} else {
		s.logger.WarnContext(r.Context(), "request rejected", "path", r.URL.Path, "status", status, "error", err)
	}
	render.Status(r, status)
	render.JSON(w, r, errorResponse{Error: err.Error()})
}

func (s *Server) reportFailures(r *http.Request, fig *chart.Figure) {
	for _, p := range fig.Failed() {
		s.metrics.PanelFailures.WithLabelValues(p.Kind).Inc()
		s.logger.WarnContext(r.Context(), "panel failed", "panel", p.Kind, "error", p.Err)
	}
}

// dashboard loads the series and composes the figure for the request.
func (s *Server) dashboard(r *http.Request) (*timeseries.Series, chart.Params, *chart.Figure, int, error) {
	series, err := s.loadSeries()
	if err != nil {
		return nil, chart.Params{}, nil, http.StatusInternalServerError, err
	}
	p, err := s.params(r, series)
	if err != nil {
		return series, p, nil, http.StatusBadRequest, err
	}
	fig, err := chart.Dashboard(series, p)
	if errors.Is(err, chart.ErrEmptyRange) {
		return series, p, nil, http.StatusUnprocessableEntity, err
	}
	if err != nil {
		return series, p, nil, http.StatusBadRequest, err
	}
	s.reportFailures(r, fig)
	return series, p, fig, http.StatusOK, nil
}

func (s *Server) runForecast(r *http.Request) (*forecast.Result, int, error) {
	series, err := s.forecastSeries()
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}

	cfg := s.cfg.Forecast
	if v := r.URL.Query().Get("horizon"); v != "" {
		h, err := strconv.Atoi(v)
		if err != nil || h < 0 {
			return nil, http.StatusBadRequest, fmt.Errorf("parameter horizon: invalid value %q", v)
		}
		cfg.Horizon = h
	}

	res, err := forecast.Run(series, cfg)
	if err != nil {
		s.metrics.ForecastFailures.Inc()
		return nil, http.StatusUnprocessableEntity, err
	}
	return res, http.StatusOK, nil
}

func (s *Server) writeFigure(w http.ResponseWriter, r *http.Request, view, format string, fig *chart.Figure, width, height vg.Length) {
	start := time.Now()
	var buf bytes.Buffer
	if err := fig.Render(&buf, format, width, height); err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	s.metrics.RenderDuration.WithLabelValues(view, format).Observe(time.Since(start).Seconds())

	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}

func chartFormat(r *http.Request) (string, bool) {
	format := chi.URLParam(r, "format")
	_, ok := contentTypes[format]
	return format, ok
}

func (s *Server) handleDashboardChart(w http.ResponseWriter, r *http.Request) {
	format, ok := chartFormat(r)
	if !ok {
		s.fail(w, r, http.StatusNotFound, fmt.Errorf("unsupported chart format %q", chi.URLParam(r, "format")))
		return
	}
	_, _, fig, status, err := s.dashboard(r)
	if err != nil {
		s.fail(w, r, status, err)
		return
	}
	s.writeFigure(w, r, "dashboard", format, fig, dashboardWidth, dashboardHeight)
}

func (s *Server) handleForecastChart(w http.ResponseWriter, r *http.Request) {
	format, ok := chartFormat(r)
	if !ok {
		s.fail(w, r, http.StatusNotFound, fmt.Errorf("unsupported chart format %q", chi.URLParam(r, "format")))
		return
	}
	res, status, err := s.runForecast(r)
	if err != nil {
		s.fail(w, r, status, err)
		return
	}
	fig := chart.ForecastFigure(res, r.URL.Query().Get("components") != "false")
	height := forecastPanel * vg.Length(len(fig.Panels))
	s.writeFigure(w, r, "forecast", format, fig, forecastWidth, height)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	series, p, fig, status, err := s.dashboard(r)
	if err != nil {
		s.fail(w, r, status, err)
		return
	}
	filtered := series.Between(p.YearFrom, p.YearTo)
	render.JSON(w, r, newSummaryResponse(s.cfg.Data.Path, series, filtered, p, fig))
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	res, status, err := s.runForecast(r)
	if err != nil {
		s.fail(w, r, status, err)
		return
	}
	render.JSON(w, r, newForecastResponse(res))
}

func (s *Server) handleInvalidate(w http.ResponseWriter, r *http.Request) {
	s.series.Invalidate()
	s.dated.Invalidate()
	s.logger.InfoContext(r.Context(), "cache invalidated")
	render.NoContent(w, r)
}

type indexPage struct {
	Title     string
	Params    chart.Params
	FirstYear int
	LastYear  int
	Error     string
	Empty     bool
	Failed    []chart.Panel
	ImageURL  template.URL
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page := indexPage{Title: chart.DashboardTitle}
	status := http.StatusOK

	series, p, fig, code, err := s.dashboard(r)
	if series != nil {
		page.FirstYear, page.LastYear, _ = series.YearRange()
		page.Params = p
	}
	switch {
	case errors.Is(err, chart.ErrEmptyRange):
		page.Empty = true
	case err != nil:
		status = code
		page.Error = err.Error()
		if code >= http.StatusInternalServerError {
			s.logger.ErrorContext(r.Context(), "dashboard unavailable", "error", err)
		}
	default:
		page.Failed = fig.Failed()
		// The query is built from validated numbers only.
		page.ImageURL = template.URL("/charts/dashboard.png?" + paramsQuery(p))
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.page.Execute(w, page); err != nil {
		s.logger.ErrorContext(r.Context(), "render page", "error", err)
	}
}
