package chart

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sartorproj/sunspots/timeseries"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Params are the display parameters of the dashboard.
type Params struct {
	YearFrom    int     `json:"year_from" yaml:"year_from" validate:"ltefield=YearTo"`
	YearTo      int     `json:"year_to" yaml:"year_to"`
	Bins        int     `json:"bins" yaml:"bins" validate:"min=1"`
	TrendDegree int     `json:"trend_degree" yaml:"trend_degree" validate:"min=1"`
	PointSize   float64 `json:"point_size" yaml:"point_size" validate:"gt=0"`   // marker area in pt²
	PointAlpha  float64 `json:"point_alpha" yaml:"point_alpha" validate:"gt=0,lte=1"`
	// Smooth is the window of a moving-average overlay on the line panel; 0 disables it.
	Smooth int `json:"smooth" yaml:"smooth" validate:"min=0"`
}

// DefaultParams returns the default parameters spanning the full year range of series.
func DefaultParams(series *timeseries.Series) Params {
	p := Params{
		Bins:        30,
		TrendDegree: 1,
		PointSize:   20,
		PointAlpha:  0.5,
	}
	if first, last, ok := series.YearRange(); ok {
		p.YearFrom, p.YearTo = first, last
	}
	return p
}

// Validate checks the parameter ranges.
func (p Params) Validate() error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s fails %q (got %v)", fe.Field(), tagWithParam(fe), fe.Value()))
	}
	return fmt.Errorf("invalid chart parameters: %s", strings.Join(msgs, "; "))
}

func tagWithParam(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fe.Tag() + "=" + fe.Param()
}
