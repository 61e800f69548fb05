package forecast

import (
	"errors"
	"fmt"
)

// ErrNotFitted is returned when predicting with a model that has not been fitted.
var ErrNotFitted = errors.New("model must be fitted before prediction")

// ForecastError reports a failure of one stage of the forecast pipeline.
type ForecastError struct {
	Stage string // "configure", "fit" or "predict"
	Err   error
}

func (e *ForecastError) Error() string {
	return fmt.Sprintf("forecast %s: %v", e.Stage, e.Err)
}

func (e *ForecastError) Unwrap() error {
	return e.Err
}
