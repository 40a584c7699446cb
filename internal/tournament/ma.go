package tournament

import "errors"

// ErrInsufficientData is returned when a sequence is shorter than the
// requested moving-average period. Symbols in this state are excluded from
// the tournament rather than surfaced to callers.
var ErrInsufficientData = errors.New("insufficient data for moving average")

// MovingAverage computes the simple moving average of the final period
// values of a chronologically ordered sequence. Pure and deterministic;
// the caller is responsible for ordering.
func MovingAverage(values []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(values) < period {
		return 0, ErrInsufficientData
	}

	sum := 0.0
	for _, v := range values[len(values)-period:] {
		sum += v
	}
	return sum / float64(period), nil
}

// DistanceAboveMA computes how far the latest value of a sequence sits
// above its own period-length moving average, in percent.
// Returns (latest, ma, percent, error).
func DistanceAboveMA(values []float64, period int) (latest, ma, percent float64, err error) {
	ma, err = MovingAverage(values, period)
	if err != nil {
		return 0, 0, 0, err
	}

	latest = values[len(values)-1]
	percent = (latest - ma) / ma * 100
	return latest, ma, percent, nil
}
