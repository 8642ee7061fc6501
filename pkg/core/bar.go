package core

import (
	"fmt"
	"strconv"
)

// Bar represents a single OHLCV candlestick sample.
//
// The time key is payload-level: a calendar date (YYYY-MM-DD) for daily and
// weekly data, or a unix timestamp in seconds rendered as a string for
// intraday data. The two forms are never mixed within one payload.
type Bar struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// IsBullish returns true when the bar closed at or above its open
func (b Bar) IsBullish() bool { return b.Close >= b.Open }

// IsIntradayKey reports whether a time key is a unix-seconds timestamp
// rather than a calendar date.
func IsIntradayKey(key string) bool {
	if key == "" {
		return false
	}
	_, err := strconv.ParseInt(key, 10, 64)
	return err == nil
}

// CompareTimeKeys orders two time keys: numerically when both are intraday
// timestamps, lexicographically otherwise. ISO dates sort correctly as
// strings; unix-second strings of different lengths do not, hence the
// numeric branch.
func CompareTimeKeys(a, b string) int {
	if IsIntradayKey(a) && IsIntradayKey(b) {
		ai, _ := strconv.ParseInt(a, 10, 64)
		bi, _ := strconv.ParseInt(b, 10, 64)
		switch {
		case ai < bi:
			return -1
		case ai > bi:
			return 1
		default:
			return 0
		}
	}

	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// ValidateBars checks the caller contract for a bar list: every bar carries
// a time key and coherent OHLC values, and time keys are strictly
// increasing. A violation fails the whole render rather than silently
// corrupting the chart.
func ValidateBars(bars []Bar) error {
	for i, bar := range bars {
		if bar.Date == "" {
			return fmt.Errorf("%w: bar %d has no time key", ErrMalformedPayload, i)
		}

		if bar.Open <= 0 || bar.High <= 0 || bar.Low <= 0 || bar.Close <= 0 {
			return fmt.Errorf("%w: bar %d (%s) has missing or non-positive OHLC fields",
				ErrMalformedPayload, i, bar.Date)
		}

		if bar.High < max(bar.Open, bar.Close) || bar.Low > min(bar.Open, bar.Close) {
			return fmt.Errorf("%w: bar %d (%s) has incoherent OHLC bounds",
				ErrMalformedPayload, i, bar.Date)
		}

		if bar.Volume < 0 {
			return fmt.Errorf("%w: bar %d (%s) has negative volume",
				ErrMalformedPayload, i, bar.Date)
		}

		if i > 0 && CompareTimeKeys(bars[i-1].Date, bar.Date) >= 0 {
			return fmt.Errorf("%w: non-monotonic time key at bar %d (%s)",
				ErrMalformedPayload, i, bar.Date)
		}
	}

	return nil
}
