package core

// OverlayPoint is a single data point of an overlay line plotted on the
// price pane. Value is nil where the indicator is undefined, e.g. inside a
// moving average warm-up window.
type OverlayPoint struct {
	Date  string   `json:"date"`
	Value *float64 `json:"value"`
}

// OscillatorPoint carries the three component values of the oscillator at
// one time key. Any of the components may be nil during warm-up.
type OscillatorPoint struct {
	Date      string   `json:"date"`
	MACD      *float64 `json:"macd"`
	Signal    *float64 `json:"signal"`
	Histogram *float64 `json:"histogram"`
}

// PredictionPoint is a forecast price point with a time key strictly after
// the last observed bar.
type PredictionPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// Overlays bundles the raw indicator series shipped with an analysis
// payload. All series are optional and may be empty.
type Overlays struct {
	SMAShort            []OverlayPoint    `json:"sma_50"`
	SMALong             []OverlayPoint    `json:"sma_200"`
	SAR                 []OverlayPoint    `json:"sar"`
	MACD                []OscillatorPoint `json:"macd"`
	Prediction          []PredictionPoint `json:"prediction"`
	PredictionDirection string            `json:"prediction_direction"`
	PredictionTarget    *float64          `json:"prediction_target"`
}

// IndicatorSignals summarizes the computed technical signals. The values
// arrive precomputed from the analysis API; this system only displays them.
type IndicatorSignals struct {
	Trend           string  `json:"trend"`
	TrendDetail     string  `json:"trend_detail"`
	SARSignal       string  `json:"sar_signal"`
	SARDetail       string  `json:"sar_detail"`
	MACDSignal      string  `json:"macd_signal"`
	MACDDetail      string  `json:"macd_detail"`
	OBVSignal       string  `json:"obv_signal"`
	OBVDetail       string  `json:"obv_detail"`
	CompositeSignal string  `json:"composite_signal"`
	Confidence      float64 `json:"confidence"`
}

// Sentiment is the optional news sentiment summary of a payload.
type Sentiment struct {
	Score         float64  `json:"score"`
	Label         string   `json:"label"`
	HeadlineCount int      `json:"headline_count"`
	TopHeadlines  []string `json:"top_headlines"`
}

// Analysis is the full response payload for one symbol fetch.
type Analysis struct {
	Ticker         string           `json:"ticker"`
	CompanyName    string           `json:"company_name"`
	CurrentPrice   float64          `json:"current_price"`
	PriceChange    float64          `json:"price_change"`
	PriceChangePct float64          `json:"price_change_pct"`
	Bars           []Bar            `json:"ohlcv"`
	Indicators     IndicatorSignals `json:"indicators"`
	Overlays       *Overlays        `json:"overlays,omitempty"`
	Sentiment      *Sentiment       `json:"sentiment,omitempty"`
	AnalyzedAt     string           `json:"analyzed_at"`
}

// LastBar returns the most recent bar of the payload, if any.
func (a *Analysis) LastBar() (Bar, bool) {
	if len(a.Bars) == 0 {
		return Bar{}, false
	}
	return a.Bars[len(a.Bars)-1], true
}

// Intraday reports whether the payload uses intraday timestamps as time
// keys. The decision is payload-level, taken from the first bar.
func (a *Analysis) Intraday() bool {
	return len(a.Bars) > 0 && IsIntradayKey(a.Bars[0].Date)
}

// Closes returns the close column as an ordered series.
func (a *Analysis) Closes() Series[float64] {
	closes := make(Series[float64], len(a.Bars))
	for i, bar := range a.Bars {
		closes[i] = bar.Close
	}
	return closes
}
