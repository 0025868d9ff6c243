package market

import "fmt"

const rsiPeriod = 14

// PatternReport is the technical analysis summary for one candle series
type PatternReport struct {
	Code        string  `json:"code"`
	MA5         float64 `json:"ma5"`
	MA20        float64 `json:"ma20"`
	MA60        float64 `json:"ma60,omitempty"`
	Cross       string  `json:"cross"`
	VolumeTrend string  `json:"volume_trend"`
	RSI         float64 `json:"rsi"`
	Signal      string  `json:"signal"`
}

// AnalyzePattern computes moving averages, cross state, volume trend,
// and 14-period RSI over a daily candle series ordered oldest first.
// It needs at least 20 candles to say anything useful.
func AnalyzePattern(code string, candles []Candle) (*PatternReport, error) {
	if len(candles) < 20 {
		return nil, fmt.Errorf("need at least 20 candles, got %d", len(candles))
	}

	report := &PatternReport{
		Code: code,
		MA5:  movingAverage(candles, 5),
		MA20: movingAverage(candles, 20),
	}
	if len(candles) >= 60 {
		report.MA60 = movingAverage(candles, 60)
	}

	report.Cross = crossState(candles)
	report.VolumeTrend = volumeTrend(candles)
	report.RSI = rsi(candles, rsiPeriod)
	report.Signal = signal(report)

	return report, nil
}

// movingAverage is the simple average of the last n closes
func movingAverage(candles []Candle, n int) float64 {
	if len(candles) < n || n <= 0 {
		return 0
	}
	var sum float64
	for _, c := range candles[len(candles)-n:] {
		sum += c.Close
	}
	return sum / float64(n)
}

// crossState reports whether MA5 crossed MA20 on the latest bar
func crossState(candles []Candle) string {
	if len(candles) < 21 {
		return "none"
	}

	prev := candles[:len(candles)-1]
	ma5Now, ma20Now := movingAverage(candles, 5), movingAverage(candles, 20)
	ma5Prev, ma20Prev := movingAverage(prev, 5), movingAverage(prev, 20)

	switch {
	case ma5Prev <= ma20Prev && ma5Now > ma20Now:
		return "golden"
	case ma5Prev >= ma20Prev && ma5Now < ma20Now:
		return "dead"
	default:
		return "none"
	}
}

// volumeTrend compares the last 5 days of volume against the prior 5
func volumeTrend(candles []Candle) string {
	if len(candles) < 10 {
		return "flat"
	}

	recent := candles[len(candles)-5:]
	prior := candles[len(candles)-10 : len(candles)-5]

	var recentSum, priorSum int64
	for _, c := range recent {
		recentSum += c.Volume
	}
	for _, c := range prior {
		priorSum += c.Volume
	}

	switch {
	case priorSum == 0:
		return "flat"
	case float64(recentSum) > float64(priorSum)*1.2:
		return "rising"
	case float64(recentSum) < float64(priorSum)*0.8:
		return "falling"
	default:
		return "flat"
	}
}

// rsi computes the Wilder RSI over the last period bars
func rsi(candles []Candle, period int) float64 {
	if len(candles) <= period {
		return 50
	}

	var gains, losses float64
	tail := candles[len(candles)-period-1:]
	for i := 1; i < len(tail); i++ {
		delta := tail[i].Close - tail[i-1].Close
		if delta > 0 {
			gains += delta
		} else {
			losses -= delta
		}
	}

	if losses == 0 {
		if gains == 0 {
			return 50
		}
		return 100
	}

	rs := (gains / float64(period)) / (losses / float64(period))
	return 100 - 100/(1+rs)
}

func signal(report *PatternReport) string {
	switch {
	case report.Cross == "golden" && report.RSI < 70:
		return "bullish"
	case report.Cross == "dead" && report.RSI > 30:
		return "bearish"
	case report.RSI >= 70:
		return "overbought"
	case report.RSI <= 30:
		return "oversold"
	default:
		return "neutral"
	}
}
