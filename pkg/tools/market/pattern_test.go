package market

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flatCandles builds n bars at a constant close and volume
func flatCandles(n int, close float64, volume int64) []Candle {
	candles := make([]Candle, n)
	for i := range candles {
		candles[i] = Candle{
			Date:   fmt.Sprintf("2026-01-%02d", i+1),
			Open:   close,
			High:   close,
			Low:    close,
			Close:  close,
			Volume: volume,
		}
	}
	return candles
}

func TestAnalyzePatternNeedsHistory(t *testing.T) {
	_, err := AnalyzePattern("005930", flatCandles(19, 100, 1000))
	assert.Error(t, err)

	report, err := AnalyzePattern("005930", flatCandles(20, 100, 1000))
	require.NoError(t, err)
	assert.Equal(t, "005930", report.Code)
}

func TestMovingAverage(t *testing.T) {
	candles := flatCandles(10, 100, 1000)
	candles[9].Close = 110

	assert.InDelta(t, 102.0, movingAverage(candles, 5), 0.001)
	assert.InDelta(t, 101.0, movingAverage(candles, 10), 0.001)
	assert.Zero(t, movingAverage(candles, 11), "window larger than series")
}

func TestGoldenCross(t *testing.T) {
	// Flat run, then a single sharp rise pushes MA5 over MA20
	candles := flatCandles(30, 100, 1000)
	candles[29].Close = 300

	report, err := AnalyzePattern("005930", candles)
	require.NoError(t, err)
	assert.Equal(t, "golden", report.Cross)
	assert.Greater(t, report.MA5, report.MA20)
}

func TestDeadCross(t *testing.T) {
	candles := flatCandles(30, 100, 1000)
	candles[29].Close = 20

	report, err := AnalyzePattern("005930", candles)
	require.NoError(t, err)
	assert.Equal(t, "dead", report.Cross)
}

func TestVolumeTrend(t *testing.T) {
	rising := flatCandles(20, 100, 1000)
	for i := 15; i < 20; i++ {
		rising[i].Volume = 2000
	}
	falling := flatCandles(20, 100, 1000)
	for i := 15; i < 20; i++ {
		falling[i].Volume = 500
	}

	assert.Equal(t, "rising", volumeTrend(rising))
	assert.Equal(t, "falling", volumeTrend(falling))
	assert.Equal(t, "flat", volumeTrend(flatCandles(20, 100, 1000)))
}

func TestRSI(t *testing.T) {
	// All gains over the window pins RSI at 100
	up := flatCandles(20, 100, 1000)
	for i := range up {
		up[i].Close = 100 + float64(i)
	}
	assert.InDelta(t, 100.0, rsi(up, rsiPeriod), 0.001)

	// All losses pins it at 0
	down := flatCandles(20, 100, 1000)
	for i := range down {
		down[i].Close = 200 - float64(i)
	}
	assert.InDelta(t, 0.0, rsi(down, rsiPeriod), 0.001)

	// No movement reads neutral
	assert.InDelta(t, 50.0, rsi(flatCandles(20, 100, 1000), rsiPeriod), 0.001)
}

func TestSignal(t *testing.T) {
	assert.Equal(t, "bullish", signal(&PatternReport{Cross: "golden", RSI: 55}))
	assert.Equal(t, "bearish", signal(&PatternReport{Cross: "dead", RSI: 45}))
	assert.Equal(t, "overbought", signal(&PatternReport{Cross: "none", RSI: 75}))
	assert.Equal(t, "oversold", signal(&PatternReport{Cross: "none", RSI: 25}))
	assert.Equal(t, "neutral", signal(&PatternReport{Cross: "none", RSI: 50}))
}
