package leaderboardservice

import (
	"bytes"
	"fmt"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var (
	chartBackground = drawing.ColorFromHex("0f172a")
	chartBar        = drawing.ColorFromHex("10b981")
	chartText       = drawing.ColorFromHex("e2e8f0")
)

// RenderBarChart draws one bar per ranked row. An empty board renders a
// placeholder image.
func RenderBarChart(board *Board) ([]byte, error) {
	if len(board.Rows) == 0 {
		return renderPlaceholder(board)
	}

	bars := make([]chart.Value, len(board.Rows))
	lo, hi := 0.0, 0.0
	for i, row := range board.Rows {
		score := 0.0
		if row.Score != nil {
			score = *row.Score
		}
		lo, hi = math.Min(lo, score), math.Max(hi, score)
		bars[i] = chart.Value{
			Label: fmt.Sprintf("#%d %s", row.Rank, row.Trader),
			Value: score,
			Style: chart.Style{FillColor: chartBar, StrokeColor: chartBar},
		}
	}
	if lo == hi {
		hi = lo + 1
	}

	graph := chart.BarChart{
		Title:      board.Event.Name,
		TitleStyle: chart.Style{FontColor: chartText},
		Width:      max(480, 72*len(bars)+160),
		Height:     420,
		BarWidth:   48,
		BarSpacing: 24,
		Background: chart.Style{FillColor: chartBackground, Padding: chart.Box{Top: 48, Left: 16, Right: 16, Bottom: 16}},
		Canvas:     chart.Style{FillColor: chartBackground},
		XAxis:      chart.Style{FontColor: chartText},
		YAxis: chart.YAxis{
			Style: chart.Style{FontColor: chartText},
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
		},
		Bars: bars,
	}

	buf := bytes.NewBuffer(nil)
	if err := graph.Render(chart.PNG, buf); err != nil {
		return nil, fmt.Errorf("failed to render leaderboard chart: %w", err)
	}
	return buf.Bytes(), nil
}

func renderPlaceholder(board *Board) ([]byte, error) {
	graph := chart.BarChart{
		Title:      board.Event.Name + ": no results yet",
		TitleStyle: chart.Style{FontColor: chartText},
		Width:      480,
		Height:     240,
		Background: chart.Style{FillColor: chartBackground, Padding: chart.Box{Top: 48}},
		Canvas:     chart.Style{FillColor: chartBackground},
		XAxis:      chart.Style{FontColor: chartText},
		YAxis: chart.YAxis{
			Style: chart.Style{FontColor: chartText},
			Range: &chart.ContinuousRange{Min: 0, Max: 1},
		},
		Bars: []chart.Value{{Label: "-", Value: 0}},
	}

	buf := bytes.NewBuffer(nil)
	if err := graph.Render(chart.PNG, buf); err != nil {
		return nil, fmt.Errorf("failed to render placeholder chart: %w", err)
	}
	return buf.Bytes(), nil
}
