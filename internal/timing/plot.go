package timing

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Plot image size
const (
	PlotWidth  = 8 * vg.Inch
	PlotHeight = 4 * vg.Inch
)

var (
	inRangeColor = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}
	tailColor    = color.RGBA{R: 0x19, G: 0x19, B: 0x70, A: 0xff}
)

// SavePlot renders an analysis as a bar chart PNG: the too-frequent tail,
// the in-range bins and the too-infrequent tail, left to right
func SavePlot(a Analysis, title, path string) error {
	if a.Status != StatusOK {
		return fmt.Errorf("cannot plot %q: %s", title, a.Status)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s\nmin %.1f ms, max %.1f ms, target %.0f ms",
		title, a.MinMS, a.MaxMS, a.Target.IntervalMS)
	p.X.Label.Text = "interval (ms)"
	p.Y.Label.Text = "count"

	n := InRangeBins + 2
	tails := make(plotter.Values, n)
	inRange := make(plotter.Values, n)
	labels := make([]string, n)

	tails[0] = float64(a.TooFrequent)
	labels[0] = fmt.Sprintf("<%.0f", a.Target.Low())
	for i, c := range a.Histogram {
		inRange[i+1] = float64(c)
		labels[i+1] = fmt.Sprintf("%.0f", (a.BinEdges[i]+a.BinEdges[i+1])/2)
	}
	tails[n-1] = float64(a.TooInfrequent)
	labels[n-1] = fmt.Sprintf(">%.0f", a.Target.High())

	barWidth := vg.Points(20)

	inRangeBars, err := plotter.NewBarChart(inRange, barWidth)
	if err != nil {
		return fmt.Errorf("failed to build histogram: %w", err)
	}
	inRangeBars.Color = inRangeColor
	inRangeBars.LineStyle.Width = vg.Length(0.5)

	tailBars, err := plotter.NewBarChart(tails, barWidth)
	if err != nil {
		return fmt.Errorf("failed to build tail bars: %w", err)
	}
	tailBars.Color = tailColor
	tailBars.LineStyle.Width = vg.Length(0.5)

	p.Add(inRangeBars, tailBars)
	p.Legend.Add(fmt.Sprintf("in range: %d", a.InRange), inRangeBars)
	p.Legend.Add(fmt.Sprintf("outside: %d/%d", a.TooFrequent, a.TooInfrequent), tailBars)
	p.Legend.Top = true
	p.NominalX(labels...)

	if err := p.Save(PlotWidth, PlotHeight, path); err != nil {
		return fmt.Errorf("failed to save plot %s: %w", path, err)
	}
	return nil
}
