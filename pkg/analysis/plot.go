package analysis

import (
	"errors"
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/NatashaRy/house-price-predictor/pkg/stats"
)

const (
	plotWidth  = 6 * vg.Inch
	plotHeight = 4 * vg.Inch
	histBins   = 30
)

var errNoPoints = errors.New("analysis: nothing to plot")

func render(p *plot.Plot, w io.Writer) error {
	wt, err := p.WriterTo(plotWidth, plotHeight, "png")
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

// fitLine returns the least-squares line through x and y, clipped to the x range.
func fitLine(x, y []float64) (plotter.XYs, error) {
	sx, sy := stats.Std(x), stats.Std(y)
	if sx == 0 {
		return nil, errNoPoints
	}
	slope := stats.Correlation(x, y) * sy / sx
	intercept := stats.Mean(y) - slope*stats.Mean(x)
	lo, hi := stats.MinMax(x)
	return plotter.XYs{
		{X: lo, Y: slope*lo + intercept},
		{X: hi, Y: slope*hi + intercept},
	}, nil
}

// ScatterPlot draws feature against target with a fitted trend line.
func ScatterPlot(t Table, feature, target string, w io.Writer) error {
	x, y, err := pairs(t, feature, target)
	if err != nil {
		return err
	}
	if len(x) == 0 {
		return errNoPoints
	}
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s vs %s", feature, target)
	p.X.Label.Text = feature
	p.Y.Label.Text = target

	pts := make(plotter.XYs, len(x))
	for i := range x {
		pts[i].X = x[i]
		pts[i].Y = y[i]
	}
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	s.Color = color.RGBA{B: 200, A: 255}
	s.Radius = vg.Points(2)
	p.Add(s)

	if linePts, err := fitLine(x, y); err == nil {
		l, err := plotter.NewLine(linePts)
		if err != nil {
			return err
		}
		l.Color = color.RGBA{R: 255, A: 255}
		l.LineStyle.Width = vg.Points(2)
		p.Add(l)
	}
	return render(p, w)
}

// ActualVsPredicted draws predictions against true prices with the y = x line.
func ActualVsPredicted(actual, predicted []float64, w io.Writer) error {
	if len(actual) == 0 {
		return errNoPoints
	}
	if len(actual) != len(predicted) {
		return fmt.Errorf("analysis: %d actual values for %d predictions", len(actual), len(predicted))
	}
	p := plot.New()
	p.Title.Text = "Actual vs Predicted Sale Price"
	p.X.Label.Text = "Actual"
	p.Y.Label.Text = "Predicted"

	pts := make(plotter.XYs, len(actual))
	for i := range actual {
		pts[i] = plotter.XY{X: actual[i], Y: predicted[i]}
	}
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	s.Color = color.RGBA{G: 120, B: 200, A: 255}
	p.Add(s)

	lo, hi := stats.MinMax(actual)
	l, err := plotter.NewLine(plotter.XYs{{X: lo, Y: lo}, {X: hi, Y: hi}})
	if err != nil {
		return err
	}
	l.Color = color.RGBA{R: 255, A: 255}
	p.Add(l)
	return render(p, w)
}

// PriceBars draws one bar per house.
func PriceBars(labels []string, prices []float64, w io.Writer) error {
	if len(prices) == 0 {
		return errNoPoints
	}
	if len(labels) != len(prices) {
		return fmt.Errorf("analysis: %d labels for %d prices", len(labels), len(prices))
	}
	p := plot.New()
	p.Title.Text = "Predicted Sale Price of Inherited Houses"
	p.Y.Label.Text = "SalePrice"

	bars, err := plotter.NewBarChart(plotter.Values(prices), vg.Points(30))
	if err != nil {
		return err
	}
	bars.Color = color.RGBA{G: 150, B: 100, A: 255}
	p.Add(bars)
	p.NominalX(labels...)
	return render(p, w)
}

// TargetHistogram draws the distribution of target.
func TargetHistogram(t Table, target string, w io.Writer) error {
	x, _, err := pairs(t, target, target)
	if err != nil {
		return err
	}
	if len(x) == 0 {
		return errNoPoints
	}
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Distribution of %s", target)
	p.X.Label.Text = target

	h, err := plotter.NewHist(plotter.Values(x), histBins)
	if err != nil {
		return err
	}
	p.Add(h)
	return render(p, w)
}
