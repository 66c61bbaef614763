package quality

import (
	"bytes"
	"encoding/base64"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"sensorprep/internal/errors"
	"sensorprep/pkg/contracts/domain"
)

var histogramFill = color.RGBA{R: 38, G: 139, B: 210, A: 255}

// HistogramPNG renders a column's histogram as PNG bytes
func HistogramPNG(col domain.ColumnProfile) ([]byte, error) {
	if len(col.Histogram) == 0 {
		return nil, nil
	}

	h := &plotter.Histogram{
		Bins:      make([]plotter.HistogramBin, len(col.Histogram)),
		Width:     col.Histogram[0].High - col.Histogram[0].Low,
		FillColor: histogramFill,
		LineStyle: plotter.DefaultLineStyle,
	}
	for i, b := range col.Histogram {
		h.Bins[i] = plotter.HistogramBin{Min: b.Low, Max: b.High, Weight: float64(b.Count)}
	}

	p := plot.New()
	p.Title.Text = col.Name
	p.X.Label.Text = col.Name
	p.Y.Label.Text = "Count"
	p.Add(plotter.NewGrid(), h)

	wt, err := p.WriterTo(6*vg.Inch, 3*vg.Inch, "png")
	if err != nil {
		return nil, errors.NewIOError("failed to render histogram", err).WithContext("column", col.Name)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, errors.NewIOError("failed to encode histogram", err).WithContext("column", col.Name)
	}
	return buf.Bytes(), nil
}

// histogramDataURI returns the histogram as an inline image source
func histogramDataURI(col domain.ColumnProfile) (string, error) {
	png, err := HistogramPNG(col)
	if err != nil || png == nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
