package continuity

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"sensorprep/internal/errors"
	"sensorprep/pkg/contracts/domain"
)

var seriesColors = []color.RGBA{
	{R: 220, G: 50, B: 47, A: 255},
	{R: 38, G: 139, B: 210, A: 255},
	{R: 133, G: 153, B: 0, A: 255},
	{R: 211, G: 54, B: 130, A: 255},
}

// GapPoints converts a column's gaps into (gap start, missing seconds) points
// with X in Unix seconds.
func GapPoints(col domain.ColumnContinuity) plotter.XYs {
	pts := make(plotter.XYs, len(col.Gaps))
	for i, g := range col.Gaps {
		pts[i].X = float64(g.Start.Unix())
		pts[i].Y = float64(g.MissingSeconds)
	}
	return pts
}

// PlotTimeline saves a scatter chart of gap sizes over time, one series per column
func PlotTimeline(report *domain.ContinuityReport, path string) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Timestamp gaps (threshold %gs)", report.ThresholdSeconds)
	p.X.Label.Text = "Gap start"
	p.Y.Label.Text = "Missing seconds"
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02\n15:04"}
	p.Add(plotter.NewGrid())

	for i, col := range report.Columns {
		if len(col.Gaps) == 0 {
			continue
		}
		scatter, err := plotter.NewScatter(GapPoints(col))
		if err != nil {
			return errors.NewIOError("failed to build gap series", err).WithContext("column", col.Column)
		}
		scatter.GlyphStyle.Color = seriesColors[i%len(seriesColors)]
		scatter.GlyphStyle.Radius = vg.Points(2.5)
		p.Add(scatter)
		p.Legend.Add(col.Column, scatter)
	}
	p.Legend.Top = true

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewIOError("failed to create plot directory", err).WithContext("path", path)
	}
	if err := p.Save(10*vg.Inch, 4*vg.Inch, path); err != nil {
		return errors.NewIOError("failed to save gap plot", err).WithContext("path", path)
	}
	return nil
}
