package quality

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"

	"sensorprep/internal/errors"
	"sensorprep/pkg/contracts"
	"sensorprep/pkg/contracts/domain"
)

//go:embed templates/profile.html.tmpl
var templateFS embed.FS

var profileTemplate = template.Must(
	template.New("profile.html.tmpl").
		Funcs(template.FuncMap{
			"num": num,
			"pct": func(v float64) string { return fmt.Sprintf("%.2f%%", v) },
			"cell": func(v string) string {
				if v == "" {
					return "NaN"
				}
				return v
			},
		}).
		ParseFS(templateFS, "templates/profile.html.tmpl"),
)

type variableView struct {
	domain.ColumnProfile
	Chart template.URL
}

type profileView struct {
	Report        *domain.QualityReport
	Version       string
	Variables     []variableView
	MissingCells  int
	MissingPct    float64
	DuplicatePct  float64
	NumericCount  int
	CategoryCount int
}

// HTMLReport renders the self-contained profiling report
func HTMLReport(w io.Writer, report *domain.QualityReport) error {
	view := profileView{
		Report:        report,
		Version:       contracts.GetVersionString(),
		MissingCells:  report.MissingCells(),
		NumericCount:  len(report.NumericColumns()),
		CategoryCount: len(report.CategoricalColumns()),
	}
	if cells := report.Rows * len(report.Header); cells > 0 {
		view.MissingPct = float64(view.MissingCells) / float64(cells) * 100
	}
	if report.Rows > 0 {
		view.DuplicatePct = float64(report.Duplicates) / float64(report.Rows) * 100
	}

	for _, col := range report.Columns {
		uri, err := histogramDataURI(col)
		if err != nil {
			return err
		}
		view.Variables = append(view.Variables, variableView{
			ColumnProfile: col,
			Chart:         template.URL(uri),
		})
	}

	if err := profileTemplate.Execute(w, view); err != nil {
		return errors.NewIOError("failed to render profile report", err)
	}
	return nil
}

// WriteHTMLReport renders the profiling report to path
func WriteHTMLReport(path string, report *domain.QualityReport) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewIOError("failed to create report directory", err).WithContext("path", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.NewIOError("failed to create report file", err).WithContext("path", path)
	}
	if err := HTMLReport(f, report); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.NewIOError("failed to close report file", err).WithContext("path", path)
	}
	return nil
}

