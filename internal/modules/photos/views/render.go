package views

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"time"

	"gaugeboard/internal/modules/photos/types"
)

//go:embed templates
var viewsFS embed.FS

var pagesTmpl *template.Template

// loadTemplatesFromFS loads page templates from the given fs and dir.
// Used by LoadTemplates and by tests to simulate failure scenarios.
func loadTemplatesFromFS(fsys fs.FS, dir string) error {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return err
	}
	pagesTmpl, err = template.ParseFS(sub, "*.html")
	if err != nil {
		return err
	}
	return nil
}

// LoadTemplates loads embedded page templates. Call during startup before
// serving requests; if it returns an error, do not start the server.
func LoadTemplates() error {
	return loadTemplatesFromFS(viewsFS, "templates")
}

// PhotoRow is one table/latest-card entry with display-ready fields.
type PhotoRow struct {
	TakenAt     string
	Filename    string
	Dimensions  string
	DeviceModel string
	Temperature string
	Humidity    string
}

// SeriesRow is one charted reading, display-ready.
type SeriesRow struct {
	TakenAt     string
	Temperature string
	Humidity    string
}

// DashboardData is the view model for the dashboard page.
type DashboardData struct {
	Latest *PhotoRow
	Series []SeriesRow
	Recent []PhotoRow
}

const timeDisplayLayout = "2006-01-02 15:04:05 MST"

// BuildDashboardData formats the aggregated store results for the template.
// Absent readings render as "n/a".
func BuildDashboardData(d types.Dashboard) DashboardData {
	out := DashboardData{}
	if d.Latest != nil {
		row := photoRow(*d.Latest)
		out.Latest = &row
	}
	for _, pt := range d.Series {
		out.Series = append(out.Series, SeriesRow{
			TakenAt:     pt.TakenAt.Format(timeDisplayLayout),
			Temperature: formatReading(pt.TemperatureC, "°C"),
			Humidity:    formatReading(pt.HumidityPct, "%"),
		})
	}
	for _, p := range d.Recent {
		out.Recent = append(out.Recent, photoRow(p))
	}
	return out
}

func photoRow(p types.Photo) PhotoRow {
	return PhotoRow{
		TakenAt:     p.TakenAt.Format(timeDisplayLayout),
		Filename:    p.Filename,
		Dimensions:  fmt.Sprintf("%d×%d", p.Width, p.Height),
		DeviceModel: p.DeviceModel,
		Temperature: formatReading(p.TemperatureC, "°C"),
		Humidity:    formatReading(p.HumidityPct, "%"),
	}
}

func formatReading(v *float64, unit string) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%s", *v, unit)
}

// RenderDashboard executes the dashboard page into w.
func RenderDashboard(w io.Writer, data DashboardData) error {
	if pagesTmpl == nil {
		return errors.New("dashboard template not loaded: call views.LoadTemplates during startup")
	}
	return pagesTmpl.ExecuteTemplate(w, "dashboard.html", data)
}

// RenderUpload executes the upload form page into w.
func RenderUpload(w io.Writer) error {
	if pagesTmpl == nil {
		return errors.New("upload template not loaded: call views.LoadTemplates during startup")
	}
	return pagesTmpl.ExecuteTemplate(w, "upload.html", struct{ Now string }{Now: time.Now().Format(timeDisplayLayout)})
}
