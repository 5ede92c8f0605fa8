package export

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/microcosm-cc/bluemonday"

	"github.com/hwatkins/procurement-finder/internal/models"
	"github.com/hwatkins/procurement-finder/internal/notices"
)

// descriptionPolicy strips all markup from descriptions before they land in
// a flat file.
var descriptionPolicy = bluemonday.StrictPolicy()

const maxDescriptionLen = 500

// RenderCSV renders a result set as CSV with a fixed column layout.
func RenderCSV(items []models.Notice) string {
	return buildTable(items).RenderCSV()
}

// RenderHTML renders a result set as an HTML table document. Spreadsheet
// software opens it directly, which is how the "excel" export format is
// served.
func RenderHTML(items []models.Notice) string {
	return "<html><body>" + buildTable(items).RenderHTML() + "</body></html>"
}

func buildTable(items []models.Notice) table.Writer {
	t := table.NewWriter()
	t.AppendHeader(table.Row{
		"ID", "Source", "Title", "Organisation", "Stage", "Type", "Status",
		"Value Low", "Value High", "Awarded Value", "Awarded Supplier",
		"Published", "Deadline", "Region", "CPV", "Link",
	})

	for _, n := range items {
		t.AppendRow(table.Row{
			n.ID,
			string(n.Source),
			cleanText(n.Title),
			cleanText(n.OrganisationName),
			stageText(n.ProcurementStage),
			strText(n.NoticeType),
			strText(n.NoticeStatus),
			floatText(n.ValueLow),
			floatText(n.ValueHigh),
			floatText(n.AwardedValue),
			cleanText(n.AwardedSupplier),
			n.PublishedDate,
			strText(n.DeadlineDate),
			strText(n.RegionText),
			strText(n.CpvCodes),
			n.Link,
		})
	}
	return t
}

func cleanText(s *string) string {
	if s == nil {
		return ""
	}
	text := notices.HTMLToText(descriptionPolicy.Sanitize(*s))
	if len(text) > maxDescriptionLen {
		return text[:maxDescriptionLen-3] + "..."
	}
	return text
}

func strText(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func stageText(s *models.Stage) string {
	if s == nil {
		return ""
	}
	return string(*s)
}

func floatText(f *float64) any {
	if f == nil {
		return ""
	}
	return *f
}
