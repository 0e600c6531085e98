package main

import (
	"fmt"

	"cellular-usage-report/internal/domain/usage"
	"cellular-usage-report/internal/usecase/report"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numberStyle = cellStyle.Align(lipgloss.Right)
	titleStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle  = lipgloss.NewStyle().Faint(true)
)

func renderReport(r *report.Report) string {
	title := titleStyle.Render(fmt.Sprintf("Cellular usage %s to %s", r.StartDate, r.EndDate))
	summary := mutedStyle.Render(fmt.Sprintf("%d of %d devices at or above %.2f GB",
		len(r.Rows), r.DevicesSeen, r.ThresholdGiB))

	if len(r.Rows) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, title, summary)
	}

	headers := []string{"Device ID", "Name", "Total GB"}
	if r.Enriched {
		headers = append(headers, "Location", "Job")
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 2:
				return numberStyle
			default:
				return cellStyle
			}
		})

	for _, row := range r.Rows {
		t.Row(reportRow(row, r.Enriched)...)
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, t.Render(), summary)
}

func reportRow(row usage.DisplayRow, enriched bool) []string {
	cells := []string{row.DeviceID, row.Name, fmt.Sprintf("%.2f", row.TotalGiB)}
	if enriched {
		loc := usage.UnknownLocation
		if row.Location != nil {
			loc = *row.Location
		}
		cells = append(cells, loc.Name, loc.JobNumber)
	}
	return cells
}

// deviceLister is what renderDevices needs from the directory.
type deviceLister interface {
	IDs() []string
	Name(deviceID string) (string, bool)
}

func renderDevices(dir deviceLister) string {
	ids := dir.IDs()

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Device ID", "Name").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	for _, id := range ids {
		name, _ := dir.Name(id)
		t.Row(id, name)
	}

	return lipgloss.JoinVertical(lipgloss.Left, t.Render(), mutedStyle.Render(fmt.Sprintf("%d devices", len(ids))))
}
