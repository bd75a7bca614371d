// Package timesheet renders a user's time records as a printable PDF.
package timesheet

import (
	"bytes"
	"fmt"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/timerecord"
	"github.com/jung-kurt/gofpdf"
)

// Sheet is everything printed on one timesheet.
type Sheet struct {
	EmployeeName string
	Email        string
	StartDate    *time.Time
	EndDate      *time.Time
	GeneratedAt  time.Time
	Records      []timerecord.TimeRecord
	Summary      timerecord.HourBank
}

var columns = []struct {
	title string
	width float64
}{
	{"Date", 26},
	{"Entry", 20},
	{"Lunch out", 22},
	{"Lunch in", 22},
	{"Exit", 20},
	{"Worked", 22},
	{"Expected", 22},
	{"Balance", 22},
}

// Render returns the PDF bytes for s. Records are printed in the order given.
func Render(s Sheet) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Timesheet", true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Timesheet")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Employee: %s", s.EmployeeName))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Email: %s", s.Email))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Period: %s to %s", formatBound(s.StartDate, "beginning"), formatBound(s.EndDate, "today")))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Generated: %s", s.GeneratedAt.Format("2006-01-02 15:04")))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for _, c := range columns {
		pdf.CellFormat(c.width, 7, c.title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, r := range s.Records {
		cells := []string{
			r.Date.Format(timerecord.DateLayout),
			clockOrDash(r.EntryTime),
			clockOrDash(r.LunchStart),
			clockOrDash(r.LunchEnd),
			clockOrDash(r.ExitTime),
			timerecord.FormatDuration(r.WorkedMinutes),
			timerecord.FormatDuration(r.ExpectedMinutes),
			timerecord.FormatBalance(r.BalanceMinutes()),
		}
		for i, text := range cells {
			pdf.CellFormat(columns[i].width, 6, text, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}
	if len(s.Records) == 0 {
		pdf.CellFormat(tableWidth(), 6, "No records in this period", "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 7, "Hour bank")
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Days: %d", s.Summary.TotalDays))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Worked: %s", timerecord.FormatDuration(s.Summary.TotalWorkedMinutes)))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Expected: %s", timerecord.FormatDuration(s.Summary.TotalExpectedMinutes)))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Balance: %s (%s h, %s)", s.Summary.BalanceFormatted, s.Summary.BalanceHours.StringFixed(2), s.Summary.Status))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render timesheet: %w", err)
	}
	return buf.Bytes(), nil
}

func tableWidth() float64 {
	var w float64
	for _, c := range columns {
		w += c.width
	}
	return w
}

func clockOrDash(c *timerecord.ClockTime) string {
	if c == nil {
		return "-"
	}
	return c.String()
}

func formatBound(t *time.Time, fallback string) string {
	if t == nil {
		return fallback
	}
	return t.Format(timerecord.DateLayout)
}
