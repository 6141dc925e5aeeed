package report

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/jung-kurt/gofpdf/v2"

	"github.com/rescuesim/rescue-engine/pkg/player"
)

const (
	margin   = 40.0
	rowH     = 16.0
	fontSize = 10.0
)

// Debrief renders a one-page PDF summary of a session: scenario, progress,
// elapsed ticks, and final parameter readouts. Used by trainers after a
// learner finishes (or abandons) a scenario.
func Debrief(s *player.Session) ([]byte, error) {
	frame := s.Frame()
	item := s.Rescue()

	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 22, "Rescue Session Debrief", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", fontSize)
	pdf.CellFormat(0, rowH, fmt.Sprintf("Scenario: %s", item.Name), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, rowH, fmt.Sprintf("Session: %s", frame.SessionID), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, rowH, fmt.Sprintf("Started: %s", s.StartedAt.Format(time.RFC1123)), "", 1, "L", false, 0, "")

	outcome := "in progress"
	if frame.Completed {
		outcome = "completed"
	}
	pdf.CellFormat(0, rowH,
		fmt.Sprintf("Progress: scene %d of %d (%s), %d ticks elapsed",
			frame.SceneIndex+1, frame.SceneCount, outcome, frame.Ticks),
		"", 1, "L", false, 0, "")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", fontSize)
	pdf.CellFormat(200, rowH, "Parameter", "B", 0, "L", false, 0, "")
	pdf.CellFormat(120, rowH, "Final Value", "B", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", fontSize)

	badges := append([]player.Badge(nil), frame.Parameters...)
	sort.Slice(badges, func(i, j int) bool { return badges[i].Label < badges[j].Label })
	for _, b := range badges {
		pdf.CellFormat(200, rowH, b.Label, "", 0, "L", false, 0, "")
		pdf.CellFormat(120, rowH, b.Display, "", 1, "L", false, 0, "")
	}

	if len(item.Description) > 0 {
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "I", fontSize)
		pdf.MultiCell(0, rowH, item.Description, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render debrief pdf: %w", err)
	}
	return buf.Bytes(), nil
}
