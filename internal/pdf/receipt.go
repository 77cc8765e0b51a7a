// Package pdf renders ticket receipts.
package pdf

import (
	"bytes"
	"fmt"

	"github.com/phpdave11/gofpdf"

	"github.com/avdeyev/cinema-booking/internal/repository"
)

// Receipt renders a one-page A4 receipt for a ticket and returns the
// PDF bytes plus a download filename.
func Receipt(d *repository.TicketDetail) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Ticket Receipt", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "TICKET RECEIPT")
	pdf.Ln(12)

	purchased := "-"
	if d.PurchasedAt != nil {
		purchased = d.PurchasedAt.Format("2006-01-02 15:04 MST")
	}
	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Ticket    : #%d", d.ID),
		fmt.Sprintf("Movie     : %s", d.MovieTitle),
		fmt.Sprintf("Hall      : %s", d.HallName),
		fmt.Sprintf("Showtime  : %s - %s",
			d.StartsAt.Format("2006-01-02 15:04"), d.EndsAt.Format("15:04 MST")),
		fmt.Sprintf("Seat      : row %d, seat %d", d.SeatRow, d.SeatNumber),
		fmt.Sprintf("Type      : %s", d.Type),
		fmt.Sprintf("Status    : %s", d.Status),
		fmt.Sprintf("Purchased : %s", purchased),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Total: "+formatCents(d.FinalPriceCents))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "This receipt covers one seat for one screening. Present it at venue check-in.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("TICKET_%d.pdf", d.ID)
	return buf.Bytes(), filename, nil
}

func formatCents(v int64) string {
	if v < 0 {
		v = 0
	}
	return fmt.Sprintf("$%d.%02d", v/100, v%100)
}
