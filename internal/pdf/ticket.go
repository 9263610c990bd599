package pdf

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/avetluv/flightbook/internal/domain"
	"github.com/go-pdf/fpdf"
)

// TicketRenderer writes booking confirmation documents to a scratch
// directory. Files are transient: the booking flow deletes them after
// the confirmation email goes out.
type TicketRenderer struct {
	dir string
}

func NewTicketRenderer(dir string) *TicketRenderer {
	if dir == "" {
		dir = os.TempDir()
	}
	return &TicketRenderer{dir: dir}
}

func (r *TicketRenderer) Render(booking *domain.Booking, passengers []domain.Passenger) (string, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 20)
	doc.CellFormat(0, 12, "Flight Booking Details", "", 1, "C", false, 0, "")
	doc.Ln(4)

	doc.SetFont("Helvetica", "", 14)
	line := func(s string) {
		doc.CellFormat(0, 8, s, "", 1, "L", false, 0, "")
	}
	line(fmt.Sprintf("Booking ID: %s", booking.BookingID))
	line(fmt.Sprintf("Airline: %s", booking.AirlineName))
	line(fmt.Sprintf("Route: %s to %s", booking.DepartureCity, booking.ArrivalCity))
	line(fmt.Sprintf("Departure: %s", booking.DepartureTime.Format("02 Jan 2006 15:04")))
	line(fmt.Sprintf("Arrival: %s", booking.ArrivalTime.Format("02 Jan 2006 15:04")))
	line(fmt.Sprintf("Price: %.2f", booking.Price))
	line(fmt.Sprintf("Stops: %s", booking.StopType))
	line(fmt.Sprintf("Duration: %s", booking.Duration))
	doc.Ln(4)

	doc.SetFont("Helvetica", "B", 18)
	line("Passenger Details:")
	for i, p := range passengers {
		doc.Ln(2)
		doc.SetFont("Helvetica", "B", 14)
		line(fmt.Sprintf("Passenger %d:", i+1))
		doc.SetFont("Helvetica", "", 14)
		line(fmt.Sprintf("Name: %s %s", p.FirstName, p.LastName))
		line(fmt.Sprintf("Gender: %s", p.Gender))
		line(fmt.Sprintf("Mobile: %s", p.MobileNo))
		line(fmt.Sprintf("Email: %s", p.Email))
		if p.RequiresWheelchair {
			line("Special Request: Wheelchair Required")
		}
	}

	path := filepath.Join(r.dir, fmt.Sprintf("booking_%s.pdf", booking.BookingID))
	if err := doc.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("write ticket pdf: %w", err)
	}
	return path, nil
}
