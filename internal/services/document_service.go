package services

import (
	"bytes"
	"fmt"
	"time"

	"github.com/phpdave11/gofpdf"
	"github.com/xuri/excelize/v2"

	dbm "cabbie/internal/models/db_models"
	"cabbie/pkg/utils"
)

type DocumentServiceInterface interface {
	Receipt(b *dbm.Booking) ([]byte, error)
	BookingsWorkbook(bookings []dbm.Booking) ([]byte, error)
}

type documentService struct {
	appName string
	now     func() time.Time
}

func NewDocumentService(appName string) DocumentServiceInterface {
	return &documentService{appName: appName, now: time.Now}
}

// Receipt renders a one-page PDF receipt for a booking.
func (d *documentService) Receipt(b *dbm.Booking) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	// core fonts are cp1252; translate "£" and friends
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetTitle("Receipt "+b.Reference, false)
	pdf.SetAuthor(d.appName, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, tr(d.appName+" receipt"))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	line := func(label, value string) {
		pdf.CellFormat(45, 7, tr(label), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 7, tr(value), "", 1, "L", false, 0, "")
	}
	line("Reference", b.Reference)
	line("Issued", utils.FormatDisplayUK(d.now()))
	line("Status", string(b.Status))
	line("Passenger", b.PassengerName)
	line("Email", b.PassengerEmail)
	line("Phone", b.PassengerPhone)
	line("Vehicle", b.ServiceType)
	line("Passengers", fmt.Sprintf("%d, luggage %d", b.Passengers, b.Luggage))
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(25, 8, "Leg", "1", 0, "L", true, 0, "")
	pdf.CellFormat(40, 8, "Pickup time", "1", 0, "L", true, 0, "")
	pdf.CellFormat(95, 8, "Route", "1", 0, "L", true, 0, "")
	pdf.CellFormat(30, 8, "Fare", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, j := range b.Journeys {
		route := truncateRunes(fmt.Sprintf("%s > %s (%.1f mi)", j.PickupAddress, j.DropoffAddress, j.DistanceMiles), 70)
		pdf.CellFormat(25, 7, string(j.Leg), "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 7, utils.FormatDisplayUK(j.PickupAt), "1", 0, "L", false, 0, "")
		pdf.CellFormat(95, 7, tr(route), "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, tr(utils.FormatMoney(j.FareMinor, b.Currency)), "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(160, 9, "Total paid", "1", 0, "R", false, 0, "")
	pdf.CellFormat(30, 9, tr(utils.FormatMoney(b.TotalMinor, b.Currency)), "1", 1, "R", false, 0, "")

	if b.Status == dbm.BookingStatusCancelled && b.RefundID != "" {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "I", 10)
		pdf.MultiCell(0, 6, "This booking was cancelled and the amount above has been refunded.", "", "", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

const bookingsSheet = "Bookings"

var bookingColumns = []string{
	"Reference", "Status", "Service", "Passenger", "Email", "Phone",
	"Passengers", "Luggage", "First pickup", "Pickup address", "Dropoff address",
	"Legs", "Total", "Currency", "Payment intent", "Created",
}

// BookingsWorkbook renders bookings as an xlsx workbook, one row per booking.
func (d *documentService) BookingsWorkbook(bookings []dbm.Booking) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(bookingsSheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	header, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return nil, err
	}

	for i, name := range bookingColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(bookingsSheet, cell, name); err != nil {
			return nil, err
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(bookingColumns), 1)
	if err := f.SetCellStyle(bookingsSheet, "A1", last, header); err != nil {
		return nil, err
	}

	for r := range bookings {
		b := &bookings[r]
		var pickup, from, to string
		if len(b.Journeys) > 0 {
			first := b.Journeys[0]
			for _, j := range b.Journeys[1:] {
				if j.PickupAt.Before(first.PickupAt) {
					first = j
				}
			}
			pickup = utils.FormatDisplayUK(first.PickupAt)
			from, to = first.PickupAddress, first.DropoffAddress
		}

		values := []interface{}{
			b.Reference, string(b.Status), b.ServiceType, b.PassengerName, b.PassengerEmail, b.PassengerPhone,
			b.Passengers, b.Luggage, pickup, from, to,
			len(b.Journeys), float64(b.TotalMinor) / 100, b.Currency, b.PaymentIntentID,
			utils.FormatDisplayUK(utils.FromUnixSecondsUK(b.CreatedAt)),
		}
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(bookingsSheet, cell, &values); err != nil {
			return nil, err
		}
	}

	_ = f.SetColWidth(bookingsSheet, "A", "A", 14)
	_ = f.SetColWidth(bookingsSheet, "D", "F", 24)
	_ = f.SetColWidth(bookingsSheet, "I", "K", 32)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func truncateRunes(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
