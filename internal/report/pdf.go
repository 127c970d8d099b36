package report

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// SavePDF renders the summary of one capture file into a PDF document
func SavePDF(s Summary, source, out string) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Squitter Summary", false)
	pdf.SetAuthor("squitterlog", false)
	pdf.SetCreator("squitterlog", false)
	pdf.SetMargins(12, 15, 12)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	digest := s.Digest()

	addPDFTitle(pdf, "Squitter Summary")
	addTotalsSection(pdf, s, source, digest)
	if err := addDigestQR(pdf, digest); err != nil {
		return err
	}
	addRowsSection(pdf, s.Rows)

	if pdf.Err() {
		return pdf.Error()
	}
	return pdf.OutputFileAndClose(out)
}

func addPDFTitle(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, title)
	pdf.Ln(12)
}

func addTotalsSection(pdf *gofpdf.Fpdf, s Summary, source, digest string) {
	pdf.SetFont("Helvetica", "", 11)
	items := []struct {
		label string
		value string
	}{
		{label: "Capture file", value: source},
		{label: "Aircraft discovered", value: strconv.Itoa(s.Total)},
		{label: "Filtered out (no ADS-B)", value: strconv.Itoa(s.FilteredOut)},
		{label: "Retained (ADS-B)", value: strconv.Itoa(s.Retained)},
		{label: "Digest (SHA-256)", value: digest},
	}
	for _, item := range items {
		pdf.CellFormat(55, 6, item.label, "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, item.value, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}

func addDigestQR(pdf *gofpdf.Fpdf, digest string) error {
	png, err := DigestToQR(digest, 256)
	if err != nil {
		return fmt.Errorf("failed to encode digest QR: %w", err)
	}

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("digest", opts, bytes.NewReader(png))

	pageWidth, _ := pdf.GetPageSize()
	_, _, right, _ := pdf.GetMargins()
	pdf.ImageOptions("digest", pageWidth-right-30, 15, 30, 30, false, opts, 0, "")
	return nil
}

func addRowsSection(pdf *gofpdf.Fpdf, rows []Row) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Aircraft")
	pdf.Ln(9)

	headers := []string{"ICAO", "Flight", "Format", "First (UTC)", "Last (UTC)", "POS", "HDG", "SEL", "DIF", "BAR", "GNS", "Track km"}
	widths := []float64{18, 24, 44, 56, 40, 11, 11, 11, 11, 11, 11, 20}

	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Helvetica", "B", 9)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	if len(rows) == 0 {
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 6, "No aircraft with extended squitter traffic.", "", "L", false)
		return
	}

	pdf.SetFont("Helvetica", "", 8)
	for _, r := range rows {
		values := []string{
			r.Address,
			r.Identity,
			r.Formats,
			r.First,
			r.Last,
			Flag(r.HasPosition),
			Flag(r.HasCourse),
			Flag(r.HasSelectedAltitude),
			Flag(r.HasAltitudeDiff),
			Flag(r.HasBaroSetting),
			Flag(r.HasGNSSAltitude),
			strconv.FormatFloat(r.TrackKM, 'f', 1, 64),
		}
		renderTableRow(pdf, widths, values, 5)
	}
}

func renderTableRow(pdf *gofpdf.Fpdf, widths []float64, values []string, lineHeight float64) {
	xStart := pdf.GetX()
	yStart := pdf.GetY()
	maxLines := 1
	splitCols := make([][]string, len(values))
	for i, val := range values {
		text := strings.TrimSpace(val)
		if text == "" {
			text = "-"
		}
		lines := pdf.SplitText(text, widths[i]-2)
		if len(lines) == 0 {
			lines = []string{""}
		}
		splitCols[i] = lines
		if len(lines) > maxLines {
			maxLines = len(lines)
		}
	}
	x := xStart
	for i, lines := range splitCols {
		pdf.SetXY(x, yStart)
		pdf.MultiCell(widths[i], lineHeight, strings.Join(lines, "\n"), "1", "L", false)
		x += widths[i]
	}
	pdf.SetXY(xStart, yStart+float64(maxLines)*lineHeight)
}
