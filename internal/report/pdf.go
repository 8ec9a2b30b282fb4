package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/sojokerto/absensi-bot/internal/models"
)

// Report document contract: titles, header labels, column order and the four
// status colors are fixed; consumers rely on this exact layout.
const (
	TitleDaily    = "LAPORAN ABSENSI HARIAN"
	TitleMonthly  = "LAPORAN ABSENSI BULANAN"
	TitleFiltered = "LAPORAN ABSENSI SISWA"
)

var monthNames = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// FormatDate renders an ISO date as dd/mm/yyyy for display.
func FormatDate(iso string) string {
	t, err := time.Parse(models.DateLayout, iso)
	if err != nil {
		return iso
	}
	return t.Format("02/01/2006")
}

// FormatMonth renders "2006-01" as "Januari 2006".
func FormatMonth(yearMonth string) string {
	t, err := time.Parse("2006-01", yearMonth)
	if err != nil {
		return yearMonth
	}
	return fmt.Sprintf("%s %d", monthNames[t.Month()-1], t.Year())
}

func statusColor(s models.Status) (r, g, b int) {
	switch s {
	case models.StatusHadir:
		return 34, 197, 94
	case models.StatusSakit:
		return 245, 158, 11
	case models.StatusIzin:
		return 59, 130, 246
	case models.StatusAlpha:
		return 239, 68, 68
	}
	return 0, 0, 0
}

type column struct {
	header string
	width  float64
}

var dailyColumns = []column{
	{"NIS", 25}, {"Nama", 50}, {"Kelas", 30}, {"Status", 25}, {"Keterangan", 40},
}

var rangeColumns = []column{
	{"Tanggal", 25}, {"NIS", 20}, {"Nama", 40}, {"Kelas", 25}, {"Status", 20}, {"Keterangan", 40},
}

func newDoc(now time.Time) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 20)
	pdf.AliasNbPages("")
	stamp := now.Format("02/01/2006 15:04:05")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Arial", "", 8)
		pdf.SetTextColor(0, 0, 0)
		pdf.CellFormat(0, 5, "Dicetak pada: "+stamp, "", 0, "L", false, 0, "")
		pdf.SetX(-60)
		pdf.CellFormat(0, 5, fmt.Sprintf("Halaman %d dari {nb}", pdf.PageNo()), "", 0, "R", false, 0, "")
	})
	return pdf
}

func writeHead(pdf *gofpdf.Fpdf, title, school string) {
	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, 8, school, "", 1, "C", false, 0, "")
	pdf.Ln(4)
}

func writeSummary(pdf *gofpdf.Fpdf, label string, sum Summary) {
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 6, label, "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	line := fmt.Sprintf("Total: %d     Hadir: %d     Sakit: %d     Izin: %d     Alpha: %d",
		sum.Total, sum.Hadir, sum.Sakit, sum.Izin, sum.Alpha)
	pdf.CellFormat(0, 6, line, "", 1, "L", false, 0, "")
	pdf.Ln(6)
}

func writeTableHeader(pdf *gofpdf.Fpdf, cols []column) {
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(59, 130, 246)
	pdf.SetTextColor(255, 255, 255)
	for _, c := range cols {
		pdf.CellFormat(c.width, 8, c.header, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetTextColor(0, 0, 0)
}

// writeTable renders the record rows with alternating backgrounds and
// status-colored status cells. The header row repeats after a page break.
// Zero records is fine: the table is just the header.
func writeTable(pdf *gofpdf.Fpdf, cols []column, withDate bool, records []Record) {
	writeTableHeader(pdf, cols)

	pdf.SetFont("Arial", "", 9)
	for i, rec := range records {
		if pdf.GetY() > 265 {
			pdf.AddPage()
			writeTableHeader(pdf, cols)
			pdf.SetFont("Arial", "", 9)
		}
		fill := i%2 == 1
		pdf.SetFillColor(248, 250, 252)

		cells := []string{rec.Student.NIS, rec.Student.Name, rec.ClassName(), rec.Status.Label(), rec.NoteOrDash()}
		statusIdx := 3
		if withDate {
			cells = append([]string{FormatDate(rec.Date)}, cells...)
			statusIdx = 4
		}
		for j, v := range cells {
			if j == statusIdx {
				r, g, b := statusColor(rec.Status)
				pdf.SetTextColor(r, g, b)
			} else {
				pdf.SetTextColor(0, 0, 0)
			}
			pdf.CellFormat(cols[j].width, 7, v, "1", 0, "L", fill, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.SetTextColor(0, 0, 0)
}

func output(pdf *gofpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderDaily produces the one-day report. className should be the resolved
// class name or empty for all classes. Rendering an empty record set still
// yields a complete document.
func RenderDaily(records []Record, sum Summary, school, date, className string, now time.Time) ([]byte, error) {
	pdf := newDoc(now)
	pdf.AddPage()
	writeHead(pdf, TitleDaily, school)

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, "Tanggal: "+FormatDate(date), "", 1, "L", false, 0, "")
	if className == "" {
		className = "Semua kelas"
	}
	pdf.CellFormat(0, 6, "Kelas: "+className, "", 1, "L", false, 0, "")
	pdf.Ln(4)

	writeSummary(pdf, "RINGKASAN HARI INI:", sum)
	writeTable(pdf, dailyColumns, false, records)
	return output(pdf)
}

// RenderMonthly produces the calendar-month report; yearMonth is "2006-01".
func RenderMonthly(records []Record, sum Summary, school, yearMonth, className string, now time.Time) ([]byte, error) {
	pdf := newDoc(now)
	pdf.AddPage()
	writeHead(pdf, TitleMonthly, school)

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, "Bulan: "+FormatMonth(yearMonth), "", 1, "L", false, 0, "")
	if className == "" {
		className = "Semua kelas"
	}
	pdf.CellFormat(0, 6, "Kelas: "+className, "", 1, "L", false, 0, "")
	pdf.Ln(4)

	writeSummary(pdf, "RINGKASAN BULAN INI:", sum)
	writeTable(pdf, rangeColumns, true, records)
	return output(pdf)
}

// FilterDescription summarizes the applied bounds the way the report prints
// them ("Filter: 2024-09-01 s/d 2024-09-30 | Kelas: Kelas 1").
func FilterDescription(opts Options, className string) string {
	s := "Filter: "
	switch {
	case opts.DateFrom != "" && opts.DateTo != "":
		s += opts.DateFrom + " s/d " + opts.DateTo
	case opts.DateFrom != "":
		s += "Dari " + opts.DateFrom
	case opts.DateTo != "":
		s += "Sampai " + opts.DateTo
	default:
		s += "Semua tanggal"
	}
	if className != "" {
		s += " | Kelas: " + className
	} else {
		s += " | Semua kelas"
	}
	return s
}

// RenderFiltered produces the custom-range report.
func RenderFiltered(records []Record, sum Summary, school string, opts Options, className string, now time.Time) ([]byte, error) {
	pdf := newDoc(now)
	pdf.AddPage()
	writeHead(pdf, TitleFiltered, school)

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, FilterDescription(opts, className), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	writeSummary(pdf, "RINGKASAN:", sum)
	writeTable(pdf, rangeColumns, true, records)
	return output(pdf)
}
