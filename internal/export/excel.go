// Package export builds Excel workbooks for attendance history downloads.
package export

import (
	"fmt"
	"time"

	"github.com/sojokerto/absensi-bot/internal/report"
	"github.com/xuri/excelize/v2"
)

const historySheet = "Riwayat Absensi"

var historyHeader = []string{"Tanggal", "NIS", "Nama", "Kelas", "Status", "Keterangan"}

// HistoryWorkbook is an attendance history export: one sheet, bold filtered
// header, one row per record in the given order.
type HistoryWorkbook struct {
	File *excelize.File
}

func NewHistoryWorkbook(records []report.Record) (*HistoryWorkbook, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", historySheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	bold, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	for col, h := range historyHeader {
		cell := fmt.Sprintf("%s1", colName(col+1))
		if err := f.SetCellStr(historySheet, cell, h); err != nil {
			return nil, fmt.Errorf("set cell %s: %w", cell, err)
		}
	}
	end := colName(len(historyHeader)) + "1"
	_ = f.SetCellStyle(historySheet, "A1", end, bold)
	_ = f.AutoFilter(historySheet, "A1:"+end, nil)

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{
			report.FormatDate(rec.Date),
			rec.Student.NIS,
			rec.Student.Name,
			rec.ClassName(),
			rec.Status.Label(),
			rec.NoteOrDash(),
		})
	}
	for r, row := range rows {
		for c, val := range row {
			cell := fmt.Sprintf("%s%d", colName(c+1), r+2)
			if err := f.SetCellStr(historySheet, cell, val); err != nil {
				return nil, fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
	}

	// width heuristic: header length and the first rows
	for c := 1; c <= len(historyHeader); c++ {
		maxim := len(historyHeader[c-1])
		for r := 0; r < minim(50, len(rows)); r++ {
			if l := len(rows[r][c-1]); l > maxim {
				maxim = l
			}
		}
		w := float64(maxim) * 0.9
		if w < 12 {
			w = 12
		}
		if w > 40 {
			w = 40
		}
		_ = f.SetColWidth(historySheet, colName(c), colName(c), w)
	}
	return &HistoryWorkbook{File: f}, nil
}

// Bytes serializes the workbook for sending as a document.
func (w *HistoryWorkbook) Bytes() ([]byte, error) {
	buf, err := w.File.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// Filename returns a date-stamped download name.
func (w *HistoryWorkbook) Filename(now time.Time) string {
	return fmt.Sprintf("riwayat-absensi_%s.xlsx", now.Format("2006-01-02"))
}

func colName(n int) string {
	s := ""
	for n > 0 {
		n--
		s = string(rune('A'+(n%26))) + s
		n /= 26
	}
	return s
}

func minim(a, b int) int {
	if a < b {
		return a
	}
	return b
}
