// Package export renders overtime records as CSV and XLSX spreadsheets.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"jbovertime/models"
)

const (
	dateLayout = "02/01/2006"
	sheetName  = "Horas Extras"
)

// Options controls the column layout. WithEmployee prepends the owner's name,
// used by the admin export.
type Options struct {
	WithEmployee bool
}

func header(opts Options) []string {
	cols := []string{"Date", "Period", "Total Hours", "Lunch Discount", "Net Hours", "Value"}
	if opts.WithEmployee {
		cols = append([]string{"Employee"}, cols...)
	}
	return cols
}

// safeCell keeps spreadsheet applications from reading text as a formula.
func safeCell(s string) string {
	if s != "" && strings.ContainsRune("=+-@\t\r", rune(s[0])) {
		return "'" + s
	}
	return s
}

func row(rec models.OvertimeRecord, opts Options) []string {
	lunch := "Não"
	if rec.LunchDiscount {
		lunch = "Sim"
	}
	cols := []string{
		rec.Date.UTC().Format(dateLayout),
		rec.Period(),
		fmt.Sprintf("%.2f", rec.TotalHours),
		lunch,
		fmt.Sprintf("%.2f", rec.NetHours),
		fmt.Sprintf("%.2f", rec.TotalValue),
	}
	if opts.WithEmployee {
		name := ""
		if rec.User != nil {
			name = rec.User.DisplayName()
		}
		cols = append([]string{name}, cols...)
	}
	for i := range cols {
		cols[i] = safeCell(cols[i])
	}
	return cols
}

// WriteCSV writes one header line and one line per record.
func WriteCSV(w io.Writer, records []models.OvertimeRecord, opts Options) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(header(opts)); err != nil {
		return err
	}
	for _, rec := range records {
		if err := writer.Write(row(rec, opts)); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteXLSX writes the same rows as WriteCSV into a single-sheet workbook.
// Numeric columns are stored as numbers.
func WriteXLSX(w io.Writer, records []models.OvertimeRecord, opts Options) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	head := header(opts)
	if err := setRow(f, 1, toCells(head)); err != nil {
		return err
	}

	for i, rec := range records {
		cells := toCells(row(rec, opts))
		offset := len(cells) - 6
		cells[offset+2] = rec.TotalHours
		cells[offset+4] = rec.NetHours
		cells[offset+5] = rec.TotalValue
		if err := setRow(f, i+2, cells); err != nil {
			return err
		}
	}

	if err := f.SetPanes(sheetName, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, n int, cells []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheetName, cell, &cells); err != nil {
		return fmt.Errorf("write row %d: %w", n, err)
	}
	return nil
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}
