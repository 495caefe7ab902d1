package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"jbovertime/export"
	"jbovertime/models"
)

type exportFormat string

const (
	formatCSV  exportFormat = "csv"
	formatXLSX exportFormat = "xlsx"
)

var contentTypes = map[exportFormat]string{
	formatCSV:  "text/csv; charset=utf-8",
	formatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// writeExport renders the file into memory first so a failure can still be
// reported as a JSON error.
func writeExport(w http.ResponseWriter, r *http.Request, format exportFormat, records []models.OvertimeRecord, opts export.Options) {
	var buf bytes.Buffer
	var err error
	switch format {
	case formatXLSX:
		err = export.WriteXLSX(&buf, records, opts)
	default:
		err = export.WriteCSV(&buf, records, opts)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	filename := fmt.Sprintf("horas_extras_%s.%s", time.Now().Format("20060102"), format)
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
