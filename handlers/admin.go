package handlers

import (
	"net/http"

	"jbovertime/export"
	"jbovertime/middleware"
	"jbovertime/models"
	"jbovertime/store"
)

// AdminHandler serves the administrative views over every employee.
type AdminHandler struct {
	records  *store.Records
	users    *store.Users
	settings *store.Settings
}

func NewAdminHandler(records *store.Records, users *store.Users, settings *store.Settings) *AdminHandler {
	return &AdminHandler{
		records:  records,
		users:    users,
		settings: settings,
	}
}

type hourlyRateRequest struct {
	HourlyRate float64 `json:"hourly_rate" validate:"gt=0"`
}

type hourlyRateResponse struct {
	HourlyRate float64 `json:"hourly_rate"`
}

// Records lists every employee's records, optionally filtered by user_id,
// month and year.
func (h *AdminHandler) Records(w http.ResponseWriter, r *http.Request) {
	records, err := h.allRecords(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"records": records})
}

func (h *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}

func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	records, err := h.allRecords(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, store.Summarize(records))
}

func (h *AdminHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, formatCSV)
}

func (h *AdminHandler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, formatXLSX)
}

func (h *AdminHandler) export(w http.ResponseWriter, r *http.Request, format exportFormat) {
	records, err := h.allRecords(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeExport(w, r, format, records, export.Options{WithEmployee: true})
}

// HourlyRate is readable by every authenticated user so the entry form can
// show the value before submitting.
func (h *AdminHandler) HourlyRate(w http.ResponseWriter, r *http.Request) {
	rate, err := h.settings.HourlyRate(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, hourlyRateResponse{HourlyRate: rate})
}

// SetHourlyRate changes the rate for new records. Existing records keep the
// rate they were created with.
func (h *AdminHandler) SetHourlyRate(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	var req hourlyRateRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.settings.SetHourlyRate(r.Context(), req.HourlyRate, user.ID); err != nil {
		writeError(w, r, err)
		return
	}

	h.HourlyRate(w, r)
}

func (h *AdminHandler) allRecords(r *http.Request) ([]models.OvertimeRecord, error) {
	return h.records.List(r.Context(), middleware.GetUserFromContext(r.Context()), filterFromQuery(r))
}
