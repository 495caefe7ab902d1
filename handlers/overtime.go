package handlers

import (
	"net/http"

	"jbovertime/export"
	"jbovertime/metrics"
	"jbovertime/middleware"
	"jbovertime/models"
	"jbovertime/overtime"
	"jbovertime/store"
)

type OvertimeHandler struct {
	records   *store.Records
	settings  *store.Settings
	validator *overtime.Validator
}

func NewOvertimeHandler(records *store.Records, settings *store.Settings, validator *overtime.Validator) *OvertimeHandler {
	return &OvertimeHandler{
		records:   records,
		settings:  settings,
		validator: validator,
	}
}

type overtimeRequest struct {
	Date          string `json:"date"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	LunchDiscount bool   `json:"lunch_discount"`
}

func (req overtimeRequest) input() overtime.Input {
	return overtime.Input{
		Date:          req.Date,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		LunchDiscount: req.LunchDiscount,
	}
}

type calculateRequest struct {
	StartTime     string `json:"start_time" validate:"required,clock"`
	EndTime       string `json:"end_time" validate:"required,clock"`
	LunchDiscount bool   `json:"lunch_discount"`
}

func applyResult(rec *models.OvertimeRecord, res *overtime.Result) {
	rec.Date = res.Date
	rec.StartTime = res.StartTime
	rec.EndTime = res.EndTime
	rec.LunchDiscount = res.LunchDiscount
	rec.TotalHours = res.Calculation.TotalHours
	rec.NetHours = res.Calculation.NetHours
	rec.HourlyRate = res.Calculation.HourlyRate
	rec.TotalValue = res.Calculation.TotalValue
}

// Calculate previews the figures of a shift at the current hourly rate
// without storing anything.
func (h *OvertimeHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req calculateRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	rate, err := h.settings.HourlyRate(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	calc := overtime.Calculate(req.StartTime, req.EndTime, req.LunchDiscount, rate)
	writeJSON(w, http.StatusOK, calc)
}

// List returns the caller's own records, newest first.
func (h *OvertimeHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.ownRecords(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"records": records})
}

// Create stores a shift for the caller, snapshotting the current rate.
func (h *OvertimeHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	var req overtimeRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	rate, err := h.settings.HourlyRate(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.validator.Check(req.input(), rate)
	if err != nil {
		writeError(w, r, err)
		return
	}

	rec := &models.OvertimeRecord{UserID: user.ID}
	applyResult(rec, res)
	if err := h.records.Create(r.Context(), rec); err != nil {
		writeError(w, r, err)
		return
	}

	metrics.RecordsTotal.WithLabelValues("created").Inc()
	writeJSON(w, http.StatusCreated, rec)
}

func (h *OvertimeHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	rec, err := h.records.Get(r.Context(), user, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// Update re-validates the shift and recomputes its figures with the rate
// snapshotted on the record.
func (h *OvertimeHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req overtimeRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	rec, err := h.records.Update(r.Context(), user, id, func(rec *models.OvertimeRecord) error {
		rate := rec.HourlyRate
		if rate <= 0 {
			current, err := h.settings.HourlyRate(r.Context())
			if err != nil {
				return err
			}
			rate = current
		}

		res, err := h.validator.Check(req.input(), rate)
		if err != nil {
			return err
		}
		applyResult(rec, res)
		return nil
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	metrics.RecordsTotal.WithLabelValues("updated").Inc()
	writeJSON(w, http.StatusOK, rec)
}

func (h *OvertimeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.records.Delete(r.Context(), user, id); err != nil {
		writeError(w, r, err)
		return
	}

	metrics.RecordsTotal.WithLabelValues("deleted").Inc()
	w.WriteHeader(http.StatusNoContent)
}

// Summary aggregates the caller's own records.
func (h *OvertimeHandler) Summary(w http.ResponseWriter, r *http.Request) {
	records, err := h.ownRecords(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, store.Summarize(records))
}

func (h *OvertimeHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, formatCSV)
}

func (h *OvertimeHandler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, formatXLSX)
}

func (h *OvertimeHandler) export(w http.ResponseWriter, r *http.Request, format exportFormat) {
	records, err := h.ownRecords(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeExport(w, r, format, records, export.Options{})
}

// ownRecords lists the caller's records. Admins are narrowed to themselves
// too; the admin endpoints cover everyone.
func (h *OvertimeHandler) ownRecords(r *http.Request) ([]models.OvertimeRecord, error) {
	user := middleware.GetUserFromContext(r.Context())
	filter := filterFromQuery(r)
	filter.UserID = &user.ID
	return h.records.List(r.Context(), user, filter)
}
