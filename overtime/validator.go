package overtime

import (
	"time"

	"github.com/go-playground/validator/v10"
)

const dateLayout = "2006-01-02"

// Input is a shift as submitted by an employee, before sanitization.
type Input struct {
	Date          string
	StartTime     string
	EndTime       string
	LunchDiscount bool
}

// Result is a validated shift: sanitized clock values, the calendar date at
// UTC midnight and the figures to persist.
type Result struct {
	Date          time.Time
	StartTime     string
	EndTime       string
	LunchDiscount bool
	Calculation   Calculation
}

// ValidatorOptions configures a Validator. Zero values fall back to the
// system clock, the local time zone and overnight shifts allowed.
type ValidatorOptions struct {
	Now      func() time.Time
	Location *time.Location
	// SameDayOnly rejects shifts whose end time is not after the start time
	// on the same day instead of reading them as crossing midnight.
	SameDayOnly bool
}

// Validator checks shifts before they reach the record store.
type Validator struct {
	now         func() time.Time
	location    *time.Location
	sameDayOnly bool
	rules       *validator.Validate
}

func NewValidator(opts ValidatorOptions) *Validator {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}

	rules := validator.New()
	if err := RegisterValidations(rules); err != nil {
		panic(err)
	}

	return &Validator{
		now:         now,
		location:    loc,
		sameDayOnly: opts.SameDayOnly,
		rules:       rules,
	}
}

// RegisterValidations adds the "clock" tag (24-hour HH:MM) to v.
func RegisterValidations(v *validator.Validate) error {
	return v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		return IsClock(fl.Field().String())
	})
}

// Check sanitizes in, computes its figures at hourlyRate and validates them.
func (v *Validator) Check(in Input, hourlyRate float64) (*Result, error) {
	in = sanitizeInput(in)
	calc := Calculate(in.StartTime, in.EndTime, in.LunchDiscount, hourlyRate)
	return v.Validate(in, calc)
}

// Validate runs the shift checks in order and stops at the first failure:
// required fields, date format, clock format, future date, time range and
// finally positive net hours.
func (v *Validator) Validate(in Input, calc *Calculation) (*Result, error) {
	in = sanitizeInput(in)

	for _, f := range []struct{ name, value, label string }{
		{"date", in.Date, "data"},
		{"start_time", in.StartTime, "hora de início"},
		{"end_time", in.EndTime, "hora de término"},
	} {
		if v.rules.Var(f.value, "required") != nil {
			return nil, newValidationError(ErrMissingField, f.name, "Campo obrigatório: "+f.label)
		}
	}

	if v.rules.Var(in.Date, "datetime="+dateLayout) != nil {
		return nil, newValidationError(ErrInvalidDate, "date", "Data inválida: use o formato AAAA-MM-DD")
	}
	date, err := time.ParseInLocation(dateLayout, in.Date, v.location)
	if err != nil {
		return nil, newValidationError(ErrInvalidDate, "date", "Data inválida: use o formato AAAA-MM-DD")
	}

	if v.rules.Var(in.StartTime, "clock") != nil {
		return nil, newValidationError(ErrInvalidTime, "start_time", "Hora de início inválida: use o formato HH:MM")
	}
	if v.rules.Var(in.EndTime, "clock") != nil {
		return nil, newValidationError(ErrInvalidTime, "end_time", "Hora de término inválida: use o formato HH:MM")
	}

	if date.After(v.today()) {
		return nil, newValidationError(ErrFutureDate, "date", "Não é permitido registrar horas extras em datas futuras")
	}

	start, _ := ParseClock(in.StartTime)
	end, _ := ParseClock(in.EndTime)
	if start == end || (v.sameDayOnly && start > end) {
		return nil, newValidationError(ErrInvalidTimeRange, "end_time", "A hora de término deve ser posterior à hora de início")
	}

	if calc == nil || calc.NetHours <= 0 || calc.TotalValue <= 0 {
		return nil, newValidationError(ErrNonPositiveHours, "end_time", "O total de horas líquidas deve ser maior que zero")
	}

	return &Result{
		Date:          time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC),
		StartTime:     in.StartTime,
		EndTime:       in.EndTime,
		LunchDiscount: in.LunchDiscount,
		Calculation:   *calc,
	}, nil
}

func (v *Validator) today() time.Time {
	now := v.now().In(v.location)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, v.location)
}

func sanitizeInput(in Input) Input {
	in.Date = SanitizeString(in.Date)
	in.StartTime = SanitizeString(in.StartTime)
	in.EndTime = SanitizeString(in.EndTime)
	return in
}
