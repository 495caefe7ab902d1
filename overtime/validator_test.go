package overtime

import (
	"errors"
	"testing"
	"time"
)

var fixedNow = time.Date(2026, 10, 19, 15, 30, 0, 0, time.UTC)

func newTestValidator(sameDayOnly bool) *Validator {
	return NewValidator(ValidatorOptions{
		Now:         func() time.Time { return fixedNow },
		Location:    time.UTC,
		SameDayOnly: sameDayOnly,
	})
}

func TestValidator_Check_Success(t *testing.T) {
	v := newTestValidator(false)

	res, err := v.Check(Input{Date: " 2026-10-18 ", StartTime: "08:00", EndTime: "18:00", LunchDiscount: true}, testRate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Date.Equal(time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected date: %v", res.Date)
	}
	if res.Calculation.NetHours != 9 || res.Calculation.TotalValue != 140.13 {
		t.Fatalf("unexpected calculation: %+v", res.Calculation)
	}
}

func TestValidator_TodayIsAllowed(t *testing.T) {
	v := newTestValidator(false)
	if _, err := v.Check(Input{Date: "2026-10-19", StartTime: "08:00", EndTime: "09:00"}, testRate); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidator_Failures(t *testing.T) {
	cases := []struct {
		name  string
		in    Input
		want  error
		field string
	}{
		{"missing date", Input{StartTime: "08:00", EndTime: "09:00"}, ErrMissingField, "date"},
		{"blank start", Input{Date: "2026-10-01", StartTime: "   ", EndTime: "09:00"}, ErrMissingField, "start_time"},
		{"missing end", Input{Date: "2026-10-01", StartTime: "08:00"}, ErrMissingField, "end_time"},
		{"bad date format", Input{Date: "01/10/2026", StartTime: "08:00", EndTime: "09:00"}, ErrInvalidDate, "date"},
		{"unreal date", Input{Date: "2026-02-30", StartTime: "08:00", EndTime: "09:00"}, ErrInvalidDate, "date"},
		{"bad start", Input{Date: "2026-10-01", StartTime: "25:00", EndTime: "09:00"}, ErrInvalidTime, "start_time"},
		{"bad end", Input{Date: "2026-10-01", StartTime: "08:00", EndTime: "9:00"}, ErrInvalidTime, "end_time"},
		{"future date", Input{Date: "2026-10-20", StartTime: "08:00", EndTime: "17:00"}, ErrFutureDate, "date"},
		{"zero length", Input{Date: "2026-10-01", StartTime: "00:00", EndTime: "00:00"}, ErrInvalidTimeRange, "end_time"},
		{"lunch eats shift", Input{Date: "2026-10-01", StartTime: "08:00", EndTime: "09:00", LunchDiscount: true}, ErrNonPositiveHours, "end_time"},
	}

	v := newTestValidator(false)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := v.Check(tc.in, testRate)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if ve.Field != tc.field {
				t.Fatalf("expected field %q, got %q", tc.field, ve.Field)
			}
			if ve.Message == "" {
				t.Fatalf("expected a message")
			}
		})
	}
}

func TestValidator_ChecksInOrder(t *testing.T) {
	v := newTestValidator(false)
	// future date and bad clock: the clock format is checked first
	_, err := v.Check(Input{Date: "2030-01-01", StartTime: "99:99", EndTime: "08:00"}, testRate)
	if !errors.Is(err, ErrInvalidTime) {
		t.Fatalf("expected ErrInvalidTime, got %v", err)
	}
}

func TestValidator_Overnight(t *testing.T) {
	res, err := newTestValidator(false).Check(Input{Date: "2026-10-18", StartTime: "23:00", EndTime: "01:00"}, testRate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Calculation.TotalHours != 2 {
		t.Fatalf("expected 2 hours, got %v", res.Calculation.TotalHours)
	}

	_, err = newTestValidator(true).Check(Input{Date: "2026-10-18", StartTime: "23:00", EndTime: "01:00"}, testRate)
	if !errors.Is(err, ErrInvalidTimeRange) {
		t.Fatalf("expected ErrInvalidTimeRange in same-day mode, got %v", err)
	}
}

func TestValidator_NilCalculation(t *testing.T) {
	v := newTestValidator(false)
	_, err := v.Validate(Input{Date: "2026-10-18", StartTime: "08:00", EndTime: "10:00"}, nil)
	if !errors.Is(err, ErrNonPositiveHours) {
		t.Fatalf("expected ErrNonPositiveHours, got %v", err)
	}
}

func TestValidator_FutureDateUsesLocation(t *testing.T) {
	// 01:00 UTC on the 20th is still the 19th in São Paulo.
	loc := time.FixedZone("BRT", -3*60*60)
	v := NewValidator(ValidatorOptions{
		Now:      func() time.Time { return time.Date(2026, 10, 20, 1, 0, 0, 0, time.UTC) },
		Location: loc,
	})
	_, err := v.Check(Input{Date: "2026-10-20", StartTime: "08:00", EndTime: "10:00"}, testRate)
	if !errors.Is(err, ErrFutureDate) {
		t.Fatalf("expected ErrFutureDate, got %v", err)
	}
}

func TestReason(t *testing.T) {
	err := newValidationError(ErrFutureDate, "date", "x")
	if got := Reason(err); got != "future_date" {
		t.Fatalf("expected future_date, got %s", got)
	}
	if got := Reason(errors.New("boom")); got != "unknown" {
		t.Fatalf("expected unknown, got %s", got)
	}
}
