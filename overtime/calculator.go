// Package overtime holds the payroll rules for overtime shifts: turning a
// (start, end, lunch) triple into hours and value, and validating a shift
// before it is stored.
package overtime

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
)

const (
	minutesPerDay = 24 * 60

	// LunchBreakHours is deducted from the shift when the lunch flag is set.
	LunchBreakHours = 1.0

	// DefaultHourlyRate is used when no rate has been configured.
	DefaultHourlyRate = 15.57
)

var clockPattern = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)

// Calculation holds the derived figures of a shift, rounded to 2 decimals.
type Calculation struct {
	TotalHours    float64 `json:"total_hours"`
	NetHours      float64 `json:"net_hours"`
	TotalValue    float64 `json:"total_value"`
	LunchDiscount bool    `json:"lunch_discount"`
	HourlyRate    float64 `json:"hourly_rate"`
}

// Calculate derives total hours, net hours and value for a shift.
//
// It returns nil when either time is empty or not a HH:MM clock value: the
// figures are simply not computable yet. An end time earlier than the start
// time is read as a shift crossing midnight. Zero or negative results are
// returned as-is; rejecting them is the validator's job.
func Calculate(startTime, endTime string, lunchDiscount bool, hourlyRate float64) *Calculation {
	if startTime == "" || endTime == "" {
		return nil
	}

	start, err := ParseClock(startTime)
	if err != nil {
		return nil
	}
	end, err := ParseClock(endTime)
	if err != nil {
		return nil
	}

	totalHours := float64(ElapsedMinutes(start, end)) / 60
	netHours := totalHours
	if lunchDiscount {
		netHours -= LunchBreakHours
	}

	return &Calculation{
		TotalHours:    Round2(totalHours),
		NetHours:      Round2(netHours),
		TotalValue:    Round2(netHours * hourlyRate),
		LunchDiscount: lunchDiscount,
		HourlyRate:    hourlyRate,
	}
}

// ParseClock converts a 24-hour "HH:MM" string into minutes since midnight.
func ParseClock(s string) (int, error) {
	m := clockPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("parse clock %q: want HH:MM", s)
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	return hour*60 + minute, nil
}

// IsClock reports whether s is a valid 24-hour "HH:MM" value.
func IsClock(s string) bool {
	return clockPattern.MatchString(s)
}

// ElapsedMinutes returns the minutes from start to end modulo one day.
func ElapsedMinutes(start, end int) int {
	delta := end - start
	if delta < 0 {
		delta += minutesPerDay
	}
	return delta
}

// Round2 rounds half up to 2 decimal places.
func Round2(x float64) float64 {
	return math.Floor(x*100+0.5) / 100
}
