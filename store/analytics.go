package store

import (
	"sort"

	"github.com/google/uuid"

	"jbovertime/models"
	"jbovertime/overtime"
)

// Summary aggregates a set of records for the dashboard.
type Summary struct {
	Records         int               `json:"records"`
	TotalHours      float64           `json:"total_hours"`
	NetHours        float64           `json:"net_hours"`
	TotalValue      float64           `json:"total_value"`
	LunchDiscounted int               `json:"lunch_discounted"`
	ByEmployee      []EmployeeSummary `json:"by_employee"`
	ByMonth         []MonthSummary    `json:"by_month"`
}

type EmployeeSummary struct {
	UserID     uuid.UUID `json:"user_id"`
	Name       string    `json:"name"`
	Records    int       `json:"records"`
	NetHours   float64   `json:"net_hours"`
	TotalValue float64   `json:"total_value"`
}

type MonthSummary struct {
	Month      string  `json:"month"` // YYYY-MM
	Records    int     `json:"records"`
	NetHours   float64 `json:"net_hours"`
	TotalValue float64 `json:"total_value"`
}

// Summarize totals records per employee (by value, highest first) and per
// month (chronological). Sums are rounded to two decimals once, at the end.
func Summarize(records []models.OvertimeRecord) Summary {
	sum := Summary{ByEmployee: []EmployeeSummary{}, ByMonth: []MonthSummary{}}

	employees := make(map[uuid.UUID]*EmployeeSummary)
	months := make(map[string]*MonthSummary)

	for _, rec := range records {
		sum.Records++
		sum.TotalHours += rec.TotalHours
		sum.NetHours += rec.NetHours
		sum.TotalValue += rec.TotalValue
		if rec.LunchDiscount {
			sum.LunchDiscounted++
		}

		emp, ok := employees[rec.UserID]
		if !ok {
			emp = &EmployeeSummary{UserID: rec.UserID}
			if rec.User != nil {
				emp.Name = rec.User.DisplayName()
			}
			employees[rec.UserID] = emp
		}
		emp.Records++
		emp.NetHours += rec.NetHours
		emp.TotalValue += rec.TotalValue

		key := rec.Date.Format("2006-01")
		month, ok := months[key]
		if !ok {
			month = &MonthSummary{Month: key}
			months[key] = month
		}
		month.Records++
		month.NetHours += rec.NetHours
		month.TotalValue += rec.TotalValue
	}

	sum.TotalHours = overtime.Round2(sum.TotalHours)
	sum.NetHours = overtime.Round2(sum.NetHours)
	sum.TotalValue = overtime.Round2(sum.TotalValue)

	for _, emp := range employees {
		emp.NetHours = overtime.Round2(emp.NetHours)
		emp.TotalValue = overtime.Round2(emp.TotalValue)
		sum.ByEmployee = append(sum.ByEmployee, *emp)
	}
	sort.Slice(sum.ByEmployee, func(i, j int) bool {
		a, b := sum.ByEmployee[i], sum.ByEmployee[j]
		if a.TotalValue != b.TotalValue {
			return a.TotalValue > b.TotalValue
		}
		return a.Name < b.Name
	})

	for _, month := range months {
		month.NetHours = overtime.Round2(month.NetHours)
		month.TotalValue = overtime.Round2(month.TotalValue)
		sum.ByMonth = append(sum.ByMonth, *month)
	}
	sort.Slice(sum.ByMonth, func(i, j int) bool {
		return sum.ByMonth[i].Month < sum.ByMonth[j].Month
	})

	return sum
}
