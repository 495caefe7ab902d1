package store

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"jbovertime/models"
)

func TestSummarize(t *testing.T) {
	ana := &models.User{ID: uuid.New(), FullName: "Ana"}
	bruno := &models.User{ID: uuid.New(), FullName: "Bruno"}

	day := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
	records := []models.OvertimeRecord{
		{UserID: ana.ID, User: ana, Date: day(2026, 10, 2), TotalHours: 3, NetHours: 2, TotalValue: 31.14, LunchDiscount: true},
		{UserID: bruno.ID, User: bruno, Date: day(2026, 9, 30), TotalHours: 4, NetHours: 4, TotalValue: 62.28},
		{UserID: ana.ID, User: ana, Date: day(2026, 9, 1), TotalHours: 0.5, NetHours: 0.5, TotalValue: 7.79},
	}

	sum := Summarize(records)

	if sum.Records != 3 || sum.LunchDiscounted != 1 {
		t.Fatalf("unexpected counts: %+v", sum)
	}
	if sum.TotalHours != 7.5 || sum.NetHours != 6.5 || sum.TotalValue != 101.21 {
		t.Fatalf("unexpected totals: %+v", sum)
	}

	if len(sum.ByEmployee) != 2 {
		t.Fatalf("expected 2 employees, got %d", len(sum.ByEmployee))
	}
	if sum.ByEmployee[0].Name != "Bruno" || sum.ByEmployee[0].TotalValue != 62.28 {
		t.Fatalf("expected Bruno first by value, got %+v", sum.ByEmployee[0])
	}
	if sum.ByEmployee[1].Records != 2 || sum.ByEmployee[1].TotalValue != 38.93 {
		t.Fatalf("unexpected Ana summary: %+v", sum.ByEmployee[1])
	}

	if len(sum.ByMonth) != 2 || sum.ByMonth[0].Month != "2026-09" || sum.ByMonth[1].Month != "2026-10" {
		t.Fatalf("expected chronological months, got %+v", sum.ByMonth)
	}
	if sum.ByMonth[0].Records != 2 || sum.ByMonth[0].NetHours != 4.5 {
		t.Fatalf("unexpected september summary: %+v", sum.ByMonth[0])
	}
}

func TestSummarize_Empty(t *testing.T) {
	sum := Summarize(nil)
	if sum.Records != 0 || sum.TotalValue != 0 {
		t.Fatalf("expected zero summary, got %+v", sum)
	}
	if sum.ByEmployee == nil || sum.ByMonth == nil {
		t.Fatalf("breakdowns should be empty slices for JSON")
	}
}
