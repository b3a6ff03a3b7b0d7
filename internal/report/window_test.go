package report

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDayWindow(t *testing.T) {
	at := time.Date(2026, time.August, 31, 15, 42, 7, 0, time.UTC)
	start, end := DayWindow(at)

	if !start.Equal(date(2026, time.August, 31)) {
		t.Errorf("start = %v", start)
	}
	if !end.Equal(date(2026, time.September, 1)) {
		t.Errorf("end = %v", end)
	}
}

func TestWeekWindow(t *testing.T) {
	tests := []struct {
		name      string
		now       time.Time
		wantStart time.Time
	}{
		{"monday", date(2026, time.August, 31), date(2026, time.August, 31)},
		{"midweek", time.Date(2026, time.September, 2, 10, 0, 0, 0, time.UTC), date(2026, time.August, 31)},
		{"sunday belongs to the ending week", date(2026, time.September, 6), date(2026, time.August, 31)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := WeekWindow(tt.now)
			if !start.Equal(tt.wantStart) {
				t.Errorf("start = %v, want %v", start, tt.wantStart)
			}
			if !end.Equal(tt.wantStart.AddDate(0, 0, 7)) {
				t.Errorf("end = %v", end)
			}
		})
	}
}

func TestMonthWindow(t *testing.T) {
	start, end := MonthWindow(time.Date(2026, time.August, 31, 23, 59, 0, 0, time.UTC))
	if !start.Equal(date(2026, time.August, 1)) || !end.Equal(date(2026, time.September, 1)) {
		t.Errorf("august window = [%v, %v)", start, end)
	}

	// December rolls the year over
	start, end = MonthWindow(date(2026, time.December, 15))
	if !start.Equal(date(2026, time.December, 1)) || !end.Equal(date(2027, time.January, 1)) {
		t.Errorf("december window = [%v, %v)", start, end)
	}
}

func TestLastDaysWindow(t *testing.T) {
	now := date(2026, time.August, 31)
	start, end := LastDaysWindow(now, 30)
	if !start.Equal(date(2026, time.August, 1)) {
		t.Errorf("start = %v", start)
	}
	if !end.Equal(now) {
		t.Errorf("end = %v", end)
	}
}
