// Package report is the read-side aggregation layer: report window
// resolution, percentage math over ledger aggregates and search query
// parsing. Everything here is pure computation over storage results.
package report

import "time"

// DayWindow resolves the [midnight, midnight+24h) window containing d.
func DayWindow(d time.Time) (start, end time.Time) {
	start = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
	return start, start.AddDate(0, 0, 1)
}

// WeekWindow resolves the ISO week containing now: Monday 00:00 through the
// following Monday 00:00.
func WeekWindow(now time.Time) (start, end time.Time) {
	days := int(now.Weekday()) - int(time.Monday)
	if days < 0 {
		days += 7 // Sunday
	}
	monday := now.AddDate(0, 0, -days)
	start = time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 0, 7)
}

// MonthWindow resolves the calendar month containing now: first of the
// month 00:00 through the first of the next month, rolling the year over
// after December.
func MonthWindow(now time.Time) (start, end time.Time) {
	start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	if now.Month() == time.December {
		end = time.Date(now.Year()+1, time.January, 1, 0, 0, 0, 0, now.Location())
	} else {
		end = time.Date(now.Year(), now.Month()+1, 1, 0, 0, 0, 0, now.Location())
	}
	return start, end
}

// LastDaysWindow resolves [now-days, now), used by the daily spending series.
func LastDaysWindow(now time.Time, days int) (start, end time.Time) {
	return now.AddDate(0, 0, -days), now
}
