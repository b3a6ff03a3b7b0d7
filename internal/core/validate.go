// Package core holds the domain model and input validation shared by the
// bot surface, the storage layer and the journal worker.
package core

import (
	"strconv"
	"strings"
	"time"
)

// Transaction amount bounds. Config may narrow them but never widen.
const (
	MinTransactionAmount = 0.01
	MaxTransactionAmount = 10_000_000.0
)

// ParseAmount parses a user-typed amount. It accepts both comma and dot
// decimal separators and enforces the [min, max] bounds inclusively.
//
// Examples:
//
//	ParseAmount("500", 0.01, 1e7)     -> 500, nil
//	ParseAmount("1500,50", 0.01, 1e7) -> 1500.5, nil
//	ParseAmount("0", 0.01, 1e7)       -> 0, ErrInvalidAmount
func ParseAmount(s string, min, max float64) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if v < min || v > max {
		return 0, ErrInvalidAmount
	}
	return v, nil
}

// ValidateName checks a display name: non-empty after trimming, at most 50
// characters, no embedded links.
func ValidateName(s string) error {
	s = strings.TrimSpace(s)
	if s == "" || len([]rune(s)) > 50 {
		return ErrInvalidName
	}
	if strings.Contains(s, "http://") || strings.Contains(s, "https://") {
		return ErrInvalidName
	}
	return nil
}

// ParseDate parses a DD.MM.YYYY date in the given location.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation("02.01.2006", s, loc)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}
