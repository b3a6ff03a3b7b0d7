package journal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"finbot/internal/render"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Ivan", "Ivan"},
		{"cyrillic", "Иван Петров", "Иван_Петров"},
		{"strips punctuation", "a/b\\c:d", "abcd"},
		{"collapses underscores", "a  b__c", "a_b_c"},
		{"keeps hyphen", "anna-maria", "anna-maria"},
		{"empty falls back", "   ", "anonymous"},
		{"symbols only fall back", "///???", "user"},
		{"trims leading underscore", " _Ivan_ ", "Ivan"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFilename(tt.input); got != tt.want {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeFilenameTruncates(t *testing.T) {
	got := SanitizeFilename(strings.Repeat("я", 80))
	if len([]rune(got)) != maxFilenameLen {
		t.Errorf("len = %d, want %d", len([]rune(got)), maxFilenameLen)
	}
}

func TestEnsureHeader(t *testing.T) {
	j, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if err := j.EnsureHeader("Иван"); err != nil {
		t.Fatal(err)
	}
	if err := j.AppendLine("Иван", "first line"); err != nil {
		t.Fatal(err)
	}
	// second call must not rewrite the file
	if err := j.EnsureHeader("Иван"); err != nil {
		t.Fatal(err)
	}

	content, err := os.ReadFile(filepath.Join(j.dir, "Иван.txt"))
	if err != nil {
		t.Fatal(err)
	}
	got := string(content)
	if !strings.HasPrefix(got, "# 📒 Финансовый дневник — Иван\n\n") {
		t.Errorf("header missing:\n%s", got)
	}
	if !strings.Contains(got, "first line\n") {
		t.Errorf("appended line lost:\n%s", got)
	}
}

func TestAppendDailyReportDedup(t *testing.T) {
	j, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	day := time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC)
	report := "📅 31.08.2026 (Пн)\n  💸 Расход: 500 ₽"

	if err := j.AppendDailyReport("Иван", day, report); err != nil {
		t.Fatal(err)
	}
	if err := j.AppendDailyReport("Иван", day, report); err != nil {
		t.Fatal(err)
	}

	content, err := os.ReadFile(filepath.Join(j.dir, "Иван.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(string(content), "📅 31.08.2026"); got != 1 {
		t.Errorf("report mirrored %d times, want 1:\n%s", got, content)
	}
}

func TestAppendDailyReportSkipsEmpty(t *testing.T) {
	j, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	day := time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC)
	if err := j.AppendDailyReport("Иван", day, "Сегодня "+render.NoOperationsMarker+"."); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(filepath.Join(j.dir, "Иван.txt")); !os.IsNotExist(err) {
		t.Errorf("empty report must not create a journal file")
	}
}
