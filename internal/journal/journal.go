// Package journal maintains the per-user plain-text mirror of the ledger:
// one append-only file per user under a shared directory. The mirror is
// advisory; the SQLite ledger stays the source of truth.
package journal

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"finbot/internal/render"
)

const maxFilenameLen = 50

var (
	unsafeChars  = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)
	underscoreRe = regexp.MustCompile(`_+`)
)

// SanitizeFilename turns a display name into a safe journal file stem.
// Only letters, digits, hyphens and underscores survive; whitespace
// becomes a single underscore. Empty input falls back to "anonymous",
// input that sanitizes to nothing falls back to "user".
func SanitizeFilename(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "anonymous"
	}
	safe := unsafeChars.ReplaceAllString(name, "")
	safe = strings.ReplaceAll(safe, " ", "_")
	safe = underscoreRe.ReplaceAllString(safe, "_")
	if runes := []rune(safe); len(runes) > maxFilenameLen {
		safe = string(runes[:maxFilenameLen])
	}
	safe = strings.Trim(safe, "_")
	if safe == "" {
		return "user"
	}
	return safe
}

// Journal appends ledger lines and daily reports to per-user text files.
type Journal struct {
	dir string
}

func New(dir string) (*Journal, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create journal directory: %w", err)
	}
	return &Journal{dir: dir}, nil
}

func (j *Journal) filePath(userName string) string {
	return filepath.Join(j.dir, SanitizeFilename(userName)+".txt")
}

// EnsureHeader creates the user's journal file with its title header when
// it does not exist yet. Existing files are left untouched.
func (j *Journal) EnsureHeader(userName string) error {
	path := j.filePath(userName)
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat journal file: %w", err)
	}

	header := fmt.Sprintf("# 📒 Финансовый дневник — %s\n\n", userName)
	if err := os.WriteFile(path, []byte(header), 0644); err != nil {
		return fmt.Errorf("write journal header: %w", err)
	}
	return nil
}

// AppendLine appends one transaction line to the user's journal.
func (j *Journal) AppendLine(userName, line string) error {
	f, err := os.OpenFile(j.filePath(userName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open journal file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("append journal line: %w", err)
	}
	return nil
}

// AppendDailyReport appends one day's report, skipping empty reports and
// days already mirrored. Dedup scans the file for the report's date
// marker, so each calendar day lands at most once.
func (j *Journal) AppendDailyReport(userName string, reportDate time.Time, reportText string) error {
	if strings.Contains(reportText, render.NoOperationsMarker) {
		return nil
	}

	path := j.filePath(userName)
	marker := "📅 " + reportDate.Format("02.01.2006")

	content, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("read journal file: %w", err)
	}
	if strings.Contains(string(content), marker) {
		return nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open journal file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString("\n" + reportText + "\n"); err != nil {
		return fmt.Errorf("append daily report: %w", err)
	}
	return nil
}
