// Package timefmt renders the date and time strings used by the infraction
// log and the evidence store. The log's Date column holds Indonesian
// long-form dates; existing rows were written in that format and the
// duplicate guard compares date strings, so the format must not change.
package timefmt

import (
	"fmt"
	"strings"
	"time"
)

var monthNames = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// Date formats a local date as e.g. "28 Januari 2026".
func Date(t time.Time) string {
	return fmt.Sprintf("%d %s %d", t.Day(), monthNames[t.Month()-1], t.Year())
}

// Clock formats the time of day as "08:30".
func Clock(t time.Time) string {
	return t.Format("15:04")
}

// DateTime formats a full local timestamp as "28 Januari 2026, 08:30".
func DateTime(t time.Time) string {
	return fmt.Sprintf("%s, %s", Date(t), Clock(t))
}

// FolderName names the evidence folder for a calendar day: "2026-01-28".
func FolderName(t time.Time) string {
	return t.Format("2006-01-02")
}

// Stamp builds the compact timestamp used in evidence file names.
func Stamp(t time.Time) string {
	return t.Format("20060102_150405")
}

// SanitizeFilename replaces characters that are invalid in file names.
func SanitizeFilename(raw string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '<', '>', ':', '"', '/', '\\', '|', '?', '*':
			return '_'
		default:
			return r
		}
	}, raw)
}

// EvidenceFileName builds "<class>_<nis>_<YYYYMMDD_HHMMSS>.jpg".
func EvidenceFileName(classLabel, nis string, t time.Time) string {
	return fmt.Sprintf("%s_%s_%s.jpg", SanitizeFilename(classLabel), nis, Stamp(t))
}

// ClockHour parses the hour out of a "HH:MM" string. Returns false when the
// value does not look like a time of day.
func ClockHour(clock string) (int, bool) {
	parts := strings.SplitN(clock, ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	var hour int
	if _, err := fmt.Sscanf(parts[0], "%d", &hour); err != nil {
		return 0, false
	}
	if hour < 0 || hour > 23 {
		return 0, false
	}
	return hour, true
}
