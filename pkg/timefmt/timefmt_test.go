package timefmt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDate(t *testing.T) {
	assert.Equal(t, "28 Januari 2026", Date(time.Date(2026, time.January, 28, 10, 30, 0, 0, time.UTC)))
	assert.Equal(t, "5 Mei 2026", Date(time.Date(2026, time.May, 5, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "31 Desember 2025", Date(time.Date(2025, time.December, 31, 23, 59, 0, 0, time.UTC)))
}

func TestClockAndDateTime(t *testing.T) {
	at := time.Date(2026, time.January, 28, 8, 5, 0, 0, time.UTC)
	assert.Equal(t, "08:05", Clock(at))
	assert.Equal(t, "28 Januari 2026, 08:05", DateTime(at))
}

func TestFolderNameAndStamp(t *testing.T) {
	at := time.Date(2026, time.January, 28, 10, 30, 45, 0, time.UTC)
	assert.Equal(t, "2026-01-28", FolderName(at))
	assert.Equal(t, "20260128_103045", Stamp(at))
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "X_1", SanitizeFilename("X/1"))
	assert.Equal(t, "a_b_c_d_e_f_g_h_i", SanitizeFilename(`a<b>c:d"e/f\g|h?i`))
	assert.Equal(t, "XI-4", SanitizeFilename("XI-4"))
}

func TestEvidenceFileName(t *testing.T) {
	at := time.Date(2026, time.January, 28, 10, 30, 45, 0, time.UTC)
	assert.Equal(t, "XI-4_12345_20260128_103045.jpg", EvidenceFileName("XI-4", "12345", at))
	// class labels with separators stay filesystem safe
	assert.Equal(t, "X_1_12345_20260128_103045.jpg", EvidenceFileName("X/1", "12345", at))
}

func TestClockHour(t *testing.T) {
	hour, ok := ClockHour("08:15")
	assert.True(t, ok)
	assert.Equal(t, 8, hour)

	hour, ok = ClockHour("23:59")
	assert.True(t, ok)
	assert.Equal(t, 23, hour)

	_, ok = ClockHour("25:00")
	assert.False(t, ok)
	_, ok = ClockHour("nonsense")
	assert.False(t, ok)
	_, ok = ClockHour("")
	assert.False(t, ok)
}
