package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sman1la/tatib-bot/internal/models"
)

func TestPDFRenderer_Render(t *testing.T) {
	renderer := NewPDFRenderer("SMAN 1 Lamongan", "Jl. Veteran No. 7, Lamongan")
	history := &models.StudentHistory{
		Student: models.Student{NIS: "12345", FullName: "Ahmad Fauzi", ClassLabel: "XI-4"},
		Records: []models.InfractionRecord{
			{Date: "27 Januari 2026", Time: "08:15", Code: "T01", Description: "Terlambat masuk sekolah", Points: 5},
			{Date: "28 Januari 2026", Time: "10:00", Code: "K02", Description: "Tidak memakai atribut lengkap", Points: 10},
		},
		TotalPoints: 15,
		Category:    models.CategoryMild,
	}

	data, err := renderer.Render(history, time.Date(2026, time.January, 28, 10, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, len(data) > 500)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestPDFRenderer_Render_EmptyHistory(t *testing.T) {
	renderer := NewPDFRenderer("SMAN 1 Lamongan", "Jl. Veteran No. 7, Lamongan")
	history := &models.StudentHistory{
		Student:  models.Student{NIS: "12345", FullName: "Ahmad Fauzi", ClassLabel: "XI-4"},
		Category: models.CategoryMild,
	}

	data, err := renderer.Render(history, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data[:4]))
}
