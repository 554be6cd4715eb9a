package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sman1la/tatib-bot/internal/models"
)

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "□□□□□□□□□□ 0%", progressBar(0))
	assert.Equal(t, "■■■■□□□□□□ 45%", progressBar(45))
	assert.Equal(t, "■■■■■■■■■■ 100%", progressBar(100))
	// totals past the ceiling pin at a full bar
	assert.Equal(t, "■■■■■■■■■■ 100%", progressBar(150))
}

func TestStudentCard_NoRecords(t *testing.T) {
	card := studentCard(&models.StudentHistory{
		Student:  models.Student{NIS: "12345", FullName: "Ahmad Fauzi", ClassLabel: "XI-4"},
		Category: models.CategoryMild,
	})
	assert.Contains(t, card, "Ahmad Fauzi")
	assert.Contains(t, card, "Belum ada catatan")
}

func TestStudentCard_ListsRecordsInOrder(t *testing.T) {
	card := studentCard(&models.StudentHistory{
		Student: models.Student{NIS: "12345", FullName: "Ahmad Fauzi", ClassLabel: "XI-4"},
		Records: []models.InfractionRecord{
			{Date: "27 Januari 2026", Time: "08:15", Description: "Terlambat masuk sekolah", Points: 5},
			{Date: "28 Januari 2026", Time: "10:00", Description: "Tidak memakai atribut lengkap", Points: 10},
		},
		TotalPoints: 15,
		Category:    models.CategoryMild,
	})
	assert.Contains(t, card, "1. 27 Januari 2026")
	assert.Contains(t, card, "2. 28 Januari 2026")
	assert.Contains(t, card, "Ringan")
}

