package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/sman1la/tatib-bot/internal/models"
	"github.com/sman1la/tatib-bot/pkg/timefmt"
)

// progressBar renders the point total against the 100-point ceiling as a
// ten-slot bar, e.g. "■■■■□□□□□□ 45%". Totals above the ceiling pin at a
// full bar.
func progressBar(total int) string {
	percent := total
	if percent > 100 {
		percent = 100
	}
	if percent < 0 {
		percent = 0
	}
	filled := percent / 10
	return strings.Repeat("■", filled) + strings.Repeat("□", 10-filled) + fmt.Sprintf(" %d%%", percent)
}

func welcomeText(schoolName string) string {
	return fmt.Sprintf(
		"🏫 *Bot Tata Tertib %s*\n\n"+
			"Selamat datang! Pilih menu di bawah:\n\n"+
			"📝 Catat pelanggaran (khusus petugas)\n"+
			"🔍 Cek riwayat pelanggaran siswa\n"+
			"📄 Unduh laporan PDF\n\n"+
			"Gunakan /batal kapan saja untuk membatalkan.",
		schoolName)
}

func helpText() string {
	return "ℹ️ *Bantuan*\n\n" +
		"📝 *Catat Pelanggaran* — hanya petugas terdaftar. Pilih tingkat, kelas, " +
		"siswa dan jenis pelanggaran, lalu kirim foto bukti.\n" +
		"🔍 *Cek Riwayat* — kirim NIS siswa untuk melihat riwayat dan total poin.\n" +
		"📄 *Laporan PDF* — kirim NIS siswa untuk mengunduh rekap lengkap.\n\n" +
		"Perintah:\n/start — menu utama\n/batal — batalkan proses berjalan"
}

func studentCard(history *models.StudentHistory) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s *%s*\n", history.Category.Glyph(), history.Student.FullName)
	fmt.Fprintf(&b, "NIS: %s\n", history.Student.NIS)
	fmt.Fprintf(&b, "Kelas: %s\n\n", history.Student.ClassLabel)
	fmt.Fprintf(&b, "Total poin: *%d* (%s)\n", history.TotalPoints, history.Category.Indonesian())
	fmt.Fprintf(&b, "%s\n", progressBar(history.TotalPoints))

	if len(history.Records) == 0 {
		b.WriteString("\nBelum ada catatan pelanggaran. 👍")
		return b.String()
	}

	fmt.Fprintf(&b, "\n📋 *Riwayat (%d catatan):*\n", len(history.Records))
	for i, rec := range history.Records {
		fmt.Fprintf(&b, "%d. %s %s — %s (%d poin)\n", i+1, rec.Date, rec.Time, rec.Description, rec.Points)
	}
	return b.String()
}

func duplicateWarning(student *models.Student, typ *models.InfractionType, priorTime string) string {
	return fmt.Sprintf(
		"⚠️ *Pelanggaran ganda terdeteksi*\n\n"+
			"*%s* sudah tercatat melakukan pelanggaran yang sama hari ini:\n"+
			"• %s (%s) pukul %s\n\n"+
			"Tetap catat sekali lagi?",
		student.FullName, typ.Description, typ.Code, priorTime)
}

func submitSuccess(record *models.InfractionRecord, history *models.StudentHistory, at time.Time) string {
	return fmt.Sprintf(
		"✅ *Pelanggaran tercatat*\n\n"+
			"Siswa: %s (%s)\n"+
			"Pelanggaran: %s (+%d poin)\n"+
			"Waktu: %s\n\n"+
			"Total poin sekarang: *%d* (%s)\n%s",
		record.StudentName, record.ClassLabel,
		record.Description, record.Points,
		timefmt.DateTime(at),
		history.TotalPoints, history.Category.Indonesian(),
		progressBar(history.TotalPoints))
}
