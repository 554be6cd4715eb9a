// Package report renders student infraction histories as PDF documents.
package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/sman1la/tatib-bot/internal/models"
	"github.com/sman1la/tatib-bot/pkg/timefmt"
)

// PDFRenderer produces the printable recap for one student.
type PDFRenderer struct {
	schoolName    string
	schoolAddress string
}

// NewPDFRenderer constructs a renderer with the school letterhead.
func NewPDFRenderer(schoolName, schoolAddress string) *PDFRenderer {
	return &PDFRenderer{schoolName: schoolName, schoolAddress: schoolAddress}
}

// Render builds the document and returns its bytes.
func (r *PDFRenderer) Render(history *models.StudentHistory, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	// letterhead
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 7, r.schoolName, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 5, r.schoolAddress, "", 1, "C", false, 0, "")
	pdf.Ln(2)
	pdf.SetLineWidth(0.5)
	pdf.Line(10, pdf.GetY(), 200, pdf.GetY())
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, "LAPORAN PELANGGARAN TATA TERTIB", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "", 10)
	info := [][2]string{
		{"NIS", history.Student.NIS},
		{"Nama", history.Student.FullName},
		{"Kelas", history.Student.ClassLabel},
		{"Total Poin", fmt.Sprintf("%d (%s)", history.TotalPoints, history.Category.Indonesian())},
	}
	for _, line := range info {
		pdf.CellFormat(30, 6, line[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, ": "+line[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	// record table
	widths := []float64{10, 35, 18, 92, 15, 20}
	headers := []string{"No", "Tanggal", "Waktu", "Pelanggaran", "Poin", "Kode"}
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	if len(history.Records) == 0 {
		pdf.CellFormat(sum(widths), 7, "Tidak ada catatan pelanggaran", "1", 1, "C", false, 0, "")
	}
	for i, rec := range history.Records {
		cells := []string{
			fmt.Sprintf("%d", i+1),
			rec.Date,
			rec.Time,
			rec.Description,
			fmt.Sprintf("%d", rec.Points),
			rec.Code,
		}
		for j, cell := range cells {
			align := "L"
			if j != 3 {
				align = "C"
			}
			pdf.CellFormat(widths[j], 7, cell, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(widths[0]+widths[1]+widths[2]+widths[3], 7, "TOTAL", "1", 0, "R", true, 0, "")
	pdf.CellFormat(widths[4], 7, fmt.Sprintf("%d", history.TotalPoints), "1", 0, "C", true, 0, "")
	pdf.CellFormat(widths[5], 7, "", "1", 1, "C", true, 0, "")

	pdf.Ln(8)
	pdf.SetFont("Arial", "I", 8)
	pdf.CellFormat(0, 5, "Dicetak pada "+timefmt.DateTime(generatedAt), "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func sum(widths []float64) float64 {
	total := 0.0
	for _, w := range widths {
		total += w
	}
	return total
}
