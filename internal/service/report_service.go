package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sman1la/tatib-bot/internal/models"
	apperrors "github.com/sman1la/tatib-bot/pkg/errors"
)

// HistoryRenderer turns a student history into a printable document.
type HistoryRenderer interface {
	Render(history *models.StudentHistory, generatedAt time.Time) ([]byte, error)
}

// ReportArtifact is a rendered document ready to be sent to the chat.
type ReportArtifact struct {
	FileName string
	Caption  string
	Data     []byte
}

// ReportService builds the downloadable recap document for one student.
type ReportService struct {
	history  *InfractionService
	renderer HistoryRenderer
	now      func() time.Time
	logger   *zap.Logger
}

// NewReportService constructs a ReportService. now may be nil, in which
// case the wall clock is used.
func NewReportService(history *InfractionService, renderer HistoryRenderer, now func() time.Time, logger *zap.Logger) *ReportService {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{history: history, renderer: renderer, now: now, logger: logger}
}

// Generate assembles the history and renders it. An unknown student is
// reported before any rendering happens; render failures never corrupt
// stored data because the report path is read-only.
func (s *ReportService) Generate(ctx context.Context, nis string) (*ReportArtifact, error) {
	history, err := s.history.History(ctx, nis)
	if err != nil {
		return nil, err
	}

	at := s.now()
	data, err := s.renderer.Render(history, at)
	if err != nil {
		s.logger.Error("report rendering failed", zap.String("nis", nis), zap.Error(err))
		return nil, apperrors.Wrap(err, apperrors.ErrRenderFailure.Code, apperrors.ErrRenderFailure.Status, apperrors.ErrRenderFailure.Message)
	}

	return &ReportArtifact{
		FileName: fmt.Sprintf("Laporan_Pelanggaran_%s_%s.pdf", nis, at.Format("20060102")),
		Caption: fmt.Sprintf("📄 Laporan pelanggaran %s (%s) — total %d poin",
			history.Student.FullName, history.Student.ClassLabel, history.TotalPoints),
		Data: data,
	}, nil
}
