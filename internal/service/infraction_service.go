package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/sman1la/tatib-bot/internal/models"
	apperrors "github.com/sman1la/tatib-bot/pkg/errors"
	"github.com/sman1la/tatib-bot/pkg/timefmt"
)

// InfractionTypeReader is the catalog access needed by the service.
type InfractionTypeReader interface {
	ListAll(ctx context.Context) ([]models.InfractionType, error)
	FindByCode(ctx context.Context, code string) (*models.InfractionType, error)
}

// InfractionLogStore is the record store access needed by the service.
type InfractionLogStore interface {
	ListByStudent(ctx context.Context, nis string) ([]models.InfractionRecord, error)
	Append(ctx context.Context, record *models.InfractionRecord) error
	TotalPoints(ctx context.Context, nis string) (int, error)
}

// EvidenceStore uploads photo evidence and returns the public link.
type EvidenceStore interface {
	Store(localPath, classLabel, nis string, now time.Time) (string, error)
}

// DuplicateWindow bounds the inclusive hour-of-day range in which a repeat
// submission of the same type for the same student on the same day is
// flagged for confirmation.
type DuplicateWindow struct {
	StartHour int
	EndHour   int
}

// Submission carries everything needed to append one record.
type Submission struct {
	Student    models.Student
	Infraction models.InfractionType
	PhotoPath  string
	Officer    string
}

// InfractionService implements the record-keeping core: the catalog, the
// duplicate guard, the two-phase submit and the history lookup.
type InfractionService struct {
	types    InfractionTypeReader
	log      InfractionLogStore
	students StudentReader
	vault    EvidenceStore
	window   DuplicateWindow
	bands    models.PointBands
	now      func() time.Time
	logger   *zap.Logger
}

// NewInfractionService constructs an InfractionService. now may be nil, in
// which case the wall clock is used.
func NewInfractionService(
	types InfractionTypeReader,
	log InfractionLogStore,
	students StudentReader,
	vault EvidenceStore,
	window DuplicateWindow,
	bands models.PointBands,
	now func() time.Time,
	logger *zap.Logger,
) *InfractionService {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InfractionService{
		types:    types,
		log:      log,
		students: students,
		vault:    vault,
		window:   window,
		bands:    bands,
		now:      now,
		logger:   logger,
	}
}

// Catalog returns the full infraction catalog. An empty catalog yields
// NO_DATA so the conversation can tell the admin instead of showing an
// empty keyboard.
func (s *InfractionService) Catalog(ctx context.Context) ([]models.InfractionType, error) {
	types, err := s.types.ListAll(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternal.Code, apperrors.ErrInternal.Status, "catalog read failed")
	}
	if len(types) == 0 {
		return nil, apperrors.ErrNoData
	}
	return types, nil
}

// Resolve fetches one catalog entry by code.
func (s *InfractionService) Resolve(ctx context.Context, code string) (*models.InfractionType, error) {
	typ, err := s.types.FindByCode(ctx, code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternal.Code, apperrors.ErrInternal.Status, "catalog read failed")
	}
	return typ, nil
}

// CheckDuplicate scans the student's existing records for a same-day entry
// of the same type whose recorded hour falls inside the configured window.
// The first such record's time is returned so the admin sees when the prior
// entry was made. Records outside the window never match, so a morning
// entry and an evening entry of the same type coexist without confirmation.
func (s *InfractionService) CheckDuplicate(ctx context.Context, nis, code string, at time.Time) (string, bool, error) {
	records, err := s.log.ListByStudent(ctx, nis)
	if err != nil {
		return "", false, apperrors.Wrap(err, apperrors.ErrInternal.Code, apperrors.ErrInternal.Status, "record scan failed")
	}
	today := timefmt.Date(at)
	for _, rec := range records {
		if rec.Code != code || rec.Date != today {
			continue
		}
		hour, ok := timefmt.ClockHour(rec.Time)
		if !ok {
			continue
		}
		if hour >= s.window.StartHour && hour <= s.window.EndHour {
			return rec.Time, true, nil
		}
	}
	return "", false, nil
}

// Submit performs the two-phase persist: the photo is uploaded first, then
// the record row is appended. When the upload fails nothing is persisted.
// When the append fails after a successful upload the stored photo stays
// behind without a referencing row; the orphaned link is logged so it can
// be reconciled by hand.
func (s *InfractionService) Submit(ctx context.Context, sub Submission) (*models.InfractionRecord, error) {
	at := s.now()

	link, err := s.vault.Store(sub.PhotoPath, sub.Student.ClassLabel, sub.Student.NIS, at)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrStorageUnavailable.Code, apperrors.ErrStorageUnavailable.Status, apperrors.ErrStorageUnavailable.Message)
	}

	record := &models.InfractionRecord{
		Date:         timefmt.Date(at),
		Time:         timefmt.Clock(at),
		NIS:          sub.Student.NIS,
		StudentName:  sub.Student.FullName,
		ClassLabel:   sub.Student.ClassLabel,
		Code:         sub.Infraction.Code,
		Description:  sub.Infraction.Description,
		Points:       sub.Infraction.Points,
		EvidenceLink: link,
		Officer:      sub.Officer,
	}

	if err := s.log.Append(ctx, record); err != nil {
		s.logger.Error("record append failed after evidence upload, photo is orphaned",
			zap.String("nis", sub.Student.NIS),
			zap.String("code", sub.Infraction.Code),
			zap.String("evidence_link", link),
			zap.Error(err))
		return nil, apperrors.Wrap(err, apperrors.ErrPersistenceFailure.Code, apperrors.ErrPersistenceFailure.Status, apperrors.ErrPersistenceFailure.Message)
	}

	return record, nil
}

// History assembles the full lookup result for one student: the roster
// snapshot, all records in append order, the point total and its band.
func (s *InfractionService) History(ctx context.Context, nis string) (*models.StudentHistory, error) {
	student, err := s.students.FindByNIS(ctx, nis)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternal.Code, apperrors.ErrInternal.Status, "roster read failed")
	}

	records, err := s.log.ListByStudent(ctx, nis)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternal.Code, apperrors.ErrInternal.Status, "record read failed")
	}

	total, err := s.log.TotalPoints(ctx, nis)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternal.Code, apperrors.ErrInternal.Status, "point total failed")
	}

	return &models.StudentHistory{
		Student:     *student,
		Records:     records,
		TotalPoints: total,
		Category:    s.bands.Classify(total),
	}, nil
}

// Bands exposes the configured classification thresholds.
func (s *InfractionService) Bands() models.PointBands {
	return s.bands
}
