package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/sman1la/tatib-bot/internal/models"
	apperrors "github.com/sman1la/tatib-bot/pkg/errors"
)

// StudentReader is the roster access needed by the services.
type StudentReader interface {
	ListByClass(ctx context.Context, classLabel string) ([]models.Student, error)
	FindByNIS(ctx context.Context, nis string) (*models.Student, error)
}

// AdminReader resolves platform user ids against the admin allow-list.
type AdminReader interface {
	FindActive(ctx context.Context, telegramID int64) (*models.AdminEntry, error)
}

// RosterService answers the identity questions of the conversation: who is
// allowed to record, and which students exist where.
type RosterService struct {
	students StudentReader
	admins   AdminReader
	logger   *zap.Logger
}

// NewRosterService constructs a RosterService.
func NewRosterService(students StudentReader, admins AdminReader, logger *zap.Logger) *RosterService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RosterService{students: students, admins: admins, logger: logger}
}

// Authorize resolves the caller against the admin allow-list. Absent or
// inactive entries are reported as an authorization failure, not an error
// in the technical sense.
func (s *RosterService) Authorize(ctx context.Context, userID int64) (*models.AdminEntry, error) {
	entry, err := s.admins.FindActive(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrUnauthorized
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternal.Code, apperrors.ErrInternal.Status, "admin lookup failed")
	}
	return entry, nil
}

// ClassStudents lists the students of one class. An empty class yields
// NO_DATA so the conversation can reroute to class selection.
func (s *RosterService) ClassStudents(ctx context.Context, classLabel string) ([]models.Student, error) {
	students, err := s.students.ListByClass(ctx, classLabel)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternal.Code, apperrors.ErrInternal.Status, "roster read failed")
	}
	if len(students) == 0 {
		return nil, apperrors.ErrNoData
	}
	return students, nil
}

// FindStudent fetches one student by id.
func (s *RosterService) FindStudent(ctx context.Context, nis string) (*models.Student, error) {
	student, err := s.students.FindByNIS(ctx, nis)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternal.Code, apperrors.ErrInternal.Status, "roster read failed")
	}
	return student, nil
}
