package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sman1la/tatib-bot/internal/models"
	apperrors "github.com/sman1la/tatib-bot/pkg/errors"
)

type stubAdminReader struct {
	entry *models.AdminEntry
	err   error
}

func (s *stubAdminReader) FindActive(_ context.Context, _ int64) (*models.AdminEntry, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.entry == nil {
		return nil, sql.ErrNoRows
	}
	return s.entry, nil
}

func TestRosterService_Authorize(t *testing.T) {
	admins := &stubAdminReader{entry: &models.AdminEntry{TelegramID: 42, FullName: "Bu Sari", Active: true}}
	svc := NewRosterService(&stubStudentReader{}, admins, nil)

	entry, err := svc.Authorize(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "Bu Sari", entry.FullName)
}

func TestRosterService_Authorize_UnknownUser(t *testing.T) {
	svc := NewRosterService(&stubStudentReader{}, &stubAdminReader{}, nil)

	_, err := svc.Authorize(context.Background(), 7)
	assert.True(t, apperrors.Is(err, apperrors.ErrUnauthorized))
}

func TestRosterService_Authorize_StoreFailure(t *testing.T) {
	admins := &stubAdminReader{err: errors.New("connection refused")}
	svc := NewRosterService(&stubStudentReader{}, admins, nil)

	_, err := svc.Authorize(context.Background(), 42)
	require.Error(t, err)
	assert.False(t, apperrors.Is(err, apperrors.ErrUnauthorized))
}

func TestRosterService_ClassStudents_Empty(t *testing.T) {
	svc := NewRosterService(&stubStudentReader{}, &stubAdminReader{}, nil)

	_, err := svc.ClassStudents(context.Background(), "XI-4")
	assert.True(t, apperrors.Is(err, apperrors.ErrNoData))
}

func TestRosterService_FindStudent_NotFound(t *testing.T) {
	svc := NewRosterService(&stubStudentReader{}, &stubAdminReader{}, nil)

	_, err := svc.FindStudent(context.Background(), "99999")
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}
