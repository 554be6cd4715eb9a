package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sman1la/tatib-bot/internal/models"
	apperrors "github.com/sman1la/tatib-bot/pkg/errors"
)

type stubRenderer struct {
	data []byte
	err  error
}

func (s *stubRenderer) Render(_ *models.StudentHistory, _ time.Time) ([]byte, error) {
	return s.data, s.err
}

func TestReportService_Generate(t *testing.T) {
	student := &models.Student{NIS: "12345", FullName: "Ahmad Fauzi", ClassLabel: "XI-4"}
	history := newTestService(&stubTypeReader{}, &stubLogStore{total: 45}, &stubStudentReader{student: student}, &stubVault{})
	svc := NewReportService(history, &stubRenderer{data: []byte("%PDF-1.3")}, fixedNow, nil)

	artifact, err := svc.Generate(context.Background(), "12345")
	require.NoError(t, err)
	assert.Equal(t, "Laporan_Pelanggaran_12345_20260128.pdf", artifact.FileName)
	assert.Contains(t, artifact.Caption, "Ahmad Fauzi")
	assert.Contains(t, artifact.Caption, "45 poin")
	assert.NotEmpty(t, artifact.Data)
}

func TestReportService_Generate_UnknownStudentBeforeRender(t *testing.T) {
	history := newTestService(&stubTypeReader{}, &stubLogStore{}, &stubStudentReader{}, &stubVault{})
	renderer := &stubRenderer{err: errors.New("should not be reached")}
	svc := NewReportService(history, renderer, fixedNow, nil)

	_, err := svc.Generate(context.Background(), "99999")
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestReportService_Generate_RenderFailure(t *testing.T) {
	student := &models.Student{NIS: "12345", FullName: "Ahmad Fauzi", ClassLabel: "XI-4"}
	history := newTestService(&stubTypeReader{}, &stubLogStore{}, &stubStudentReader{student: student}, &stubVault{})
	svc := NewReportService(history, &stubRenderer{err: errors.New("font missing")}, fixedNow, nil)

	_, err := svc.Generate(context.Background(), "12345")
	assert.True(t, apperrors.Is(err, apperrors.ErrRenderFailure))
}
