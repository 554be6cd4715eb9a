package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

func TestStudentRepository_ListByClass(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewStudentRepository(db, nil, nil)

	rows := sqlmock.NewRows([]string{"nis", "full_name", "class_label"}).
		AddRow("12345", "Ahmad Fauzi", "XI-4").
		AddRow("12346", "Budi Santoso", "XI-4")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT nis, full_name, class_label FROM students WHERE class_label = $1 ORDER BY full_name ASC`)).
		WithArgs("XI-4").
		WillReturnRows(rows)

	students, err := repo.ListByClass(context.Background(), "XI-4")
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, "Ahmad Fauzi", students[0].FullName)
	assert.Equal(t, "XI-4", students[1].ClassLabel)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepository_ListByClass_DropsInvalidRows(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewStudentRepository(db, nil, nil)

	rows := sqlmock.NewRows([]string{"nis", "full_name", "class_label"}).
		AddRow("12345", "Ahmad Fauzi", "XI-4").
		AddRow("", "Nameless Row", "XI-4")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT nis, full_name, class_label FROM students WHERE class_label = $1 ORDER BY full_name ASC`)).
		WithArgs("XI-4").
		WillReturnRows(rows)

	students, err := repo.ListByClass(context.Background(), "XI-4")
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "12345", students[0].NIS)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepository_FindByNIS(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewStudentRepository(db, nil, nil)

	rows := sqlmock.NewRows([]string{"nis", "full_name", "class_label"}).
		AddRow("12345", "Ahmad Fauzi", "XI-4")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT nis, full_name, class_label FROM students WHERE nis = $1`)).
		WithArgs("12345").
		WillReturnRows(rows)

	student, err := repo.FindByNIS(context.Background(), "12345")
	require.NoError(t, err)
	assert.Equal(t, "Ahmad Fauzi", student.FullName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepository_FindByNIS_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewStudentRepository(db, nil, nil)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT nis, full_name, class_label FROM students WHERE nis = $1`)).
		WithArgs("99999").
		WillReturnError(sql.ErrNoRows)

	student, err := repo.FindByNIS(context.Background(), "99999")
	assert.Nil(t, student)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
