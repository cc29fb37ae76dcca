package chapter

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partnerhub/partnerhub/internal/identity"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestParseDirection(t *testing.T) {
	up, err := ParseDirection("up")
	require.NoError(t, err)
	assert.Equal(t, DirectionUp, up)

	down, err := ParseDirection("down")
	require.NoError(t, err)
	assert.Equal(t, DirectionDown, down)

	_, err = ParseDirection("sideways")
	assert.Error(t, err)

	_, err = ParseDirection("")
	assert.Error(t, err)
}

func TestMoveSwapsPositions(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewChapterRepo(db)

	ebookID := uuid.New()
	chapterID := uuid.New()
	partnerID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT position FROM ebook_chapters")).
		WithArgs(ebookID, chapterID).
		WillReturnRows(sqlmock.NewRows([]string{"position"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(MAX(position), 0)")).
		WithArgs(ebookID).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(2))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM ebook_chapters")).
		WithArgs(ebookID, 2).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(partnerID))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE ebook_chapters SET position")).
		WithArgs(-1, chapterID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE ebook_chapters SET position")).
		WithArgs(1, partnerID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE ebook_chapters SET position")).
		WithArgs(2, chapterID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE ebooks SET updated_at")).
		WithArgs(ebookID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	moved, err := repo.Move(context.Background(), ebookID, chapterID, DirectionDown)
	require.NoError(t, err)

	require.Len(t, moved, 2)
	assert.Equal(t, MovedChapter{ID: chapterID, Position: 2}, moved[0])
	assert.Equal(t, MovedChapter{ID: partnerID, Position: 1}, moved[1])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMoveBoundaryRejections(t *testing.T) {
	ebookID := uuid.New()
	chapterID := uuid.New()

	t.Run("first chapter cannot move up", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewChapterRepo(db)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("SELECT position FROM ebook_chapters")).
			WithArgs(ebookID, chapterID).
			WillReturnRows(sqlmock.NewRows([]string{"position"}).AddRow(0))
		mock.ExpectRollback()

		_, err := repo.Move(context.Background(), ebookID, chapterID, DirectionUp)
		require.ErrorIs(t, err, ErrCannotMoveFirst)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("last chapter cannot move down", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewChapterRepo(db)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("SELECT position FROM ebook_chapters")).
			WithArgs(ebookID, chapterID).
			WillReturnRows(sqlmock.NewRows([]string{"position"}).AddRow(2))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(MAX(position), 0)")).
			WithArgs(ebookID).
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(2))
		mock.ExpectRollback()

		_, err := repo.Move(context.Background(), ebookID, chapterID, DirectionDown)
		require.ErrorIs(t, err, ErrCannotMoveLast)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMoveRollsBackOnFailure(t *testing.T) {
	ebookID := uuid.New()
	chapterID := uuid.New()
	partnerID := uuid.New()

	t.Run("missing swap partner aborts before any write", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewChapterRepo(db)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("SELECT position FROM ebook_chapters")).
			WithArgs(ebookID, chapterID).
			WillReturnRows(sqlmock.NewRows([]string{"position"}).AddRow(1))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(MAX(position), 0)")).
			WithArgs(ebookID).
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(3))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM ebook_chapters")).
			WithArgs(ebookID, 0).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectRollback()

		_, err := repo.Move(context.Background(), ebookID, chapterID, DirectionUp)
		require.ErrorIs(t, err, ErrNoSwapPartner)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("write failure mid-swap rolls back", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewChapterRepo(db)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("SELECT position FROM ebook_chapters")).
			WithArgs(ebookID, chapterID).
			WillReturnRows(sqlmock.NewRows([]string{"position"}).AddRow(1))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(MAX(position), 0)")).
			WithArgs(ebookID).
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(3))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM ebook_chapters")).
			WithArgs(ebookID, 2).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(partnerID))
		mock.ExpectExec(regexp.QuoteMeta("UPDATE ebook_chapters SET position")).
			WithArgs(-1, chapterID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta("UPDATE ebook_chapters SET position")).
			WithArgs(1, partnerID).
			WillReturnError(errors.New("connection reset"))
		mock.ExpectRollback()

		_, err := repo.Move(context.Background(), ebookID, chapterID, DirectionDown)
		require.Error(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestServiceAuthorization(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewChapterService(NewChapterRepo(db))

	ebookID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("FROM ebooks")).
		WithArgs(ebookID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "title"}).
			AddRow(ebookID, "99", "Intro"))

	_, err := svc.Move(context.Background(),
		&identity.Caller{UserID: "42", Role: identity.RoleUser},
		ebookID, uuid.New(), DirectionUp)
	require.ErrorIs(t, err, ErrNotOwner)
	require.NoError(t, mock.ExpectationsWereMet())
}
