package supervisor

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
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

func TestCodeByName(t *testing.T) {
	t.Run("plain users may not look up codes", func(t *testing.T) {
		db, mock := newMockDB(t)
		svc := NewSupervisorService(NewSupervisorRepo(db))

		caller := &identity.Caller{UserID: "7", Role: identity.RoleUser, ProviderSub: "sub"}
		_, err := svc.CodeByName(context.Background(), caller, "Anna Nowak")
		require.ErrorIs(t, err, ErrLookupForbidden)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("admin resolves exact active match", func(t *testing.T) {
		db, mock := newMockDB(t)
		svc := NewSupervisorService(NewSupervisorRepo(db))

		mock.ExpectQuery(regexp.QuoteMeta("FROM supervisor_codes")).
			WithArgs("Anna Nowak").
			WillReturnRows(sqlmock.NewRows([]string{"code", "description", "is_active"}).
				AddRow("SUP001", "Anna Nowak", true))

		caller := &identity.Caller{UserID: "7", Role: identity.RoleAdmin, ProviderSub: "sub"}
		sc, err := svc.CodeByName(context.Background(), caller, "Anna Nowak")
		require.NoError(t, err)
		assert.Equal(t, "SUP001", sc.Code)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown name maps to not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		svc := NewSupervisorService(NewSupervisorRepo(db))

		mock.ExpectQuery(regexp.QuoteMeta("FROM supervisor_codes")).
			WithArgs("Nobody").
			WillReturnRows(sqlmock.NewRows([]string{"code", "description", "is_active"}))

		caller := &identity.Caller{UserID: "7", Role: identity.RoleGod, ProviderSub: "sub"}
		_, err := svc.CodeByName(context.Background(), caller, "Nobody")
		require.ErrorIs(t, err, ErrCodeNotFound)
	})
}

func TestDescriptionByCode(t *testing.T) {
	t.Run("known code returns its description", func(t *testing.T) {
		db, mock := newMockDB(t)
		svc := NewSupervisorService(NewSupervisorRepo(db))

		mock.ExpectQuery(regexp.QuoteMeta("WHERE code = $1")).
			WithArgs("SUP001").
			WillReturnRows(sqlmock.NewRows([]string{"code", "description", "is_active"}).
				AddRow("SUP001", "Anna Nowak", true))

		description, err := svc.DescriptionByCode(context.Background(), "SUP001")
		require.NoError(t, err)
		assert.Equal(t, "Anna Nowak", description)
	})

	t.Run("unknown code renders a placeholder instead of failing", func(t *testing.T) {
		db, mock := newMockDB(t)
		svc := NewSupervisorService(NewSupervisorRepo(db))

		mock.ExpectQuery(regexp.QuoteMeta("WHERE code = $1")).
			WithArgs("GONE").
			WillReturnRows(sqlmock.NewRows([]string{"code", "description", "is_active"}))

		description, err := svc.DescriptionByCode(context.Background(), "GONE")
		require.NoError(t, err)
		assert.Equal(t, "Unknown supervisor (GONE)", description)
	})
}
