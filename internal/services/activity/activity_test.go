package activity

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partnerhub/partnerhub/internal/identity"
	"github.com/partnerhub/partnerhub/internal/services/scope"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return sqlx.NewDb(db, "sqlmock"), mock
}

func newService(db *sqlx.DB) *ActivityService {
	scopes := scope.NewScopeService(scope.NewScopeRepo(db), nil)
	return NewActivityService(NewActivityRepo(db), scopes)
}

func TestList(t *testing.T) {
	t.Run("user sees only own entries with clamped paging", func(t *testing.T) {
		db, mock := newMockDB(t)
		svc := newService(db)

		mock.ExpectQuery(regexp.QuoteMeta("FROM activity_records")).
			WithArgs("42", defaultLimit, 0).
			WillReturnRows(sqlmock.NewRows([]string{"id", "actor_id", "action", "subject"}).
				AddRow(int64(1), "42", "lead_captured", "jan@example.com"))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM activity_records")).
			WithArgs("42").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(1)))

		caller := &identity.Caller{UserID: "42", Role: identity.RoleUser, ProviderSub: "sub"}
		feed, err := svc.List(context.Background(), caller, 0, -5)
		require.NoError(t, err)
		assert.Len(t, feed.Entries, 1)
		assert.Equal(t, int64(1), feed.Total)
		assert.Equal(t, defaultLimit, feed.Limit)
		assert.Equal(t, 0, feed.Offset)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("god lists unscoped with capped limit", func(t *testing.T) {
		db, mock := newMockDB(t)
		svc := newService(db)

		mock.ExpectQuery(regexp.QuoteMeta("FROM activity_records")).
			WithArgs(maxLimit, 40).
			WillReturnRows(sqlmock.NewRows([]string{"id", "actor_id", "action", "subject"}))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM activity_records")).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(0)))

		caller := &identity.Caller{UserID: "1", Role: identity.RoleGod, ProviderSub: "sub"}
		feed, err := svc.List(context.Background(), caller, 5000, 40)
		require.NoError(t, err)
		assert.Equal(t, maxLimit, feed.Limit)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRecord(t *testing.T) {
	t.Run("requires actor and action", func(t *testing.T) {
		db, mock := newMockDB(t)
		svc := newService(db)

		require.Error(t, svc.Record(context.Background(), "", nil, "lead_captured", "x"))
		require.Error(t, svc.Record(context.Background(), "42", nil, "", "x"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("inserts the entry", func(t *testing.T) {
		db, mock := newMockDB(t)
		svc := newService(db)

		code := "SUP001"
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO activity_records")).
			WithArgs("42", "SUP001", "lead_captured", "jan@example.com").
			WillReturnResult(sqlmock.NewResult(1, 1))

		require.NoError(t, svc.Record(context.Background(), "42", &code, "lead_captured", "jan@example.com"))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
