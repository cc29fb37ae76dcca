package scope

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

func TestRowScopePredicate(t *testing.T) {
	t.Run("unrestricted renders empty", func(t *testing.T) {
		clause, args := Unrestricted().Predicate(1)
		assert.Empty(t, clause)
		assert.Empty(t, args)
	})

	t.Run("deny all matches nothing", func(t *testing.T) {
		clause, args := DenyAll().Predicate(1)
		assert.Equal(t, "1=0", clause)
		assert.Empty(t, args)
	})

	t.Run("owner scope binds user id", func(t *testing.T) {
		clause, args := OwnerScope("owner_id", "42").Predicate(3)
		assert.Equal(t, "owner_id = $3", clause)
		assert.Equal(t, []any{"42"}, args)
	})

	t.Run("owner or supervisor scope binds both", func(t *testing.T) {
		clause, args := OwnerOrSupervisorScope(DefaultColumns, "7", "SUP01").Predicate(2)
		assert.Equal(t, "(owner_id = $2 OR supervisor_code = $3)", clause)
		assert.Equal(t, []any{"7", "SUP01"}, args)
	})
}

func TestScopeForGod(t *testing.T) {
	db, _ := newMockDB(t)
	svc := NewScopeService(NewScopeRepo(db), nil)

	got, err := svc.ScopeFor(context.Background(), &identity.Caller{UserID: "1", Role: identity.RoleGod}, DefaultColumns)
	require.NoError(t, err)

	clause, args := got.Predicate(1)
	assert.Empty(t, clause)
	assert.Empty(t, args)
}

func TestScopeForUser(t *testing.T) {
	db, _ := newMockDB(t)
	svc := NewScopeService(NewScopeRepo(db), nil)

	got, err := svc.ScopeFor(context.Background(), &identity.Caller{UserID: "42", Role: identity.RoleUser}, DefaultColumns)
	require.NoError(t, err)

	clause, args := got.Predicate(1)
	assert.Equal(t, "owner_id = $1", clause)
	assert.Equal(t, []any{"42"}, args)
}

func TestScopeForAdmin(t *testing.T) {
	t.Run("resolves code via display name", func(t *testing.T) {
		db, mock := newMockDB(t)
		svc := NewScopeService(NewScopeRepo(db), nil)

		mock.ExpectQuery(regexp.QuoteMeta("FROM user_profiles")).
			WithArgs("7").
			WillReturnRows(sqlmock.NewRows([]string{"trim"}).AddRow("Jan Kowalski"))

		mock.ExpectQuery(regexp.QuoteMeta("FROM supervisor_codes")).
			WithArgs("Jan Kowalski").
			WillReturnRows(sqlmock.NewRows([]string{"code"}).AddRow("SUP01"))

		got, err := svc.ScopeFor(context.Background(), &identity.Caller{UserID: "7", Role: identity.RoleAdmin}, DefaultColumns)
		require.NoError(t, err)

		clause, args := got.Predicate(1)
		assert.Equal(t, "(owner_id = $1 OR supervisor_code = $2)", clause)
		assert.Equal(t, []any{"7", "SUP01"}, args)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no matching code denies all rows", func(t *testing.T) {
		db, mock := newMockDB(t)
		svc := NewScopeService(NewScopeRepo(db), nil)

		mock.ExpectQuery(regexp.QuoteMeta("FROM user_profiles")).
			WithArgs("7").
			WillReturnRows(sqlmock.NewRows([]string{"trim"}).AddRow("Jan Kowalski"))

		mock.ExpectQuery(regexp.QuoteMeta("FROM supervisor_codes")).
			WithArgs("Jan Kowalski").
			WillReturnRows(sqlmock.NewRows([]string{"code"}))

		got, err := svc.ScopeFor(context.Background(), &identity.Caller{UserID: "7", Role: identity.RoleAdmin}, DefaultColumns)
		require.NoError(t, err)

		clause, _ := got.Predicate(1)
		assert.Equal(t, "1=0", clause)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing profile is not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		svc := NewScopeService(NewScopeRepo(db), nil)

		mock.ExpectQuery(regexp.QuoteMeta("FROM user_profiles")).
			WithArgs("7").
			WillReturnRows(sqlmock.NewRows([]string{"trim"}))

		_, err := svc.ScopeFor(context.Background(), &identity.Caller{UserID: "7", Role: identity.RoleAdmin}, DefaultColumns)
		require.ErrorIs(t, err, ErrProfileNotFound)
	})

	t.Run("blank display name denies all rows", func(t *testing.T) {
		db, mock := newMockDB(t)
		svc := NewScopeService(NewScopeRepo(db), nil)

		mock.ExpectQuery(regexp.QuoteMeta("FROM user_profiles")).
			WithArgs("7").
			WillReturnRows(sqlmock.NewRows([]string{"trim"}).AddRow(""))

		got, err := svc.ScopeFor(context.Background(), &identity.Caller{UserID: "7", Role: identity.RoleAdmin}, DefaultColumns)
		require.NoError(t, err)

		clause, _ := got.Predicate(1)
		assert.Equal(t, "1=0", clause)
	})
}
