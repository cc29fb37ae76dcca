package partner

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

func newService(db *sqlx.DB) *PartnerService {
	return NewPartnerService(NewPartnerRepo(db), scope.NewScopeService(scope.NewScopeRepo(db), nil))
}

func strPtr(s string) *string { return &s }

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Jan Kowalski", (&Partner{FirstName: strPtr("Jan"), LastName: strPtr("Kowalski")}).DisplayName())
	assert.Equal(t, "Jan", (&Partner{FirstName: strPtr("Jan")}).DisplayName())
	assert.Equal(t, "Kowalski", (&Partner{LastName: strPtr("Kowalski")}).DisplayName())
	assert.Equal(t, "", (&Partner{}).DisplayName())
}

func TestListForbiddenForUserRole(t *testing.T) {
	db, _ := newMockDB(t)
	svc := newService(db)

	_, err := svc.List(context.Background(), &identity.Caller{UserID: "42", Role: identity.RoleUser}, &ListFilter{})
	require.ErrorIs(t, err, ErrForbidden)
}

func TestListFailsClosedForUnresolvedAdmin(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newService(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM user_profiles")).
		WithArgs("7").
		WillReturnRows(sqlmock.NewRows([]string{"trim"}).AddRow("Nobody Known"))
	mock.ExpectQuery(regexp.QuoteMeta("FROM supervisor_codes")).
		WithArgs("Nobody Known").
		WillReturnRows(sqlmock.NewRows([]string{"code"}))

	list, err := svc.List(context.Background(), &identity.Caller{UserID: "7", Role: identity.RoleAdmin}, &ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, list.Partners)
	assert.Empty(t, list.Stats)
	assert.Empty(t, list.Supervisors)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateRejectsBadStatus(t *testing.T) {
	db, _ := newMockDB(t)
	svc := newService(db)

	_, err := svc.Update(context.Background(),
		&identity.Caller{UserID: "1", Role: identity.RoleGod},
		5, &UpdatePartnerRequest{Status: strPtr("suspended")})
	require.ErrorIs(t, err, ErrInvalidPartnerStatus)
}

func TestUpdateRenameSyncsSupervisorDescription(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newService(db)

	adminRows := func(first string) *sqlmock.Rows {
		return sqlmock.NewRows([]string{"id", "provider_sub", "email", "first_name", "last_name", "role", "status", "supervisor_code"}).
			AddRow(5, "sub-5", "anna@example.com", first, "Nowak", "ADMIN", "active", "SUP001")
	}

	mock.ExpectQuery(regexp.QuoteMeta("FROM user_profiles")).
		WithArgs(int64(5)).
		WillReturnRows(adminRows("Anna"))

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE user_profiles")).
		WithArgs("Maria", int64(5)).
		WillReturnRows(adminRows("Maria"))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE supervisor_codes")).
		WithArgs("Maria Nowak", "SUP001").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	updated, err := svc.Update(context.Background(),
		&identity.Caller{UserID: "1", Role: identity.RoleGod},
		5, &UpdatePartnerRequest{FirstName: strPtr("Maria")})
	require.NoError(t, err)
	assert.Equal(t, "Maria Nowak", updated.DisplayName())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPromote(t *testing.T) {
	partnerRows := func(role string) *sqlmock.Rows {
		return sqlmock.NewRows([]string{"id", "provider_sub", "email", "first_name", "last_name", "role", "status"}).
			AddRow(5, "sub-5", "anna@example.com", "Anna", "Nowak", role, "active")
	}

	t.Run("god promotes a user in one transaction", func(t *testing.T) {
		db, mock := newMockDB(t)
		svc := newService(db)

		mock.ExpectQuery(regexp.QuoteMeta("FROM user_profiles")).
			WithArgs(int64(5)).
			WillReturnRows(partnerRows("USER"))

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO supervisor_codes")).
			WithArgs(sqlmock.AnyArg(), "Anna Nowak").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(regexp.QuoteMeta("UPDATE user_profiles")).
			WithArgs(sqlmock.AnyArg(), int64(5)).
			WillReturnRows(partnerRows("ADMIN"))
		mock.ExpectCommit()

		promoted, err := svc.Promote(context.Background(), &identity.Caller{UserID: "1", Role: identity.RoleGod}, 5)
		require.NoError(t, err)
		assert.Equal(t, "ADMIN", promoted.Role)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("non-god is forbidden", func(t *testing.T) {
		db, _ := newMockDB(t)
		svc := newService(db)

		_, err := svc.Promote(context.Background(), &identity.Caller{UserID: "7", Role: identity.RoleAdmin}, 5)
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("admins cannot be promoted twice", func(t *testing.T) {
		db, mock := newMockDB(t)
		svc := newService(db)

		mock.ExpectQuery(regexp.QuoteMeta("FROM user_profiles")).
			WithArgs(int64(5)).
			WillReturnRows(partnerRows("ADMIN"))

		_, err := svc.Promote(context.Background(), &identity.Caller{UserID: "1", Role: identity.RoleGod}, 5)
		require.ErrorIs(t, err, ErrNotPromotable)
	})
}

func TestUpdateProfileBlocked(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newService(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE provider_sub")).
		WithArgs("sub-9").
		WillReturnRows(sqlmock.NewRows([]string{"id", "provider_sub", "email", "role", "status"}).
			AddRow(9, "sub-9", "blocked@example.com", "USER", "blocked"))

	_, err := svc.UpdateProfile(context.Background(), "sub-9", &UpdateProfileRequest{Phone: strPtr("123")})
	require.ErrorIs(t, err, ErrBlocked)
	require.NoError(t, mock.ExpectationsWereMet())
}
