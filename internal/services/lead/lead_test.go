package lead

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
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

func newService(db *sqlx.DB) *LeadService {
	scopes := scope.NewScopeService(scope.NewScopeRepo(db), nil)
	return NewLeadService(NewLeadRepo(db), scopes, nil, "Europe/Warsaw")
}

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus("b_contact"))
	assert.True(t, ValidStatus("a_contact"))
	assert.True(t, ValidStatus("archive"))
	assert.False(t, ValidStatus("deleted"))
	assert.False(t, ValidStatus(""))
	assert.False(t, ValidStatus("B_CONTACT"))
}

func TestChangeStatus(t *testing.T) {
	caller := &identity.Caller{UserID: "42", Role: identity.RoleUser, ProviderSub: "sub"}
	leadID := uuid.New()

	t.Run("owner with invalid status is rejected after the owner check", func(t *testing.T) {
		db, mock := newMockDB(t)
		svc := newService(db)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT owner_id FROM leads")).
			WithArgs(leadID).
			WillReturnRows(sqlmock.NewRows([]string{"owner_id"}).AddRow("42"))

		_, err := svc.ChangeStatus(context.Background(), caller, leadID, "closed_won")
		require.ErrorIs(t, err, ErrInvalidStatus)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("non-owner with invalid status still gets unauthorized result", func(t *testing.T) {
		db, mock := newMockDB(t)
		svc := newService(db)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT owner_id FROM leads")).
			WithArgs(leadID).
			WillReturnRows(sqlmock.NewRows([]string{"owner_id"}).AddRow("99"))

		result, err := svc.ChangeStatus(context.Background(), caller, leadID, "closed_won")
		require.NoError(t, err)
		assert.False(t, result.Authorized)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("non-owner gets unauthorized result and no write", func(t *testing.T) {
		db, mock := newMockDB(t)
		svc := newService(db)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT owner_id FROM leads")).
			WithArgs(leadID).
			WillReturnRows(sqlmock.NewRows([]string{"owner_id"}).AddRow("99"))

		result, err := svc.ChangeStatus(context.Background(), caller, leadID, StatusAfterContact)
		require.NoError(t, err)
		assert.False(t, result.Authorized)
		assert.Empty(t, result.LeadID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("owner match is string-normalized", func(t *testing.T) {
		db, mock := newMockDB(t)
		svc := newService(db)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT owner_id FROM leads")).
			WithArgs(leadID).
			WillReturnRows(sqlmock.NewRows([]string{"owner_id"}).AddRow(" 42 "))

		mock.ExpectExec(regexp.QuoteMeta("UPDATE leads")).
			WithArgs(StatusAfterContact, leadID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		result, err := svc.ChangeStatus(context.Background(), caller, leadID, StatusAfterContact)
		require.NoError(t, err)
		assert.True(t, result.Authorized)
		assert.Equal(t, leadID.String(), result.LeadID)
		assert.Equal(t, StatusAfterContact, result.Status)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing lead is not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		svc := newService(db)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT owner_id FROM leads")).
			WithArgs(leadID).
			WillReturnRows(sqlmock.NewRows([]string{"owner_id"}))

		_, err := svc.ChangeStatus(context.Background(), caller, leadID, StatusArchive)
		require.ErrorIs(t, err, ErrLeadNotFound)
	})
}

func TestDelete(t *testing.T) {
	leadID := uuid.New()

	t.Run("owner can delete", func(t *testing.T) {
		db, mock := newMockDB(t)
		svc := newService(db)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT owner_id FROM leads")).
			WithArgs(leadID).
			WillReturnRows(sqlmock.NewRows([]string{"owner_id"}).AddRow("42"))

		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM leads")).
			WithArgs(leadID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := svc.Delete(context.Background(), &identity.Caller{UserID: "42", Role: identity.RoleUser}, leadID)
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("non-owner is rejected hard", func(t *testing.T) {
		db, mock := newMockDB(t)
		svc := newService(db)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT owner_id FROM leads")).
			WithArgs(leadID).
			WillReturnRows(sqlmock.NewRows([]string{"owner_id"}).AddRow("99"))

		err := svc.Delete(context.Background(), &identity.Caller{UserID: "42", Role: identity.RoleUser}, leadID)
		require.ErrorIs(t, err, ErrNotOwner)
	})

	t.Run("god skips the owner check", func(t *testing.T) {
		db, mock := newMockDB(t)
		svc := newService(db)

		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM leads")).
			WithArgs(leadID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := svc.Delete(context.Background(), &identity.Caller{UserID: "1", Role: identity.RoleGod}, leadID)
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestListFilters(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newService(db)

	caller := &identity.Caller{UserID: "42", Role: identity.RoleUser}

	mock.ExpectQuery(regexp.QuoteMeta("FROM leads")).
		WithArgs("42", "b_contact", "%anna%", "%anna%").
		WillReturnRows(sqlmock.NewRows([]string{"lead_id", "owner_id", "lead_type", "email", "status"}).
			AddRow(uuid.New(), "42", "ebook", "anna@example.com", "b_contact"))

	leads, err := svc.List(context.Background(), caller, &ListFilter{Status: "b_contact", Search: "anna"})
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "anna@example.com", leads[0].Email)
	require.NoError(t, mock.ExpectationsWereMet())
}
