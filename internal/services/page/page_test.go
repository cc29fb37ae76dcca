package page

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

func TestDisplayStatus(t *testing.T) {
	assert.Equal(t, "published", (&Page{Status: "active"}).DisplayStatus())
	assert.Equal(t, "pending", (&Page{Status: "pending"}).DisplayStatus())
	assert.Equal(t, "draft", (&Page{Status: "draft"}).DisplayStatus())
	assert.Equal(t, "draft", (&Page{Status: ""}).DisplayStatus())
}

func TestListDecoratesAndCounts(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewPageService(NewPageRepo(db), scope.NewScopeService(scope.NewScopeRepo(db), nil))

	caller := &identity.Caller{UserID: "42", Role: identity.RoleGod}

	rows := sqlmock.NewRows([]string{"id", "owner_id", "page_type", "title", "slug", "status", "visitors", "leads"}).
		AddRow(uuid.New(), "42", "ebook", "Guide", "guide", "active", 100, 7).
		AddRow(uuid.New(), "99", "sales", "Offer", "offer", "pending", 10, 1).
		AddRow(uuid.New(), "99", "sales", "WIP", "wip", "draft", 0, 0)

	mock.ExpectQuery(regexp.QuoteMeta("FROM pages")).WillReturnRows(rows)

	list, err := svc.List(context.Background(), caller, &ListFilter{})
	require.NoError(t, err)

	require.Len(t, list.Pages, 3)
	assert.Equal(t, "published", list.Pages[0].DisplayStatus)
	assert.True(t, list.Pages[0].IsOwnedByUser)
	assert.False(t, list.Pages[1].IsOwnedByUser)

	assert.Equal(t, Summary{Total: 3, Published: 1, Pending: 1, Draft: 1, Ebook: 1, Sales: 2}, list.Summary)
	require.NoError(t, mock.ExpectationsWereMet())
}
