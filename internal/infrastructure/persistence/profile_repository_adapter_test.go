package persistence

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edumatch/edumatch-backend/internal/domain/valueobject"
	"github.com/edumatch/edumatch-backend/internal/pkg/apperror"
)

var profileColumns = []string{"id", "email", "display_name", "role", "subscription_status", "created_at", "updated_at"}

func TestProfileRepository_FindByID(t *testing.T) {
	tests := map[string]struct {
		stored string
		want   valueobject.Role
	}{
		"admin":        {stored: "ADMIN", want: valueobject.RoleAdmin},
		"provider":     {stored: "PROVIDER", want: valueobject.RoleProvider},
		"unknown role": {stored: "SUPERUSER", want: valueobject.RoleViewer},
		"lowercase":    {stored: "admin", want: valueobject.RoleViewer},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewProfileRepositoryAdapter(db)

			id := uuid.New()
			now := time.Now().UTC()
			mock.ExpectQuery(regexp.QuoteMeta("FROM profiles")).
				WithArgs(id).
				WillReturnRows(sqlmock.NewRows(profileColumns).
					AddRow(id.String(), "a@example.com", "Анна", tt.stored, "free", now, now))

			profile, err := repo.FindByID(context.Background(), id)
			require.NoError(t, err)
			assert.Equal(t, tt.want, profile.Role)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestProfileRepository_FindByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProfileRepositoryAdapter(db)

	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta("FROM profiles")).WithArgs(id).WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), id)
	assert.ErrorIs(t, err, apperror.ErrProfileNotFound)
}
