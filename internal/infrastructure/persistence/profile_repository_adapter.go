package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/edumatch/edumatch-backend/internal/domain/entity"
	"github.com/edumatch/edumatch-backend/internal/domain/valueobject"
	"github.com/edumatch/edumatch-backend/internal/logger"
	"github.com/edumatch/edumatch-backend/internal/pkg/apperror"
)

type profileRow struct {
	ID                 uuid.UUID `db:"id"`
	Email              string    `db:"email"`
	DisplayName        string    `db:"display_name"`
	Role               string    `db:"role"`
	SubscriptionStatus string    `db:"subscription_status"`
	CreatedAt          time.Time `db:"created_at"`
	UpdatedAt          time.Time `db:"updated_at"`
}

type ProfileRepositoryAdapter struct {
	db *sqlx.DB
}

func NewProfileRepositoryAdapter(db *sqlx.DB) *ProfileRepositoryAdapter {
	return &ProfileRepositoryAdapter{db: db}
}

func (r *ProfileRepositoryAdapter) FindByID(ctx context.Context, id uuid.UUID) (*entity.Profile, error) {
	query := `
		SELECT id, email, display_name, role, subscription_status, created_at, updated_at
		FROM profiles
		WHERE id = $1
	`

	var row profileRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrProfileNotFound
		}
		return nil, classify(err, "не удалось получить профиль")
	}

	// Неизвестная роль не даёт никаких прав
	role, err := valueobject.NewRole(row.Role)
	if err != nil {
		logger.WithOp("profile.FindByID").WithField("profile_id", row.ID).WithField("role", row.Role).Warn("unknown role, treating as viewer")
		role = valueobject.RoleViewer
	}

	return &entity.Profile{
		ID:                 row.ID,
		Email:              row.Email,
		DisplayName:        row.DisplayName,
		Role:               role,
		SubscriptionStatus: row.SubscriptionStatus,
		CreatedAt:          row.CreatedAt,
		UpdatedAt:          row.UpdatedAt,
	}, nil
}

// Create не перезаписывает существующий профиль, поэтому параллельные
// первые запросы одного аккаунта не конфликтуют.
func (r *ProfileRepositoryAdapter) Create(ctx context.Context, profile *entity.Profile) error {
	query := `
		INSERT INTO profiles (id, email, display_name, role, subscription_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING
	`

	_, err := r.db.ExecContext(ctx, query,
		profile.ID,
		profile.Email,
		profile.DisplayName,
		string(profile.Role),
		profile.SubscriptionStatus,
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	return classify(err, "не удалось создать профиль")
}
