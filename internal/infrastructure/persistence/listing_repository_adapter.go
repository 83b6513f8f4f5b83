package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/edumatch/edumatch-backend/internal/domain/content"
	"github.com/edumatch/edumatch-backend/internal/domain/entity"
	"github.com/edumatch/edumatch-backend/internal/domain/repository"
	"github.com/edumatch/edumatch-backend/internal/domain/valueobject"
	"github.com/edumatch/edumatch-backend/internal/pkg/apperror"
)

// listingRow строка таблицы services или posts.
type listingRow struct {
	ID              uuid.UUID        `db:"id"`
	ProviderID      uuid.UUID        `db:"provider_id"`
	Title           string           `db:"title"`
	Category        string           `db:"category"`
	Blocks          content.Document `db:"blocks"`
	Content         string           `db:"content"`
	ThumbnailURL    *string          `db:"thumbnail_url"`
	YoutubeURL      *string          `db:"youtube_url"`
	Images          pq.StringArray   `db:"images"`
	FavoriteCount   int              `db:"favorite_count"`
	RequestCount    int              `db:"request_count"`
	ViewCount       int              `db:"view_count"`
	Status          string           `db:"status"`
	IsPublished     bool             `db:"is_published"`
	IsMemberOnly    bool             `db:"is_member_only"`
	SubmittedAt     *time.Time       `db:"submitted_at"`
	ApprovedAt      *time.Time       `db:"approved_at"`
	RejectedAt      *time.Time       `db:"rejected_at"`
	RejectionReason *string          `db:"rejection_reason"`
	CreatedAt       time.Time        `db:"created_at"`
	UpdatedAt       time.Time        `db:"updated_at"`
}

func (row *listingRow) toEntity(kind valueobject.ListingKind) *entity.Listing {
	images := []string(row.Images)
	if images == nil {
		images = []string{}
	}
	blocks := row.Blocks
	if blocks == nil {
		blocks = content.Document{}
	}
	return &entity.Listing{
		ID:              row.ID,
		Kind:            kind,
		ProviderID:      row.ProviderID,
		Title:           row.Title,
		Category:        row.Category,
		Blocks:          blocks,
		Content:         row.Content,
		ThumbnailURL:    row.ThumbnailURL,
		YoutubeURL:      row.YoutubeURL,
		Images:          images,
		FavoriteCount:   row.FavoriteCount,
		RequestCount:    row.RequestCount,
		ViewCount:       row.ViewCount,
		Status:          valueobject.ListingStatus(row.Status),
		IsPublished:     row.IsPublished,
		IsMemberOnly:    row.IsMemberOnly,
		SubmittedAt:     row.SubmittedAt,
		ApprovedAt:      row.ApprovedAt,
		RejectedAt:      row.RejectedAt,
		RejectionReason: row.RejectionReason,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
}

// ListingRepositoryAdapter хранит материалы одного вида в его таблице.
// У статей нет колонки request_count, она читается как ноль.
type ListingRepositoryAdapter struct {
	db    *sqlx.DB
	kind  valueobject.ListingKind
	table string
}

func NewListingRepositoryAdapter(db *sqlx.DB, kind valueobject.ListingKind) *ListingRepositoryAdapter {
	return &ListingRepositoryAdapter{db: db, kind: kind, table: kind.Table()}
}

func (r *ListingRepositoryAdapter) columns() string {
	requestCol := "request_count"
	if !r.kind.HasRequests() {
		requestCol = "0 AS request_count"
	}
	return `id, provider_id, title, category, blocks, content, thumbnail_url, youtube_url, images,
		favorite_count, ` + requestCol + `, view_count, status, is_published, is_member_only,
		submitted_at, approved_at, rejected_at, rejection_reason, created_at, updated_at`
}

func (r *ListingRepositoryAdapter) Create(ctx context.Context, listing *entity.Listing) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, provider_id, title, category, blocks, content, thumbnail_url, youtube_url, images,
			status, is_published, is_member_only, submitted_at, approved_at, rejected_at, rejection_reason,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`, r.table)

	_, err := r.db.ExecContext(ctx, query,
		listing.ID,
		listing.ProviderID,
		listing.Title,
		listing.Category,
		listing.Blocks,
		listing.Content,
		listing.ThumbnailURL,
		listing.YoutubeURL,
		pq.StringArray(listing.Images),
		string(listing.Status),
		listing.IsPublished,
		listing.IsMemberOnly,
		listing.SubmittedAt,
		listing.ApprovedAt,
		listing.RejectedAt,
		listing.RejectionReason,
		listing.CreatedAt,
		listing.UpdatedAt,
	)
	return classify(err, "не удалось создать материал")
}

// Update сохраняет редактируемые поля и состояние модерации. Счётчики не трогает,
// их меняют только атомарные AdjustCounter и IncrementViews.
func (r *ListingRepositoryAdapter) Update(ctx context.Context, listing *entity.Listing) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET title = $2, category = $3, blocks = $4, content = $5, thumbnail_url = $6, youtube_url = $7,
		    images = $8, status = $9, is_published = $10, is_member_only = $11, submitted_at = $12,
		    approved_at = $13, rejected_at = $14, rejection_reason = $15, updated_at = $16
		WHERE id = $1
	`, r.table)

	result, err := r.db.ExecContext(ctx, query,
		listing.ID,
		listing.Title,
		listing.Category,
		listing.Blocks,
		listing.Content,
		listing.ThumbnailURL,
		listing.YoutubeURL,
		pq.StringArray(listing.Images),
		string(listing.Status),
		listing.IsPublished,
		listing.IsMemberOnly,
		listing.SubmittedAt,
		listing.ApprovedAt,
		listing.RejectedAt,
		listing.RejectionReason,
		listing.UpdatedAt,
	)
	if err != nil {
		return classify(err, "не удалось обновить материал")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return classify(err, "не удалось проверить результат обновления")
	}
	if rows == 0 {
		return apperror.ErrListingNotFound
	}
	return nil
}

func (r *ListingRepositoryAdapter) FindByID(ctx context.Context, id uuid.UUID) (*entity.Listing, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, r.columns(), r.table)

	var row listingRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrListingNotFound
		}
		return nil, classify(err, "не удалось получить материал")
	}
	return row.toEntity(r.kind), nil
}

func (r *ListingRepositoryAdapter) FindByProviderID(ctx context.Context, providerID uuid.UUID) ([]*entity.Listing, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE provider_id = $1 ORDER BY created_at DESC`, r.columns(), r.table)
	return r.selectListings(ctx, "не удалось получить материалы автора", query, providerID)
}

func (r *ListingRepositoryAdapter) List(ctx context.Context, filter repository.ListingFilter) ([]*entity.Listing, int, error) {
	where, args := buildListingWhere(filter)

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s%s`, r.table, where)
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, classify(err, "не удалось подсчитать материалы")
	}

	sortBy := "created_at"
	if _, ok := repository.ValidSortFields[filter.SortBy]; ok {
		sortBy = filter.SortBy
	}
	sortOrder := "DESC"
	if strings.EqualFold(filter.SortOrder, "ASC") {
		sortOrder = "ASC"
	}

	query := fmt.Sprintf(`SELECT %s FROM %s%s ORDER BY %s %s NULLS LAST, id`, r.columns(), r.table, where, sortBy, sortOrder)
	argNum := len(args) + 1
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argNum)
		args = append(args, filter.Limit)
		argNum++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argNum)
		args = append(args, filter.Offset)
	}

	listings, err := r.selectListings(ctx, "не удалось получить список материалов", query, args...)
	if err != nil {
		return nil, 0, err
	}
	return listings, total, nil
}

// buildListingWhere собирает условие WHERE с позиционными аргументами.
func buildListingWhere(filter repository.ListingFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}
	argNum := 1

	if filter.PubliclyListed {
		conditions = append(conditions, fmt.Sprintf("(status = '%s' OR is_published = TRUE)", valueobject.ListingStatusApproved))
	}
	if filter.ExcludeMemberOnly {
		conditions = append(conditions, "is_member_only = FALSE")
	}
	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argNum))
		args = append(args, filter.Category)
		argNum++
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(title ILIKE $%d OR content ILIKE $%d)", argNum, argNum))
		args = append(args, "%"+escapeLike(filter.Search)+"%")
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// ListPending возвращает материалы на модерации, первыми отправленные раньше.
func (r *ListingRepositoryAdapter) ListPending(ctx context.Context, limit int) ([]*entity.Listing, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE status = $1 ORDER BY submitted_at ASC NULLS LAST, id LIMIT $2`, r.columns(), r.table)
	return r.selectListings(ctx, "не удалось получить очередь модерации", query, string(valueobject.ListingStatusPending), limit)
}

func (r *ListingRepositoryAdapter) selectListings(ctx context.Context, message, query string, args ...interface{}) ([]*entity.Listing, error) {
	var rows []listingRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, classify(err, message)
	}

	listings := make([]*entity.Listing, 0, len(rows))
	for i := range rows {
		listings = append(listings, rows[i].toEntity(r.kind))
	}
	return listings, nil
}

// AdjustCounter меняет счётчик одним запросом. Значение не опускается ниже нуля,
// clamped сообщает, что без ограничения оно стало бы отрицательным.
func (r *ListingRepositoryAdapter) AdjustCounter(ctx context.Context, id uuid.UUID, counter repository.Counter, delta int) (int, bool, error) {
	switch counter {
	case repository.CounterFavorite:
	case repository.CounterRequest:
		if !r.kind.HasRequests() {
			return 0, false, apperror.ErrRequestsNotAllowed
		}
	default:
		return 0, false, apperror.New(apperror.ErrCodeValidation, "неизвестный счётчик")
	}

	col := string(counter)
	query := fmt.Sprintf(`
		WITH prev AS (
			SELECT %[2]s AS value FROM %[1]s WHERE id = $1 FOR UPDATE
		)
		UPDATE %[1]s AS t
		SET %[2]s = GREATEST(prev.value + $2, 0)
		FROM prev
		WHERE t.id = $1
		RETURNING t.%[2]s, (prev.value + $2) < 0
	`, r.table, col)

	var value int
	var clamped bool
	if err := r.db.QueryRowContext(ctx, query, id, delta).Scan(&value, &clamped); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, apperror.ErrListingNotFound
		}
		return 0, false, classify(err, "не удалось обновить счётчик")
	}
	return value, clamped, nil
}

func (r *ListingRepositoryAdapter) IncrementViews(ctx context.Context, id uuid.UUID) error {
	query := fmt.Sprintf(`UPDATE %s SET view_count = view_count + 1 WHERE id = $1`, r.table)
	_, err := r.db.ExecContext(ctx, query, id)
	return classify(err, "не удалось обновить счётчик просмотров")
}
