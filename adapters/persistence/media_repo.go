package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/khoahotran/media-vault/internal/domain/media"
	"github.com/khoahotran/media-vault/pkg/apperror"
	"github.com/khoahotran/media-vault/pkg/logger"
)

const pgUniqueViolation = "23505"

type postgresMediaRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresMediaRepo(db *pgxpool.Pool, logger logger.Logger) media.Repository {
	return &postgresMediaRepo{db: db, logger: logger}
}

var psqlMedia = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func mediaColumns(kind media.Kind) []string {
	cols := []string{"id", "owner_id", "title", "description", "asset_ref", "original_size_bytes"}
	if kind == media.KindVideo {
		cols = append(cols, "compressed_size_bytes", "duration_seconds")
	}
	return append(cols, "created_at", "updated_at")
}

func scanMedia(row pgx.Row, kind media.Kind) (*media.Media, error) {
	m := &media.Media{Kind: kind}

	dest := []any{&m.ID, &m.OwnerID, &m.Title, &m.Description, &m.AssetRef, &m.OriginalSizeBytes}
	if kind == media.KindVideo {
		dest = append(dest, &m.CompressedSizeBytes, &m.DurationSeconds)
	}
	dest = append(dest, &m.CreatedAt, &m.UpdatedAt)

	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("media", "")
		}
		return nil, apperror.NewInternal("failed to scan media row", err)
	}
	return m, nil
}

func scanMedias(rows pgx.Rows, kind media.Kind) ([]*media.Media, error) {
	defer rows.Close()
	medias := make([]*media.Media, 0)
	for rows.Next() {
		m, err := scanMedia(rows, kind)
		if err != nil {
			return nil, err
		}
		medias = append(medias, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating media rows", err)
	}
	return medias, nil
}

// Create assigns the id and both timestamps before inserting.
func (r *postgresMediaRepo) Create(ctx context.Context, m *media.Media) error {
	m.ID = uuid.New()
	now := time.Now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now

	var err error
	if m.Kind == media.KindVideo {
		query := `
			INSERT INTO videos (id, owner_id, title, description, asset_ref, original_size_bytes, compressed_size_bytes, duration_seconds, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`
		_, err = r.db.Exec(ctx, query,
			m.ID, m.OwnerID, m.Title, m.Description, m.AssetRef,
			m.OriginalSizeBytes, m.CompressedSizeBytes, m.DurationSeconds,
			m.CreatedAt, m.UpdatedAt,
		)
	} else {
		query := `
			INSERT INTO images (id, owner_id, title, description, asset_ref, original_size_bytes, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`
		_, err = r.db.Exec(ctx, query,
			m.ID, m.OwnerID, m.Title, m.Description, m.AssetRef,
			m.OriginalSizeBytes, m.CreatedAt, m.UpdatedAt,
		)
	}
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return apperror.NewConflict("media", "asset_ref", m.AssetRef)
		}
		return apperror.NewInternal("failed to insert media", err)
	}
	return nil
}

func (r *postgresMediaRepo) FindByID(ctx context.Context, kind media.Kind, id uuid.UUID) (*media.Media, error) {
	builder := psqlMedia.Select(mediaColumns(kind)...).
		From(kind.Plural()).
		Where(sq.Eq{"id": id})

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build find media query", err)
	}
	row := r.db.QueryRow(ctx, query, args...)
	m, err := scanMedia(row, kind)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NewNotFound("media", id.String())
		}
		return nil, err
	}
	return m, nil
}

func (r *postgresMediaRepo) ListByOwner(ctx context.Context, kind media.Kind, ownerID uuid.UUID) ([]*media.Media, error) {
	builder := psqlMedia.Select(mediaColumns(kind)...).
		From(kind.Plural()).
		Where(sq.Eq{"owner_id": ownerID}).
		OrderBy("created_at DESC")

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build list media by owner query", err)
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperror.NewInternal("failed to query media by owner", err)
	}
	return scanMedias(rows, kind)
}

// DeleteByID is unconditional; the delete use case checks ownership first.
func (r *postgresMediaRepo) DeleteByID(ctx context.Context, kind media.Kind, id uuid.UUID) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, kind.Plural())
	cmdTag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return apperror.NewInternal("failed to delete media", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("media", id.String())
	}
	return nil
}
