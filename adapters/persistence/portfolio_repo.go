package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/khoahotran/career-studio/internal/domain/portfolio"
	"github.com/khoahotran/career-studio/pkg/apperror"
	"github.com/khoahotran/career-studio/pkg/logger"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const portfolioColumns = `owner_id, slug, theme, personal_info, education, experience, projects,
	certificates, skills, social_links, is_public, snapshot_url, created_at, updated_at`

type postgresPortfolioRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresPortfolioRepo(db *pgxpool.Pool, logger logger.Logger) portfolio.Repository {
	return &postgresPortfolioRepo{db: db, logger: logger}
}

// sectionColumns holds the JSONB encoding of every portfolio collection.
type sectionColumns struct {
	personalInfo, education, experience, projects, certificates, skills, socialLinks []byte
}

func encodeSections(p *portfolio.Portfolio) (sectionColumns, error) {
	var cols sectionColumns
	var err error
	encode := func(dst *[]byte, v any) {
		if err != nil {
			return
		}
		*dst, err = json.Marshal(v)
	}
	encode(&cols.personalInfo, p.PersonalInfo)
	encode(&cols.education, p.Education)
	encode(&cols.experience, p.Experience)
	encode(&cols.projects, p.Projects)
	encode(&cols.certificates, p.Certificates)
	encode(&cols.skills, p.Skills)
	encode(&cols.socialLinks, p.SocialLinks)
	return cols, err
}

func (r *postgresPortfolioRepo) scanPortfolio(row pgx.Row) (*portfolio.Portfolio, error) {
	p := &portfolio.Portfolio{}
	var slug *string
	var cols sectionColumns

	err := row.Scan(
		&p.OwnerID,
		&slug,
		&p.Theme,
		&cols.personalInfo,
		&cols.education,
		&cols.experience,
		&cols.projects,
		&cols.certificates,
		&cols.skills,
		&cols.socialLinks,
		&p.IsPublic,
		&p.SnapshotURL,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if slug != nil {
		p.Slug = *slug
	}

	decode := func(column string, raw []byte, dst any) {
		if len(raw) == 0 {
			return
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			r.logger.Warn("Failed to unmarshal portfolio column",
				zap.String("owner_id", p.OwnerID.String()), zap.String("column", column), zap.Error(err))
		}
	}
	decode("personal_info", cols.personalInfo, &p.PersonalInfo)
	decode("education", cols.education, &p.Education)
	decode("experience", cols.experience, &p.Experience)
	decode("projects", cols.projects, &p.Projects)
	decode("certificates", cols.certificates, &p.Certificates)
	decode("skills", cols.skills, &p.Skills)
	decode("social_links", cols.socialLinks, &p.SocialLinks)

	p.Normalize()
	return p, nil
}

func (r *postgresPortfolioRepo) GetByOwner(ctx context.Context, ownerID uuid.UUID) (*portfolio.Portfolio, error) {
	query := `SELECT ` + portfolioColumns + ` FROM portfolios WHERE owner_id = $1`

	p, err := r.scanPortfolio(r.db.QueryRow(ctx, query, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("portfolio", ownerID.String())
		}
		return nil, apperror.NewInternal("failed to query portfolio", err)
	}
	return p, nil
}

func (r *postgresPortfolioRepo) FindPublicBySlug(ctx context.Context, slug string) (*portfolio.Portfolio, error) {
	query := `SELECT ` + portfolioColumns + ` FROM portfolios WHERE slug = $1 AND is_public = TRUE`

	p, err := r.scanPortfolio(r.db.QueryRow(ctx, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("portfolio", slug)
		}
		return nil, apperror.NewInternal("failed to query public portfolio", err)
	}
	return p, nil
}

func (r *postgresPortfolioRepo) Upsert(ctx context.Context, p *portfolio.Portfolio) error {
	cols, err := encodeSections(p)
	if err != nil {
		return apperror.NewInternal("failed to marshal portfolio sections", err)
	}

	var slug *string
	if p.Slug != "" {
		slug = &p.Slug
	}

	query := `
		INSERT INTO portfolios (owner_id, slug, theme, personal_info, education, experience, projects,
			certificates, skills, social_links, is_public, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (owner_id) DO UPDATE SET
			slug = EXCLUDED.slug,
			theme = EXCLUDED.theme,
			personal_info = EXCLUDED.personal_info,
			education = EXCLUDED.education,
			experience = EXCLUDED.experience,
			projects = EXCLUDED.projects,
			certificates = EXCLUDED.certificates,
			skills = EXCLUDED.skills,
			social_links = EXCLUDED.social_links,
			is_public = EXCLUDED.is_public,
			updated_at = EXCLUDED.updated_at
	`
	_, err = r.db.Exec(ctx, query,
		p.OwnerID,
		slug,
		p.Theme,
		cols.personalInfo,
		cols.education,
		cols.experience,
		cols.projects,
		cols.certificates,
		cols.skills,
		cols.socialLinks,
		p.IsPublic,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperror.NewConflict("portfolio", "slug", p.Slug)
		}
		return apperror.NewInternal("failed to upsert portfolio", err)
	}
	return nil
}

// SetSnapshotURL records the published snapshot. An empty url clears it.
func (r *postgresPortfolioRepo) SetSnapshotURL(ctx context.Context, ownerID uuid.UUID, url string) error {
	var value *string
	if url != "" {
		value = &url
	}

	builder := psql.Update("portfolios").
		Set("snapshot_url", value).
		Where(sq.Eq{"owner_id": ownerID})

	sql, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("build snapshot update: %w", err)
	}
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return apperror.NewInternal("failed to update snapshot url", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("portfolio", ownerID.String())
	}
	return nil
}

func (r *postgresPortfolioRepo) ListPublic(ctx context.Context, limit, offset int) ([]portfolio.Summary, error) {
	builder := psql.Select(
		"owner_id", "slug", "theme",
		"COALESCE(personal_info->>'full_name', '')",
		"COALESCE(personal_info->>'headline', '')",
		"updated_at",
	).
		From("portfolios").
		Where(sq.Eq{"is_public": true}).
		Where(sq.NotEq{"slug": nil}).
		OrderBy("updated_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset))

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build public portfolio query: %w", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query public portfolios: %w", err)
	}
	defer rows.Close()

	summaries := []portfolio.Summary{}
	for rows.Next() {
		var s portfolio.Summary
		if err := rows.Scan(&s.OwnerID, &s.Slug, &s.Theme, &s.FullName, &s.Headline, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan public portfolio: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}
