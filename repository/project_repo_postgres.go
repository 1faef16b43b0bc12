package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"climatesolutions/db"
	"climatesolutions/models"

	"github.com/lib/pq"
)

type PostgresCatalogRepo struct {
	DB *sql.DB
}

func NewPostgresCatalogRepo(db *sql.DB) *PostgresCatalogRepo {
	return &PostgresCatalogRepo{DB: db}
}

const selectProjects = `
	SELECT p.id, p.title, COALESCE(p.feature_img_url, ''), COALESCE(p.summary_short, ''),
		COALESCE(p.intro_short, ''), COALESCE(p.impact, ''), COALESCE(p.original_source_url, ''),
		p.sector_id, s.id, COALESCE(s.sector_name, '')
	FROM projects p
	JOIN sectors s ON s.id = p.sector_id`

// ------------------------ Helper Functions ------------------------

func scanProject(row interface{ Scan(...any) error }) (*models.Project, error) {
	p := &models.Project{Sector: &models.Sector{}}
	err := row.Scan(&p.ID, &p.Title, &p.FeatureImgURL, &p.SummaryShort,
		&p.IntroShort, &p.Impact, &p.OriginalSourceURL,
		&p.SectorID, &p.Sector.ID, &p.Sector.Name)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// translatePQError maps constraint violations onto the offending field.
func translatePQError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code.Name() {
	case "foreign_key_violation":
		return &ConstraintError{Field: "sector_id", Message: "selected sector does not exist", Err: err}
	case "not_null_violation":
		return &ConstraintError{Field: pqErr.Column, Message: "cannot be null", Err: err}
	case "string_data_right_truncation":
		return &ConstraintError{Field: pqErr.Column, Message: "value too long", Err: err}
	case "invalid_text_representation":
		return &ConstraintError{Field: pqErr.Column, Message: "invalid value", Err: err}
	}
	return err
}

// ------------------------ Schema ------------------------

func (r *PostgresCatalogRepo) Sync(ctx context.Context) error {
	return db.RunMigrations(r.DB)
}

func (r *PostgresCatalogRepo) CountSectors(ctx context.Context) (int64, error) {
	var count int64
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM sectors`).Scan(&count); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return count, nil
}

// Seed inserts the fixtures with their ids and moves the serial sequences past them.
func (r *PostgresCatalogRepo) Seed(ctx context.Context, sectors []models.Sector, projects []models.Project) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, s := range sectors {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO sectors (id, sector_name) VALUES ($1, $2)`, s.ID, s.Name); err != nil {
			return fmt.Errorf("seed sector %d: %w", s.ID, err)
		}
	}

	for _, p := range projects {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO projects (id, title, feature_img_url, summary_short, intro_short, impact, original_source_url, sector_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, p.ID, p.Title, p.FeatureImgURL, p.SummaryShort, p.IntroShort, p.Impact, p.OriginalSourceURL, p.SectorID); err != nil {
			return fmt.Errorf("seed project %d: %w", p.ID, err)
		}
	}

	for _, table := range []string{"sectors", "projects"} {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf(
			`SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE((SELECT MAX(id) FROM %s), 1))`,
			table, table)); err != nil {
			return fmt.Errorf("reset %s sequence: %w", table, err)
		}
	}

	return tx.Commit()
}

// ------------------------ Projects ------------------------

func (r *PostgresCatalogRepo) ListProjects(ctx context.Context, sectorFilter string) ([]models.Project, error) {
	var sb strings.Builder
	sb.WriteString(selectProjects)
	args := []any{}
	if sectorFilter != "" {
		sb.WriteString(` WHERE s.sector_name ILIKE $1`)
		args = append(args, "%"+sectorFilter+"%")
	}
	sb.WriteString(` ORDER BY p.id`)

	rows, err := r.DB.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		projects = append(projects, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return projects, nil
}

func (r *PostgresCatalogRepo) GetProject(ctx context.Context, id int) (*models.Project, error) {
	p, err := scanProject(r.DB.QueryRowContext(ctx, selectProjects+` WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresCatalogRepo) CreateProject(ctx context.Context, p *models.Project) error {
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO projects (title, feature_img_url, summary_short, intro_short, impact, original_source_url, sector_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, p.Title, p.FeatureImgURL, p.SummaryShort, p.IntroShort, p.Impact, p.OriginalSourceURL, p.SectorID).Scan(&p.ID)
	if err != nil {
		return translatePQError(err)
	}
	return nil
}

func (r *PostgresCatalogRepo) UpdateProject(ctx context.Context, id int, p *models.Project) error {
	_, err := r.DB.ExecContext(ctx, `
		UPDATE projects
		SET title=$1, feature_img_url=$2, summary_short=$3, intro_short=$4,
			impact=$5, original_source_url=$6, sector_id=$7
		WHERE id=$8
	`, p.Title, p.FeatureImgURL, p.SummaryShort, p.IntroShort, p.Impact, p.OriginalSourceURL, p.SectorID, id)
	if err != nil {
		return translatePQError(err)
	}
	return nil
}

func (r *PostgresCatalogRepo) DeleteProject(ctx context.Context, id int) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM projects WHERE id=$1`, id); err != nil {
		return translatePQError(err)
	}
	return nil
}

// ------------------------ Sectors ------------------------

func (r *PostgresCatalogRepo) ListSectors(ctx context.Context) ([]models.Sector, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id, COALESCE(sector_name, '') FROM sectors ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	sectors := []models.Sector{}
	for rows.Next() {
		var s models.Sector
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		sectors = append(sectors, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return sectors, nil
}
