package repository

import (
	"context"
	"errors"
	"strings"

	"climatesolutions/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCatalogRepo is the catalog on any GORM dialect; the server uses it
// with SQLite when CATALOG_DB=sqlite.
type GormCatalogRepo struct {
	DB *gorm.DB
}

func NewGormCatalogRepo(db *gorm.DB) *GormCatalogRepo {
	return &GormCatalogRepo{DB: db}
}

func translateGormError(err error) error {
	switch {
	case errors.Is(err, gorm.ErrForeignKeyViolated),
		strings.Contains(err.Error(), "FOREIGN KEY constraint failed"):
		return &ConstraintError{Field: "sector_id", Message: "selected sector does not exist", Err: err}
	case strings.Contains(err.Error(), "NOT NULL constraint failed"):
		field := err.Error()[strings.LastIndex(err.Error(), ".")+1:]
		return &ConstraintError{Field: field, Message: "cannot be null", Err: err}
	}
	return err
}

func (r *GormCatalogRepo) Sync(ctx context.Context) error {
	return r.DB.WithContext(ctx).AutoMigrate(&models.Sector{}, &models.Project{})
}

func (r *GormCatalogRepo) CountSectors(ctx context.Context) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.Sector{}).Count(&count).Error
	return count, err
}

func (r *GormCatalogRepo) Seed(ctx context.Context, sectors []models.Sector, projects []models.Project) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(sectors) > 0 {
			if err := tx.Create(&sectors).Error; err != nil {
				return err
			}
		}
		if len(projects) > 0 {
			if err := tx.Omit(clause.Associations).Create(&projects).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *GormCatalogRepo) ListProjects(ctx context.Context, sectorFilter string) ([]models.Project, error) {
	projects := []models.Project{}
	q := r.DB.WithContext(ctx).Joins("Sector")
	if sectorFilter != "" {
		q = q.Where(`LOWER("Sector"."sector_name") LIKE ?`, "%"+strings.ToLower(sectorFilter)+"%")
	}
	if err := q.Order("projects.id").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *GormCatalogRepo) GetProject(ctx context.Context, id int) (*models.Project, error) {
	project := &models.Project{}
	err := r.DB.WithContext(ctx).Joins("Sector").Where("projects.id = ?", id).First(project).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return project, nil
}

func (r *GormCatalogRepo) CreateProject(ctx context.Context, project *models.Project) error {
	if err := r.DB.WithContext(ctx).Omit(clause.Associations).Create(project).Error; err != nil {
		return translateGormError(err)
	}
	return nil
}

func (r *GormCatalogRepo) UpdateProject(ctx context.Context, id int, project *models.Project) error {
	err := r.DB.WithContext(ctx).
		Model(&models.Project{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"title":               project.Title,
			"feature_img_url":     project.FeatureImgURL,
			"summary_short":       project.SummaryShort,
			"intro_short":         project.IntroShort,
			"impact":              project.Impact,
			"original_source_url": project.OriginalSourceURL,
			"sector_id":           project.SectorID,
		}).Error
	if err != nil {
		return translateGormError(err)
	}
	return nil
}

func (r *GormCatalogRepo) DeleteProject(ctx context.Context, id int) error {
	if err := r.DB.WithContext(ctx).Delete(&models.Project{}, id).Error; err != nil {
		return translateGormError(err)
	}
	return nil
}

func (r *GormCatalogRepo) ListSectors(ctx context.Context) ([]models.Sector, error) {
	sectors := []models.Sector{}
	if err := r.DB.WithContext(ctx).Order("id").Find(&sectors).Error; err != nil {
		return nil, err
	}
	return sectors, nil
}
