package repository

import (
	"context"
	"fmt"

	"climatesolutions/models"
)

// CatalogRepository stores sectors and projects. Project reads always attach
// the project's Sector. GetProject returns (nil, nil) for an unknown id;
// UpdateProject and DeleteProject ignore unknown ids.
type CatalogRepository interface {
	Sync(ctx context.Context) error
	CountSectors(ctx context.Context) (int64, error)
	Seed(ctx context.Context, sectors []models.Sector, projects []models.Project) error

	ListProjects(ctx context.Context, sectorFilter string) ([]models.Project, error)
	GetProject(ctx context.Context, id int) (*models.Project, error)
	CreateProject(ctx context.Context, project *models.Project) error
	UpdateProject(ctx context.Context, id int, project *models.Project) error
	DeleteProject(ctx context.Context, id int) error

	ListSectors(ctx context.Context) ([]models.Sector, error)
}

// ConstraintError reports a write rejected by a database constraint on a
// single field.
type ConstraintError struct {
	Field   string
	Message string
	Err     error
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ConstraintError) Unwrap() error {
	return e.Err
}
