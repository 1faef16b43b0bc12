package services

import (
	"context"
	"errors"

	"climatesolutions/db/seed"
	"climatesolutions/logger"
	"climatesolutions/models"
	"climatesolutions/repository"
)

// CatalogService serves projects and sectors. An empty result is reported
// as a NotFound error so pages can show a message instead of a blank list.
type CatalogService struct {
	Repo       repository.CatalogRepository
	Production bool
}

func NewCatalogService(repo repository.CatalogRepository, production bool) *CatalogService {
	return &CatalogService{Repo: repo, Production: production}
}

// Initialize syncs the schema and, outside production, seeds an empty
// catalog with the bundled reference data.
func (s *CatalogService) Initialize(ctx context.Context) error {
	if err := s.Repo.Sync(ctx); err != nil {
		return models.NewConnectionError(err, "unable to sync catalog schema: %v", err)
	}
	if s.Production {
		return nil
	}

	count, err := s.Repo.CountSectors(ctx)
	if err != nil {
		return models.NewConnectionError(err, "unable to read catalog: %v", err)
	}
	if count > 0 {
		return nil
	}

	data, err := seed.Load()
	if err != nil {
		return models.NewPersistenceError(err, "unable to load seed data: %v", err)
	}
	if err := s.Repo.Seed(ctx, data.Sectors, data.Projects); err != nil {
		return models.NewPersistenceError(err, "unable to seed catalog: %v", err)
	}
	logger.Infof("seeded catalog with %d sectors and %d projects", len(data.Sectors), len(data.Projects))
	return nil
}

func (s *CatalogService) ListProjects(ctx context.Context) ([]models.Project, error) {
	projects, err := s.Repo.ListProjects(ctx, "")
	if err != nil {
		return nil, models.NewPersistenceError(err, "No projects found")
	}
	if len(projects) == 0 {
		return nil, models.NewNotFoundError("No projects found")
	}
	return projects, nil
}

func (s *CatalogService) ListProjectsBySector(ctx context.Context, fragment string) ([]models.Project, error) {
	projects, err := s.Repo.ListProjects(ctx, fragment)
	if err != nil {
		return nil, models.NewPersistenceError(err, "Unable to find requested projects")
	}
	if len(projects) == 0 {
		return nil, models.NewNotFoundError("Unable to find requested projects")
	}
	return projects, nil
}

func (s *CatalogService) GetProject(ctx context.Context, id int) (*models.Project, error) {
	project, err := s.Repo.GetProject(ctx, id)
	if err != nil {
		return nil, models.NewPersistenceError(err, "Unable to find requested project")
	}
	if project == nil {
		return nil, models.NewNotFoundError("Unable to find requested project")
	}
	return project, nil
}

func (s *CatalogService) CreateProject(ctx context.Context, in models.ProjectInput) (*models.Project, error) {
	if err := validate.Struct(in); err != nil {
		return nil, models.NewValidationError("%s", firstFieldError(err))
	}
	project := in.Project()
	if err := s.Repo.CreateProject(ctx, &project); err != nil {
		return nil, classifyWrite(err, "Failed to add project")
	}
	return &project, nil
}

// UpdateProject replaces the editable fields of project id. An unknown id
// changes nothing and is not an error.
func (s *CatalogService) UpdateProject(ctx context.Context, id int, in models.ProjectInput) error {
	if err := validate.Struct(in); err != nil {
		return models.NewValidationError("%s", firstFieldError(err))
	}
	project := in.Project()
	if err := s.Repo.UpdateProject(ctx, id, &project); err != nil {
		return classifyWrite(err, "Failed to update project")
	}
	return nil
}

func (s *CatalogService) DeleteProject(ctx context.Context, id int) error {
	if err := s.Repo.DeleteProject(ctx, id); err != nil {
		return classifyWrite(err, "Failed to delete project")
	}
	return nil
}

func (s *CatalogService) ListSectors(ctx context.Context) ([]models.Sector, error) {
	sectors, err := s.Repo.ListSectors(ctx)
	if err != nil {
		return nil, models.NewPersistenceError(err, "No sectors found")
	}
	if len(sectors) == 0 {
		return nil, models.NewNotFoundError("No sectors found")
	}
	return sectors, nil
}

func classifyWrite(err error, message string) error {
	var ce *repository.ConstraintError
	if errors.As(err, &ce) {
		return models.NewValidationError("%s", ce.Error())
	}
	return models.NewPersistenceError(err, "%s", message)
}
