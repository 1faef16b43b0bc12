package handlers

import (
	"context"

	"climatesolutions/models"
	"climatesolutions/services"
)

// Accounts is the part of services.AccountService the handlers use.
type Accounts interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.User, error)
	Authenticate(ctx context.Context, userName, password, clientIdentifier string) (*models.User, error)
}

// Catalog is the part of services.CatalogService the handlers use.
type Catalog interface {
	ListProjects(ctx context.Context) ([]models.Project, error)
	ListProjectsBySector(ctx context.Context, fragment string) ([]models.Project, error)
	GetProject(ctx context.Context, id int) (*models.Project, error)
	CreateProject(ctx context.Context, in models.ProjectInput) (*models.Project, error)
	UpdateProject(ctx context.Context, id int, in models.ProjectInput) error
	DeleteProject(ctx context.Context, id int) error
	ListSectors(ctx context.Context) ([]models.Sector, error)
}
