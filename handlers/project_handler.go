package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"climatesolutions/logger"
	"climatesolutions/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

type ProjectHandler struct {
	Catalog Catalog
}

// ListProjects shows every project, or those whose sector name contains
// the sector query parameter. A failed lookup shows an empty list.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	sector := c.Query("sector")

	var (
		projects []models.Project
		err      error
	)
	if sector != "" {
		projects, err = h.Catalog.ListProjectsBySector(c.Request.Context(), sector)
	} else {
		projects, err = h.Catalog.ListProjects(c.Request.Context())
	}
	if err != nil {
		logger.Infof("error loading projects (sector %q): %v", sector, err)
		projects = []models.Project{}
	}

	render(c, http.StatusOK, "projects", PageData{
		Page:     "/solutions/projects",
		Sector:   sector,
		Projects: projects,
	})
}

func (h *ProjectHandler) ShowProject(c *gin.Context) {
	raw := c.Param("id")
	id, err := strconv.Atoi(raw)
	if err == nil {
		var project *models.Project
		project, err = h.Catalog.GetProject(c.Request.Context(), id)
		if err == nil {
			render(c, http.StatusOK, "project", PageData{Project: project})
			return
		}
	}
	renderNotFound(c, fmt.Sprintf("Project with id %s cannot be found.", raw))
}

func (h *ProjectHandler) AddProjectPage(c *gin.Context) {
	sectors, err := h.Catalog.ListSectors(c.Request.Context())
	if err != nil {
		logger.Infof("error loading sectors: %v", err)
		sectors = []models.Sector{}
	}
	render(c, http.StatusOK, "addProject", PageData{Page: "/solutions/addProject", Sectors: sectors})
}

func (h *ProjectHandler) AddProject(c *gin.Context) {
	var in models.ProjectInput
	if err := c.ShouldBind(&in); err != nil {
		renderFailure(c, err)
		return
	}
	if _, err := h.Catalog.CreateProject(c.Request.Context(), in); err != nil {
		renderFailure(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/solutions/projects")
}

// EditProjectPage loads the project and the sector list in parallel; if
// either fails the page is a 404 carrying that error.
func (h *ProjectHandler) EditProjectPage(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		renderNotFound(c, "Unable to find requested project")
		return
	}

	var (
		project *models.Project
		sectors []models.Sector
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		project, err = h.Catalog.GetProject(ctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		sectors, err = h.Catalog.ListSectors(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		renderNotFound(c, err.Error())
		return
	}

	render(c, http.StatusOK, "editProject", PageData{Project: project, Sectors: sectors})
}

// EditProject updates the project named by the id form field.
func (h *ProjectHandler) EditProject(c *gin.Context) {
	id, err := strconv.Atoi(c.PostForm("id"))
	if err != nil {
		renderFailure(c, models.NewValidationError("invalid project id %q", c.PostForm("id")))
		return
	}

	var in models.ProjectInput
	if err := c.ShouldBind(&in); err != nil {
		renderFailure(c, err)
		return
	}
	if err := h.Catalog.UpdateProject(c.Request.Context(), id, in); err != nil {
		renderFailure(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/solutions/projects")
}

func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		renderFailure(c, models.NewValidationError("invalid project id %q", c.Param("id")))
		return
	}
	if err := h.Catalog.DeleteProject(c.Request.Context(), id); err != nil {
		renderFailure(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/solutions/projects")
}
