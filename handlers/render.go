package handlers

import (
	"net/http"

	"climatesolutions/models"
	"climatesolutions/session"

	"github.com/gin-gonic/gin"
)

const notFoundMessage = "I'm sorry, we're unable to find what you're looking for"

// PageData is the view model shared by every template. Page marks the
// active navigation link.
type PageData struct {
	Page string
	User *models.SessionUser

	ErrorMessage   string
	SuccessMessage string
	Message        string
	UserName       string

	Sector   string
	Projects []models.Project
	Project  *models.Project
	Sectors  []models.Sector
}

func render(c *gin.Context, status int, name string, data PageData) {
	data.User = session.GetLoginUser(c)
	c.HTML(status, name, data)
}

func renderNotFound(c *gin.Context, message string) {
	render(c, http.StatusNotFound, "404", PageData{Message: message})
}

// renderFailure shows the generic error page. The status stays 200 for
// failed writes, matching what browsers of the site have always received.
func renderFailure(c *gin.Context, err error) {
	render(c, http.StatusOK, "500", PageData{
		Message: "I'm sorry, but we have encountered the following error: " + err.Error(),
	})
}
