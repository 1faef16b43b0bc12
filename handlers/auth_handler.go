package handlers

import (
	"net/http"
	"time"

	"climatesolutions/logger"
	"climatesolutions/metrics"
	"climatesolutions/models"
	"climatesolutions/services"
	"climatesolutions/session"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	Accounts Accounts
	Session  session.Policy
	Metrics  metrics.Recorder
	Now      func() time.Time
}

func (h *AuthHandler) LoginPage(c *gin.Context) {
	render(c, http.StatusOK, "login", PageData{Page: "/login"})
}

func (h *AuthHandler) Login(c *gin.Context) {
	userName := c.PostForm("userName")
	password := c.PostForm("password")

	user, err := h.Accounts.Authenticate(c.Request.Context(), userName, password, c.Request.UserAgent())
	if err != nil {
		h.recordLogin(outcome(err))
		logger.Warningf("login failed for %q: %v", userName, err)
		render(c, http.StatusOK, "login", PageData{
			Page:         "/login",
			ErrorMessage: err.Error(),
			UserName:     userName,
		})
		return
	}

	if err := session.SetLoginUser(c, user.SessionView(), h.Session, h.Now()); err != nil {
		h.recordLogin("session_error")
		logger.Errorf("unable to save session for %q: %v", userName, err)
		render(c, http.StatusOK, "login", PageData{
			Page:         "/login",
			ErrorMessage: "Unable to start a session, please try again",
			UserName:     userName,
		})
		return
	}

	h.recordLogin("success")
	logger.Infof("user %q logged in", user.UserName)
	c.Redirect(http.StatusSeeOther, "/solutions/projects")
}

func (h *AuthHandler) RegisterPage(c *gin.Context) {
	render(c, http.StatusOK, "register", PageData{Page: "/register"})
}

func (h *AuthHandler) Register(c *gin.Context) {
	var in services.RegisterInput
	if err := c.ShouldBind(&in); err != nil {
		render(c, http.StatusOK, "register", PageData{Page: "/register", ErrorMessage: err.Error()})
		return
	}

	if _, err := h.Accounts.Register(c.Request.Context(), in); err != nil {
		h.recordRegistration(outcome(err))
		render(c, http.StatusOK, "register", PageData{
			Page:         "/register",
			ErrorMessage: err.Error(),
			UserName:     in.UserName,
		})
		return
	}

	h.recordRegistration("success")
	logger.Infof("user %q registered", in.UserName)
	render(c, http.StatusOK, "register", PageData{Page: "/register", SuccessMessage: "User created"})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := session.ClearSession(c); err != nil {
		logger.Warningf("unable to clear session: %v", err)
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *AuthHandler) UserHistory(c *gin.Context) {
	render(c, http.StatusOK, "userHistory", PageData{Page: "/userHistory"})
}

func (h *AuthHandler) recordLogin(o string) {
	if h.Metrics != nil {
		h.Metrics.RecordLogin(o)
	}
}

func (h *AuthHandler) recordRegistration(o string) {
	if h.Metrics != nil {
		h.Metrics.RecordRegistration(o)
	}
}

// outcome is the metrics label for a failed account operation.
func outcome(err error) string {
	switch models.KindOf(err) {
	case models.KindValidation:
		return "invalid"
	case models.KindDuplicateUser:
		return "duplicate"
	case models.KindNotFound:
		return "unknown_user"
	case models.KindInvalidCredentials:
		return "invalid_credentials"
	default:
		return "error"
	}
}
