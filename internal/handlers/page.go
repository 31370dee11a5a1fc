package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/smartcafe/cafeteria-portal/internal/middleware"
	"github.com/smartcafe/cafeteria-portal/internal/services"
)

// Site is the branding and behaviour shared by every page
type Site struct {
	Name                   string
	Currency               string
	ReceiptRedirectSeconds int
	ShowDebug              bool
}

// Refresh makes a page navigate to URL after Seconds
type Refresh struct {
	Seconds int
	URL     string
}

// PermissionSetter resolves the permissions shown in navigation
type PermissionSetter interface {
	PermissionSet(ctx context.Context, identity services.Identity) map[string]bool
}

// Pages renders templates with the session state every layout needs
type Pages struct {
	site   Site
	authz  PermissionSetter
	logger *logrus.Logger
}

// NewPages creates the shared page renderer
func NewPages(site Site, authz PermissionSetter, logger *logrus.Logger) *Pages {
	return &Pages{
		site:   site,
		authz:  authz,
		logger: logger,
	}
}

// Site returns the configured site settings
func (p *Pages) Site() Site {
	return p.site
}

// render executes a named template. Pending flash messages are consumed and
// the session is saved before anything is written.
func (p *Pages) render(c *gin.Context, status int, name, title string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	sess := middleware.GetSession(c)

	can := map[string]bool{}
	if sess.IsStaff() {
		can = p.authz.PermissionSet(c.Request.Context(), middleware.StaffIdentity(c))
	}

	flash := sess.TakeFlash()
	if len(flash) > 0 {
		if err := middleware.SaveSession(c); err != nil {
			p.logger.WithError(err).Warn("Failed to clear flash messages")
		}
	}

	data["Title"] = title
	data["Site"] = p.site
	data["Staff"] = sess.Staff
	data["Student"] = sess.Student
	data["Flash"] = flash
	data["Can"] = can

	c.HTML(status, name, data)
}

// redirect saves the session and sends a 302
func (p *Pages) redirect(c *gin.Context, location string) {
	if err := middleware.SaveSession(c); err != nil {
		p.logger.WithError(err).Error("Failed to save session")
	}
	c.Redirect(http.StatusFound, location)
}

// success flashes message and redirects
func (p *Pages) success(c *gin.Context, message, location string) {
	middleware.GetSession(c).Success(message)
	p.redirect(c, location)
}

// failure flashes the user-facing text of err and redirects. Errors that
// are not meant for users are logged and replaced by fallback.
func (p *Pages) failure(c *gin.Context, err error, fallback, location string) {
	message := services.UserMessage(err, "")
	if message == "" {
		p.logger.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}).WithError(err).Error("Request failed")
		message = fallback
	}
	middleware.GetSession(c).Error(message)
	p.redirect(c, location)
}

// Unauthorized handles GET /unauthorized
func (p *Pages) Unauthorized(c *gin.Context) {
	p.render(c, http.StatusForbidden, "unauthorized.html", "Access Denied", nil)
}
