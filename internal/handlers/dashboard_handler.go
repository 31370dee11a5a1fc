package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smartcafe/cafeteria-portal/internal/middleware"
	"github.com/smartcafe/cafeteria-portal/internal/services"
)

// DashboardBuilder assembles the staff landing page
type DashboardBuilder interface {
	Build(ctx context.Context, identity services.Identity) *services.Dashboard
}

// DashboardHandler serves the staff dashboard
type DashboardHandler struct {
	pages     *Pages
	dashboard DashboardBuilder
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(pages *Pages, dashboard DashboardBuilder) *DashboardHandler {
	return &DashboardHandler{pages: pages, dashboard: dashboard}
}

// Dashboard handles GET /dashboard
func (h *DashboardHandler) Dashboard(c *gin.Context) {
	h.pages.render(c, http.StatusOK, "dashboard.html", "Dashboard", gin.H{
		"Dashboard": h.dashboard.Build(c.Request.Context(), middleware.StaffIdentity(c)),
	})
}
