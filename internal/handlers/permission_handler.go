package handlers

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/smartcafe/cafeteria-portal/internal/models"
	"github.com/smartcafe/cafeteria-portal/internal/services"
)

const (
	permissionsPath = "/admin/permissions"
	setupPath       = "/admin/permissions/setup"
)

// PermissionAdmin edits role grants and repairs the permission tables
type PermissionAdmin interface {
	EnsurePermissionTables(ctx context.Context) error
	GetAllPermissions(ctx context.Context) []models.Permission
	GetRolePermissions(ctx context.Context, roleID string) []models.Permission
	UpdateRolePermissions(ctx context.Context, roleID string, permissionIDs []int) error
	SetupAdminPermissions(ctx context.Context) error
	Diagnostics(ctx context.Context, showDebug bool) *models.PermissionDiagnostics
}

// RoleLister lists roles for the permission editor
type RoleLister interface {
	ListRoles(ctx context.Context, search string) []models.Role
}

// PermissionHandler serves the role permission pages
type PermissionHandler struct {
	pages       *Pages
	permissions PermissionAdmin
	roles       RoleLister
	logger      *logrus.Logger
}

// NewPermissionHandler creates a new permission handler
func NewPermissionHandler(pages *Pages, permissions PermissionAdmin, roles RoleLister, logger *logrus.Logger) *PermissionHandler {
	return &PermissionHandler{
		pages:       pages,
		permissions: permissions,
		roles:       roles,
		logger:      logger,
	}
}

// EditPage handles GET /admin/permissions?role_id=
func (h *PermissionHandler) EditPage(c *gin.Context) {
	ctx := c.Request.Context()
	roleID := strings.TrimSpace(c.Query("role_id"))

	granted := map[string]bool{}
	if roleID != "" {
		for _, p := range h.permissions.GetRolePermissions(ctx, roleID) {
			granted[p.Name] = true
		}
	}

	h.pages.render(c, http.StatusOK, "permissions.html", "Role Permissions", gin.H{
		"Roles":        h.roles.ListRoles(ctx, ""),
		"SelectedRole": roleID,
		"Permissions":  h.permissions.GetAllPermissions(ctx),
		"Granted":      granted,
	})
}

// Update handles POST /admin/permissions
func (h *PermissionHandler) Update(c *gin.Context) {
	var req models.UpdateRolePermissionsRequest
	if err := c.ShouldBind(&req); err != nil {
		h.pages.failure(c, &services.ValidationError{Message: "Invalid permission selection."}, "", permissionsPath)
		return
	}
	req.RoleID = strings.TrimSpace(req.RoleID)
	if req.RoleID == "" {
		h.pages.failure(c, &services.ValidationError{Message: "Please select a role."}, "", permissionsPath)
		return
	}

	location := permissionsPath + "?role_id=" + url.QueryEscape(req.RoleID)
	if err := h.permissions.UpdateRolePermissions(c.Request.Context(), req.RoleID, req.PermissionIDs); err != nil {
		h.pages.failure(c, err, "Failed to update permissions.", location)
		return
	}
	h.pages.success(c, "Permissions updated successfully!", location)
}

// SetupPage handles GET /admin/permissions/setup
func (h *PermissionHandler) SetupPage(c *gin.Context) {
	diagnostics := h.permissions.Diagnostics(c.Request.Context(), false)
	h.pages.render(c, http.StatusOK, "permissions_setup.html", "Permission Setup", gin.H{
		"PermissionCount": diagnostics.PermissionCount,
		"GrantCount":      diagnostics.RolePermissionCount,
	})
}

// Setup handles POST /admin/permissions/setup
func (h *PermissionHandler) Setup(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.permissions.EnsurePermissionTables(ctx); err != nil {
		h.pages.failure(c, err, "Failed to create the permission tables.", setupPath)
		return
	}
	if err := h.permissions.SetupAdminPermissions(ctx); err != nil {
		h.pages.failure(c, err, "Failed to grant administrator permissions.", setupPath)
		return
	}
	h.pages.success(c, "Permission tables are ready and the administrator holds every permission.", setupPath)
}

// Diagnostics handles GET /admin/permissions/diagnostics
func (h *PermissionHandler) Diagnostics(c *gin.Context) {
	h.pages.render(c, http.StatusOK, "permissions_diagnostics.html", "Permission Diagnostics", gin.H{
		"Diagnostics": h.permissions.Diagnostics(c.Request.Context(), h.pages.Site().ShowDebug),
	})
}
