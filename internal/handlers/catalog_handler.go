package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/smartcafe/cafeteria-portal/internal/models"
	"github.com/smartcafe/cafeteria-portal/internal/services"
)

const (
	cafeteriasPath = "/admin/cafeterias"
	itemsPath      = "/admin/items"
	rolesPath      = "/admin/roles"
	staffPath      = "/admin/staff"
)

// Catalog maintains cafeterias, menu items, roles and staff assignments
type Catalog interface {
	ListCafeterias(ctx context.Context, search string) []models.Cafeteria
	AddCafeteria(ctx context.Context, req *models.CafeteriaRequest) (*models.Cafeteria, error)
	UpdateCafeteria(ctx context.Context, cafeteriaID string, req *models.CafeteriaRequest) error
	DeleteCafeteria(ctx context.Context, cafeteriaID string) error

	ListItems(ctx context.Context, search string) []models.Item
	AddItem(ctx context.Context, req *models.ItemRequest) (*models.Item, error)
	UpdateItem(ctx context.Context, itemID int, req *models.ItemRequest) error
	DeleteItem(ctx context.Context, itemID int) error

	ListRoles(ctx context.Context, search string) []models.Role
	AddRole(ctx context.Context, req *models.RoleRequest) (*models.Role, error)
	UpdateRole(ctx context.Context, roleID string, req *models.RoleRequest) error
	DeleteRole(ctx context.Context, roleID string) error

	ListStaff(ctx context.Context) []models.StaffDetail
	UpdateStaffAssignment(ctx context.Context, staffID int, req *models.UpdateStaffRequest) error
}

// CatalogHandler serves the admin management pages
type CatalogHandler struct {
	pages   *Pages
	catalog Catalog
	logger  *logrus.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(pages *Pages, catalog Catalog, logger *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{
		pages:   pages,
		catalog: catalog,
		logger:  logger,
	}
}

func searchTerm(c *gin.Context) string {
	return strings.TrimSpace(c.Query("search"))
}

func pathInt(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// ===================================================================
// CAFETERIAS
// ===================================================================

// ListCafeterias handles GET /admin/cafeterias
func (h *CatalogHandler) ListCafeterias(c *gin.Context) {
	search := searchTerm(c)
	h.pages.render(c, http.StatusOK, "cafeterias.html", "Manage Cafeterias", gin.H{
		"Search":     search,
		"Cafeterias": h.catalog.ListCafeterias(c.Request.Context(), search),
	})
}

// AddCafeteria handles POST /admin/cafeterias
func (h *CatalogHandler) AddCafeteria(c *gin.Context) {
	var req models.CafeteriaRequest
	if err := c.ShouldBind(&req); err != nil {
		h.pages.failure(c, err, "Invalid cafeteria details.", cafeteriasPath)
		return
	}
	if _, err := h.catalog.AddCafeteria(c.Request.Context(), &req); err != nil {
		h.pages.failure(c, err, "Failed to add cafeteria.", cafeteriasPath)
		return
	}
	h.pages.success(c, "Cafeteria added successfully!", cafeteriasPath)
}

// UpdateCafeteria handles POST /admin/cafeterias/:id/update
func (h *CatalogHandler) UpdateCafeteria(c *gin.Context) {
	var req models.CafeteriaRequest
	if err := c.ShouldBind(&req); err != nil {
		h.pages.failure(c, err, "Invalid cafeteria details.", cafeteriasPath)
		return
	}
	if err := h.catalog.UpdateCafeteria(c.Request.Context(), c.Param("id"), &req); err != nil {
		h.pages.failure(c, err, "Failed to update cafeteria.", cafeteriasPath)
		return
	}
	h.pages.success(c, "Cafeteria updated successfully!", cafeteriasPath)
}

// DeleteCafeteria handles POST /admin/cafeterias/:id/delete
func (h *CatalogHandler) DeleteCafeteria(c *gin.Context) {
	if err := h.catalog.DeleteCafeteria(c.Request.Context(), c.Param("id")); err != nil {
		h.pages.failure(c, err, "Failed to delete cafeteria.", cafeteriasPath)
		return
	}
	h.pages.success(c, "Cafeteria deleted successfully!", cafeteriasPath)
}

// ===================================================================
// MENU ITEMS
// ===================================================================

// ListItems handles GET /admin/items
func (h *CatalogHandler) ListItems(c *gin.Context) {
	ctx := c.Request.Context()
	search := searchTerm(c)
	h.pages.render(c, http.StatusOK, "items.html", "Menu Management", gin.H{
		"Search":     search,
		"Items":      h.catalog.ListItems(ctx, search),
		"Cafeterias": h.catalog.ListCafeterias(ctx, ""),
	})
}

// AddItem handles POST /admin/items
func (h *CatalogHandler) AddItem(c *gin.Context) {
	var req models.ItemRequest
	if err := c.ShouldBind(&req); err != nil {
		h.pages.failure(c, &services.ValidationError{Message: "Please enter a valid price."}, "", itemsPath)
		return
	}
	if _, err := h.catalog.AddItem(c.Request.Context(), &req); err != nil {
		h.pages.failure(c, err, "Failed to add menu item.", itemsPath)
		return
	}
	h.pages.success(c, "Menu item added successfully!", itemsPath)
}

// UpdateItem handles POST /admin/items/:id/update
func (h *CatalogHandler) UpdateItem(c *gin.Context) {
	itemID, ok := pathInt(c, "id")
	if !ok {
		h.pages.failure(c, &services.ValidationError{Message: "Invalid menu item."}, "", itemsPath)
		return
	}
	var req models.ItemRequest
	if err := c.ShouldBind(&req); err != nil {
		h.pages.failure(c, &services.ValidationError{Message: "Please enter a valid price."}, "", itemsPath)
		return
	}
	if err := h.catalog.UpdateItem(c.Request.Context(), itemID, &req); err != nil {
		h.pages.failure(c, err, "Failed to update menu item.", itemsPath)
		return
	}
	h.pages.success(c, "Menu item updated successfully!", itemsPath)
}

// DeleteItem handles POST /admin/items/:id/delete
func (h *CatalogHandler) DeleteItem(c *gin.Context) {
	itemID, ok := pathInt(c, "id")
	if !ok {
		h.pages.failure(c, &services.ValidationError{Message: "Invalid menu item."}, "", itemsPath)
		return
	}
	if err := h.catalog.DeleteItem(c.Request.Context(), itemID); err != nil {
		h.pages.failure(c, err, "Failed to delete menu item.", itemsPath)
		return
	}
	h.pages.success(c, "Menu item deleted successfully!", itemsPath)
}

// ===================================================================
// ROLES
// ===================================================================

// ListRoles handles GET /admin/roles
func (h *CatalogHandler) ListRoles(c *gin.Context) {
	search := searchTerm(c)
	h.pages.render(c, http.StatusOK, "roles.html", "Staff Roles", gin.H{
		"Search": search,
		"Roles":  h.catalog.ListRoles(c.Request.Context(), search),
	})
}

// AddRole handles POST /admin/roles
func (h *CatalogHandler) AddRole(c *gin.Context) {
	var req models.RoleRequest
	if err := c.ShouldBind(&req); err != nil {
		h.pages.failure(c, err, "Invalid role details.", rolesPath)
		return
	}
	if _, err := h.catalog.AddRole(c.Request.Context(), &req); err != nil {
		h.pages.failure(c, err, "Failed to add role.", rolesPath)
		return
	}
	h.pages.success(c, "Role added successfully!", rolesPath)
}

// UpdateRole handles POST /admin/roles/:id/update
func (h *CatalogHandler) UpdateRole(c *gin.Context) {
	var req models.RoleRequest
	if err := c.ShouldBind(&req); err != nil {
		h.pages.failure(c, err, "Invalid role details.", rolesPath)
		return
	}
	if err := h.catalog.UpdateRole(c.Request.Context(), c.Param("id"), &req); err != nil {
		h.pages.failure(c, err, "Failed to update role.", rolesPath)
		return
	}
	h.pages.success(c, "Role updated successfully!", rolesPath)
}

// DeleteRole handles POST /admin/roles/:id/delete
func (h *CatalogHandler) DeleteRole(c *gin.Context) {
	if err := h.catalog.DeleteRole(c.Request.Context(), c.Param("id")); err != nil {
		h.pages.failure(c, err, "Failed to delete role.", rolesPath)
		return
	}
	h.pages.success(c, "Role deleted successfully!", rolesPath)
}

// ===================================================================
// STAFF
// ===================================================================

// ListStaff handles GET /admin/staff
func (h *CatalogHandler) ListStaff(c *gin.Context) {
	ctx := c.Request.Context()
	h.pages.render(c, http.StatusOK, "staff.html", "Staff", gin.H{
		"StaffMembers": h.catalog.ListStaff(ctx),
		"Roles":        h.catalog.ListRoles(ctx, ""),
		"Cafeterias":   h.catalog.ListCafeterias(ctx, ""),
	})
}

// UpdateStaff handles POST /admin/staff/:id/update
func (h *CatalogHandler) UpdateStaff(c *gin.Context) {
	staffID, ok := pathInt(c, "id")
	if !ok {
		h.pages.failure(c, &services.ValidationError{Message: "Invalid staff member."}, "", staffPath)
		return
	}
	var req models.UpdateStaffRequest
	if err := c.ShouldBind(&req); err != nil {
		h.pages.failure(c, err, "Invalid staff details.", staffPath)
		return
	}
	if err := h.catalog.UpdateStaffAssignment(c.Request.Context(), staffID, &req); err != nil {
		h.pages.failure(c, err, "Failed to update staff member.", staffPath)
		return
	}
	h.pages.success(c, "Staff member updated successfully!", staffPath)
}
