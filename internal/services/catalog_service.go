package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/smartcafe/cafeteria-portal/internal/database"
	"github.com/smartcafe/cafeteria-portal/internal/models"
	"github.com/smartcafe/cafeteria-portal/pkg/validator"
)

// CatalogService manages cafeterias, menu items, roles and staff assignments
type CatalogService struct {
	cafeteriaRepo *database.CafeteriaRepository
	itemRepo      *database.ItemRepository
	roleRepo      *database.RoleRepository
	staffRepo     *database.StaffRepository
	policy        Policy
	logger        *logrus.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(
	cafeteriaRepo *database.CafeteriaRepository,
	itemRepo *database.ItemRepository,
	roleRepo *database.RoleRepository,
	staffRepo *database.StaffRepository,
	policy Policy,
	logger *logrus.Logger,
) *CatalogService {
	return &CatalogService{
		cafeteriaRepo: cafeteriaRepo,
		itemRepo:      itemRepo,
		roleRepo:      roleRepo,
		staffRepo:     staffRepo,
		policy:        policy,
		logger:        logger,
	}
}

// ListCafeterias lists cafeterias matching search. Failures log and yield an empty list.
func (s *CatalogService) ListCafeterias(ctx context.Context, search string) []models.Cafeteria {
	cafeterias, err := s.cafeteriaRepo.List(ctx, search)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list cafeterias")
		return []models.Cafeteria{}
	}
	return cafeterias
}

// AddCafeteria validates and inserts a cafeteria
func (s *CatalogService) AddCafeteria(ctx context.Context, req *models.CafeteriaRequest) (*models.Cafeteria, error) {
	if err := req.Validate(); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}
	cafeteria, err := s.cafeteriaRepo.Create(ctx, req.Name, req.Location)
	if err != nil {
		return nil, err
	}
	s.logger.WithField("cafeteria_id", cafeteria.CafeteriaID).Info("Cafeteria added")
	return cafeteria, nil
}

// UpdateCafeteria validates and saves a cafeteria
func (s *CatalogService) UpdateCafeteria(ctx context.Context, cafeteriaID string, req *models.CafeteriaRequest) error {
	if err := req.Validate(); err != nil {
		return &ValidationError{Message: err.Error()}
	}
	err := s.cafeteriaRepo.Update(ctx, cafeteriaID, req.Name, req.Location)
	if errors.Is(err, database.ErrNotFound) {
		return validationError("Cafeteria %s does not exist.", cafeteriaID)
	}
	return err
}

// DeleteCafeteria removes a cafeteria with its staff, their schedules and its menu items
func (s *CatalogService) DeleteCafeteria(ctx context.Context, cafeteriaID string) error {
	err := s.cafeteriaRepo.Delete(ctx, cafeteriaID)
	if errors.Is(err, database.ErrNotFound) {
		return validationError("Cafeteria %s does not exist.", cafeteriaID)
	}
	if err != nil {
		return err
	}
	s.logger.WithField("cafeteria_id", cafeteriaID).Info("Cafeteria deleted")
	return nil
}

// ListItems lists menu items matching search. Failures log and yield an empty list.
func (s *CatalogService) ListItems(ctx context.Context, search string) []models.Item {
	items, err := s.itemRepo.List(ctx, search)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list menu items")
		return []models.Item{}
	}
	return items
}

// AddItem validates and inserts a menu item
func (s *CatalogService) AddItem(ctx context.Context, req *models.ItemRequest) (*models.Item, error) {
	if err := req.Validate(); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}
	item, err := s.itemRepo.Create(ctx, req)
	if database.IsForeignKeyViolation(err) {
		return nil, validationError("Cafeteria %s does not exist.", req.CafeteriaID)
	}
	if err != nil {
		return nil, err
	}
	s.logger.WithField("item_id", item.ItemID).Info("Menu item added")
	return item, nil
}

// UpdateItem validates and saves a menu item
func (s *CatalogService) UpdateItem(ctx context.Context, itemID int, req *models.ItemRequest) error {
	if err := req.Validate(); err != nil {
		return &ValidationError{Message: err.Error()}
	}
	err := s.itemRepo.Update(ctx, itemID, req)
	switch {
	case errors.Is(err, database.ErrNotFound):
		return validationError("Menu item %d does not exist.", itemID)
	case database.IsForeignKeyViolation(err):
		return validationError("Cafeteria %s does not exist.", req.CafeteriaID)
	}
	return err
}

// DeleteItem removes a menu item that no order line references
func (s *CatalogService) DeleteItem(ctx context.Context, itemID int) error {
	references, err := s.itemRepo.Delete(ctx, itemID)
	if errors.Is(err, database.ErrNotFound) {
		return validationError("Menu item %d does not exist.", itemID)
	}
	if err != nil {
		return err
	}
	if references > 0 {
		return &ReferencedError{Entity: EntityMenuItem, Count: references}
	}
	s.logger.WithField("item_id", itemID).Info("Menu item deleted")
	return nil
}

// ListRoles lists roles matching search. Failures log and yield an empty list.
func (s *CatalogService) ListRoles(ctx context.Context, search string) []models.Role {
	roles, err := s.roleRepo.List(ctx, search)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list roles")
		return []models.Role{}
	}
	return roles
}

// AddRole validates and inserts a role
func (s *CatalogService) AddRole(ctx context.Context, req *models.RoleRequest) (*models.Role, error) {
	if err := req.Validate(); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}
	role, err := s.roleRepo.Create(ctx, req.RoleName)
	if err != nil {
		return nil, err
	}
	s.logger.WithField("role_id", role.RoleID).Info("Role added")
	return role, nil
}

// UpdateRole renames a role
func (s *CatalogService) UpdateRole(ctx context.Context, roleID string, req *models.RoleRequest) error {
	if err := req.Validate(); err != nil {
		return &ValidationError{Message: err.Error()}
	}
	err := s.roleRepo.Update(ctx, roleID, req.RoleName)
	if errors.Is(err, database.ErrNotFound) {
		return validationError("Role %s does not exist.", roleID)
	}
	return err
}

// DeleteRole removes a role no staff member holds. The administrator role is kept.
func (s *CatalogService) DeleteRole(ctx context.Context, roleID string) error {
	if roleID == s.policy.AdminRoleID {
		return validationError("The administrator role cannot be deleted.")
	}
	assigned, err := s.roleRepo.Delete(ctx, roleID)
	if errors.Is(err, database.ErrNotFound) {
		return validationError("Role %s does not exist.", roleID)
	}
	if err != nil {
		return err
	}
	if assigned > 0 {
		return &ReferencedError{Entity: EntityRole, Count: assigned}
	}
	s.logger.WithField("role_id", roleID).Info("Role deleted")
	return nil
}

// ListStaff lists staff with role and cafeteria names
func (s *CatalogService) ListStaff(ctx context.Context) []models.StaffDetail {
	staff, err := s.staffRepo.ListDetailed(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list staff")
		return []models.StaffDetail{}
	}
	return staff
}

// UpdateStaffAssignment moves a staff member to another role and cafeteria
func (s *CatalogService) UpdateStaffAssignment(ctx context.Context, staffID int, req *models.UpdateStaffRequest) error {
	if err := req.Validate(); err != nil {
		return &ValidationError{Message: err.Error()}
	}
	if err := validator.ValidateRoleID(req.RoleID); err != nil {
		return &ValidationError{Message: fmt.Sprintf("Invalid role: %s.", req.RoleID)}
	}

	err := s.staffRepo.UpdateAssignment(ctx, staffID, req.RoleID, req.CafeteriaValue())
	switch {
	case errors.Is(err, database.ErrNotFound):
		return validationError("Staff member %d does not exist.", staffID)
	case database.IsForeignKeyViolation(err):
		return validationError("The selected role or cafeteria does not exist.")
	case err != nil:
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"staff_id": staffID,
		"role_id":  req.RoleID,
	}).Info("Staff assignment updated")
	return nil
}
