package services

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/smartcafe/cafeteria-portal/internal/database"
	"github.com/smartcafe/cafeteria-portal/internal/models"
)

// PermissionService administers the permission catalogue and role grants
type PermissionService struct {
	permissionRepo *database.PermissionRepository
	roleRepo       *database.RoleRepository
	staffRepo      *database.StaffRepository
	statsRepo      *database.StatsRepository
	policy         Policy
	logger         *logrus.Logger
}

// NewPermissionService creates a new permission service
func NewPermissionService(
	permissionRepo *database.PermissionRepository,
	roleRepo *database.RoleRepository,
	staffRepo *database.StaffRepository,
	statsRepo *database.StatsRepository,
	policy Policy,
	logger *logrus.Logger,
) *PermissionService {
	return &PermissionService{
		permissionRepo: permissionRepo,
		roleRepo:       roleRepo,
		staffRepo:      staffRepo,
		statsRepo:      statsRepo,
		policy:         policy,
		logger:         logger,
	}
}

// EnsurePermissionTables creates and seeds the permission tables when they are
// missing and grants the catalogue to the administrator role
func (s *PermissionService) EnsurePermissionTables(ctx context.Context) error {
	if err := s.permissionRepo.EnsureTables(ctx, s.policy.AdminRoleID, models.DefaultPermissions); err != nil {
		s.logger.WithError(err).Error("Failed to ensure permission tables")
		return err
	}
	s.logger.Info("Permission tables verified")
	return nil
}

// GetAllPermissions lists the catalogue. A missing table is created once and
// the read retried; other failures log and yield an empty list.
func (s *PermissionService) GetAllPermissions(ctx context.Context) []models.Permission {
	permissions, err := s.permissionRepo.ListPermissions(ctx)
	if database.IsUndefinedTable(err) && s.EnsurePermissionTables(ctx) == nil {
		permissions, err = s.permissionRepo.ListPermissions(ctx)
	}
	if err != nil {
		s.logger.WithError(err).Error("Failed to list permissions")
		return []models.Permission{}
	}
	return permissions
}

// GetRolePermissions lists a role's granted permissions with the same
// fallback as GetAllPermissions
func (s *PermissionService) GetRolePermissions(ctx context.Context, roleID string) []models.Permission {
	permissions, err := s.permissionRepo.ListRolePermissions(ctx, roleID)
	if database.IsUndefinedTable(err) && s.EnsurePermissionTables(ctx) == nil {
		permissions, err = s.permissionRepo.ListRolePermissions(ctx, roleID)
	}
	if err != nil {
		s.logger.WithField("role_id", roleID).WithError(err).Error("Failed to list role permissions")
		return []models.Permission{}
	}
	return permissions
}

// UpdateRolePermissions replaces a role's grants. An empty list clears them.
func (s *PermissionService) UpdateRolePermissions(ctx context.Context, roleID string, permissionIDs []int) error {
	role, err := s.roleRepo.GetByID(ctx, roleID)
	if err != nil {
		s.logger.WithField("role_id", roleID).WithError(err).Error("Failed to load role")
		return err
	}
	if role == nil {
		return validationError("Role %s does not exist.", roleID)
	}

	if err := s.permissionRepo.ReplaceRolePermissions(ctx, roleID, permissionIDs); err != nil {
		s.logger.WithFields(logrus.Fields{
			"role_id":        roleID,
			"permission_ids": permissionIDs,
		}).WithError(err).Error("Failed to update role permissions")
		if database.IsForeignKeyViolation(err) {
			return validationError("One or more selected permissions no longer exist.")
		}
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"role_id":     roleID,
		"permissions": len(permissionIDs),
	}).Info("Role permissions updated")
	return nil
}

// SetupAdminPermissions makes sure the tables exist and grants the whole
// catalogue to the administrator role
func (s *PermissionService) SetupAdminPermissions(ctx context.Context) error {
	if err := s.EnsurePermissionTables(ctx); err != nil {
		return err
	}
	if err := s.permissionRepo.GrantAll(ctx, s.policy.AdminRoleID); err != nil {
		s.logger.WithError(err).Error("Failed to grant administrator permissions")
		return err
	}
	s.logger.WithField("role_id", s.policy.AdminRoleID).Info("Administrator granted all permissions")
	return nil
}

// RolePermissionSets returns every role with the names of its granted permissions
func (s *PermissionService) RolePermissionSets(ctx context.Context) ([]models.RolePermissionSet, error) {
	roles, err := s.roleRepo.List(ctx, "")
	if err != nil {
		return nil, err
	}

	grants, err := s.permissionRepo.ListGrants(ctx)
	if err != nil && !database.IsUndefinedTable(err) {
		return nil, err
	}

	byRole := make(map[string][]string, len(roles))
	for _, g := range grants {
		byRole[g.RoleID] = append(byRole[g.RoleID], g.PermissionName)
	}

	sets := make([]models.RolePermissionSet, 0, len(roles))
	for _, role := range roles {
		names := byRole[role.RoleID]
		if names == nil {
			names = []string{}
		}
		sets = append(sets, models.RolePermissionSet{Role: role, Permissions: names})
	}
	return sets, nil
}

var errDiagnosticsUnavailable = errors.New("unavailable")

// Diagnostics gathers the staff permissions overview. Raw error text and the
// staff table layout are only included when showDebug is set.
func (s *PermissionService) Diagnostics(ctx context.Context, showDebug bool) *models.PermissionDiagnostics {
	diag := &models.PermissionDiagnostics{
		Staff: []models.StaffDetail{},
		Roles: []models.RolePermissionSet{},
	}

	record := func(section string, err error) {
		s.logger.WithField("section", section).WithError(err).Warn("Diagnostics section failed")
		if !showDebug {
			err = errDiagnosticsUnavailable
		}
		diag.Errors = append(diag.Errors, section+": "+err.Error())
	}

	var err error
	if diag.PermissionCount, err = s.permissionRepo.CountPermissions(ctx); err != nil {
		diag.NeedsSetup = database.IsUndefinedTable(err)
		record("permissions", err)
	}
	if diag.RolePermissionCount, err = s.permissionRepo.CountGrants(ctx); err != nil {
		diag.NeedsSetup = diag.NeedsSetup || database.IsUndefinedTable(err)
		record("role_permissions", err)
	}
	if diag.PermissionCount == 0 || diag.RolePermissionCount == 0 {
		diag.NeedsSetup = true
	}

	if staff, err := s.staffRepo.ListDetailed(ctx); err != nil {
		record("staff", err)
	} else if staff != nil {
		diag.Staff = staff
	}

	if sets, err := s.RolePermissionSets(ctx); err != nil {
		record("roles", err)
	} else {
		diag.Roles = sets
	}

	if showDebug {
		if columns, err := s.statsRepo.DescribeTable(ctx, "staff"); err != nil {
			record("staff columns", err)
		} else {
			diag.StaffColumns = columns
		}
	}

	return diag
}
