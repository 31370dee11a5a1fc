package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/smartcafe/cafeteria-portal/internal/database"
	"github.com/smartcafe/cafeteria-portal/internal/models"
)

// AdminRoleID is the administrator role
const AdminRoleID = "R001"

// Policy holds the permission rules that do not live in the database
type Policy struct {
	// AdminRoleID is allowed every permission name, known or not
	AdminRoleID string
	// BaselinePermissions are held by every signed-in staff member
	BaselinePermissions []string
	// RoleGrants are static grants per role, merged with role_permissions rows
	RoleGrants map[string][]string
}

// DefaultPolicy returns the portal's standard rules
func DefaultPolicy() Policy {
	return Policy{
		AdminRoleID: AdminRoleID,
		BaselinePermissions: []string{
			models.PermProcessOrders,
			models.PermGenerateReceipts,
		},
		RoleGrants: map[string][]string{
			"R001": {
				models.PermAdminDashboard,
				models.PermManageCafeterias,
				models.PermManageMenu,
				models.PermManageRoles,
				models.PermViewReports,
				models.PermManageInventory,
			},
			"R002": {},
			"R003": {
				models.PermManageMenu,
				models.PermManageInventory,
			},
		},
	}
}

// IsBaseline reports whether name is granted to everyone
func (p Policy) IsBaseline(name string) bool {
	for _, b := range p.BaselinePermissions {
		if b == name {
			return true
		}
	}
	return false
}

// Identity is who is asking. RoleID may be empty, in which case it is looked up.
type Identity struct {
	StaffID int
	RoleID  string
}

// AuthorizationService answers permission questions for staff members
type AuthorizationService struct {
	staffRepo      *database.StaffRepository
	permissionRepo *database.PermissionRepository
	policy         Policy
	logger         *logrus.Logger
}

// NewAuthorizationService creates a new authorization service
func NewAuthorizationService(
	staffRepo *database.StaffRepository,
	permissionRepo *database.PermissionRepository,
	policy Policy,
	logger *logrus.Logger,
) *AuthorizationService {
	return &AuthorizationService{
		staffRepo:      staffRepo,
		permissionRepo: permissionRepo,
		policy:         policy,
		logger:         logger,
	}
}

// Policy returns the rules in force
func (s *AuthorizationService) Policy() Policy {
	return s.policy
}

// IsAdmin reports whether the identity holds the administrator role
func (s *AuthorizationService) IsAdmin(identity Identity) bool {
	return identity.RoleID != "" && identity.RoleID == s.policy.AdminRoleID
}

// CurrentRole reads the staff member's role from the staff table, ignoring
// identity.RoleID. It returns "" when the staff member no longer exists.
func (s *AuthorizationService) CurrentRole(ctx context.Context, identity Identity) (string, error) {
	if identity.StaffID == 0 {
		return "", nil
	}
	return s.staffRepo.GetRoleID(ctx, identity.StaffID)
}

// Authorize decides whether identity holds the named permission
func (s *AuthorizationService) Authorize(ctx context.Context, identity Identity, name string) (bool, error) {
	roleID, err := s.resolveRole(ctx, identity)
	if err != nil {
		return false, err
	}

	if roleID == s.policy.AdminRoleID {
		return true, nil
	}
	if roleID == "" {
		return false, nil
	}
	if s.policy.IsBaseline(name) {
		return true, nil
	}

	permissions, err := s.rolePermissions(ctx, roleID)
	if err != nil {
		return false, err
	}
	for _, p := range permissions {
		if p == name {
			return true, nil
		}
	}
	return false, nil
}

// HasPermission is Authorize for rendering code. Errors are logged and deny.
func (s *AuthorizationService) HasPermission(ctx context.Context, identity Identity, name string) bool {
	allowed, err := s.Authorize(ctx, identity, name)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"staff_id":   identity.StaffID,
			"permission": name,
		}).WithError(err).Error("Permission check failed")
		return false
	}
	return allowed
}

// EffectivePermissions returns the sorted union of the baseline, the static
// grants for the staff member's role and the role's database grants
func (s *AuthorizationService) EffectivePermissions(ctx context.Context, staffID int) ([]string, error) {
	roleID, err := s.staffRepo.GetRoleID(ctx, staffID)
	if err != nil {
		return nil, err
	}
	return s.rolePermissions(ctx, roleID)
}

// PermissionSet returns every permission identity holds as a lookup table.
// The administrator gets the whole default catalogue on top of its grants.
func (s *AuthorizationService) PermissionSet(ctx context.Context, identity Identity) map[string]bool {
	set := make(map[string]bool)

	roleID, err := s.resolveRole(ctx, identity)
	if err != nil {
		s.logger.WithField("staff_id", identity.StaffID).WithError(err).Error("Failed to resolve staff role")
		return set
	}
	if roleID == "" {
		return set
	}

	permissions, err := s.rolePermissions(ctx, roleID)
	if err != nil {
		s.logger.WithField("role_id", roleID).WithError(err).Error("Failed to load role permissions")
		return set
	}
	for _, p := range permissions {
		set[p] = true
	}
	if roleID == s.policy.AdminRoleID {
		for _, p := range models.DefaultPermissions {
			set[p.Name] = true
		}
	}
	return set
}

func (s *AuthorizationService) resolveRole(ctx context.Context, identity Identity) (string, error) {
	if identity.RoleID != "" {
		return identity.RoleID, nil
	}
	if identity.StaffID == 0 {
		return "", nil
	}
	roleID, err := s.staffRepo.GetRoleID(ctx, identity.StaffID)
	if err != nil {
		return "", fmt.Errorf("failed to resolve role for staff %d: %w", identity.StaffID, err)
	}
	return roleID, nil
}

func (s *AuthorizationService) rolePermissions(ctx context.Context, roleID string) ([]string, error) {
	seen := make(map[string]struct{})
	add := func(names []string) {
		for _, n := range names {
			seen[n] = struct{}{}
		}
	}

	add(s.policy.BaselinePermissions)
	if roleID == "" {
		return sortedKeys(seen), nil
	}
	add(s.policy.RoleGrants[roleID])

	granted, err := s.permissionRepo.PermissionNamesForRole(ctx, roleID)
	switch {
	case database.IsUndefinedTable(err):
		s.logger.WithField("role_id", roleID).Debug("Permission tables missing, using static grants only")
	case err != nil:
		return nil, err
	default:
		add(granted)
	}

	return sortedKeys(seen), nil
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
