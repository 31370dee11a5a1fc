package services

import (
	"context"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/smartcafe/cafeteria-portal/internal/database"
	"github.com/smartcafe/cafeteria-portal/internal/models"
)

// FeatureFlags reports whether an optional module is switched on
type FeatureFlags interface {
	FeatureEnabled(name string) bool
}

// Dashboard is the staff landing page
type Dashboard struct {
	Stats         models.DashboardStats
	RecentOrders  []models.OrderSummary
	CafeteriaName string
	QuickActions  []models.QuickAction
	Permissions   []string
}

type quickAction struct {
	permission string
	feature    string
	action     models.QuickAction
}

var quickActions = []quickAction{
	{models.PermManageCafeterias, "", models.QuickAction{Title: "Manage Cafeterias", Description: "Add, edit or remove cafeterias", Link: "/admin/cafeterias"}},
	{models.PermManageMenu, "", models.QuickAction{Title: "Menu Management", Description: "Maintain menu items and prices", Link: "/admin/items"}},
	{models.PermManageRoles, "", models.QuickAction{Title: "Staff Roles", Description: "Maintain roles and their permissions", Link: "/admin/roles"}},
	{models.PermViewReports, "reports", models.QuickAction{Title: "Reports", Description: "Sales and activity reports"}},
	{models.PermProcessOrders, "", models.QuickAction{Title: "Manage Orders", Description: "Review incoming orders", Link: "/staff/orders"}},
	{models.PermManageInventory, "inventory", models.QuickAction{Title: "Inventory", Description: "Track stock levels", Link: "/admin/items"}},
	{models.PermGenerateReceipts, "receipts", models.QuickAction{Title: "Receipts", Description: "Print receipts for orders", Link: "/staff/orders"}},
}

var setupAction = models.QuickAction{
	Title:       "Role Permissions",
	Description: "Set up and repair the permission tables",
	Link:        "/admin/permissions/setup",
}

// DashboardService assembles the staff dashboard
type DashboardService struct {
	statsRepo *database.StatsRepository
	orderRepo *database.OrderRepository
	staffRepo *database.StaffRepository
	authz     *AuthorizationService
	features  FeatureFlags
	debug     bool
	logger    *logrus.Logger
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	statsRepo *database.StatsRepository,
	orderRepo *database.OrderRepository,
	staffRepo *database.StaffRepository,
	authz *AuthorizationService,
	features FeatureFlags,
	debug bool,
	logger *logrus.Logger,
) *DashboardService {
	return &DashboardService{
		statsRepo: statsRepo,
		orderRepo: orderRepo,
		staffRepo: staffRepo,
		authz:     authz,
		features:  features,
		debug:     debug,
		logger:    logger,
	}
}

// Build loads everything the dashboard shows. Sections that fail are left empty.
func (s *DashboardService) Build(ctx context.Context, identity Identity) *Dashboard {
	dashboard := &Dashboard{
		RecentOrders:  []models.OrderSummary{},
		CafeteriaName: "N/A",
	}

	if stats, err := s.statsRepo.DashboardCounts(ctx); err != nil {
		s.logger.WithError(err).Error("Failed to load dashboard counts")
	} else {
		dashboard.Stats = *stats
	}

	if orders, err := s.orderRepo.ListRecent(ctx, RecentOrderLimit); err != nil {
		s.logger.WithError(err).Error("Failed to load recent orders")
	} else if orders != nil {
		dashboard.RecentOrders = orders
	}

	if name, err := s.staffRepo.GetCafeteriaName(ctx, identity.StaffID); err != nil {
		s.logger.WithField("staff_id", identity.StaffID).WithError(err).Error("Failed to load staff cafeteria")
	} else if name != "" {
		dashboard.CafeteriaName = name
	}

	permissions := s.authz.PermissionSet(ctx, identity)
	dashboard.QuickActions = s.quickActions(identity, permissions)

	dashboard.Permissions = make([]string, 0, len(permissions))
	for name := range permissions {
		dashboard.Permissions = append(dashboard.Permissions, name)
	}
	sort.Strings(dashboard.Permissions)

	if s.debug {
		s.logger.WithFields(logrus.Fields{
			"staff_id":    identity.StaffID,
			"role_id":     identity.RoleID,
			"permissions": dashboard.Permissions,
		}).Debug("Effective permissions")
	}

	return dashboard
}

func (s *DashboardService) quickActions(identity Identity, permissions map[string]bool) []models.QuickAction {
	var actions []models.QuickAction
	if s.authz.IsAdmin(identity) {
		actions = append(actions, setupAction)
	}
	for _, qa := range quickActions {
		if !permissions[qa.permission] {
			continue
		}
		action := qa.action
		// An action without a page stays "Coming Soon" whatever its feature flag says
		if action.Link == "" || (qa.feature != "" && !s.features.FeatureEnabled(qa.feature)) {
			action.ComingSoon = true
			action.Link = ""
		}
		actions = append(actions, action)
	}
	return actions
}
