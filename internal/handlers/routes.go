package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/smartcafe/cafeteria-portal/internal/middleware"
	"github.com/smartcafe/cafeteria-portal/internal/models"
)

// Handlers groups every page handler the router serves
type Handlers struct {
	Pages       *Pages
	Auth        *AuthHandler
	Orders      *OrderHandler
	Dashboard   *DashboardHandler
	Catalog     *CatalogHandler
	Permissions *PermissionHandler
	StaffOrders *StaffOrderHandler
}

// RegisterRoutes mounts the public, student and staff pages on router.
// Sessions must already be loaded by middleware.LoadSession.
func RegisterRoutes(router gin.IRouter, h Handlers, authz middleware.Authorizer) {
	// Public
	router.GET("/", h.Auth.Home)
	router.GET("/login", h.Auth.StaffLoginPage)
	router.POST("/login", h.Auth.StaffLogin)
	router.POST("/logout", h.Auth.StaffLogout)
	router.GET("/student/login", h.Auth.StudentLoginPage)
	router.POST("/student/login", h.Auth.StudentLogin)
	router.POST("/student/logout", h.Auth.StudentLogout)
	router.GET("/unauthorized", h.Pages.Unauthorized)

	// Student ordering
	student := router.Group("/student")
	student.Use(middleware.RequireStudent())
	{
		student.GET("/order", h.Orders.OrderPage)
		student.POST("/confirm", h.Orders.Confirm)
		student.GET("/confirm", h.Orders.ConfirmPage)
		student.GET("/payment", h.Orders.PaymentPage)
		student.POST("/payment", h.Orders.Pay)
		student.GET("/receipt", h.Orders.ReceiptPage)
	}

	// Staff dashboard
	router.GET("/dashboard", middleware.RequireStaff(), middleware.RefreshStaffRole(authz), h.Dashboard.Dashboard)

	admin := router.Group("/admin")
	admin.Use(middleware.RequireStaff(), middleware.RefreshStaffRole(authz))
	{
		cafeterias := admin.Group("/cafeterias")
		cafeterias.Use(middleware.RequirePermission(authz, models.PermManageCafeterias))
		{
			cafeterias.GET("", h.Catalog.ListCafeterias)
			cafeterias.POST("", h.Catalog.AddCafeteria)
			cafeterias.POST("/:id/update", h.Catalog.UpdateCafeteria)
			cafeterias.POST("/:id/delete", h.Catalog.DeleteCafeteria)
		}

		items := admin.Group("/items")
		items.Use(middleware.RequirePermission(authz, models.PermManageMenu))
		{
			items.GET("", h.Catalog.ListItems)
			items.POST("", h.Catalog.AddItem)
			items.POST("/:id/update", h.Catalog.UpdateItem)
			items.POST("/:id/delete", h.Catalog.DeleteItem)
		}

		roles := admin.Group("/roles")
		roles.Use(middleware.RequirePermission(authz, models.PermManageRoles))
		{
			roles.GET("", h.Catalog.ListRoles)
			roles.POST("", h.Catalog.AddRole)
			roles.POST("/:id/update", h.Catalog.UpdateRole)
			roles.POST("/:id/delete", h.Catalog.DeleteRole)
		}

		staff := admin.Group("/staff")
		staff.Use(middleware.RequirePermission(authz, models.PermManageStaff))
		{
			staff.GET("", h.Catalog.ListStaff)
			staff.POST("/:id/update", h.Catalog.UpdateStaff)
		}

		permissions := admin.Group("/permissions")
		{
			permissions.GET("", middleware.RequirePermission(authz, models.PermManageRoles), h.Permissions.EditPage)
			permissions.POST("", middleware.RequirePermission(authz, models.PermManageRoles), h.Permissions.Update)
			permissions.GET("/setup", middleware.RequireAdmin(authz), h.Permissions.SetupPage)
			permissions.POST("/setup", middleware.RequireAdmin(authz), h.Permissions.Setup)
			permissions.GET("/diagnostics", middleware.RequirePermission(authz, models.PermAdminDashboard), h.Permissions.Diagnostics)
		}
	}

	staffOrders := router.Group("/staff")
	staffOrders.Use(middleware.RequireStaff(), middleware.RefreshStaffRole(authz))
	{
		staffOrders.GET("/orders", middleware.RequirePermission(authz, models.PermProcessOrders), h.StaffOrders.ListOrders)
		staffOrders.GET("/receipts/:id", middleware.RequirePermission(authz, models.PermGenerateReceipts), h.StaffOrders.Receipt)
	}
}
