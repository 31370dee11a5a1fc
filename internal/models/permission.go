package models

// Permission names understood by the portal
const (
	PermManageCafeterias = "manage_cafeterias"
	PermManageMenu       = "manage_menu"
	PermManageStaff      = "manage_staff"
	PermManageRoles      = "manage_roles"
	PermProcessOrders    = "process_orders"
	PermViewReports      = "view_reports"
	PermGenerateReceipts = "generate_receipts"
	PermManageInventory  = "manage_inventory"
	PermAdminDashboard   = "admin_dashboard"
)

// Permission represents a row of the permissions catalogue
type Permission struct {
	PermissionID int    `db:"permission_id" json:"permission_id"`
	Name         string `db:"permission_name" json:"permission_name"`
	Description  string `db:"description" json:"description"`
}

// DefaultPermissions is the seeded catalogue, in display order
var DefaultPermissions = []Permission{
	{Name: PermManageCafeterias, Description: "Can add, edit, and delete cafeterias"},
	{Name: PermManageMenu, Description: "Can add, edit, and delete menu items"},
	{Name: PermManageStaff, Description: "Can add, edit, and delete staff members"},
	{Name: PermManageRoles, Description: "Can add, edit, and delete roles"},
	{Name: PermProcessOrders, Description: "Can process and fulfill customer orders"},
	{Name: PermViewReports, Description: "Can view sales and other reports"},
	{Name: PermGenerateReceipts, Description: "Can generate and print receipts"},
	{Name: PermManageInventory, Description: "Can manage cafeteria inventory"},
	{Name: PermAdminDashboard, Description: "Can access the admin dashboard"},
}

// RolePermissionSet lists a role with the permission names granted to it
type RolePermissionSet struct {
	Role        Role     `json:"role"`
	Permissions []string `json:"permissions"`
}

// UpdateRolePermissionsRequest is the permission editor form
type UpdateRolePermissionsRequest struct {
	RoleID        string `form:"role_id"`
	PermissionIDs []int  `form:"permission_ids"`
}

// ColumnInfo describes one column of a table, for the diagnostics page
type ColumnInfo struct {
	Name     string  `db:"column_name" json:"name"`
	DataType string  `db:"data_type" json:"data_type"`
	Nullable string  `db:"is_nullable" json:"nullable"`
	Default  *string `db:"column_default" json:"default,omitempty"`
}

// PermissionDiagnostics is the snapshot shown on the staff permissions page
type PermissionDiagnostics struct {
	PermissionCount     int                 `json:"permission_count"`
	RolePermissionCount int                 `json:"role_permission_count"`
	NeedsSetup          bool                `json:"needs_setup"`
	Staff               []StaffDetail       `json:"staff"`
	Roles               []RolePermissionSet `json:"roles"`
	StaffColumns        []ColumnInfo        `json:"staff_columns,omitempty"`
	Errors              []string            `json:"errors,omitempty"`
}
