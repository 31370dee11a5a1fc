package models

// DashboardStats holds the dashboard stat cards
type DashboardStats struct {
	CafeteriaCount int `db:"cafeteria_count" json:"cafeteria_count"`
	MenuCount      int `db:"menu_count" json:"menu_count"`
	StaffCount     int `db:"staff_count" json:"staff_count"`
}

// QuickAction is a dashboard shortcut card
type QuickAction struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Link        string `json:"link"`
	ComingSoon  bool   `json:"coming_soon"`
}
