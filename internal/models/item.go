package models

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/smartcafe/cafeteria-portal/pkg/validator"
)

// Item represents a menu item sold by one cafeteria
type Item struct {
	ItemID        int            `db:"item_id" json:"item_id"`
	Name          string         `db:"name" json:"name"`
	Price         float64        `db:"price" json:"price"`
	Availability  bool           `db:"availability" json:"availability"`
	CafeteriaID   string         `db:"cafeteria_id" json:"cafeteria_id"`
	CafeteriaName sql.NullString `db:"cafeteria_name" json:"cafeteria_name,omitempty"`
}

// ItemRequest is the add/update menu item form
type ItemRequest struct {
	Name         string  `form:"name"`
	Price        float64 `form:"price"`
	Availability bool    `form:"availability"`
	CafeteriaID  string  `form:"cafeteria_id"`
}

// Validate trims and checks the menu item form
func (r *ItemRequest) Validate() error {
	name, err := validator.ValidateName(r.Name)
	if err != nil {
		return fmt.Errorf("Item %w", err)
	}
	r.Name = name
	if err := validator.ValidatePrice(r.Price); err != nil {
		return fmt.Errorf("Item %w", err)
	}
	r.CafeteriaID = strings.TrimSpace(r.CafeteriaID)
	if r.CafeteriaID == "" {
		return errors.New("Cafeteria is required.")
	}
	return nil
}
