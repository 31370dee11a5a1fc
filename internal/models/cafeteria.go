package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/smartcafe/cafeteria-portal/pkg/validator"
)

// Cafeteria represents a cafeteria outlet, identified as C001, C002, ...
type Cafeteria struct {
	CafeteriaID string `db:"cafeteria_id" json:"cafeteria_id"`
	Name        string `db:"name" json:"name"`
	Location    string `db:"location" json:"location"`
}

// CafeteriaRequest is the add/update cafeteria form
type CafeteriaRequest struct {
	Name     string `form:"name"`
	Location string `form:"location"`
}

// Validate trims and checks the cafeteria form
func (r *CafeteriaRequest) Validate() error {
	name, err := validator.ValidateName(r.Name)
	if err != nil {
		return fmt.Errorf("Cafeteria %w", err)
	}
	r.Name = name
	r.Location = strings.TrimSpace(r.Location)
	if r.Location == "" {
		return errors.New("Location is required.")
	}
	return nil
}
