package models

import "time"

// Student represents a student. Students are looked up, never registered, by the portal.
type Student struct {
	RegNo     string    `db:"reg_no" json:"reg_no"`
	FirstName string    `db:"first_name" json:"first_name"`
	LastName  string    `db:"last_name" json:"last_name"`
	Phone     string    `db:"phone" json:"phone"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// FullName returns "First Last"
func (s *Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

// StudentLoginRequest is the student login form
type StudentLoginRequest struct {
	RegNo string `form:"reg_no"`
}
