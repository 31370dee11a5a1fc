package database

import (
	"context"
	"fmt"

	"github.com/smartcafe/cafeteria-portal/internal/models"
)

// StudentRepository handles database operations for students
type StudentRepository struct {
	db DB
}

// NewStudentRepository creates a new student repository
func NewStudentRepository(db DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// GetByRegNo retrieves a student by registration number
func (r *StudentRepository) GetByRegNo(ctx context.Context, regNo string) (*models.Student, error) {
	var student models.Student
	query := `SELECT reg_no, first_name, last_name, phone, created_at FROM students WHERE reg_no = $1`
	err := r.db.GetContext(ctx, &student, query, regNo)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	return &student, nil
}

// ListRecent returns the most recently added students
func (r *StudentRepository) ListRecent(ctx context.Context, limit int) ([]models.Student, error) {
	var students []models.Student
	query := `
		SELECT reg_no, first_name, last_name, phone, created_at
		FROM students
		ORDER BY created_at DESC, reg_no DESC
		LIMIT $1
	`
	if err := r.db.SelectContext(ctx, &students, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	return students, nil
}

// Create inserts a student record
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	query := `
		INSERT INTO students (reg_no, first_name, last_name, phone)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	err := r.db.QueryRowxContext(ctx, query, student.RegNo, student.FirstName, student.LastName, student.Phone).
		Scan(&student.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create student: %w", err)
	}
	return nil
}
