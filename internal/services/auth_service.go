package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/smartcafe/cafeteria-portal/internal/database"
	"github.com/smartcafe/cafeteria-portal/internal/models"
	"github.com/smartcafe/cafeteria-portal/pkg/validator"
	"golang.org/x/crypto/bcrypt"
)

// AuthService signs staff and students in
type AuthService struct {
	staffRepo   *database.StaffRepository
	studentRepo *database.StudentRepository
	bcryptCost  int
	logger      *logrus.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	staffRepo *database.StaffRepository,
	studentRepo *database.StudentRepository,
	bcryptCost int,
	logger *logrus.Logger,
) *AuthService {
	return &AuthService{
		staffRepo:   staffRepo,
		studentRepo: studentRepo,
		bcryptCost:  bcryptCost,
		logger:      logger,
	}
}

// StaffLogin checks a username and password against the stored bcrypt hash
func (s *AuthService) StaffLogin(ctx context.Context, username, password string) (*models.Staff, error) {
	req := &models.StaffLoginRequest{Username: username, Password: password}
	if err := req.Validate(); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	staff, err := s.staffRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if staff == nil {
		s.logger.WithField("username", req.Username).Warn("Staff login for unknown user")
		return nil, ErrStaffNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(staff.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.WithField("staff_id", staff.StaffID).Warn("Staff login with wrong password")
		return nil, ErrInvalidPassword
	}

	s.logger.WithFields(logrus.Fields{
		"staff_id": staff.StaffID,
		"role_id":  staff.RoleID,
	}).Info("Staff signed in")
	return staff, nil
}

// StudentLogin looks a student up by registration number. There is no password.
func (s *AuthService) StudentLogin(ctx context.Context, regNo string) (*models.Student, error) {
	regNo, err := validator.ValidateRegNo(regNo)
	if errors.Is(err, validator.ErrEmptyRegNo) {
		return nil, &ValidationError{Message: "Please enter your registration number."}
	}
	if err != nil {
		return nil, &ValidationError{Message: "Please enter a valid registration number."}
	}

	student, err := s.studentRepo.GetByRegNo(ctx, regNo)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, ErrStudentNotFound
	}

	s.logger.WithField("reg_no", student.RegNo).Info("Student signed in")
	return student, nil
}

// RecentStudents lists recently added students for the login page
func (s *AuthService) RecentStudents(ctx context.Context, limit int) []models.Student {
	students, err := s.studentRepo.ListRecent(ctx, limit)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list recent students")
		return []models.Student{}
	}
	return students
}

// HashPassword hashes a staff password at the configured cost
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
