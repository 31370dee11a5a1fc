package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/smartcafe/cafeteria-portal/internal/middleware"
	"github.com/smartcafe/cafeteria-portal/internal/models"
	"github.com/smartcafe/cafeteria-portal/pkg/session"
)

const recentStudentLimit = 5

// Authenticator checks staff and student credentials
type Authenticator interface {
	StaffLogin(ctx context.Context, username, password string) (*models.Staff, error)
	StudentLogin(ctx context.Context, regNo string) (*models.Student, error)
	RecentStudents(ctx context.Context, limit int) []models.Student
}

// AuthHandler handles staff and student sign in and out
type AuthHandler struct {
	pages  *Pages
	auth   Authenticator
	logger *logrus.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(pages *Pages, auth Authenticator, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		pages:  pages,
		auth:   auth,
		logger: logger,
	}
}

// Home handles GET /
func (h *AuthHandler) Home(c *gin.Context) {
	c.Redirect(http.StatusFound, middleware.StudentLoginPath)
}

// ===================================================================
// STAFF
// ===================================================================

// StaffLoginPage handles GET /login
func (h *AuthHandler) StaffLoginPage(c *gin.Context) {
	if middleware.GetSession(c).IsStaff() {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	h.pages.render(c, http.StatusOK, "login.html", "Staff Login", nil)
}

// StaffLogin handles POST /login
func (h *AuthHandler) StaffLogin(c *gin.Context) {
	var req models.StaffLoginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.pages.failure(c, err, "Please enter both username and password.", middleware.StaffLoginPath)
		return
	}

	staff, err := h.auth.StaffLogin(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.logger.WithFields(logrus.Fields{
			"username": req.Username,
			"ip":       c.ClientIP(),
		}).WithError(err).Warn("Staff login failed")
		h.pages.failure(c, err, "Login failed. Please try again.", middleware.StaffLoginPath)
		return
	}

	middleware.GetSession(c).SignInStaff(session.StaffIdentity{
		StaffID:  staff.StaffID,
		Username: staff.Username,
		RoleID:   staff.RoleID,
	})
	h.logger.WithFields(logrus.Fields{
		"staff_id": staff.StaffID,
		"role_id":  staff.RoleID,
	}).Info("Staff signed in")
	h.pages.redirect(c, "/dashboard")
}

// StaffLogout handles POST /logout
func (h *AuthHandler) StaffLogout(c *gin.Context) {
	sess := middleware.GetSession(c)
	sess.SignOutStaff()
	sess.Success("You have been logged out.")
	h.pages.redirect(c, middleware.StaffLoginPath)
}

// ===================================================================
// STUDENTS
// ===================================================================

// StudentLoginPage handles GET /student/login
func (h *AuthHandler) StudentLoginPage(c *gin.Context) {
	if middleware.GetSession(c).IsStudent() {
		c.Redirect(http.StatusFound, "/student/order")
		return
	}
	h.pages.render(c, http.StatusOK, "student_login.html", "Student Login", gin.H{
		"RecentStudents": h.auth.RecentStudents(c.Request.Context(), recentStudentLimit),
	})
}

// StudentLogin handles POST /student/login
func (h *AuthHandler) StudentLogin(c *gin.Context) {
	var req models.StudentLoginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.pages.failure(c, err, "Please enter your registration number.", middleware.StudentLoginPath)
		return
	}

	student, err := h.auth.StudentLogin(c.Request.Context(), req.RegNo)
	if err != nil {
		h.pages.failure(c, err, "Login failed. Please try again.", middleware.StudentLoginPath)
		return
	}

	middleware.GetSession(c).SignInStudent(session.StudentIdentity{
		RegNo:     student.RegNo,
		FirstName: student.FirstName,
		LastName:  student.LastName,
		Phone:     student.Phone,
	})
	h.logger.WithField("reg_no", student.RegNo).Info("Student signed in")
	h.pages.redirect(c, "/student/order")
}

// StudentLogout handles POST /student/logout
func (h *AuthHandler) StudentLogout(c *gin.Context) {
	middleware.GetSession(c).SignOutStudent()
	h.pages.redirect(c, middleware.StudentLoginPath)
}
