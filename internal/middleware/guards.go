package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smartcafe/cafeteria-portal/internal/services"
)

// Redirect targets for failed guards
const (
	StaffLoginPath   = "/login"
	StudentLoginPath = "/student/login"
	UnauthorizedPath = "/unauthorized"
)

// StaffRemovedMessage is flashed when a signed-in staff account no longer exists
const StaffRemovedMessage = "Your staff account is no longer active. Please contact an administrator."

// Authorizer is the permission check the guards need
type Authorizer interface {
	HasPermission(ctx context.Context, identity services.Identity, name string) bool
	IsAdmin(identity services.Identity) bool
	CurrentRole(ctx context.Context, identity services.Identity) (string, error)
}

// StaffIdentity returns the signed-in staff member as an authorization identity
func StaffIdentity(c *gin.Context) services.Identity {
	sess := GetSession(c)
	if !sess.IsStaff() {
		return services.Identity{}
	}
	return services.Identity{StaffID: sess.Staff.StaffID, RoleID: sess.Staff.RoleID}
}

// RequireStaff sends visitors without a staff session to the staff login page
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetSession(c).IsStaff() {
			c.Redirect(http.StatusFound, StaffLoginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RefreshStaffRole replaces the role cached in the session with the one in
// the database, so demotions apply on the next request. Staff whose row is
// gone are signed out. Use after RequireStaff.
func RefreshStaffRole(authz Authorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := GetSession(c)
		roleID, err := authz.CurrentRole(c.Request.Context(), StaffIdentity(c))
		if err != nil {
			c.Redirect(http.StatusFound, UnauthorizedPath)
			c.Abort()
			return
		}

		if roleID == "" {
			sess.SignOutStaff()
			sess.Error(StaffRemovedMessage)
			_ = SaveSession(c)
			c.Redirect(http.StatusFound, StaffLoginPath)
			c.Abort()
			return
		}

		if roleID != sess.Staff.RoleID {
			sess.Staff.RoleID = roleID
			_ = SaveSession(c)
		}
		c.Next()
	}
}

// RequireStudent sends visitors without a student session to the student login page
func RequireStudent() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetSession(c).IsStudent() {
			c.Redirect(http.StatusFound, StudentLoginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequirePermission lets the request through only when the staff member
// holds the named permission. Use after RequireStaff.
func RequirePermission(authz Authorizer, name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authz.HasPermission(c.Request.Context(), StaffIdentity(c), name) {
			c.Redirect(http.StatusFound, UnauthorizedPath)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin lets only the administrator role through
func RequireAdmin(authz Authorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authz.IsAdmin(StaffIdentity(c)) {
			c.Redirect(http.StatusFound, UnauthorizedPath)
			c.Abort()
			return
		}
		c.Next()
	}
}
