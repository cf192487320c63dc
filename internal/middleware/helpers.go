// internal/middleware/helpers.go
package middleware

import "github.com/gin-gonic/gin"

// GetAdminID gets the authenticated admin's ID from context.
func GetAdminID(c *gin.Context) (int64, bool) {
	adminID, exists := c.Get("admin_id")
	if !exists {
		return 0, false
	}

	id, ok := adminID.(int64)
	return id, ok
}

// GetRole gets the authenticated admin's role from context.
func GetRole(c *gin.Context) string {
	role, exists := c.Get("role")
	if !exists {
		return ""
	}

	roleStr, ok := role.(string)
	if !ok {
		return ""
	}
	return roleStr
}

// IsSuperAdmin checks if the request is made by a super admin.
func IsSuperAdmin(c *gin.Context) bool {
	return GetRole(c) == "super_admin"
}
