package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"minimart/internal/auth"
	"minimart/internal/middleware"
)

type AdminLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AdminCredentialsRequest struct {
	CurrentPassword string `json:"currentPassword"`
	Username        string `json:"username"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

func AdminLogin(authService *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/login"
		defer handlePanic(c, route)

		var req AdminLoginRequest
		if !bindJSON(c, route, &req) {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		token, err := authService.Login(ctx, req.Username, req.Password)
		if err != nil {
			respondStoreError(c, route, err, "invalid credentials")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"token": token,
		})
	}
}

func AdminMe() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "username": c.GetString(middleware.AdminKey)})
	}
}

// UpdateAdminCredentials changes the admin username and password. Field
// problems are reported before the current password is checked.
func UpdateAdminCredentials(authService *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /admin/api/account"
		defer handlePanic(c, route)

		var req AdminCredentialsRequest
		if !bindJSON(c, route, &req) {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		creds, err := authService.UpdateCredentials(ctx, req.CurrentPassword, req.Username, req.NewPassword, req.ConfirmPassword)
		if err != nil {
			respondStoreError(c, route, err, "credentials not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":  "credentials updated",
			"username": creds.Username,
		})
	}
}
