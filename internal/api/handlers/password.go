package handlers

import (
	"github.com/ProyectoGP-AR/Proyecto---Chorifans/internal/services"
	"github.com/ProyectoGP-AR/Proyecto---Chorifans/internal/utils"
	"github.com/gin-gonic/gin"
)

type PasswordHandler struct {
	authService *services.AuthService
}

func NewPasswordHandler(authService *services.AuthService) *PasswordHandler {
	return &PasswordHandler{authService: authService}
}

func (h *PasswordHandler) ForgotPassword(c *gin.Context) {
	var req services.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	if err := h.authService.ForgotPassword(req); err != nil {
		utils.SendAppError(c, err)
		return
	}

	// Same answer whether or not the email exists
	utils.SendSuccess(c, "If the email exists, a reset link was sent", nil)
}

func (h *PasswordHandler) ValidateResetToken(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		utils.SendValidationError(c, "Token required")
		return
	}

	user, err := h.authService.ValidateResetToken(token)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, "Token is valid", gin.H{"email": user.Email})
}

func (h *PasswordHandler) ResetPassword(c *gin.Context) {
	var req services.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	if err := h.authService.ResetPassword(req); err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, "Password reset successfully", nil)
}

func (h *PasswordHandler) ChangePassword(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req services.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	if err := h.authService.ChangePassword(userID, req); err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, "Password changed successfully", nil)
}
