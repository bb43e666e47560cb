package controllers

import (
	"net/http"

	apperrors "github.com/Bill-Pill/sunglasses-io/errors"
	"github.com/Bill-Pill/sunglasses-io/services"
	"github.com/gin-gonic/gin"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthController struct {
	auth services.AuthService
}

func NewAuthController(auth services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

// Login handles POST /api/login and answers with the bare token as a JSON string.
func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.ErrInvalidInput.Wrap(err))
		return
	}

	token, err := ac.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, token)
}
