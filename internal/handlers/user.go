package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/facesocial/facesocial-backend/internal/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (uh *UserHandler) GetMe(c *gin.Context) {
	me, err := uh.userService.GetMe(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": me.Public()})
}

func (uh *UserHandler) UpdateTheme(c *gin.Context) {
	var req struct {
		PreferredTheme string `json:"preferredTheme"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	me, err := uh.userService.UpdatePreferredTheme(c.Request.Context(), req.PreferredTheme)
	if err != nil {
		respondAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": me.Public()})
}
