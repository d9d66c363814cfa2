package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/facesocial/facesocial-backend/internal/services"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (ah *AuthHandler) CheckDuplicate(c *gin.Context) {
	field := c.Query("field")
	value := c.Query("value")
	if field == "" || value == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid parameters"})
		return
	}

	isDuplicate, err := ah.authService.CheckDuplicate(c.Request.Context(), field, value)
	if err != nil {
		respondAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"isDuplicate": isDuplicate, "field": field})
}

func (ah *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	result, err := ah.authService.Register(c.Request.Context(), req)
	if err != nil {
		respondAuthError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"token":   result.Token,
		"user":    result.User.Public(),
	})
}

func (ah *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	result, err := ah.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   result.Token,
		"user":    result.User.Public(),
	})
}

func (ah *AuthHandler) FaceLogin(c *gin.Context) {
	var req struct {
		FaceImage string `json:"faceImage"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	result, err := ah.authService.FaceLogin(c.Request.Context(), req.FaceImage)
	if err != nil {
		respondAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Face login successful",
		"token":   result.Token,
		"user":    result.User.Public(),
	})
}
