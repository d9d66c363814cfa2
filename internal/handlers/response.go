package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/facesocial/facesocial-backend/internal/services"
)

// respondAuthError maps the service error taxonomy onto the wire statuses:
// validation 400, authentication 401, duplicates 400, anything else 500
// with a generic message.
func respondAuthError(c *gin.Context, err error) {
	var vErr *services.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input data", "errors": vErr.Fields})
	case errors.Is(err, services.ErrDuplicateUser):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Username or email already exists"})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
	case errors.Is(err, services.ErrFaceNotRecognized):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Face not recognized"})
	case errors.Is(err, services.ErrBadFaceImage):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Failed to process face image"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
	}
}
