package auth

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library-catalog/internal/validation"
)

// Controller exposes the authentication endpoints.
type Controller struct {
	service *Service
}

// NewController creates a new auth controller.
func NewController(service *Service) *Controller {
	return &Controller{service: service}
}

// Register creates a user account and issues a bearer token
// POST /api/register
func (ac *Controller) Register(c *gin.Context) {
	var in validation.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "invalid request body"})
		return
	}

	user, token, err := ac.service.Register(in)
	if err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"message": "The given data was invalid.",
				"errors":  verr.Errors,
			})
			return
		}
		log.Printf("Internal error (register): %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user, "token": token})
}

// Login verifies credentials and issues a fresh bearer token
// POST /api/login
func (ac *Controller) Login(c *gin.Context) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "invalid request body"})
		return
	}

	errs := validation.Errors{}
	if in.Email == "" {
		errs.Add("email", "email is required")
	}
	if in.Password == "" {
		errs.Add("password", "password is required")
	}
	if len(errs) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"message": "The given data was invalid.",
			"errors":  errs,
		})
		return
	}

	user, token, err := ac.service.Login(in.Email, in.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
			return
		}
		log.Printf("Internal error (login): %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
}

// Logout revokes the presented token; idempotent
// POST /api/logout
func (ac *Controller) Logout(c *gin.Context) {
	if err := ac.service.Logout(BearerToken(c)); err != nil {
		log.Printf("Internal error (logout): %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// User returns the authenticated user
// GET /api/user
func (ac *Controller) User(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthenticated."})
		return
	}
	c.JSON(http.StatusOK, user)
}
