package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/ErnestKamau/inventory-systems/config"
	"github.com/ErnestKamau/inventory-systems/models"
	"github.com/ErnestKamau/inventory-systems/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type RegisterInput struct {
	Email         string       `json:"email" binding:"required,email"`
	Phone         string       `json:"phone" binding:"required"`
	Name          string       `json:"name" binding:"required"`
	Password      string       `json:"password" binding:"required,min=8"`
	StoreName     string       `json:"storeName" binding:"required"`
	StoreAddress  string       `json:"storeAddress"`
	BusinessHours models.JSONB `json:"businessHours"`
}

type LoginInput struct {
	Identifier string `json:"identifier" binding:"required"` // Can be email or phone
	Password   string `json:"password" binding:"required"`
}

// controllers/auth.go
func Register(c *gin.Context) {
	var input RegisterInput

	// Bind and validate input
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	// Check if email or phone already exists
	var existingUser models.User
	result := config.DB.Where("email = ? OR phone = ?", input.Email, input.Phone).First(&existingUser)

	if result.Error == nil {
		utils.RespondWithError(c, http.StatusConflict, "Email or phone already registered")
		return
	} else if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	// Create new user (password hashed in BeforeCreate hook)
	newUser := models.User{
		Email:         input.Email,
		Phone:         input.Phone,
		Name:          input.Name,
		Password:      input.Password,
		StoreName:     input.StoreName,
		StoreAddress:  input.StoreAddress,
		BusinessHours: input.BusinessHours,
		IsActive:      true,
	}

	if newUser.BusinessHours == nil {
		newUser.BusinessHours = models.JSONB{
			"monday":    map[string]interface{}{"open": "08:00", "close": "18:00", "closed": false},
			"tuesday":   map[string]interface{}{"open": "08:00", "close": "18:00", "closed": false},
			"wednesday": map[string]interface{}{"open": "08:00", "close": "18:00", "closed": false},
			"thursday":  map[string]interface{}{"open": "08:00", "close": "18:00", "closed": false},
			"friday":    map[string]interface{}{"open": "08:00", "close": "18:00", "closed": false},
			"saturday":  map[string]interface{}{"open": "08:00", "close": "14:00", "closed": false},
			"sunday":    map[string]interface{}{"open": "10:00", "close": "14:00", "closed": true},
		}
	}

	// Create user in database
	if err := config.DB.Create(&newUser).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create user")
		return
	}

	// Generate token (user ID doubles as store ID)
	token, err := utils.GenerateToken(newUser.ID.String(), newUser.ID.String())
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	expiryHours := 24
	maxAge := expiryHours * 3600

	c.SetCookie(
		"token",
		token,
		maxAge,
		"/",
		"",
		true,
		true,
	)

	// Return response without password
	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration successful",
		"token":   token,
		"user": gin.H{
			"id":        newUser.ID,
			"email":     newUser.Email,
			"phone":     newUser.Phone,
			"storeName": newUser.StoreName,
		},
	})
}

func Login(c *gin.Context) {
	var input LoginInput

	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	// Clean identifier
	identifier := strings.TrimSpace(input.Identifier)

	// Identifier can be email or phone
	var user models.User
	result := config.DB.Where("email = ? OR phone = ?", identifier, identifier).First(&user)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	// Check password
	if !utils.CheckPasswordHash(input.Password, user.Password) {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	// Generate token (user ID doubles as store ID)
	token, err := utils.GenerateToken(user.ID.String(), user.ID.String())
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	// Update last login
	now := time.Now()
	config.DB.Model(&user).Update("last_login", &now)

	expiryHours := 24
	maxAge := expiryHours * 3600

	c.SetCookie(
		"token",
		token,
		maxAge,
		"/",
		"",
		true,
		true,
	)

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":        user.ID,
			"email":     user.Email,
			"phone":     user.Phone,
			"storeName": user.StoreName,
		},
	})
}

func Me(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusInternalServerError, "User ID not found in context")
		return
	}

	var user models.User
	if err := config.DB.First(&user, "id = ?", userID).Error; err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "User not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":        user.ID,
			"email":     user.Email,
			"name":      user.Name,
			"storeName": user.StoreName,
		},
	})
}
