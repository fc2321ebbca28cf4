package controllers

import (
	"errors"
	"net/http"

	"github.com/ErnestKamau/inventory-systems/config"
	"github.com/ErnestKamau/inventory-systems/models"
	"github.com/ErnestKamau/inventory-systems/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateCustomerInput defines the expected JSON structure for creating a customer
type CreateCustomerInput struct {
	Name  string  `json:"name" binding:"required"`
	Phone string  `json:"phone" binding:"required"`
	Email *string `json:"email"`
	Notes string  `json:"notes"`
}

// UpdateCustomerInput defines the expected JSON structure for updating a customer
type UpdateCustomerInput struct {
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email"`
	Notes    *string `json:"notes"`
	IsActive *bool   `json:"isActive"`
}

// CreateCustomer creates a new customer for the store
func CreateCustomer(c *gin.Context) {
	storeUUID, ok := storeIDFromContext(c)
	if !ok {
		return
	}
	userUUID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	var input CreateCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	// Validate phone format
	if !utils.ValidatePhone(input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	// Check if phone already exists for this store
	var existingCustomer models.Customer
	if err := config.DB.Where("store_id = ? AND phone = ?", storeUUID, input.Phone).
		First(&existingCustomer).Error; err == nil {
		utils.RespondWithError(c, http.StatusConflict, "Customer with this phone number already exists")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	customer := models.Customer{
		ID:              uuid.New(),
		StoreID:         storeUUID,
		CreatedByUserID: userUUID,
		Name:            input.Name,
		Phone:           input.Phone,
		Notes:           input.Notes,
		IsActive:        true,
	}

	if input.Email != nil {
		customer.Email = *input.Email
	}

	if err := config.DB.Create(&customer).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create customer")
		return
	}

	c.JSON(http.StatusCreated, customer)
}

// GetCustomers retrieves all customers for the store
func GetCustomers(c *gin.Context) {
	storeUUID, ok := storeIDFromContext(c)
	if !ok {
		return
	}

	var customers []models.Customer
	if err := config.DB.Where("store_id = ?", storeUUID).Find(&customers).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve customers")
		return
	}

	c.JSON(http.StatusOK, customers)
}

// GetCustomer retrieves a specific customer by ID
func GetCustomer(c *gin.Context) {
	storeUUID, ok := storeIDFromContext(c)
	if !ok {
		return
	}
	customerUUID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var customer models.Customer
	if err := config.DB.Where("store_id = ? AND id = ?", storeUUID, customerUUID).
		First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, customer)
}

// UpdateCustomer updates an existing customer
func UpdateCustomer(c *gin.Context) {
	storeUUID, ok := storeIDFromContext(c)
	if !ok {
		return
	}
	customerUUID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var input UpdateCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var customer models.Customer
	if err := config.DB.Where("store_id = ? AND id = ?", storeUUID, customerUUID).
		First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Phone != nil {
		if !utils.ValidatePhone(*input.Phone) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
			return
		}
		customer.Phone = *input.Phone
	}
	if input.Name != nil {
		customer.Name = *input.Name
	}
	if input.Email != nil {
		customer.Email = *input.Email
	}
	if input.Notes != nil {
		customer.Notes = *input.Notes
	}
	if input.IsActive != nil {
		customer.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&customer).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update customer")
		return
	}

	c.JSON(http.StatusOK, customer)
}

// DeleteCustomer soft deletes a customer
func DeleteCustomer(c *gin.Context) {
	storeUUID, ok := storeIDFromContext(c)
	if !ok {
		return
	}
	customerUUID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var customer models.Customer
	if err := config.DB.Where("store_id = ? AND id = ?", storeUUID, customerUUID).
		First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if err := config.DB.Delete(&customer).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete customer")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted successfully"})
}
