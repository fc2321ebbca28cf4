package controllers

import (
	"errors"
	"net/http"

	"github.com/ErnestKamau/inventory-systems/config"
	"github.com/ErnestKamau/inventory-systems/models"
	"github.com/ErnestKamau/inventory-systems/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CreateProductInput struct {
	Name        string          `json:"name" binding:"required"`
	SKU         string          `json:"sku" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Cost        decimal.Decimal `json:"cost" binding:"required"`
	Quantity    int             `json:"quantity" binding:"min=0"`
	Category    string          `json:"category"`
}

type UpdateProductInput struct {
	Name        *string          `json:"name"`
	SKU         *string          `json:"sku"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Cost        *decimal.Decimal `json:"cost"`
	Quantity    *int             `json:"quantity"`
	Category    *string          `json:"category"`
	IsActive    *bool            `json:"isActive"`
}

// CreateProduct creates a new product for the store
func CreateProduct(c *gin.Context) {
	storeUUID, ok := storeIDFromContext(c)
	if !ok {
		return
	}

	var input CreateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.Price.LessThan(decimal.Zero) || input.Cost.LessThan(decimal.Zero) {
		utils.RespondWithError(c, http.StatusBadRequest, "Price and cost must not be negative")
		return
	}

	// SKU must be unique per store
	var existing models.Product
	if err := config.DB.Where("store_id = ? AND sku = ?", storeUUID, input.SKU).
		First(&existing).Error; err == nil {
		utils.RespondWithError(c, http.StatusConflict, "Product with this SKU already exists")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	product := models.Product{
		ID:          uuid.New(),
		StoreID:     storeUUID,
		Name:        input.Name,
		SKU:         input.SKU,
		Description: input.Description,
		Price:       input.Price,
		Cost:        input.Cost,
		Quantity:    input.Quantity,
		IsActive:    true,
	}
	if input.Category != "" {
		product.Category = input.Category
	}

	if err := config.DB.Create(&product).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create product")
		return
	}

	c.JSON(http.StatusCreated, product)
}

// GetProducts retrieves all products for the store
func GetProducts(c *gin.Context) {
	storeUUID, ok := storeIDFromContext(c)
	if !ok {
		return
	}

	query := config.DB.Where("store_id = ?", storeUUID)
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if c.Query("active") == "true" {
		query = query.Where("is_active = true")
	}

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve products")
		return
	}

	c.JSON(http.StatusOK, products)
}

// GetProduct retrieves a specific product by ID
func GetProduct(c *gin.Context) {
	storeUUID, ok := storeIDFromContext(c)
	if !ok {
		return
	}
	productUUID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var product models.Product
	if err := config.DB.Where("store_id = ? AND id = ?", storeUUID, productUUID).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Product not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, product)
}

// UpdateProduct updates an existing product
func UpdateProduct(c *gin.Context) {
	storeUUID, ok := storeIDFromContext(c)
	if !ok {
		return
	}
	productUUID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var input UpdateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var product models.Product
	if err := config.DB.Where("store_id = ? AND id = ?", storeUUID, productUUID).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Product not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.SKU != nil {
		product.SKU = *input.SKU
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.Cost != nil {
		product.Cost = *input.Cost
	}
	if input.Quantity != nil {
		product.Quantity = *input.Quantity
	}
	if input.Category != nil {
		product.Category = *input.Category
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&product).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update product")
		return
	}

	c.JSON(http.StatusOK, product)
}

// DeleteProduct soft deletes a product
func DeleteProduct(c *gin.Context) {
	storeUUID, ok := storeIDFromContext(c)
	if !ok {
		return
	}
	productUUID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var product models.Product
	if err := config.DB.Where("store_id = ? AND id = ?", storeUUID, productUUID).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Product not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if err := config.DB.Delete(&product).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete product")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}
