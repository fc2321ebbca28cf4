// controllers/payment.go
package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/ErnestKamau/inventory-systems/config"
	"github.com/ErnestKamau/inventory-systems/models"
	"github.com/ErnestKamau/inventory-systems/services"
	"github.com/ErnestKamau/inventory-systems/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// PaymentController exposes the payment ledger over HTTP; the actual
// lifecycle rules live in the payment service.
type PaymentController struct {
	Service *services.PaymentService
}

type BatchPaymentInput struct {
	Payments []services.PaymentInput `json:"payments" binding:"required"`
}

// AddPayment records one payment against a sale
func (pc *PaymentController) AddPayment(c *gin.Context) {
	storeUUID, ok := storeIDFromContext(c)
	if !ok {
		return
	}
	saleUUID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var input services.PaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	payment, err := pc.Service.AddPayment(storeUUID, saleUUID, input, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidArgument):
			utils.RespondWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, gorm.ErrRecordNotFound):
			utils.RespondWithError(c, http.StatusNotFound, "Sale not found")
		default:
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to record payment")
		}
		return
	}

	c.JSON(http.StatusCreated, payment)
}

// AddPayments records a batch of payments against a sale atomically
func (pc *PaymentController) AddPayments(c *gin.Context) {
	storeUUID, ok := storeIDFromContext(c)
	if !ok {
		return
	}
	saleUUID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var input BatchPaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	payments, err := pc.Service.AddPayments(storeUUID, saleUUID, input.Payments, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidArgument):
			utils.RespondWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, gorm.ErrRecordNotFound):
			utils.RespondWithError(c, http.StatusNotFound, "Sale not found")
		default:
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to record payments")
		}
		return
	}

	c.JSON(http.StatusCreated, payments)
}

// GetPayments lists the payments recorded against a sale
func (pc *PaymentController) GetPayments(c *gin.Context) {
	storeUUID, ok := storeIDFromContext(c)
	if !ok {
		return
	}
	saleUUID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var sale models.Sale
	if err := config.DB.Where("store_id = ? AND id = ?", storeUUID, saleUUID).
		First(&sale).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Sale not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var payments []models.Payment
	if err := config.DB.Where("sale_id = ?", sale.ID).
		Order("paid_at DESC").Find(&payments).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve payments")
		return
	}

	c.JSON(http.StatusOK, payments)
}

// DeletePayment removes a payment; the owning sale's status is recomputed
// by the service as part of the same transaction
func (pc *PaymentController) DeletePayment(c *gin.Context) {
	storeUUID, ok := storeIDFromContext(c)
	if !ok {
		return
	}
	paymentUUID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := pc.Service.DeletePayment(storeUUID, paymentUUID, time.Now()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Payment not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete payment")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Payment deleted successfully"})
}
