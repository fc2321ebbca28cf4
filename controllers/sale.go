// controllers/sale.go
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
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SaleController handles the sale read side plus the debt/summary
// operations that delegate to the payment service.
type SaleController struct {
	Payments *services.PaymentService
}

// SaleResponse decorates a sale with its derived payment figures and the
// status presentation metadata.
type SaleResponse struct {
	models.Sale
	TotalPaid        decimal.Decimal `json:"totalPaid"`
	Balance          decimal.Decimal `json:"balance"`
	PaymentProgress  float64         `json:"paymentProgress"`
	ProfitPercentage float64         `json:"profitPercentage"`
	StatusLabel      string          `json:"statusLabel"`
	StatusColor      string          `json:"statusColor"`
	StatusIcon       string          `json:"statusIcon"`
}

type SetDebtInput struct {
	Days int `json:"days" binding:"required"`
}

func newSaleResponse(sale models.Sale) SaleResponse {
	totalPaid := sale.TotalPaid()
	return SaleResponse{
		Sale:             sale,
		TotalPaid:        totalPaid,
		Balance:          sale.Balance(totalPaid),
		PaymentProgress:  sale.PaymentProgress(totalPaid),
		ProfitPercentage: sale.ProfitPercentage(),
		StatusLabel:      sale.PaymentStatus.Label(),
		StatusColor:      sale.PaymentStatus.Color(),
		StatusIcon:       sale.PaymentStatus.Icon(),
	}
}

// GetSales retrieves the store's sales. Supports ?status=, ?outstanding=true
// and ?from=/?to= date range filters.
func (sc *SaleController) GetSales(c *gin.Context) {
	storeUUID, ok := storeIDFromContext(c)
	if !ok {
		return
	}

	query := config.DB.Preload("Payments").Where("store_id = ?", storeUUID)

	if status := models.PaymentStatus(c.Query("status")); status != "" {
		if !status.Valid() {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid payment status filter")
			return
		}
		query = query.Where("payment_status = ?", status)
	}
	if c.Query("outstanding") == "true" {
		query = query.Where("payment_status IN ?", models.PaymentStatusesWithBalance())
	}
	if from := c.Query("from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid from date, expected YYYY-MM-DD")
			return
		}
		query = query.Where("sale_date >= ?", t)
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid to date, expected YYYY-MM-DD")
			return
		}
		query = query.Where("sale_date < ?", t.AddDate(0, 0, 1))
	}

	var sales []models.Sale
	if err := query.Order("sale_date DESC").Find(&sales).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve sales")
		return
	}

	responses := make([]SaleResponse, 0, len(sales))
	for _, sale := range sales {
		responses = append(responses, newSaleResponse(sale))
	}

	c.JSON(http.StatusOK, responses)
}

// GetSale retrieves a specific sale with its payments
func (sc *SaleController) GetSale(c *gin.Context) {
	storeUUID, ok := storeIDFromContext(c)
	if !ok {
		return
	}
	saleUUID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var sale models.Sale
	if err := config.DB.Preload("Payments").
		Where("store_id = ? AND id = ?", storeUUID, saleUUID).
		First(&sale).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Sale not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, newSaleResponse(sale))
}

// GetSummary returns the read-only payment summary for a sale
func (sc *SaleController) GetSummary(c *gin.Context) {
	storeUUID, ok := storeIDFromContext(c)
	if !ok {
		return
	}
	saleUUID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	summary, err := sc.Payments.GetPaymentSummary(storeUUID, saleUUID, time.Now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Sale not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to build payment summary")
		}
		return
	}

	c.JSON(http.StatusOK, summary)
}

// SetAsDebt gives the sale a due date, days from now
func (sc *SaleController) SetAsDebt(c *gin.Context) {
	storeUUID, ok := storeIDFromContext(c)
	if !ok {
		return
	}
	saleUUID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var input SetDebtInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	sale, err := sc.Payments.SetAsDebt(storeUUID, saleUUID, input.Days, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidArgument):
			utils.RespondWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, gorm.ErrRecordNotFound):
			utils.RespondWithError(c, http.StatusNotFound, "Sale not found")
		default:
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to set sale as debt")
		}
		return
	}

	c.JSON(http.StatusOK, sale)
}

// DeleteSale soft deletes a sale along with its payments and reverses the
// customer stats recorded at conversion time
func (sc *SaleController) DeleteSale(c *gin.Context) {
	storeUUID, ok := storeIDFromContext(c)
	if !ok {
		return
	}
	saleUUID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	// Start transaction
	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var sale models.Sale
	if err := tx.Where("store_id = ? AND id = ?", storeUUID, saleUUID).
		First(&sale).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Sale not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if err := tx.Where("sale_id = ?", sale.ID).Delete(&models.Payment{}).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete payments")
		return
	}

	if err := tx.Delete(&sale).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete sale")
		return
	}

	// Reverse customer stats
	if err := tx.Model(&models.Customer{}).Where("id = ?", sale.CustomerID).
		Updates(map[string]interface{}{
			"total_orders": gorm.Expr("total_orders - ?", 1),
			"total_spent":  gorm.Expr("total_spent - ?", sale.OwedAmount),
		}).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update customer stats")
		return
	}

	tx.Commit()

	c.JSON(http.StatusOK, gin.H{"message": "Sale deleted successfully"})
}
