// controllers/order.go
package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/ErnestKamau/inventory-systems/config"
	"github.com/ErnestKamau/inventory-systems/models"
	"github.com/ErnestKamau/inventory-systems/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderItemInput defines the structure for an order line item
type OrderItemInput struct {
	ProductID uuid.UUID `json:"productId" binding:"required"`
	Quantity  int       `json:"quantity" binding:"min=1"`
}

// CreateOrderInput defines the expected JSON structure for placing an order
type CreateOrderInput struct {
	CustomerID uuid.UUID        `json:"customerId" binding:"required"`
	OrderDate  *time.Time       `json:"orderDate"`
	Items      []OrderItemInput `json:"items" binding:"required,min=1"`
	Discount   decimal.Decimal  `json:"discount"`
	Notes      string           `json:"notes"`
}

// ConfirmOrderInput carries the optional debt terms applied at conversion
type ConfirmOrderInput struct {
	DueInDays *int `json:"dueInDays"`
}

// CreateOrder places a new pending order for the store
func CreateOrder(c *gin.Context) {
	storeUUID, ok := storeIDFromContext(c)
	if !ok {
		return
	}
	userUUID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	var input CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.Discount.LessThan(decimal.Zero) {
		utils.RespondWithError(c, http.StatusBadRequest, "Discount must not be negative")
		return
	}

	// Validate customer exists in the same store
	var customer models.Customer
	if err := config.DB.Where("store_id = ? AND id = ?", storeUUID, input.CustomerID).
		First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusBadRequest, "Customer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	// Validate items and price them from the product catalog
	subtotal := decimal.Zero
	var orderItems []models.OrderItem

	for _, item := range input.Items {
		var product models.Product
		if err := config.DB.Where("store_id = ? AND id = ?", storeUUID, item.ProductID).
			First(&product).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusBadRequest, "Product not found: "+item.ProductID.String())
			} else {
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			}
			return
		}

		if product.Quantity < item.Quantity {
			utils.RespondWithError(c, http.StatusBadRequest, "Insufficient stock for product: "+product.Name)
			return
		}

		itemTotal := product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(itemTotal)

		orderItems = append(orderItems, models.OrderItem{
			ID:          uuid.New(),
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    item.Quantity,
			UnitPrice:   product.Price,
			UnitCost:    product.Cost,
			TotalPrice:  itemTotal,
		})
	}

	total := subtotal.Sub(input.Discount)

	orderDate := time.Now()
	if input.OrderDate != nil {
		orderDate = *input.OrderDate
	}

	order := models.Order{
		ID:              uuid.New(),
		StoreID:         storeUUID,
		CreatedByUserID: userUUID,
		CustomerID:      input.CustomerID,
		OrderDate:       orderDate,
		Status:          models.OrderStatusPending,
		Subtotal:        subtotal,
		Discount:        input.Discount,
		Total:           total,
		Notes:           input.Notes,
		Items:           orderItems,
	}
	order.OrderNumber = "ORD-" + orderDate.Format("20060102") + "-" + utils.GenerateRandomString(6)

	if err := config.DB.Create(&order).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create order")
		return
	}

	c.JSON(http.StatusCreated, order)
}

// GetOrders retrieves all orders for the store
func GetOrders(c *gin.Context) {
	storeUUID, ok := storeIDFromContext(c)
	if !ok {
		return
	}

	query := config.DB.Preload("Items").Where("store_id = ?", storeUUID)
	if status := models.OrderStatus(c.Query("status")); status != "" {
		if !status.Valid() {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid order status filter")
			return
		}
		query = query.Where("status = ?", status)
	}

	var orders []models.Order
	if err := query.Order("order_date DESC").Find(&orders).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve orders")
		return
	}

	c.JSON(http.StatusOK, orders)
}

// GetOrder retrieves a specific order by ID
func GetOrder(c *gin.Context) {
	storeUUID, ok := storeIDFromContext(c)
	if !ok {
		return
	}
	orderUUID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var order models.Order
	if err := config.DB.Preload("Items").
		Where("store_id = ? AND id = ?", storeUUID, orderUUID).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Order not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, order)
}

// CancelOrder cancels a pending order
func CancelOrder(c *gin.Context) {
	storeUUID, ok := storeIDFromContext(c)
	if !ok {
		return
	}
	orderUUID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var order models.Order
	if err := config.DB.Where("store_id = ? AND id = ?", storeUUID, orderUUID).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Order not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if order.Status != models.OrderStatusPending {
		utils.RespondWithError(c, http.StatusConflict, "Only pending orders can be cancelled")
		return
	}

	if err := config.DB.Model(&order).Update("status", models.OrderStatusCancelled).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to cancel order")
		return
	}

	c.JSON(http.StatusOK, order)
}

// ConfirmOrder converts a pending order into a sale: the monetary totals are
// fixed from the order items here, stock is decremented, and customer stats
// are bumped. The sale starts with no payments; money is collected through
// the payment endpoints afterwards.
func ConfirmOrder(c *gin.Context) {
	storeUUID, ok := storeIDFromContext(c)
	if !ok {
		return
	}
	userUUID, ok := userIDFromContext(c)
	if !ok {
		return
	}
	orderUUID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	// Body is optional for confirmation
	var input ConfirmOrderInput
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
			return
		}
	}
	if input.DueInDays != nil && *input.DueInDays < 1 {
		utils.RespondWithError(c, http.StatusBadRequest, "dueInDays must be at least 1")
		return
	}

	// Start transaction
	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var order models.Order
	if err := tx.Preload("Items").
		Where("store_id = ? AND id = ?", storeUUID, orderUUID).
		First(&order).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Order not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if order.Status != models.OrderStatusPending {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusConflict, "Order has already been "+string(order.Status))
		return
	}

	// Decrement stock for every line item
	for _, item := range order.Items {
		result := tx.Model(&models.Product{}).
			Where("id = ? AND quantity >= ?", item.ProductID, item.Quantity).
			Update("quantity", gorm.Expr("quantity - ?", item.Quantity))
		if result.Error != nil {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update stock")
			return
		}
		if result.RowsAffected == 0 {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusConflict, "Insufficient stock for product: "+item.ProductName)
			return
		}
	}

	now := time.Now()
	costAmount := order.TotalCost()
	owedAmount := order.Total
	profitAmount := owedAmount.Sub(costAmount)

	sale := models.Sale{
		ID:              uuid.New(),
		StoreID:         storeUUID,
		CreatedByUserID: userUUID,
		OrderID:         order.ID,
		CustomerID:      order.CustomerID,
		SaleDate:        now,
		OwedAmount:      owedAmount,
		CostAmount:      costAmount,
		ProfitAmount:    profitAmount,
		PaymentStatus:   models.PaymentStatusNoPayment,
		Notes:           order.Notes,
	}
	sale.SaleNumber = "SAL-" + now.Format("20060102") + "-" + utils.GenerateRandomString(6)

	if input.DueInDays != nil {
		dueDate := now.AddDate(0, 0, *input.DueInDays)
		sale.DueDate = &dueDate
	}

	if err := tx.Create(&sale).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create sale")
		return
	}

	if err := tx.Model(&order).Update("status", models.OrderStatusConfirmed).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to confirm order")
		return
	}

	// Update customer stats
	if err := tx.Model(&models.Customer{}).Where("id = ?", order.CustomerID).
		Updates(map[string]interface{}{
			"total_orders":  gorm.Expr("total_orders + ?", 1),
			"total_spent":   gorm.Expr("total_spent + ?", owedAmount),
			"last_purchase": now,
		}).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update customer stats")
		return
	}

	tx.Commit()

	c.JSON(http.StatusCreated, sale)
}
