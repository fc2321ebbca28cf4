package controllers

import (
	"net/http"
	"time"

	"github.com/ErnestKamau/inventory-systems/config"
	"github.com/ErnestKamau/inventory-systems/models"
	"github.com/ErnestKamau/inventory-systems/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type DashboardOverview struct {
	TotalCustomers     int             `json:"totalCustomers"`
	MonthlyRevenue     decimal.Decimal `json:"monthlyRevenue"`
	TotalSales         int             `json:"totalSales"`
	PendingOrders      int             `json:"pendingOrders"`
	OutstandingBalance decimal.Decimal `json:"outstandingBalance"`
	OverdueSales       int             `json:"overdueSales"`
	NearDueSales       []NearDueSale   `json:"nearDueSales"`
	RecentSales        []RecentSale    `json:"recentSales"`
}

type NearDueSale struct {
	SaleNumber   string          `json:"saleNumber"`
	CustomerName string          `json:"customerName"`
	Balance      decimal.Decimal `json:"balance"`
	DueDate      time.Time       `json:"dueDate"`
}

type RecentSale struct {
	SaleNumber    string               `json:"saleNumber"`
	CustomerName  string               `json:"customerName"`
	OwedAmount    decimal.Decimal      `json:"owedAmount"`
	PaymentStatus models.PaymentStatus `json:"paymentStatus"`
	SaleDate      time.Time            `json:"saleDate"`
}

func GetDashboardOverview(c *gin.Context) {
	storeUUID, ok := storeIDFromContext(c)
	if !ok {
		return
	}

	now := time.Now()

	// Total Customers
	var totalCustomers int64
	config.DB.Model(&models.Customer{}).Where("store_id = ? AND deleted_at IS NULL", storeUUID).Count(&totalCustomers)

	// This Month's Revenue
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	var monthlyRevenue decimal.Decimal
	config.DB.Model(&models.Sale{}).
		Where("store_id = ? AND sale_date >= ? AND deleted_at IS NULL", storeUUID, firstOfMonth).
		Select("COALESCE(SUM(owed_amount), 0)").Scan(&monthlyRevenue)

	// Total Sales
	var totalSales int64
	config.DB.Model(&models.Sale{}).Where("store_id = ? AND deleted_at IS NULL", storeUUID).Count(&totalSales)

	// Pending Orders
	var pendingOrders int64
	config.DB.Model(&models.Order{}).
		Where("store_id = ? AND status = ? AND deleted_at IS NULL", storeUUID, models.OrderStatusPending).
		Count(&pendingOrders)

	// Outstanding balance across unpaid sales
	var outstandingBalance decimal.Decimal
	config.DB.Raw(`
        SELECT COALESCE(SUM(s.owed_amount - COALESCE(p.total_paid, 0)), 0)
        FROM sales s
        LEFT JOIN (
            SELECT sale_id, SUM(amount) as total_paid
            FROM payments
            WHERE deleted_at IS NULL
            GROUP BY sale_id
        ) p ON p.sale_id = s.id
        WHERE s.store_id = ? AND s.deleted_at IS NULL AND s.payment_status IN ?
    `, storeUUID, models.PaymentStatusesWithBalance()).Scan(&outstandingBalance)

	// Overdue sales count
	var overdueSales int64
	config.DB.Model(&models.Sale{}).
		Where("store_id = ? AND payment_status = ? AND deleted_at IS NULL", storeUUID, models.PaymentStatusOverdue).
		Count(&overdueSales)

	// Sales coming up on their due date within two days
	var nearDueSales []NearDueSale
	windowEnd := utils.BeginningOfDay(now).AddDate(0, 0, 3)
	config.DB.Raw(`
        SELECT s.sale_number, c.name as customer_name,
               s.owed_amount - COALESCE(p.total_paid, 0) as balance, s.due_date
        FROM sales s
        JOIN customers c ON c.id = s.customer_id
        LEFT JOIN (
            SELECT sale_id, SUM(amount) as total_paid
            FROM payments
            WHERE deleted_at IS NULL
            GROUP BY sale_id
        ) p ON p.sale_id = s.id
        WHERE s.store_id = ? AND s.deleted_at IS NULL
        AND s.payment_status IN ?
        AND s.due_date IS NOT NULL AND s.due_date >= ? AND s.due_date < ?
        ORDER BY s.due_date
        LIMIT 7
    `, storeUUID,
		[]models.PaymentStatus{models.PaymentStatusNoPayment, models.PaymentStatusPartial},
		utils.BeginningOfDay(now), windowEnd).Scan(&nearDueSales)

	// Recent Sales (last 5)
	var recentSales []RecentSale
	config.DB.Raw(`
        SELECT s.sale_number, c.name as customer_name, s.owed_amount, s.payment_status, s.sale_date
        FROM sales s
        JOIN customers c ON c.id = s.customer_id
        WHERE s.store_id = ? AND s.deleted_at IS NULL
        ORDER BY s.sale_date DESC
        LIMIT 5
    `, storeUUID).Scan(&recentSales)

	overview := DashboardOverview{
		TotalCustomers:     int(totalCustomers),
		MonthlyRevenue:     monthlyRevenue,
		TotalSales:         int(totalSales),
		PendingOrders:      int(pendingOrders),
		OutstandingBalance: outstandingBalance,
		OverdueSales:       int(overdueSales),
		NearDueSales:       nearDueSales,
		RecentSales:        recentSales,
	}

	c.JSON(http.StatusOK, overview)
}
