// controllers/report.go
package controllers

import (
	"net/http"
	"time"

	"github.com/ErnestKamau/inventory-systems/config"
	"github.com/ErnestKamau/inventory-systems/models"
	"github.com/ErnestKamau/inventory-systems/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReportController handles all reporting functions
type ReportController struct{}

// AnalyticsSummary represents the analytics data
type AnalyticsSummary struct {
	CurrentMonthRevenue   decimal.Decimal    `json:"currentMonthRevenue"`
	MonthGrowth           float64            `json:"monthGrowth"`
	CurrentQuarterRevenue decimal.Decimal    `json:"currentQuarterRevenue"`
	QuarterGrowth         float64            `json:"quarterGrowth"`
	CurrentYearRevenue    decimal.Decimal    `json:"currentYearRevenue"`
	YearGrowth            float64            `json:"yearGrowth"`
	TopCustomers          []CustomerSummary  `json:"topCustomers"`
	Receivables           ReceivablesSummary `json:"receivables"`
	PaymentMethods        []MethodSummary    `json:"paymentMethods"`
	QuickStats            QuickStatistics    `json:"quickStats"`
}

type CustomerSummary struct {
	Name      string          `json:"name"`
	Purchases int             `json:"purchases"`
	Spent     decimal.Decimal `json:"spent"`
}

// ReceivablesSummary totals the money still owed to the store
type ReceivablesSummary struct {
	OutstandingCount   int64           `json:"outstandingCount"`
	OutstandingBalance decimal.Decimal `json:"outstandingBalance"`
	OverdueCount       int64           `json:"overdueCount"`
	OverdueBalance     decimal.Decimal `json:"overdueBalance"`
}

type MethodSummary struct {
	Method models.PaymentMethod `json:"method"`
	Count  int                  `json:"count"`
	Total  decimal.Decimal      `json:"total"`
}

type QuickStatistics struct {
	TotalCustomers  int             `json:"totalCustomers"`
	TotalSales      int             `json:"totalSales"`
	AvgMonthlySales float64         `json:"avgMonthlySales"`
	AvgSaleValue    decimal.Decimal `json:"avgSaleValue"`
}

// GetReportAnalytics returns the complete analytics summary
func (rc *ReportController) GetReportAnalytics(c *gin.Context) {
	storeUUID, ok := storeIDFromContext(c)
	if !ok {
		return
	}

	// Get current time
	now := time.Now()
	currentYear, currentMonth, _ := now.Date()
	currentLocation := now.Location()

	// Calculate date ranges
	firstOfMonth := time.Date(currentYear, currentMonth, 1, 0, 0, 0, 0, currentLocation)
	lastOfMonth := firstOfMonth.AddDate(0, 1, -1)

	// Revenue by period
	currentMonthRevenue, err := rc.getRevenue(storeUUID, firstOfMonth, lastOfMonth)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get monthly revenue")
		return
	}

	lastMonthRevenue, err := rc.getRevenue(storeUUID,
		firstOfMonth.AddDate(0, -1, 0),
		lastOfMonth.AddDate(0, -1, 0))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get last month revenue")
		return
	}

	currentQuarterRevenue, err := rc.getRevenue(storeUUID,
		rc.getQuarterStart(now),
		rc.getQuarterEnd(now))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get quarterly revenue")
		return
	}

	lastQuarterRevenue, err := rc.getRevenue(storeUUID,
		rc.getQuarterStart(now).AddDate(0, -3, 0),
		rc.getQuarterEnd(now).AddDate(0, -3, 0))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get last quarter revenue")
		return
	}

	currentYearRevenue, err := rc.getRevenue(storeUUID,
		time.Date(currentYear, 1, 1, 0, 0, 0, 0, currentLocation),
		time.Date(currentYear, 12, 31, 23, 59, 59, 0, currentLocation))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get yearly revenue")
		return
	}

	lastYearRevenue, err := rc.getRevenue(storeUUID,
		time.Date(currentYear-1, 1, 1, 0, 0, 0, 0, currentLocation),
		time.Date(currentYear-1, 12, 31, 23, 59, 59, 0, currentLocation))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get last year revenue")
		return
	}

	// Calculate growth percentages
	monthGrowth := rc.calculateGrowthPercentage(currentMonthRevenue, lastMonthRevenue)
	quarterGrowth := rc.calculateGrowthPercentage(currentQuarterRevenue, lastQuarterRevenue)
	yearGrowth := rc.calculateGrowthPercentage(currentYearRevenue, lastYearRevenue)

	// Get top customers
	topCustomers, err := rc.getTopCustomers(storeUUID, firstOfMonth, lastOfMonth, 4)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get top customers")
		return
	}

	// Outstanding and overdue receivables
	receivables, err := rc.getReceivables(storeUUID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get receivables")
		return
	}

	// Payment method breakdown for the month
	paymentMethods, err := rc.getPaymentMethodBreakdown(storeUUID, firstOfMonth, lastOfMonth)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get payment method breakdown")
		return
	}

	// Get quick statistics
	quickStats, err := rc.getQuickStatistics(storeUUID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get quick statistics")
		return
	}

	summary := AnalyticsSummary{
		CurrentMonthRevenue:   currentMonthRevenue,
		MonthGrowth:           monthGrowth,
		CurrentQuarterRevenue: currentQuarterRevenue,
		QuarterGrowth:         quarterGrowth,
		CurrentYearRevenue:    currentYearRevenue,
		YearGrowth:            yearGrowth,
		TopCustomers:          topCustomers,
		Receivables:           receivables,
		PaymentMethods:        paymentMethods,
		QuickStats:            quickStats,
	}

	c.JSON(http.StatusOK, summary)
}

// Helper functions for reports

func (rc *ReportController) getRevenue(storeID uuid.UUID, start, end time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := config.DB.Model(&models.Sale{}).
		Where("store_id = ? AND sale_date BETWEEN ? AND ?", storeID, start, end).
		Select("COALESCE(SUM(owed_amount), 0)").
		Scan(&total).Error
	return total, err
}

func (rc *ReportController) getQuarterStart(date time.Time) time.Time {
	quarter := (int(date.Month())-1)/3 + 1
	startMonth := time.Month((quarter-1)*3 + 1)
	return time.Date(date.Year(), startMonth, 1, 0, 0, 0, 0, date.Location())
}

func (rc *ReportController) getQuarterEnd(date time.Time) time.Time {
	return rc.getQuarterStart(date).AddDate(0, 3, -1)
}

func (rc *ReportController) calculateGrowthPercentage(current, previous decimal.Decimal) float64 {
	if previous.IsZero() {
		if current.IsZero() {
			return 0
		}
		return 100
	}
	return current.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100)).Round(2).InexactFloat64()
}

func (rc *ReportController) getTopCustomers(storeID uuid.UUID, start, end time.Time, limit int) ([]CustomerSummary, error) {
	var customers []CustomerSummary

	err := config.DB.Table("sales").
		Select("customers.name, COUNT(sales.id) as purchases, SUM(sales.owed_amount) as spent").
		Joins("JOIN customers ON customers.id = sales.customer_id").
		Where("sales.store_id = ? AND sales.sale_date BETWEEN ? AND ? AND sales.deleted_at IS NULL AND customers.deleted_at IS NULL", storeID, start, end).
		Group("customers.name").
		Order("spent DESC").
		Limit(limit).
		Scan(&customers).Error

	return customers, err
}

func (rc *ReportController) getReceivables(storeID uuid.UUID) (ReceivablesSummary, error) {
	var summary ReceivablesSummary

	type receivableRow struct {
		Count   int64
		Balance decimal.Decimal
	}

	const receivableQuery = `
		SELECT COUNT(*) as count,
		       COALESCE(SUM(s.owed_amount - COALESCE(p.total_paid, 0)), 0) as balance
		FROM sales s
		LEFT JOIN (
			SELECT sale_id, SUM(amount) as total_paid
			FROM payments
			WHERE deleted_at IS NULL
			GROUP BY sale_id
		) p ON p.sale_id = s.id
		WHERE s.store_id = ? AND s.deleted_at IS NULL AND s.payment_status IN ?
	`

	var outstanding receivableRow
	if err := config.DB.Raw(receivableQuery, storeID, models.PaymentStatusesWithBalance()).
		Scan(&outstanding).Error; err != nil {
		return summary, err
	}
	summary.OutstandingCount = outstanding.Count
	summary.OutstandingBalance = outstanding.Balance

	var overdue receivableRow
	if err := config.DB.Raw(receivableQuery, storeID, []models.PaymentStatus{models.PaymentStatusOverdue}).
		Scan(&overdue).Error; err != nil {
		return summary, err
	}
	summary.OverdueCount = overdue.Count
	summary.OverdueBalance = overdue.Balance

	return summary, nil
}

func (rc *ReportController) getPaymentMethodBreakdown(storeID uuid.UUID, start, end time.Time) ([]MethodSummary, error) {
	var methods []MethodSummary

	err := config.DB.Table("payments").
		Select("payments.method, COUNT(payments.id) as count, SUM(payments.amount) as total").
		Joins("JOIN sales ON sales.id = payments.sale_id").
		Where("sales.store_id = ? AND payments.paid_at BETWEEN ? AND ? AND payments.deleted_at IS NULL AND sales.deleted_at IS NULL", storeID, start, end).
		Group("payments.method").
		Order("total DESC").
		Scan(&methods).Error

	return methods, err
}

func (rc *ReportController) getQuickStatistics(storeID uuid.UUID) (QuickStatistics, error) {
	var stats QuickStatistics

	// Total Customers
	var totalCustomers int64
	if err := config.DB.Model(&models.Customer{}).
		Where("store_id = ? AND deleted_at IS NULL", storeID).
		Count(&totalCustomers).Error; err != nil {
		return stats, err
	}
	stats.TotalCustomers = int(totalCustomers)

	// Total Sales
	var totalSales int64
	if err := config.DB.Model(&models.Sale{}).
		Where("store_id = ? AND deleted_at IS NULL", storeID).
		Count(&totalSales).Error; err != nil {
		return stats, err
	}
	stats.TotalSales = int(totalSales)

	// Average Monthly Sales
	var avgSales float64
	err := config.DB.Raw(`
		SELECT AVG(sales) FROM (
			SELECT COUNT(*) as sales
			FROM sales
			WHERE store_id = ? AND deleted_at IS NULL
			GROUP BY DATE_TRUNC('month', sale_date)
		) monthly_sales
	`, storeID).Scan(&avgSales).Error
	if err != nil {
		return stats, err
	}
	stats.AvgMonthlySales = avgSales

	// Average Sale Value
	var totalRevenue decimal.Decimal
	if err := config.DB.Model(&models.Sale{}).
		Where("store_id = ? AND deleted_at IS NULL", storeID).
		Select("COALESCE(SUM(owed_amount), 0)").
		Scan(&totalRevenue).Error; err != nil {
		return stats, err
	}

	if stats.TotalSales > 0 {
		stats.AvgSaleValue = totalRevenue.Div(decimal.NewFromInt(int64(stats.TotalSales))).Round(2)
	}

	return stats, nil
}
