// services/reminder_service.go
package services

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/ErnestKamau/inventory-systems/models"
	"github.com/ErnestKamau/inventory-systems/utils"

	"github.com/google/uuid"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"
)

// ReminderService sends SMS payment reminders to customers whose sales are
// coming up on their due date.
type ReminderService struct {
	db     *gorm.DB
	client *twilio.RestClient
}

func NewReminderService(db *gorm.DB) *ReminderService {
	// Initialize Twilio client
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &ReminderService{
		db: db,
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
	}
}

// SendDailyReminders walks every active store and sends near-due payment
// reminders for it. Stores with reminders switched off are skipped.
func (s *ReminderService) SendDailyReminders(now time.Time) {
	log.Println("Starting daily payment reminder processing...")

	var stores []models.User
	if err := s.db.Find(&stores, "is_active = ?", true).Error; err != nil {
		log.Printf("Failed to fetch stores: %v", err)
		return
	}

	for _, store := range stores {
		if !store.PaymentReminders || !store.SMSNotifications {
			continue
		}
		s.ProcessStoreReminders(store.ID, store.StoreName, now)
	}

	log.Println("Daily payment reminder processing completed")
}

// ProcessStoreReminders sends a reminder for every near-due sale of one
// store, at most one per sale per day.
func (s *ReminderService) ProcessStoreReminders(storeID uuid.UUID, storeName string, now time.Time) {
	sales, err := s.getNearDueSales(storeID, now)
	if err != nil {
		log.Printf("Store %s: Failed to get near-due sales: %v", storeID, err)
		return
	}

	for _, sale := range sales {
		if !sale.IsNearDue(now) {
			continue
		}
		if s.alreadyReminded(sale.ID, now) {
			continue
		}

		var customer models.Customer
		if err := s.db.First(&customer, "id = ?", sale.CustomerID).Error; err != nil {
			log.Printf("Store %s: Failed to load customer for sale %s: %v", storeID, sale.SaleNumber, err)
			continue
		}

		s.sendReminder(storeID, storeName, &sale, &customer, now)
	}
}

// getNearDueSales finds sales with an outstanding balance due within the
// next two days.
func (s *ReminderService) getNearDueSales(storeID uuid.UUID, now time.Time) ([]models.Sale, error) {
	windowEnd := utils.BeginningOfDay(now).AddDate(0, 0, 3)

	var sales []models.Sale
	err := s.db.Preload("Payments").
		Where("store_id = ? AND payment_status IN ? AND due_date IS NOT NULL AND due_date >= ? AND due_date < ?",
			storeID,
			[]models.PaymentStatus{models.PaymentStatusNoPayment, models.PaymentStatusPartial},
			utils.BeginningOfDay(now), windowEnd).
		Find(&sales).Error
	return sales, err
}

func (s *ReminderService) alreadyReminded(saleID uuid.UUID, now time.Time) bool {
	var count int64
	s.db.Model(&models.ReminderLog{}).
		Where("sale_id = ? AND status = ? AND sent_at >= ?", saleID, "sent", utils.BeginningOfDay(now)).
		Count(&count)
	return count > 0
}

func (s *ReminderService) sendReminder(storeID uuid.UUID, storeName string, sale *models.Sale, customer *models.Customer, now time.Time) {
	balance := sale.Balance(sale.TotalPaid())
	message := fmt.Sprintf("Hi %s, a friendly reminder from %s: %s of your purchase %s is due by %s. Thank you!",
		customer.Name, storeName, balance.StringFixed(2), sale.SaleNumber, sale.DueDate.Format("02 Jan 2006"))

	to := strings.TrimSpace(customer.Phone)
	if to == "" {
		log.Printf("Store %s: customer %s has no phone, skipping reminder", storeID, customer.ID)
		return
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetBody(message)
	params.SetFrom(os.Getenv("TWILIO_PHONE_NUMBER"))

	resp, err := s.client.Api.CreateMessage(params)
	status := "sent"
	errorMsg := ""

	if err != nil {
		log.Printf("Failed to send reminder to %s: %v", customer.Phone, err)
		status = "failed"
		errorMsg = err.Error()
	} else if resp.Sid != nil {
		log.Printf("Reminder sent to %s, SID: %s", customer.Phone, *resp.Sid)
	} else {
		log.Printf("Reminder sent to %s, but no SID returned", customer.Phone)
	}

	reminderLog := models.ReminderLog{
		StoreID:      storeID,
		CustomerID:   customer.ID,
		SaleID:       sale.ID,
		Type:         "near-due",
		Message:      message,
		Status:       status,
		ErrorMessage: errorMsg,
		Channel:      "sms",
		SentAt:       now,
	}

	if err := s.db.Create(&reminderLog).Error; err != nil {
		log.Printf("Failed to log reminder for sale %s: %v", sale.SaleNumber, err)
	}
}
