// models/reminder_log.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReminderLog struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	StoreID    uuid.UUID `gorm:"type:uuid;index;not null" json:"storeId"`
	CustomerID uuid.UUID `gorm:"type:uuid;index;not null" json:"customerId"`
	SaleID     uuid.UUID `gorm:"type:uuid;index;not null" json:"saleId"`

	Type         string    `gorm:"type:varchar(20)" json:"type"` // near-due, overdue
	Message      string    `gorm:"type:text" json:"message"`
	Status       string    `gorm:"type:varchar(20)" json:"status"` // sent, failed
	ErrorMessage string    `gorm:"type:text" json:"errorMessage"`
	Channel      string    `gorm:"type:varchar(20)" json:"channel"` // sms
	SentAt       time.Time `json:"sentAt"`

	gorm.Model
}

func (r *ReminderLog) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}
