package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/ErnestKamau/inventory-systems/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a store owner account. The store identity lives on the owner
// record; the user's ID doubles as the store ID in tokens and tenancy
// columns.
type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Email    string    `gorm:"uniqueIndex;not null" json:"email"`
	Password string    `gorm:"not null" json:"-"`
	Name     string    `gorm:"not null" json:"name"`
	Phone    string    `json:"phone"`

	StoreName    string `gorm:"not null" json:"storeName"`
	StoreAddress string `json:"storeAddress"`

	BusinessHours    JSONB `gorm:"type:jsonb;default:'{}'" json:"businessHours"`
	PaymentReminders bool  `gorm:"default:true" json:"paymentReminders"`
	SMSNotifications bool  `gorm:"default:true" json:"smsNotifications"`

	LastLogin *time.Time `json:"lastLogin,omitempty"`
	IsActive  bool       `gorm:"default:true" json:"isActive"`

	gorm.Model
}

// Initialize UUID and hash the password before creating
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	hashed, err := utils.HashPassword(u.Password)
	if err != nil {
		return err
	}
	u.Password = hashed
	return
}

// Custom JSONB type for business hours
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, &j)
}
