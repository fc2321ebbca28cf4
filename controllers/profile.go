package controllers

import (
	"net/http"

	"github.com/ErnestKamau/inventory-systems/config"
	"github.com/ErnestKamau/inventory-systems/models"
	"github.com/ErnestKamau/inventory-systems/utils"

	"github.com/gin-gonic/gin"
)

type UpdateStoreProfileInput struct {
	Name         *string `json:"name"`
	Phone        *string `json:"phone"`
	StoreName    *string `json:"storeName"`
	StoreAddress *string `json:"storeAddress"`
}

type UpdateBusinessHoursInput struct {
	BusinessHours models.JSONB `json:"businessHours" binding:"required"`
}

type UpdateNotificationsInput struct {
	PaymentReminders *bool `json:"paymentReminders"`
	SMSNotifications *bool `json:"smsNotifications"`
}

// GetProfile returns the store owner profile and settings
func GetProfile(c *gin.Context) {
	userUUID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	var user models.User
	if err := config.DB.First(&user, "id = ?", userUUID).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "User not found")
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateStoreProfile updates the store's name, address and owner contact
func UpdateStoreProfile(c *gin.Context) {
	userUUID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	var input UpdateStoreProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var user models.User
	if err := config.DB.First(&user, "id = ?", userUUID).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "User not found")
		return
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.StoreName != nil {
		user.StoreName = *input.StoreName
	}
	if input.StoreAddress != nil {
		user.StoreAddress = *input.StoreAddress
	}

	if err := config.DB.Save(&user).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateBusinessHours replaces the store's business hours
func UpdateBusinessHours(c *gin.Context) {
	userUUID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	var input UpdateBusinessHoursInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if err := config.DB.Model(&models.User{}).Where("id = ?", userUUID).
		Update("business_hours", input.BusinessHours).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update business hours")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Business hours updated"})
}

// UpdateNotifications toggles the reminder and SMS settings consumed by the
// reminder scheduler
func UpdateNotifications(c *gin.Context) {
	userUUID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	var input UpdateNotificationsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	updates := map[string]interface{}{}
	if input.PaymentReminders != nil {
		updates["payment_reminders"] = *input.PaymentReminders
	}
	if input.SMSNotifications != nil {
		updates["sms_notifications"] = *input.SMSNotifications
	}
	if len(updates) == 0 {
		utils.RespondWithError(c, http.StatusBadRequest, "No settings provided")
		return
	}

	if err := config.DB.Model(&models.User{}).Where("id = ?", userUUID).
		Updates(updates).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update notifications")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification settings updated"})
}
