package controllers

import (
	"net/http"

	"github.com/ErnestKamau/inventory-systems/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// storeIDFromContext pulls the authenticated store ID set by the auth
// middleware. Writes the error response itself when missing or malformed.
func storeIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	storeID, exists := c.Get("storeId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Store ID not found in context")
		return uuid.Nil, false
	}

	storeUUID, err := uuid.Parse(storeID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid store ID format")
		return uuid.Nil, false
	}
	return storeUUID, true
}

func userIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return uuid.Nil, false
	}

	userUUID, err := uuid.Parse(userID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid user ID format")
		return uuid.Nil, false
	}
	return userUUID, true
}

// uuidParam parses a :id style route parameter.
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid "+name+" format")
		return uuid.Nil, false
	}
	return id, true
}
