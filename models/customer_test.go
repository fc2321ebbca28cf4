package models

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupModelDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open db")

	require.NoError(t, db.AutoMigrate(&Customer{}, &Product{}), "migrate")
	return db
}

func TestCustomerPhoneUniquePerStore(t *testing.T) {
	db := setupModelDB(t)
	storeA := uuid.New()
	storeB := uuid.New()

	first := Customer{StoreID: storeA, CreatedByUserID: uuid.New(), Name: "Achieng", Phone: "+254700000001"}
	require.NoError(t, db.Create(&first).Error)

	// Same phone in a different store is fine
	other := Customer{StoreID: storeB, CreatedByUserID: uuid.New(), Name: "Baraka", Phone: "+254700000001"}
	assert.NoError(t, db.Create(&other).Error)

	// Same phone in the same store is not
	dup := Customer{StoreID: storeA, CreatedByUserID: uuid.New(), Name: "Chao", Phone: "+254700000001"}
	assert.Error(t, db.Create(&dup).Error)
}

func TestProductSKUUniquePerStore(t *testing.T) {
	db := setupModelDB(t)
	storeA := uuid.New()
	storeB := uuid.New()

	first := Product{
		StoreID: storeA, Name: "Sugar 1kg", SKU: "SUG-1KG",
		Price: decimal.NewFromInt(150), Cost: decimal.NewFromInt(120),
	}
	require.NoError(t, db.Create(&first).Error)

	other := Product{
		StoreID: storeB, Name: "Sugar 1kg", SKU: "SUG-1KG",
		Price: decimal.NewFromInt(160), Cost: decimal.NewFromInt(125),
	}
	assert.NoError(t, db.Create(&other).Error)

	dup := Product{
		StoreID: storeA, Name: "Sugar 1kg refill", SKU: "SUG-1KG",
		Price: decimal.NewFromInt(140), Cost: decimal.NewFromInt(110),
	}
	assert.Error(t, db.Create(&dup).Error)
}
