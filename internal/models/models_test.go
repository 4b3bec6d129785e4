// internal/models/models_test.go
package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductCanPurchase(t *testing.T) {
	past := time.Now().Add(-24 * time.Hour)
	future := time.Now().Add(24 * time.Hour)

	assert.True(t, (&Product{Available: true}).CanPurchase())
	assert.True(t, (&Product{Available: true, DateAvailable: &past}).CanPurchase())
	assert.False(t, (&Product{Available: false}).CanPurchase())
	assert.False(t, (&Product{Available: true, DateAvailable: &future}).CanPurchase())
}

func TestProductVariantCanPurchase(t *testing.T) {
	future := time.Now().Add(24 * time.Hour)

	assert.True(t, (&ProductVariant{Available: true}).CanPurchase())
	assert.False(t, (&ProductVariant{Available: false}).CanPurchase())
	assert.False(t, (&ProductVariant{Available: true, DateAvailable: &future}).CanPurchase())
}

func TestCustomerPassword(t *testing.T) {
	customer := &Customer{}
	require.NoError(t, customer.SetPassword("TestPass123!"))

	assert.NotEqual(t, "TestPass123!", customer.PasswordHash)
	assert.NoError(t, customer.CheckPassword("TestPass123!"))
	assert.Error(t, customer.CheckPassword("WrongPass123!"))
}

func TestJSONBRoundTrip(t *testing.T) {
	original := JSONB{"color": "red", "sizes": []interface{}{"S", "M"}}

	value, err := original.Value()
	require.NoError(t, err)

	var restored JSONB
	require.NoError(t, restored.Scan(value))
	assert.Equal(t, "red", restored["color"])
	assert.Len(t, restored["sizes"], 2)
}

func TestJSONBScanNil(t *testing.T) {
	var j JSONB
	require.NoError(t, j.Scan(nil))
	assert.Nil(t, j)
}
