// internal/services/cart_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openmerce/storefront/internal/models"
)

func TestRoundMoney(t *testing.T) {
	assert.Equal(t, 10.0, RoundMoney(10))
	assert.Equal(t, 10.56, RoundMoney(10.555))
	assert.Equal(t, 10.55, RoundMoney(10.554))
	assert.Equal(t, 0.1, RoundMoney(0.1+0.2-0.2))
	assert.Equal(t, -2.35, RoundMoney(-2.345))
}

func TestRecalculateCart(t *testing.T) {
	cart := &models.ShoppingCart{
		Items: []models.ShoppingCartItem{
			{Price: 19.99, Quantity: 2},
			{Price: 5.25, Quantity: 3},
		},
	}

	RecalculateCart(cart)

	assert.Equal(t, 39.98, cart.Items[0].Total)
	assert.Equal(t, 15.75, cart.Items[1].Total)
	assert.Equal(t, 55.73, cart.Subtotal)
	assert.Equal(t, 5, cart.ItemCount)
}

func TestRecalculateCartEmpty(t *testing.T) {
	cart := &models.ShoppingCart{Subtotal: 99, ItemCount: 4}

	RecalculateCart(cart)

	assert.Equal(t, 0.0, cart.Subtotal)
	assert.Equal(t, 0, cart.ItemCount)
}
