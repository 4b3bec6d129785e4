// internal/services/order_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openmerce/storefront/internal/models"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to models.OrderStatus }{
		{models.OrderStatusPending, models.OrderStatusProcessing},
		{models.OrderStatusPending, models.OrderStatusCanceled},
		{models.OrderStatusProcessing, models.OrderStatusShipped},
		{models.OrderStatusProcessing, models.OrderStatusCanceled},
		{models.OrderStatusProcessing, models.OrderStatusRefunded},
		{models.OrderStatusShipped, models.OrderStatusDelivered},
		{models.OrderStatusShipped, models.OrderStatusRefunded},
		{models.OrderStatusDelivered, models.OrderStatusRefunded},
	}
	for _, tr := range allowed {
		assert.True(t, CanTransition(tr.from, tr.to), "%s -> %s should be allowed", tr.from, tr.to)
	}

	denied := []struct{ from, to models.OrderStatus }{
		{models.OrderStatusPending, models.OrderStatusShipped},
		{models.OrderStatusPending, models.OrderStatusDelivered},
		{models.OrderStatusShipped, models.OrderStatusPending},
		{models.OrderStatusDelivered, models.OrderStatusProcessing},
		{models.OrderStatusCanceled, models.OrderStatusPending},
		{models.OrderStatusRefunded, models.OrderStatusProcessing},
	}
	for _, tr := range denied {
		assert.False(t, CanTransition(tr.from, tr.to), "%s -> %s should be denied", tr.from, tr.to)
	}
}

func TestCanTransitionTerminalStates(t *testing.T) {
	all := []models.OrderStatus{
		models.OrderStatusPending,
		models.OrderStatusProcessing,
		models.OrderStatusShipped,
		models.OrderStatusDelivered,
		models.OrderStatusCanceled,
		models.OrderStatusRefunded,
	}

	for _, to := range all {
		assert.False(t, CanTransition(models.OrderStatusCanceled, to))
		assert.False(t, CanTransition(models.OrderStatusRefunded, to))
	}
}
