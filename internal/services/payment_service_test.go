// internal/services/payment_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAmountInCents(t *testing.T) {
	assert.Equal(t, int64(1000), AmountInCents(10))
	assert.Equal(t, int64(1099), AmountInCents(10.99))

	// Binary float artifacts must round, not truncate.
	assert.Equal(t, int64(820), AmountInCents(8.20))
	assert.Equal(t, int64(2997), AmountInCents(3*9.99))
	assert.Equal(t, int64(5), AmountInCents(0.05))

	assert.Equal(t, int64(0), AmountInCents(0))
}
