// internal/services/admin_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openmerce/storefront/internal/models"
	"github.com/openmerce/storefront/internal/utils"
)

func TestUpdateCustomerStatusRequestValidation(t *testing.T) {
	assert.NoError(t, utils.ValidateStruct(&UpdateCustomerStatusRequest{
		Status: models.CustomerStatusActive,
	}))
	assert.NoError(t, utils.ValidateStruct(&UpdateCustomerStatusRequest{
		Status: models.CustomerStatusSuspended,
		Reason: "chargeback abuse",
	}))

	// Only the two defined statuses are accepted.
	assert.Error(t, utils.ValidateStruct(&UpdateCustomerStatusRequest{
		Status: models.CustomerStatus("inactive"),
	}))
	assert.Error(t, utils.ValidateStruct(&UpdateCustomerStatusRequest{}))
}
