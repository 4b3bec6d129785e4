// internal/utils/validator_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type passwordPayload struct {
	Password string `validate:"required,strong_password"`
}

type storeCodePayload struct {
	Code string `validate:"required,store_code"`
}

type skuPayload struct {
	SKU string `validate:"required,sku"`
}

func TestStrongPasswordValidation(t *testing.T) {
	tests := []struct {
		name     string
		password string
		valid    bool
	}{
		{"valid password", "TestPass123!", true},
		{"too short", "Tp1!", false},
		{"missing uppercase", "testpass123!", false},
		{"missing lowercase", "TESTPASS123!", false},
		{"missing number", "TestPassword!", false},
		{"missing special", "TestPass1234", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&passwordPayload{Password: tt.password})
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestStoreCodeValidation(t *testing.T) {
	assert.NoError(t, ValidateStruct(&storeCodePayload{Code: "DEFAULT"}))
	assert.NoError(t, ValidateStruct(&storeCodePayload{Code: "my-store_2"}))
	assert.Error(t, ValidateStruct(&storeCodePayload{Code: "x"}))
	assert.Error(t, ValidateStruct(&storeCodePayload{Code: "bad code"}))
	assert.Error(t, ValidateStruct(&storeCodePayload{Code: "store/1"}))
}

func TestSKUValidation(t *testing.T) {
	assert.NoError(t, ValidateStruct(&skuPayload{SKU: "TSHIRT-RED-XL"}))
	assert.NoError(t, ValidateStruct(&skuPayload{SKU: "item.001"}))
	assert.Error(t, ValidateStruct(&skuPayload{SKU: "no spaces"}))
	assert.Error(t, ValidateStruct(&skuPayload{SKU: "sku#1"}))
}

func TestGetValidationErrors(t *testing.T) {
	err := ValidateStruct(&passwordPayload{Password: "weak"})
	assert.Error(t, err)

	errors := GetValidationErrors(err)
	assert.Len(t, errors, 1)
	assert.Equal(t, "password", errors[0].Field)
	assert.Equal(t, "strong_password", errors[0].Tag)
	assert.NotEmpty(t, errors[0].Message)
}
