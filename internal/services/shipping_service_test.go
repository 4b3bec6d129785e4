// internal/services/shipping_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openmerce/storefront/internal/models"
)

func TestQuoteForWeight(t *testing.T) {
	tiers := []ShippingTier{
		{MaxWeight: 5, Price: 12},
		{MaxWeight: 1, Price: 5},
		{MaxWeight: 0, Price: 25},
	}

	tests := []struct {
		name   string
		weight float64
		price  float64
	}{
		{"light parcel", 0.4, 5},
		{"tier boundary", 1, 5},
		{"mid tier", 3.2, 12},
		{"heavy parcel falls to open tier", 40, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quote, err := QuoteForWeight(tiers, tt.weight, "USD")
			require.NoError(t, err)
			assert.Equal(t, tt.price, quote.Price)
			assert.Equal(t, tt.weight, quote.Weight)
			assert.Equal(t, "USD", quote.Currency)
		})
	}
}

func TestQuoteForWeightNoCoveringTier(t *testing.T) {
	tiers := []ShippingTier{{MaxWeight: 1, Price: 5}}

	_, err := QuoteForWeight(tiers, 10, "USD")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestQuoteForWeightNoTiersIsFree(t *testing.T) {
	quote, err := QuoteForWeight(nil, 3, "EUR")
	require.NoError(t, err)
	assert.Equal(t, 0.0, quote.Price)
	assert.Equal(t, "EUR", quote.Currency)
}

func TestTiersForStore(t *testing.T) {
	store := &models.MerchantStore{
		Config: models.JSONB{
			"shipping": map[string]interface{}{
				"tiers": []interface{}{
					map[string]interface{}{"max_weight": 1.0, "price": 5.0},
					map[string]interface{}{"max_weight": 0.0, "price": 25.0},
				},
			},
		},
	}

	tiers := TiersForStore(store)
	require.Len(t, tiers, 2)
	assert.Equal(t, ShippingTier{MaxWeight: 1, Price: 5}, tiers[0])
	assert.Equal(t, ShippingTier{MaxWeight: 0, Price: 25}, tiers[1])
}

func TestShippingSettingsQuote(t *testing.T) {
	settings := ShippingSettings{
		Tiers:        []ShippingTier{{MaxWeight: 1, Price: 5}},
		DefaultPrice: 18,
		FreeOver:     100,
	}

	// Free shipping over the order value threshold
	quote, err := settings.Quote(0.5, 150, "USD")
	require.NoError(t, err)
	assert.Equal(t, 0.0, quote.Price)

	// Tier match below the threshold
	quote, err = settings.Quote(0.5, 20, "USD")
	require.NoError(t, err)
	assert.Equal(t, 5.0, quote.Price)

	// No covering tier falls back to the default price
	quote, err = settings.Quote(9, 20, "USD")
	require.NoError(t, err)
	assert.Equal(t, 18.0, quote.Price)

	// Without a default price an uncovered weight is an error
	settings.DefaultPrice = 0
	_, err = settings.Quote(9, 20, "USD")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestSettingsForStore(t *testing.T) {
	store := &models.MerchantStore{
		Config: models.JSONB{
			"shipping": map[string]interface{}{
				"tiers": []interface{}{
					map[string]interface{}{"max_weight": 1.0, "price": 5.0},
				},
				"default_price": 18.0,
				"free_over":     100.0,
			},
		},
	}

	settings := SettingsForStore(store)
	assert.Len(t, settings.Tiers, 1)
	assert.Equal(t, 18.0, settings.DefaultPrice)
	assert.Equal(t, 100.0, settings.FreeOver)

	empty := SettingsForStore(&models.MerchantStore{})
	assert.Empty(t, empty.Tiers)
	assert.Zero(t, empty.DefaultPrice)
	assert.Zero(t, empty.FreeOver)
}

func TestTiersForStoreMissingConfig(t *testing.T) {
	assert.Nil(t, TiersForStore(&models.MerchantStore{}))
	assert.Nil(t, TiersForStore(&models.MerchantStore{Config: models.JSONB{}}))
	assert.Nil(t, TiersForStore(&models.MerchantStore{
		Config: models.JSONB{"shipping": map[string]interface{}{}},
	}))
}
