// internal/services/content_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		title string
		slug  string
	}{
		{"About Us", "about-us"},
		{"Shipping & Returns", "shipping-returns"},
		{"  Summer   Sale 2026!  ", "summer-sale-2026"},
		{"FAQ", "faq"},
		{"---", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.slug, Slugify(tt.title), "title %q", tt.title)
	}
}
