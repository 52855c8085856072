package app

import (
	"strings"

	"github.com/ehomehq/ehome/internal/services"
)

// ServiceConfig converts the listing settings for the listing service.
// Zero values fall back to the service defaults.
func (c ListingConfig) ServiceConfig() services.ListingConfig {
	return services.ListingConfig{
		AreaTTL:           c.AreaTTL,
		HomeTTL:           c.HomeTTL,
		DetailTTL:         c.DetailTTL,
		SearchTTL:         c.SearchTTL,
		HomePageMaxHouses: c.HomePageMaxHouses,
		PageCapacity:      c.PageCapacity,
		ImageURLPrefix:    strings.TrimSpace(c.ImageURLPrefix),
	}
}
