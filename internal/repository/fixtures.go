package repository

import (
	"time"

	"mercado/internal/domain"
)

var fixturePublishedAt = time.Date(2026, 2, 17, 15, 0, 0, 0, time.UTC)

const (
	FixtureAutoListingID     = "3f8da0a5-2423-4012-b337-d2fa9c26e8d9"
	FixturePropertyListingID = "e95856a6-d4f8-4bf8-b4c5-347f304f67f0"

	FixtureAutoOwnerID     = "11111111-1111-4111-8111-111111111111"
	FixturePropertyOwnerID = "22222222-2222-4222-8222-222222222222"
)

// FixtureListings returns a fresh copy of the deterministic local dataset.
func FixtureListings() []domain.ListingSummary {
	return []domain.ListingSummary{
		{
			ID:          FixtureAutoListingID,
			Vertical:    domain.VerticalAutos,
			Type:        domain.TypeSale,
			Title:       "Peugeot 208 Hatchback 2016 Blanco",
			Price:       5790000,
			Currency:    "CLP",
			City:        "Santiago",
			OwnerID:     FixtureAutoOwnerID,
			Status:      domain.StatusPublished,
			PublishedAt: fixturePublishedAt,
		},
		{
			ID:          FixturePropertyListingID,
			Vertical:    domain.VerticalProperties,
			Type:        domain.TypeRent,
			Title:       "Departamento 2D+2B en Providencia",
			Price:       850000,
			Currency:    "CLP",
			City:        "Santiago",
			OwnerID:     FixturePropertyOwnerID,
			Status:      domain.StatusDraft,
			PublishedAt: fixturePublishedAt,
		},
	}
}

// FixtureMedia returns the media attachments for the fixture listings.
func FixtureMedia() map[string][]domain.ListingMedia {
	return map[string][]domain.ListingMedia{
		FixtureAutoListingID: {
			{
				ID:        "f9df0fc8-4ef6-4562-aecf-9166b159a4a7",
				ListingID: FixtureAutoListingID,
				URL:       "https://cdn.simpleautos.app/listings/peugeot-208-cover.jpg",
				Kind:      domain.MediaImage,
				Order:     0,
			},
		},
		FixturePropertyListingID: {
			{
				ID:        "1aff03ca-ffbf-4b5e-ba03-f0ad7938ab6a",
				ListingID: FixturePropertyListingID,
				URL:       "https://cdn.simplepropiedades.app/listings/depto-providencia-cover.jpg",
				Kind:      domain.MediaImage,
				Order:     0,
			},
		},
	}
}
