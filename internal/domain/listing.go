package domain

import (
	"fmt"
	"time"
)

type Vertical string

const (
	VerticalAutos      Vertical = "autos"
	VerticalProperties Vertical = "properties"
	VerticalStores     Vertical = "stores"
	VerticalFood       Vertical = "food"
)

func ParseVertical(s string) (Vertical, error) {
	switch Vertical(s) {
	case VerticalAutos, VerticalProperties, VerticalStores, VerticalFood:
		return Vertical(s), nil
	}
	return "", fmt.Errorf("unknown vertical %q", s)
}

type ListingType string

const (
	TypeSale    ListingType = "sale"
	TypeRent    ListingType = "rent"
	TypeAuction ListingType = "auction"
)

func ParseListingType(s string) (ListingType, error) {
	switch ListingType(s) {
	case TypeSale, TypeRent, TypeAuction:
		return ListingType(s), nil
	}
	return "", fmt.Errorf("unknown listing type %q", s)
}

// Listing status values used by the store. The column itself is a free-form
// string so legacy rows with other markers still round-trip.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// ListingSummary is the read model returned to all callers.
type ListingSummary struct {
	ID          string         `json:"id"`
	Vertical    Vertical       `json:"vertical"`
	Type        ListingType    `json:"type"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Price       float64        `json:"price"`
	Currency    string         `json:"currency"`
	City        string         `json:"city"`
	Region      string         `json:"region,omitempty"`
	Location    string         `json:"location,omitempty"`
	Status      string         `json:"status,omitempty"`
	OwnerID     string         `json:"ownerId,omitempty"`
	CreatedAt   *time.Time     `json:"createdAt,omitempty"`
	ImageURL    string         `json:"imageUrl,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
	PublishedAt time.Time      `json:"publishedAt"`
}

type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// ListingMedia is a single media attachment of a listing, ordered by Order
// with ties broken by insertion order.
type ListingMedia struct {
	ID        string    `json:"id"`
	ListingID string    `json:"listingId"`
	URL       string    `json:"url"`
	Kind      MediaKind `json:"kind"`
	Order     int       `json:"order"`
}
