package repository

import (
	"time"

	"mercado/internal/domain"
)

// Row models for the managed store. The schema is owned by this service's
// migrations/seed tooling; AutoMigrate in tests keeps sqlite in step.

type listingRow struct {
	ID           string  `gorm:"column:id;primaryKey;size:36"`
	Vertical     string  `gorm:"column:vertical;size:32;index"`
	ListingType  string  `gorm:"column:listing_type;size:16;index"`
	Title        string  `gorm:"column:title"`
	Description  string  `gorm:"column:description"`
	Price        float64 `gorm:"column:price"`
	Currency     string  `gorm:"column:currency;size:12"`
	City         string  `gorm:"column:city;size:120"`
	Region       string  `gorm:"column:region;size:120"`
	Location     string  `gorm:"column:location"`
	Status       string  `gorm:"column:status;size:32;index"`
	UserID       string  `gorm:"column:user_id;size:36;index"`
	Metadata     map[string]any `gorm:"column:metadata;serializer:json"`
	Tags         []string       `gorm:"column:tags;serializer:json"`
	Details      map[string]any `gorm:"column:details;serializer:json"`
	DocumentURLs []string       `gorm:"column:document_urls;serializer:json"`
	PublishedAt  *time.Time     `gorm:"column:published_at;index"`
	CreatedAt    time.Time      `gorm:"column:created_at"`
	UpdatedAt    time.Time      `gorm:"column:updated_at"`

	Media []mediaRow `gorm:"foreignKey:ListingID;references:ID"`
}

func (listingRow) TableName() string { return "listings" }

type mediaRow struct {
	ID        string    `gorm:"column:id;primaryKey;size:36"`
	ListingID string    `gorm:"column:listing_id;size:36;index"`
	URL       string    `gorm:"column:url"`
	Kind      string    `gorm:"column:kind;size:16"`
	IsPrimary bool      `gorm:"column:is_primary"`
	Position  int       `gorm:"column:position"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (mediaRow) TableName() string { return "listing_media" }

type documentRow struct {
	ID        string    `gorm:"column:id;primaryKey;size:36"`
	ListingID string    `gorm:"column:listing_id;size:36;index"`
	UserID    string    `gorm:"column:user_id;size:36"`
	Name      string    `gorm:"column:name"`
	FileType  string    `gorm:"column:file_type;size:80"`
	FileSize  *int64    `gorm:"column:file_size"`
	IsPublic  bool      `gorm:"column:is_public"`
	Path      string    `gorm:"column:path"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (documentRow) TableName() string { return "listing_documents" }

// Legacy stores keyed the autos vertical as "vehicles"; both spellings
// normalize to the public enum.
var storeVerticalAliases = map[string]domain.Vertical{
	"vehicles":   domain.VerticalAutos,
	"autos":      domain.VerticalAutos,
	"properties": domain.VerticalProperties,
	"stores":     domain.VerticalStores,
	"food":       domain.VerticalFood,
}

func normalizeStoreVertical(value string) (domain.Vertical, bool) {
	v, ok := storeVerticalAliases[value]
	return v, ok
}

func (row *listingRow) toSummary() *domain.ListingSummary {
	vertical, ok := normalizeStoreVertical(row.Vertical)
	if !ok {
		return nil
	}

	publishedAt := time.Unix(0, 0).UTC()
	switch {
	case row.PublishedAt != nil:
		publishedAt = row.PublishedAt.UTC()
	case !row.CreatedAt.IsZero():
		publishedAt = row.CreatedAt.UTC()
	}

	var createdAt *time.Time
	if !row.CreatedAt.IsZero() {
		t := row.CreatedAt.UTC()
		createdAt = &t
	}

	summary := &domain.ListingSummary{
		ID:          row.ID,
		Vertical:    vertical,
		Type:        domain.ListingType(row.ListingType),
		Title:       row.Title,
		Description: row.Description,
		Price:       row.Price,
		Currency:    row.Currency,
		City:        row.City,
		Region:      row.Region,
		Location:    row.Location,
		Status:      row.Status,
		OwnerID:     row.UserID,
		CreatedAt:   createdAt,
		Metadata:    row.Metadata,
		Tags:        row.Tags,
		PublishedAt: publishedAt,
	}
	if summary.Currency == "" {
		summary.Currency = "CLP"
	}
	summary.ImageURL = primaryImageURL(row.Media)
	return summary
}

func primaryImageURL(media []mediaRow) string {
	var fallback string
	for i, m := range media {
		if m.IsPrimary {
			return m.URL
		}
		if i == 0 {
			fallback = m.URL
		}
	}
	return fallback
}
