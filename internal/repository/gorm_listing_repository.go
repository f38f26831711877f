package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"mercado/internal/domain"
	"mercado/internal/pkg/token"
)

// Attribute keys accepted from the schema-loose upsert maps. Anything else
// is dropped before it reaches the store.
var allowedListingAttrs = map[string]struct{}{
	"listing_type": {},
	"title":        {},
	"description":  {},
	"price":        {},
	"currency":     {},
	"city":         {},
	"region":       {},
	"location":     {},
	"status":       {},
	"metadata":     {},
	"tags":         {},
}

var allowedDetailAttrs = map[domain.Vertical]map[string]struct{}{
	domain.VerticalAutos: {
		"brand": {}, "model": {}, "year": {}, "mileage": {},
		"transmission": {}, "fuel_type": {}, "body_type": {},
		"color": {}, "condition": {},
	},
	domain.VerticalProperties: {
		"property_type": {}, "bedrooms": {}, "bathrooms": {},
		"total_area": {}, "built_area": {}, "parking_spaces": {},
		"floor": {}, "furnished": {}, "pet_friendly": {},
		"features": {}, "amenities": {},
	},
}

// GormListingRepository is the managed-store backend. Atomicity of upserts
// and deletes relies on the store's transactions; no in-process locking.
type GormListingRepository struct {
	db *gorm.DB
}

func NewGormListingRepository(db *gorm.DB) *GormListingRepository {
	return &GormListingRepository{db: db}
}

// AutoMigrate creates or updates the backing tables. Used by the seed
// command and sqlite-backed tests; production schemas are migrated
// externally.
func (r *GormListingRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&listingRow{}, &mediaRow{}, &documentRow{})
}

func (r *GormListingRepository) List(ctx context.Context, q ListQuery) (Page, error) {
	var total int64
	if err := r.listConditions(ctx, q).Count(&total).Error; err != nil {
		return Page{}, err
	}

	var rows []listingRow
	err := r.listConditions(ctx, q).
		Order("COALESCE(published_at, created_at) DESC").
		Limit(q.Limit).
		Offset(q.Offset).
		Preload("Media", func(db *gorm.DB) *gorm.DB {
			return db.Order("is_primary DESC, position ASC")
		}).
		Find(&rows).Error
	if err != nil {
		return Page{}, err
	}

	return Page{Items: mapRows(rows), Total: total}, nil
}

func (r *GormListingRepository) listConditions(ctx context.Context, q ListQuery) *gorm.DB {
	db := r.db.WithContext(ctx).
		Model(&listingRow{}).
		Where("status = ?", domain.StatusPublished)

	db = verticalCondition(db, q.Vertical)
	if q.Type != "" {
		db = db.Where("listing_type = ?", string(q.Type))
	}
	if q.Keyword != "" {
		like := "%" + strings.ToLower(q.Keyword) + "%"
		db = db.Where("(LOWER(title) LIKE ? OR LOWER(description) LIKE ?)", like, like)
	}
	if q.City != "" {
		db = db.Where("LOWER(city) LIKE ?", "%"+strings.ToLower(q.City)+"%")
	}
	if q.Currency != "" {
		db = db.Where("currency = ?", q.Currency)
	}
	if q.MinPrice != nil {
		db = db.Where("price >= ?", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		db = db.Where("price <= ?", *q.MaxPrice)
	}
	return db
}

func (r *GormListingRepository) ListMine(ctx context.Context, authUserID string, q MineQuery) (Page, error) {
	if authUserID == "" {
		return Page{Items: []domain.ListingSummary{}}, nil
	}

	conditions := func() *gorm.DB {
		db := r.db.WithContext(ctx).
			Model(&listingRow{}).
			Where("user_id = ?", authUserID)
		db = verticalCondition(db, q.Vertical)
		if q.Type != "" {
			db = db.Where("listing_type = ?", string(q.Type))
		}
		if q.Status != "" {
			db = db.Where("status = ?", q.Status)
		}
		return db
	}

	var total int64
	if err := conditions().Count(&total).Error; err != nil {
		return Page{}, err
	}

	var rows []listingRow
	err := conditions().
		Order("created_at DESC").
		Limit(q.Limit).
		Offset(q.Offset).
		Preload("Media", func(db *gorm.DB) *gorm.DB {
			return db.Order("is_primary DESC, position ASC")
		}).
		Find(&rows).Error
	if err != nil {
		return Page{}, err
	}

	return Page{Items: mapRows(rows), Total: total}, nil
}

func (r *GormListingRepository) FindByID(ctx context.Context, listingID string) (*domain.ListingSummary, error) {
	var row listingRow
	err := r.db.WithContext(ctx).
		Preload("Media", func(db *gorm.DB) *gorm.DB {
			return db.Order("is_primary DESC, position ASC")
		}).
		Where("id = ?", listingID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row.toSummary(), nil
}

func (r *GormListingRepository) ListMedia(ctx context.Context, listingID string) ([]domain.ListingMedia, error) {
	var rows []mediaRow
	err := r.db.WithContext(ctx).
		Where("listing_id = ?", listingID).
		Order("position ASC, created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	items := make([]domain.ListingMedia, 0, len(rows))
	for _, m := range rows {
		kind := domain.MediaKind(m.Kind)
		if kind != domain.MediaImage && kind != domain.MediaVideo {
			kind = domain.MediaImage
		}
		items = append(items, domain.ListingMedia{
			ID:        m.ID,
			ListingID: m.ListingID,
			URL:       m.URL,
			Kind:      kind,
			Order:     m.Position,
		})
	}
	return items, nil
}

func (r *GormListingRepository) ResolveAuthUserID(_ context.Context, accessToken string) (string, error) {
	return token.ResolveUserID(accessToken), nil
}

func (r *GormListingRepository) DeleteOwnedListing(ctx context.Context, authUserID, listingID string) (bool, error) {
	if authUserID == "" {
		return false, nil
	}

	deleted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", listingID, authUserID).Delete(&listingRow{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		deleted = true
		if err := tx.Where("listing_id = ?", listingID).Delete(&mediaRow{}).Error; err != nil {
			return err
		}
		return tx.Where("listing_id = ?", listingID).Delete(&documentRow{}).Error
	})
	return deleted, err
}

func (r *GormListingRepository) UpsertListing(ctx context.Context, input UpsertInput) (*UpsertResult, error) {
	now := time.Now().UTC()
	result := &UpsertResult{UpdatedAt: now}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		safeListing := pickAllowed(input.Listing, allowedListingAttrs)
		safeDetail := pickAllowed(input.Detail, allowedDetailAttrs[input.Vertical])

		nextStatus := domain.StatusDraft
		if s, ok := safeListing["status"].(string); ok && s != "" {
			nextStatus = s
		}

		var row listingRow
		if input.ListingID != "" {
			err := tx.Where("id = ? AND user_id = ?", input.ListingID, input.AuthUserID).
				First(&row).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotOwner
			}
			if err != nil {
				return err
			}

			applyListingAttrs(&row, safeListing)
			row.Status = nextStatus
			if nextStatus == domain.StatusPublished {
				if row.PublishedAt == nil {
					row.PublishedAt = &now
				}
			} else {
				row.PublishedAt = nil
			}
			row.UpdatedAt = now
		} else {
			result.Created = true
			row = listingRow{
				ID:        uuid.NewString(),
				Vertical:  string(input.Vertical),
				UserID:    input.AuthUserID,
				CreatedAt: now,
				UpdatedAt: now,
			}
			applyListingAttrs(&row, safeListing)
			row.Status = nextStatus
			if nextStatus == domain.StatusPublished {
				row.PublishedAt = &now
			}
		}

		if len(safeDetail) > 0 {
			if row.Details == nil {
				row.Details = map[string]any{}
			}
			for k, v := range safeDetail {
				row.Details[k] = v
			}
		}

		if input.ListingID != "" {
			if err := tx.Omit("Media").Save(&row).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Omit("Media").Create(&row).Error; err != nil {
				return err
			}
		}
		result.ID = row.ID

		if input.ReplaceImages {
			if err := replaceImages(tx, row.ID, input.Images, now); err != nil {
				return err
			}
		}
		if input.Documents != nil {
			publicPaths, err := replaceDocuments(tx, row.ID, input.AuthUserID, input.Documents, now)
			if err != nil {
				return err
			}
			if err := tx.Model(&listingRow{}).Where("id = ?", row.ID).
				Update("document_urls", publicPaths).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SeedListings inserts read-model rows with their fixture ids, replacing any
// rows that already carry them. Used by the seed command and tests.
func (r *GormListingRepository) SeedListings(
	ctx context.Context,
	listings []domain.ListingSummary,
	media map[string][]domain.ListingMedia,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range listings {
			publishedAt := item.PublishedAt
			row := listingRow{
				ID:          item.ID,
				Vertical:    string(item.Vertical),
				ListingType: string(item.Type),
				Title:       item.Title,
				Description: item.Description,
				Price:       item.Price,
				Currency:    item.Currency,
				City:        item.City,
				Region:      item.Region,
				Location:    item.Location,
				Status:      item.Status,
				UserID:      item.OwnerID,
				Metadata:    item.Metadata,
				Tags:        item.Tags,
				PublishedAt: &publishedAt,
				CreatedAt:   publishedAt,
				UpdatedAt:   publishedAt,
			}
			if item.CreatedAt != nil {
				row.CreatedAt = *item.CreatedAt
			}
			if err := tx.Where("id = ?", row.ID).Delete(&listingRow{}).Error; err != nil {
				return err
			}
			if err := tx.Omit("Media").Create(&row).Error; err != nil {
				return err
			}
			if err := tx.Where("listing_id = ?", row.ID).Delete(&mediaRow{}).Error; err != nil {
				return err
			}
			for i, m := range media[item.ID] {
				if err := tx.Create(&mediaRow{
					ID:        m.ID,
					ListingID: m.ListingID,
					URL:       m.URL,
					Kind:      string(m.Kind),
					IsPrimary: i == 0,
					Position:  m.Order,
					CreatedAt: row.CreatedAt,
				}).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func verticalCondition(db *gorm.DB, v domain.Vertical) *gorm.DB {
	switch v {
	case "":
		return db
	case domain.VerticalAutos:
		// legacy rows key autos as "vehicles"
		return db.Where("vertical IN ?", []string{"vehicles", "autos"})
	default:
		return db.Where("vertical = ?", string(v))
	}
}

func mapRows(rows []listingRow) []domain.ListingSummary {
	items := make([]domain.ListingSummary, 0, len(rows))
	for i := range rows {
		if summary := rows[i].toSummary(); summary != nil {
			items = append(items, *summary)
		}
	}
	return items
}

func pickAllowed(input map[string]any, allowed map[string]struct{}) map[string]any {
	out := map[string]any{}
	for key, value := range input {
		if _, ok := allowed[key]; ok {
			out[key] = value
		}
	}
	return out
}

func applyListingAttrs(row *listingRow, attrs map[string]any) {
	for key, value := range attrs {
		switch key {
		case "listing_type":
			if s, ok := value.(string); ok {
				if t, err := domain.ParseListingType(s); err == nil {
					row.ListingType = string(t)
				}
			}
		case "title":
			if s, ok := value.(string); ok {
				row.Title = s
			}
		case "description":
			if s, ok := value.(string); ok {
				row.Description = s
			}
		case "price":
			if f, ok := asFloat(value); ok && f >= 0 {
				row.Price = f
			}
		case "currency":
			if s, ok := value.(string); ok {
				row.Currency = s
			}
		case "city":
			if s, ok := value.(string); ok {
				row.City = s
			}
		case "region":
			if s, ok := value.(string); ok {
				row.Region = s
			}
		case "location":
			if s, ok := value.(string); ok {
				row.Location = s
			}
		case "metadata":
			if m, ok := value.(map[string]any); ok {
				row.Metadata = m
			}
		case "tags":
			if tags, ok := asStringSlice(value); ok {
				row.Tags = tags
			}
		}
	}
}

func asFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

func asStringSlice(value any) ([]string, bool) {
	switch v := value.(type) {
	case []string:
		return v, true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}

func replaceImages(tx *gorm.DB, listingID string, images []ImageInput, now time.Time) error {
	if err := tx.Where("listing_id = ?", listingID).Delete(&mediaRow{}).Error; err != nil {
		return err
	}
	index := 0
	for _, img := range images {
		if img.URL == "" {
			continue
		}
		row := mediaRow{
			ID:        uuid.NewString(),
			ListingID: listingID,
			URL:       img.URL,
			Kind:      string(domain.MediaImage),
			IsPrimary: index == 0 || img.IsPrimary,
			Position:  index,
			CreatedAt: now,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		index++
	}
	return nil
}

func replaceDocuments(
	tx *gorm.DB,
	listingID, authUserID string,
	documents []DocumentInput,
	now time.Time,
) ([]string, error) {
	if err := tx.Where("listing_id = ?", listingID).Delete(&documentRow{}).Error; err != nil {
		return nil, err
	}

	publicPaths := []string{}
	for _, doc := range documents {
		path := storageDocumentPath(doc.Path)
		if path == "" {
			continue
		}
		row := documentRow{
			ID:        uuid.NewString(),
			ListingID: listingID,
			UserID:    authUserID,
			Name:      doc.Name,
			FileType:  doc.Type,
			FileSize:  doc.Size,
			IsPublic:  doc.IsPublic,
			Path:      path,
			CreatedAt: now,
		}
		if err := tx.Create(&row).Error; err != nil {
			return nil, err
		}
		if doc.IsPublic {
			publicPaths = append(publicPaths, path)
		}
	}
	return publicPaths, nil
}

// storageDocumentPath strips a full bucket URL down to the object path
// relative to the documents bucket. Bare paths pass through.
func storageDocumentPath(urlOrPath string) string {
	const marker = "/documents/"
	if idx := strings.Index(urlOrPath, marker); idx != -1 {
		return urlOrPath[idx+len(marker):]
	}
	return urlOrPath
}
