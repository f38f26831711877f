package repository

import (
	"context"
	"strings"

	"mercado/internal/domain"
)

// MemoryListingRepository serves a constructor-injected dataset in insertion
// order. It backs contract tests and local development; writes fail fast
// with ErrReadOnly instead of silently dropping data.
type MemoryListingRepository struct {
	listings []domain.ListingSummary
	media    map[string][]domain.ListingMedia
}

func NewMemoryListingRepository(
	listings []domain.ListingSummary,
	media map[string][]domain.ListingMedia,
) *MemoryListingRepository {
	if media == nil {
		media = map[string][]domain.ListingMedia{}
	}
	return &MemoryListingRepository{listings: listings, media: media}
}

// NewFixtureRepository builds a memory repository pre-seeded with the
// deterministic fixture dataset.
func NewFixtureRepository() *MemoryListingRepository {
	return NewMemoryListingRepository(FixtureListings(), FixtureMedia())
}

func (r *MemoryListingRepository) List(_ context.Context, q ListQuery) (Page, error) {
	var matched []domain.ListingSummary
	for _, item := range r.listings {
		if item.Status != domain.StatusPublished {
			continue
		}
		if !matchesListQuery(item, q) {
			continue
		}
		matched = append(matched, item)
	}
	return paginate(matched, q.Limit, q.Offset), nil
}

func (r *MemoryListingRepository) ListMine(_ context.Context, authUserID string, q MineQuery) (Page, error) {
	var matched []domain.ListingSummary
	for _, item := range r.listings {
		if item.OwnerID == "" || item.OwnerID != authUserID {
			continue
		}
		if q.Vertical != "" && item.Vertical != q.Vertical {
			continue
		}
		if q.Type != "" && item.Type != q.Type {
			continue
		}
		if q.Status != "" && item.Status != q.Status {
			continue
		}
		matched = append(matched, item)
	}
	return paginate(matched, q.Limit, q.Offset), nil
}

func (r *MemoryListingRepository) FindByID(_ context.Context, listingID string) (*domain.ListingSummary, error) {
	for _, item := range r.listings {
		if item.ID == listingID {
			found := item
			return &found, nil
		}
	}
	return nil, nil
}

func (r *MemoryListingRepository) ListMedia(_ context.Context, listingID string) ([]domain.ListingMedia, error) {
	items := make([]domain.ListingMedia, 0, len(r.media[listingID]))
	items = append(items, r.media[listingID]...)
	return items, nil
}

// ResolveAuthUserID always misses: the fixture backend carries no sessions,
// matching an identity service that knows none of the presented tokens.
func (r *MemoryListingRepository) ResolveAuthUserID(context.Context, string) (string, error) {
	return "", nil
}

func (r *MemoryListingRepository) DeleteOwnedListing(context.Context, string, string) (bool, error) {
	return false, ErrReadOnly
}

func (r *MemoryListingRepository) UpsertListing(context.Context, UpsertInput) (*UpsertResult, error) {
	return nil, ErrReadOnly
}

func matchesListQuery(item domain.ListingSummary, q ListQuery) bool {
	if q.Vertical != "" && item.Vertical != q.Vertical {
		return false
	}
	if q.Type != "" && item.Type != q.Type {
		return false
	}
	if q.Currency != "" && item.Currency != q.Currency {
		return false
	}
	if q.MinPrice != nil && item.Price < *q.MinPrice {
		return false
	}
	if q.MaxPrice != nil && item.Price > *q.MaxPrice {
		return false
	}
	if q.Keyword != "" {
		kw := strings.ToLower(q.Keyword)
		if !strings.Contains(strings.ToLower(item.Title), kw) &&
			!strings.Contains(strings.ToLower(item.Description), kw) {
			return false
		}
	}
	if q.City != "" && !strings.Contains(strings.ToLower(item.City), strings.ToLower(q.City)) {
		return false
	}
	return true
}

func paginate(matched []domain.ListingSummary, limit, offset int) Page {
	total := int64(len(matched))
	if offset >= len(matched) {
		return Page{Items: []domain.ListingSummary{}, Total: total}
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	items := make([]domain.ListingSummary, end-offset)
	copy(items, matched[offset:end])
	return Page{Items: items, Total: total}
}
