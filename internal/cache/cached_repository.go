package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"mercado/internal/domain"
	"mercado/internal/repository"
)

const defaultTTL = time.Hour

// CachedListingRepository adds a read-through cache over the single-listing
// lookups. List queries stay uncached; their result sets churn with every
// write and the pagination window makes keys explode. Cache failures
// degrade to the inner repository rather than failing the request.
type CachedListingRepository struct {
	repository.ListingRepository

	store Store
	ttl   time.Duration
}

func NewCachedListingRepository(inner repository.ListingRepository, store Store) *CachedListingRepository {
	return &CachedListingRepository{
		ListingRepository: inner,
		store:             store,
		ttl:               defaultTTL,
	}
}

func (c *CachedListingRepository) FindByID(ctx context.Context, listingID string) (*domain.ListingSummary, error) {
	key := listingKey(listingID)
	if data, err := c.store.Get(ctx, key); err != nil {
		log.Printf("cache: get failed key=%s error=%q", key, err.Error())
	} else if data != nil {
		var listing domain.ListingSummary
		if err := json.Unmarshal(data, &listing); err == nil {
			return &listing, nil
		}
	}

	listing, err := c.ListingRepository.FindByID(ctx, listingID)
	if err != nil || listing == nil {
		return listing, err
	}

	if data, err := json.Marshal(listing); err == nil {
		if err := c.store.Set(ctx, key, data, c.ttl); err != nil {
			log.Printf("cache: set failed key=%s error=%q", key, err.Error())
		}
	}
	return listing, nil
}

func (c *CachedListingRepository) ListMedia(ctx context.Context, listingID string) ([]domain.ListingMedia, error) {
	key := mediaKey(listingID)
	if data, err := c.store.Get(ctx, key); err != nil {
		log.Printf("cache: get failed key=%s error=%q", key, err.Error())
	} else if data != nil {
		var items []domain.ListingMedia
		if err := json.Unmarshal(data, &items); err == nil {
			return items, nil
		}
	}

	items, err := c.ListingRepository.ListMedia(ctx, listingID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(items); err == nil {
		if err := c.store.Set(ctx, key, data, c.ttl); err != nil {
			log.Printf("cache: set failed key=%s error=%q", key, err.Error())
		}
	}
	return items, nil
}

func (c *CachedListingRepository) DeleteOwnedListing(ctx context.Context, authUserID, listingID string) (bool, error) {
	deleted, err := c.ListingRepository.DeleteOwnedListing(ctx, authUserID, listingID)
	if err == nil && deleted {
		c.invalidate(ctx, listingID)
	}
	return deleted, err
}

func (c *CachedListingRepository) UpsertListing(ctx context.Context, input repository.UpsertInput) (*repository.UpsertResult, error) {
	result, err := c.ListingRepository.UpsertListing(ctx, input)
	if err == nil {
		c.invalidate(ctx, result.ID)
	}
	return result, err
}

func (c *CachedListingRepository) invalidate(ctx context.Context, listingID string) {
	if err := c.store.Del(ctx, listingKey(listingID), mediaKey(listingID)); err != nil {
		log.Printf("cache: invalidate failed listing_id=%s error=%q", listingID, err.Error())
	}
}

func listingKey(listingID string) string { return "listing:" + listingID }
func mediaKey(listingID string) string   { return "listing:media:" + listingID }
