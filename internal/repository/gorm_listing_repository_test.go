package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mercado/internal/database"
	"mercado/internal/domain"
)

func newTestRepo(t *testing.T) *GormListingRepository {
	t.Helper()
	db, err := database.Connect(filepath.Join(t.TempDir(), "listings.db"))
	require.NoError(t, err)
	repo := NewGormListingRepository(db)
	require.NoError(t, repo.AutoMigrate())
	return repo
}

func newSeededRepo(t *testing.T) *GormListingRepository {
	t.Helper()
	repo := newTestRepo(t)
	require.NoError(t, repo.SeedListings(context.Background(), FixtureListings(), FixtureMedia()))
	return repo
}

func TestGormList_PublishedOnly(t *testing.T) {
	repo := newSeededRepo(t)

	page, err := repo.List(context.Background(), ListQuery{Limit: 20})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.EqualValues(t, 1, page.Total)
	assert.Equal(t, FixtureAutoListingID, page.Items[0].ID)
	assert.Equal(t, "https://cdn.simpleautos.app/listings/peugeot-208-cover.jpg", page.Items[0].ImageURL)
}

func TestGormList_OrdersByPublishedAtDesc(t *testing.T) {
	repo := newTestRepo(t)

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	dataset := []domain.ListingSummary{}
	for i := 0; i < 4; i++ {
		dataset = append(dataset, domain.ListingSummary{
			ID:          uuid.NewString(),
			Vertical:    domain.VerticalFood,
			Type:        domain.TypeSale,
			Title:       "Almuerzo casero",
			Price:       4500,
			Currency:    "CLP",
			City:        "Valparaiso",
			Status:      domain.StatusPublished,
			PublishedAt: base.Add(time.Duration(i) * time.Hour),
		})
	}
	require.NoError(t, repo.SeedListings(context.Background(), dataset, nil))

	page, err := repo.List(context.Background(), ListQuery{Vertical: domain.VerticalFood, Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Items, 4)
	for i := 1; i < len(page.Items); i++ {
		assert.False(t, page.Items[i].PublishedAt.After(page.Items[i-1].PublishedAt))
	}
}

func TestGormList_LegacyVehiclesAlias(t *testing.T) {
	repo := newTestRepo(t)

	legacy := domain.ListingSummary{
		ID:          uuid.NewString(),
		Vertical:    domain.Vertical("vehicles"),
		Type:        domain.TypeSale,
		Title:       "Chevrolet Sail 2018",
		Price:       4200000,
		Currency:    "CLP",
		City:        "Concepcion",
		Status:      domain.StatusPublished,
		PublishedAt: fixturePublishedAt,
	}
	require.NoError(t, repo.SeedListings(context.Background(), []domain.ListingSummary{legacy}, nil))

	page, err := repo.List(context.Background(), ListQuery{Vertical: domain.VerticalAutos, Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, domain.VerticalAutos, page.Items[0].Vertical)
}

func TestGormList_Filters(t *testing.T) {
	repo := newSeededRepo(t)

	min := 6000000.0
	page, err := repo.List(context.Background(), ListQuery{MinPrice: &min, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	page, err = repo.List(context.Background(), ListQuery{Keyword: "peugeot", Limit: 10})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)

	page, err = repo.List(context.Background(), ListQuery{City: "santi", Limit: 10})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
}

func TestGormFindByID_ResolvesDrafts(t *testing.T) {
	repo := newSeededRepo(t)

	item, err := repo.FindByID(context.Background(), FixturePropertyListingID)
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, domain.StatusDraft, item.Status)

	missing, err := repo.FindByID(context.Background(), uuid.NewString())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestGormListMedia(t *testing.T) {
	repo := newSeededRepo(t)

	items, err := repo.ListMedia(context.Background(), FixtureAutoListingID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, domain.MediaImage, items[0].Kind)

	items, err = repo.ListMedia(context.Background(), uuid.NewString())
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestGormResolveAuthUserID(t *testing.T) {
	repo := newTestRepo(t)

	userID, err := repo.ResolveAuthUserID(context.Background(), FixtureAutoOwnerID)
	require.NoError(t, err)
	assert.Equal(t, FixtureAutoOwnerID, userID)

	userID, err = repo.ResolveAuthUserID(context.Background(), "not-a-token")
	require.NoError(t, err)
	assert.Empty(t, userID)
}

func TestGormDeleteOwnedListing_Conflation(t *testing.T) {
	repo := newSeededRepo(t)
	ctx := context.Background()

	deleted, err := repo.DeleteOwnedListing(ctx, FixtureAutoOwnerID, uuid.NewString())
	require.NoError(t, err)
	assert.False(t, deleted)

	// someone else's listing looks exactly like a missing one
	deleted, err = repo.DeleteOwnedListing(ctx, FixtureAutoOwnerID, FixturePropertyListingID)
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = repo.DeleteOwnedListing(ctx, FixtureAutoOwnerID, FixtureAutoListingID)
	require.NoError(t, err)
	assert.True(t, deleted)

	item, err := repo.FindByID(ctx, FixtureAutoListingID)
	require.NoError(t, err)
	assert.Nil(t, item)

	media, err := repo.ListMedia(ctx, FixtureAutoListingID)
	require.NoError(t, err)
	assert.Empty(t, media)

	deleted, err = repo.DeleteOwnedListing(ctx, FixtureAutoOwnerID, FixtureAutoListingID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestGormUpsert_CreateFiltersAttributes(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	owner := uuid.NewString()

	result, err := repo.UpsertListing(ctx, UpsertInput{
		AuthUserID: owner,
		Vertical:   domain.VerticalAutos,
		Listing: map[string]any{
			"title":        "Mazda 3 2020",
			"listing_type": "sale",
			"price":        9500000,
			"currency":     "CLP",
			"city":         "Santiago",
			"status":       "published",
			"user_id":      uuid.NewString(), // must be ignored
			"id":           uuid.NewString(), // must be ignored
		},
		Detail: map[string]any{
			"brand":       "Mazda",
			"model":       "3",
			"bedrooms":    3, // property key on an auto, dropped
			"drop_tables": "x",
		},
		Images: []ImageInput{
			{URL: "https://cdn.example.com/mazda-1.jpg"},
			{URL: ""},
			{URL: "https://cdn.example.com/mazda-2.jpg"},
		},
		ReplaceImages: true,
	})
	require.NoError(t, err)
	assert.True(t, result.Created)
	require.NoError(t, uuid.Validate(result.ID))

	item, err := repo.FindByID(ctx, result.ID)
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, "Mazda 3 2020", item.Title)
	assert.Equal(t, domain.TypeSale, item.Type)
	assert.Equal(t, domain.StatusPublished, item.Status)
	assert.Equal(t, owner, item.OwnerID)
	assert.Equal(t, "https://cdn.example.com/mazda-1.jpg", item.ImageURL)

	media, err := repo.ListMedia(ctx, result.ID)
	require.NoError(t, err)
	require.Len(t, media, 2)
	assert.Equal(t, 0, media[0].Order)
	assert.Equal(t, 1, media[1].Order)

	var row listingRow
	require.NoError(t, repo.db.Where("id = ?", result.ID).First(&row).Error)
	assert.Equal(t, "Mazda", row.Details["brand"])
	assert.NotContains(t, row.Details, "bedrooms")
	assert.NotContains(t, row.Details, "drop_tables")
}

func TestGormUpsert_UpdateRequiresOwnership(t *testing.T) {
	repo := newSeededRepo(t)
	ctx := context.Background()

	_, err := repo.UpsertListing(ctx, UpsertInput{
		AuthUserID: FixturePropertyOwnerID,
		Vertical:   domain.VerticalAutos,
		ListingID:  FixtureAutoListingID,
		Listing:    map[string]any{"title": "Taken over"},
	})
	assert.ErrorIs(t, err, ErrNotOwner)

	_, err = repo.UpsertListing(ctx, UpsertInput{
		AuthUserID: FixtureAutoOwnerID,
		Vertical:   domain.VerticalAutos,
		ListingID:  uuid.NewString(),
		Listing:    map[string]any{"title": "Ghost"},
	})
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestGormUpsert_PublishedAtLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	owner := uuid.NewString()

	created, err := repo.UpsertListing(ctx, UpsertInput{
		AuthUserID: owner,
		Vertical:   domain.VerticalProperties,
		Listing: map[string]any{
			"title":        "Casa en Nunoa",
			"listing_type": "sale",
			"price":        185000000,
			"status":       "published",
		},
	})
	require.NoError(t, err)

	first, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	firstPublished := first.PublishedAt

	// republish keeps the original timestamp
	_, err = repo.UpsertListing(ctx, UpsertInput{
		AuthUserID: owner,
		Vertical:   domain.VerticalProperties,
		ListingID:  created.ID,
		Listing:    map[string]any{"status": "published", "price": 180000000},
	})
	require.NoError(t, err)

	second, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.WithinDuration(t, firstPublished, second.PublishedAt, time.Second)
	assert.Equal(t, 180000000.0, second.Price)

	// unpublishing clears it and hides the row from the catalog
	_, err = repo.UpsertListing(ctx, UpsertInput{
		AuthUserID: owner,
		Vertical:   domain.VerticalProperties,
		ListingID:  created.ID,
		Listing:    map[string]any{"status": "draft"},
	})
	require.NoError(t, err)

	third, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDraft, third.Status)

	page, err := repo.List(ctx, ListQuery{Vertical: domain.VerticalProperties, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestGormUpsert_VerticalIsImmutable(t *testing.T) {
	repo := newSeededRepo(t)
	ctx := context.Background()

	_, err := repo.UpsertListing(ctx, UpsertInput{
		AuthUserID: FixtureAutoOwnerID,
		Vertical:   domain.VerticalAutos,
		ListingID:  FixtureAutoListingID,
		Listing:    map[string]any{"vertical": "properties", "title": "Still a car"},
	})
	require.NoError(t, err)

	item, err := repo.FindByID(ctx, FixtureAutoListingID)
	require.NoError(t, err)
	assert.Equal(t, domain.VerticalAutos, item.Vertical)
	assert.Equal(t, "Still a car", item.Title)
}

func TestGormUpsert_ReplaceImagesFlag(t *testing.T) {
	repo := newSeededRepo(t)
	ctx := context.Background()

	// replaceImages false leaves media untouched
	_, err := repo.UpsertListing(ctx, UpsertInput{
		AuthUserID: FixtureAutoOwnerID,
		Vertical:   domain.VerticalAutos,
		ListingID:  FixtureAutoListingID,
		Listing:    map[string]any{"title": "Peugeot 208 rebajado"},
	})
	require.NoError(t, err)

	media, err := repo.ListMedia(ctx, FixtureAutoListingID)
	require.NoError(t, err)
	require.Len(t, media, 1)

	_, err = repo.UpsertListing(ctx, UpsertInput{
		AuthUserID:    FixtureAutoOwnerID,
		Vertical:      domain.VerticalAutos,
		ListingID:     FixtureAutoListingID,
		ReplaceImages: true,
		Images: []ImageInput{
			{URL: "https://cdn.example.com/new-1.jpg"},
			{URL: "https://cdn.example.com/new-2.jpg"},
		},
	})
	require.NoError(t, err)

	media, err = repo.ListMedia(ctx, FixtureAutoListingID)
	require.NoError(t, err)
	require.Len(t, media, 2)
	assert.Equal(t, "https://cdn.example.com/new-1.jpg", media[0].URL)
}

func TestGormUpsert_DocumentPublicPaths(t *testing.T) {
	repo := newSeededRepo(t)
	ctx := context.Background()
	size := int64(20480)

	_, err := repo.UpsertListing(ctx, UpsertInput{
		AuthUserID: FixtureAutoOwnerID,
		Vertical:   domain.VerticalAutos,
		ListingID:  FixtureAutoListingID,
		Documents: []DocumentInput{
			{
				Name:     "informe.pdf",
				Type:     "application/pdf",
				Size:     &size,
				IsPublic: true,
				Path:     "https://store.example.com/storage/v1/object/public/documents/owners/informe.pdf",
			},
			{
				Name:     "contrato.pdf",
				Type:     "application/pdf",
				IsPublic: false,
				Path:     "owners/contrato.pdf",
			},
		},
	})
	require.NoError(t, err)

	var row listingRow
	require.NoError(t, repo.db.Where("id = ?", FixtureAutoListingID).First(&row).Error)
	assert.Equal(t, []string{"owners/informe.pdf"}, row.DocumentURLs)

	var docs []documentRow
	require.NoError(t, repo.db.Where("listing_id = ?", FixtureAutoListingID).Order("name").Find(&docs).Error)
	require.Len(t, docs, 2)
	assert.Equal(t, "owners/contrato.pdf", docs[0].Path)
	assert.Equal(t, "owners/informe.pdf", docs[1].Path)
}

func TestStorageDocumentPath(t *testing.T) {
	assert.Equal(t, "a/b.pdf", storageDocumentPath("https://x.example.com/bucket/documents/a/b.pdf"))
	assert.Equal(t, "a/b.pdf", storageDocumentPath("a/b.pdf"))
}

func TestBackends_AgreeOnReads(t *testing.T) {
	gormRepo := newSeededRepo(t)
	memRepo := NewFixtureRepository()
	ctx := context.Background()

	queries := []ListQuery{
		{Limit: 20},
		{Vertical: domain.VerticalAutos, Type: domain.TypeSale, Limit: 3},
		{Vertical: domain.VerticalProperties, Limit: 20},
		{Keyword: "peugeot", Limit: 20},
		{Limit: 20, Offset: 5},
	}
	for _, q := range queries {
		memPage, err := memRepo.List(ctx, q)
		require.NoError(t, err)
		gormPage, err := gormRepo.List(ctx, q)
		require.NoError(t, err)

		assert.Equal(t, memPage.Total, gormPage.Total, "query %+v", q)
		require.Len(t, gormPage.Items, len(memPage.Items), "query %+v", q)
		for i := range memPage.Items {
			assert.Equal(t, memPage.Items[i].ID, gormPage.Items[i].ID)
			assert.Equal(t, memPage.Items[i].Title, gormPage.Items[i].Title)
			assert.Equal(t, memPage.Items[i].Price, gormPage.Items[i].Price)
		}
	}

	for _, id := range []string{FixtureAutoListingID, FixturePropertyListingID, uuid.NewString()} {
		memItem, err := memRepo.FindByID(ctx, id)
		require.NoError(t, err)
		gormItem, err := gormRepo.FindByID(ctx, id)
		require.NoError(t, err)
		if memItem == nil {
			assert.Nil(t, gormItem)
			continue
		}
		require.NotNil(t, gormItem)
		assert.Equal(t, memItem.ID, gormItem.ID)
		assert.Equal(t, memItem.Status, gormItem.Status)

		memMedia, err := memRepo.ListMedia(ctx, id)
		require.NoError(t, err)
		gormMedia, err := gormRepo.ListMedia(ctx, id)
		require.NoError(t, err)
		require.Len(t, gormMedia, len(memMedia))
		for i := range memMedia {
			assert.Equal(t, memMedia[i].URL, gormMedia[i].URL)
		}
	}
}
