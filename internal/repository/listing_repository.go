package repository

import (
	"context"
	"errors"
	"time"

	"mercado/internal/domain"
)

var (
	// ErrReadOnly is returned by backends that refuse write operations
	// instead of pretending to persist them.
	ErrReadOnly = errors.New("repository is read-only")

	// ErrNotOwner rejects an update-mode upsert when the listing does not
	// exist or belongs to another user. Callers cannot tell the two
	// cases apart.
	ErrNotOwner = errors.New("listing not found or access denied")
)

// ListQuery filters the public catalog. Zero values mean "no filter".
type ListQuery struct {
	Vertical domain.Vertical
	Type     domain.ListingType
	Keyword  string
	City     string
	Currency string
	MinPrice *float64
	MaxPrice *float64
	Limit    int
	Offset   int
}

// MineQuery filters an owner's own listings.
type MineQuery struct {
	Vertical domain.Vertical
	Type     domain.ListingType
	Status   string
	Limit    int
	Offset   int
}

// Page is one window of a listing result set. Total counts the full
// matching set regardless of Limit/Offset.
type Page struct {
	Items []domain.ListingSummary
	Total int64
}

type ImageInput struct {
	URL       string
	IsPrimary bool
	Position  *int
}

type DocumentInput struct {
	Name     string
	Type     string
	Size     *int64
	IsPublic bool
	Path     string
}

// UpsertInput carries a validated create-or-update request. AuthUserID is
// always the identity resolved from the bearer token, never client data.
// Listing and Detail are schema-loose attribute maps; backends filter them
// through per-vertical allow-lists before anything reaches the store.
type UpsertInput struct {
	AuthUserID    string
	Vertical      domain.Vertical
	ListingID     string
	Listing       map[string]any
	Detail        map[string]any
	Images        []ImageInput
	Documents     []DocumentInput
	ReplaceImages bool
}

type UpsertResult struct {
	ID        string
	Created   bool
	UpdatedAt time.Time
}

// ListingRepository is the single seam between route handlers and storage.
// Implementations must be safe for concurrent use.
type ListingRepository interface {
	// List returns a page of published listings in a stable order.
	List(ctx context.Context, q ListQuery) (Page, error)
	// ListMine returns the caller's own listings, optionally filtered by
	// status. It must never include rows owned by anyone else.
	ListMine(ctx context.Context, authUserID string, q MineQuery) (Page, error)
	// FindByID returns nil, nil when the listing does not exist.
	FindByID(ctx context.Context, listingID string) (*domain.ListingSummary, error)
	// ListMedia returns an empty slice for listings with no media or that
	// do not exist; existence checks are the caller's business.
	ListMedia(ctx context.Context, listingID string) ([]domain.ListingMedia, error)
	// ResolveAuthUserID maps an opaque bearer token to a user id, or ""
	// when the token is not recognized.
	ResolveAuthUserID(ctx context.Context, accessToken string) (string, error)
	// DeleteOwnedListing reports false both when the listing is missing
	// and when it is owned by someone else.
	DeleteOwnedListing(ctx context.Context, authUserID, listingID string) (bool, error)
	// UpsertListing creates when input.ListingID is empty, updates in
	// place otherwise. Image/document replacement is atomic.
	UpsertListing(ctx context.Context, input UpsertInput) (*UpsertResult, error)
}
