package listings

import (
	"mercado/internal/domain"
	"mercado/internal/repository"
)

// ListListingsRequest is the public catalog query. Out-of-range values are
// rejected outright, never clamped.
type ListListingsRequest struct {
	Vertical string   `form:"vertical" binding:"omitempty,oneof=autos properties stores food"`
	Type     string   `form:"type" binding:"omitempty,oneof=sale rent auction"`
	Keyword  string   `form:"keyword" binding:"omitempty,min=1,max=120"`
	City     string   `form:"city" binding:"omitempty,min=1,max=120"`
	Currency string   `form:"currency" binding:"omitempty,min=1,max=12"`
	MinPrice *float64 `form:"minPrice" binding:"omitempty,gte=0"`
	MaxPrice *float64 `form:"maxPrice" binding:"omitempty,gte=0"`
	Limit    int      `form:"limit,default=20" binding:"min=1,max=100"`
	Offset   int      `form:"offset,default=0" binding:"min=0"`
}

// CrossFieldDetails reports constraint violations that span fields.
func (r *ListListingsRequest) CrossFieldDetails() map[string]string {
	if r.MinPrice != nil && r.MaxPrice != nil && *r.MinPrice > *r.MaxPrice {
		return map[string]string{"minPrice": "must not exceed maxPrice"}
	}
	return nil
}

func (r *ListListingsRequest) ToQuery() repository.ListQuery {
	return repository.ListQuery{
		Vertical: domain.Vertical(r.Vertical),
		Type:     domain.ListingType(r.Type),
		Keyword:  r.Keyword,
		City:     r.City,
		Currency: r.Currency,
		MinPrice: r.MinPrice,
		MaxPrice: r.MaxPrice,
		Limit:    r.Limit,
		Offset:   r.Offset,
	}
}

type MyListingsRequest struct {
	Vertical string `form:"vertical" binding:"omitempty,oneof=autos properties stores food"`
	Type     string `form:"type" binding:"omitempty,oneof=sale rent auction"`
	Status   string `form:"status" binding:"omitempty,min=1,max=80"`
	Limit    int    `form:"limit,default=50" binding:"min=1,max=200"`
	Offset   int    `form:"offset,default=0" binding:"min=0"`
}

func (r *MyListingsRequest) ToQuery() repository.MineQuery {
	return repository.MineQuery{
		Vertical: domain.Vertical(r.Vertical),
		Type:     domain.ListingType(r.Type),
		Status:   r.Status,
		Limit:    r.Limit,
		Offset:   r.Offset,
	}
}

type UpsertImage struct {
	URL       string `json:"url" binding:"required,url"`
	IsPrimary bool   `json:"is_primary"`
	Position  *int   `json:"position" binding:"omitempty,min=0"`
}

type UpsertDocument struct {
	Name     string `json:"name" binding:"required"`
	Type     string `json:"type"`
	Size     *int64 `json:"size" binding:"omitempty,min=0"`
	IsPublic bool   `json:"is_public"`
	Path     string `json:"path" binding:"required"`
}

// UpsertListingRequest creates a listing when ListingID is empty and
// updates it otherwise. Listing/Detail stay schema-loose so verticals can
// carry their own attributes; backends allow-list the keys.
type UpsertListingRequest struct {
	Vertical      string           `json:"vertical" binding:"required,oneof=autos properties stores food"`
	ListingID     string           `json:"listingId" binding:"omitempty,uuid"`
	Listing       map[string]any   `json:"listing" binding:"required"`
	Detail        map[string]any   `json:"detail"`
	Images        []UpsertImage    `json:"images" binding:"dive"`
	Documents     []UpsertDocument `json:"documents" binding:"omitempty,dive"`
	ReplaceImages *bool            `json:"replaceImages"`
}

// ToInput injects the authenticated user; the payload itself is never
// trusted for identity.
func (r *UpsertListingRequest) ToInput(authUserID string) repository.UpsertInput {
	images := make([]repository.ImageInput, 0, len(r.Images))
	for _, img := range r.Images {
		images = append(images, repository.ImageInput{
			URL:       img.URL,
			IsPrimary: img.IsPrimary,
			Position:  img.Position,
		})
	}

	var documents []repository.DocumentInput
	if r.Documents != nil {
		documents = make([]repository.DocumentInput, 0, len(r.Documents))
		for _, doc := range r.Documents {
			documents = append(documents, repository.DocumentInput{
				Name:     doc.Name,
				Type:     doc.Type,
				Size:     doc.Size,
				IsPublic: doc.IsPublic,
				Path:     doc.Path,
			})
		}
	}

	replaceImages := true
	if r.ReplaceImages != nil {
		replaceImages = *r.ReplaceImages
	}

	return repository.UpsertInput{
		AuthUserID:    authUserID,
		Vertical:      domain.Vertical(r.Vertical),
		ListingID:     r.ListingID,
		Listing:       r.Listing,
		Detail:        r.Detail,
		Images:        images,
		Documents:     documents,
		ReplaceImages: replaceImages,
	}
}
