package listings

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"mercado/internal/pkg/response"
	"mercado/internal/pkg/validator"
	"mercado/internal/repository"
)

type Handler struct {
	repo repository.ListingRepository
}

func NewHandler(repo repository.ListingRepository) *Handler {
	return &Handler{repo: repo}
}

// List handles GET /v1/listings
func (h *Handler) List(c *gin.Context) {
	var req ListListingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ValidationError(c, http.StatusBadRequest, "Invalid query", validator.Details(err))
		return
	}
	if details := req.CrossFieldDetails(); details != nil {
		response.ValidationError(c, http.StatusBadRequest, "Invalid query", details)
		return
	}

	page, err := h.repo.List(c.Request.Context(), req.ToQuery())
	if err != nil {
		h.handleRepoError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": page.Items,
		"meta": gin.H{
			"total":  page.Total,
			"limit":  req.Limit,
			"offset": req.Offset,
		},
	})
}

// ListMine handles GET /v1/listings/mine (authenticated)
func (h *Handler) ListMine(c *gin.Context) {
	authUserID := c.GetString("user_id")
	if authUserID == "" {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "Authentication required")
		return
	}

	var req MyListingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ValidationError(c, http.StatusBadRequest, "Invalid query", validator.Details(err))
		return
	}

	page, err := h.repo.ListMine(c.Request.Context(), authUserID, req.ToQuery())
	if err != nil {
		h.handleRepoError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": page.Items,
		"meta": gin.H{
			"total":  page.Total,
			"limit":  req.Limit,
			"offset": req.Offset,
		},
	})
}

// GetByID handles GET /v1/listings/:id
func (h *Handler) GetByID(c *gin.Context) {
	listingID, ok := listingIDParam(c)
	if !ok {
		return
	}

	listing, err := h.repo.FindByID(c.Request.Context(), listingID)
	if err != nil {
		h.handleRepoError(c, err)
		return
	}
	if listing == nil {
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "Listing not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"item": listing})
}

// ListMedia handles GET /v1/listings/:id/media. An unknown listing yields an
// empty set, not a 404.
func (h *Handler) ListMedia(c *gin.Context) {
	listingID, ok := listingIDParam(c)
	if !ok {
		return
	}

	items, err := h.repo.ListMedia(c.Request.Context(), listingID)
	if err != nil {
		h.handleRepoError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Delete handles DELETE /v1/listings/:id (authenticated). A missing listing
// and someone else's listing respond identically.
func (h *Handler) Delete(c *gin.Context) {
	authUserID := c.GetString("user_id")
	if authUserID == "" {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "Authentication required")
		return
	}

	listingID, ok := listingIDParam(c)
	if !ok {
		return
	}

	deleted, err := h.repo.DeleteOwnedListing(c.Request.Context(), authUserID, listingID)
	if err != nil {
		h.handleRepoError(c, err)
		return
	}
	if !deleted {
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "Listing not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// Upsert handles POST /v1/listings/upsert (authenticated)
func (h *Handler) Upsert(c *gin.Context) {
	authUserID := c.GetString("user_id")
	if authUserID == "" {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "Authentication required")
		return
	}

	var req UpsertListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, http.StatusBadRequest, "Invalid request body", validator.Details(err))
		return
	}

	result, err := h.repo.UpsertListing(c.Request.Context(), req.ToInput(authUserID))
	if err != nil {
		h.handleRepoError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":        result.ID,
		"created":   result.Created,
		"updatedAt": result.UpdatedAt.UTC().Format(time.RFC3339),
	})
}

// RegisterRoutes wires the listing endpoints. Routes needing an identity go
// on the protected group.
func (h *Handler) RegisterRoutes(public, protected *gin.RouterGroup) {
	public.GET("/listings", h.List)
	public.GET("/listings/:id", h.GetByID)
	public.GET("/listings/:id/media", h.ListMedia)

	protected.GET("/listings/mine", h.ListMine)
	protected.DELETE("/listings/:id", h.Delete)
	protected.POST("/listings/upsert", h.Upsert)
}

func (h *Handler) handleRepoError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotOwner):
		// same face as a missing listing
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "Listing not found")
	default:
		log.Printf("listings: repository error method=%s path=%s error=%q",
			c.Request.Method, c.Request.URL.Path, err.Error())
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "An internal error occurred")
	}
}

func listingIDParam(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		response.ValidationError(c, http.StatusBadRequest, "Listing id must be a valid UUID",
			map[string]string{"id": "uuid"})
		return "", false
	}
	return id, true
}
