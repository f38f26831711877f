package publish

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"mercado/internal/domain"
	"mercado/internal/messaging"
	"mercado/internal/pkg/response"
	"mercado/internal/pkg/validator"
	"mercado/internal/repository"
)

// QueueRequest is a publish intent for an existing listing.
type QueueRequest struct {
	ListingID string `json:"listingId" binding:"required,uuid"`
	Vertical  string `json:"vertical" binding:"required,oneof=autos properties stores food"`
	Reason    string `json:"reason" binding:"omitempty,oneof=new_publish manual_retry"`
}

type Handler struct {
	repo      repository.ListingRepository
	publisher messaging.JobPublisher
}

func NewHandler(repo repository.ListingRepository, publisher messaging.JobPublisher) *Handler {
	return &Handler{repo: repo, publisher: publisher}
}

// Queue handles POST /v1/publish/queue. It validates the intent against the
// current listing state and records acceptance; executing the publish is the
// downstream worker's job, and no completion guarantee is made here.
func (h *Handler) Queue(c *gin.Context) {
	var req QueueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, http.StatusBadRequest, "Invalid request body", validator.Details(err))
		return
	}

	listing, err := h.repo.FindByID(c.Request.Context(), req.ListingID)
	if err != nil {
		log.Printf("publish: repository error listing_id=%s error=%q", req.ListingID, err.Error())
		response.Error(c, http.StatusInternalServerError, response.CodeInternal, "An internal error occurred")
		return
	}
	if listing == nil {
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "Listing not found for queue enqueue")
		return
	}
	if listing.Vertical != domain.Vertical(req.Vertical) {
		response.Error(c, http.StatusConflict, response.CodeVerticalMismatch,
			"Listing vertical does not match payload vertical")
		return
	}

	reason := domain.ReasonNewPublish
	if req.Reason != "" {
		reason = domain.PublishReason(req.Reason)
	}

	job := domain.PublishJob{
		JobID:     uuid.NewString(),
		ListingID: req.ListingID,
		Vertical:  listing.Vertical,
		Reason:    reason,
		QueuedAt:  time.Now().UTC(),
	}

	log.Printf("publish: job accepted listing_id=%s vertical=%s reason=%s job_id=%s",
		job.ListingID, job.Vertical, job.Reason, job.JobID)

	// Handoff is best-effort: acceptance was already decided above.
	if err := h.publisher.PublishAccepted(c.Request.Context(), job); err != nil {
		log.Printf("publish: handoff failed job_id=%s error=%q", job.JobID, err.Error())
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status":   "accepted",
		"jobId":    job.JobID,
		"queuedAt": job.QueuedAt.Format(time.RFC3339),
	})
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/publish/queue", h.Queue)
}
