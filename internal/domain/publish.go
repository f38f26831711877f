package domain

import (
	"fmt"
	"time"
)

type PublishReason string

const (
	ReasonNewPublish  PublishReason = "new_publish"
	ReasonManualRetry PublishReason = "manual_retry"
)

func ParsePublishReason(s string) (PublishReason, error) {
	switch PublishReason(s) {
	case ReasonNewPublish, ReasonManualRetry:
		return PublishReason(s), nil
	}
	return "", fmt.Errorf("unknown publish reason %q", s)
}

// PublishJob is the accepted publish intent handed off to the downstream
// worker. It is never persisted here; acceptance is the only guarantee.
type PublishJob struct {
	JobID     string        `json:"jobId"`
	ListingID string        `json:"listingId"`
	Vertical  Vertical      `json:"vertical"`
	Reason    PublishReason `json:"reason"`
	QueuedAt  time.Time     `json:"queuedAt"`
}
