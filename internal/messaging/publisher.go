package messaging

import (
	"context"
	"encoding/json"
	"log"

	"github.com/nats-io/nats.go"

	"mercado/internal/domain"
)

// DefaultSubject carries accepted publish jobs to the downstream worker.
const DefaultSubject = "listings.publish.accepted"

// JobPublisher hands an accepted publish job to whatever executes it.
// Publishing is fire-and-forget; durable delivery is not this service's
// contract.
type JobPublisher interface {
	PublishAccepted(ctx context.Context, job domain.PublishJob) error
	Close()
}

// LogPublisher is the default handoff when no broker is configured: the
// acceptance log line is the only record.
type LogPublisher struct{}

func (LogPublisher) PublishAccepted(_ context.Context, job domain.PublishJob) error {
	log.Printf("messaging: publish job handoff (log only) job_id=%s listing_id=%s", job.JobID, job.ListingID)
	return nil
}

func (LogPublisher) Close() {}

type NATSPublisher struct {
	conn    *nats.Conn
	subject string
}

func NewNATSPublisher(url, subject string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, err
	}
	if subject == "" {
		subject = DefaultSubject
	}
	return &NATSPublisher{conn: conn, subject: subject}, nil
}

func (p *NATSPublisher) PublishAccepted(_ context.Context, job domain.PublishJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return p.conn.Publish(p.subject, data)
}

func (p *NATSPublisher) Close() {
	p.conn.Close()
}
