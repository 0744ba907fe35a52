package events

import (
	"context"

	"poll-service/internal/models"
)

// Publisher emits accepted votes to downstream consumers. Publishing is
// best-effort: a failure is logged by the caller and never fails the vote.
type Publisher interface {
	PublishVote(ctx context.Context, msg models.VoteMessage) error
	Close() error
}

// NoopPublisher is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishVote(ctx context.Context, msg models.VoteMessage) error { return nil }

func (NoopPublisher) Close() error { return nil }
