package services

import (
	"context"

	"poll-service/internal/models"
)

// PollStore is the durable store contract for polls and their options.
// Implemented by repositories/postgres.PollRepository.
type PollStore interface {
	CreatePoll(ctx context.Context, poll *models.Poll) error
	GetPoll(ctx context.Context, pollID uint) (*models.Poll, error)
	ListActivePolls(ctx context.Context) ([]models.Poll, error)
	SetPollActive(ctx context.Context, pollID uint, active bool) error
}

// VoteStore is the durable store contract for vote records. InsertVoteAtomic
// must enforce the one-vote-per-(user, poll) constraint inside the storage
// engine itself; callers never pre-check for an existing vote.
type VoteStore interface {
	InsertVoteAtomic(ctx context.Context, vote *models.Vote) error
	CountVotesByOption(ctx context.Context, pollID uint) (map[uint]int64, error)
}
